// internal/interfaces/http/handlers/account.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
)

// AccountHandler serves the signed-in user's profile and order history
type AccountHandler struct {
	users  *user.Service
	orders *order.Recorder
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(users *user.Service, orders *order.Recorder) *AccountHandler {
	return &AccountHandler{
		users:  users,
		orders: orders,
	}
}

// GetProfile handles GET /account
func (h *AccountHandler) GetProfile(c *gin.Context) {
	email, _ := middleware.GetUserEmailFromContext(c)

	profile, err := h.users.GetProfile(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Profile retrieved successfully", profile)
}

// UpdateProfile handles PUT /account
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	email, _ := middleware.GetUserEmailFromContext(c)

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.users.UpdateProfile(c.Request.Context(), email, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Profile updated successfully", profile)
}

// GetOrders handles GET /account/orders
func (h *AccountHandler) GetOrders(c *gin.Context) {
	email, _ := middleware.GetUserEmailFromContext(c)

	orders, err := h.orders.GetOrdersForUser(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Orders retrieved successfully", gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}
