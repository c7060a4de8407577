// internal/interfaces/http/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

// OrderHandler handles order lookups
type OrderHandler struct {
	orders   *order.Recorder
	sessions *Sessions
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Recorder, sessions *Sessions) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		sessions: sessions,
	}
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.visibleOrder(c)
	if !ok {
		return
	}
	respondOK(c, "Order retrieved successfully", o)
}

// visibleOrder loads the order named by the path and hides it from anyone who may not see it.
func (h *OrderHandler) visibleOrder(c *gin.Context) (*order.Order, bool) {
	o, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	email, _ := middleware.GetUserEmailFromContext(c)
	staff := middleware.HasRole(c, user.RoleAdmin, user.RoleReviewer)
	if !o.VisibleTo(email, staff, h.sessions.ExistingCartID(c)) {
		respondError(c, apperr.ErrNotFound)
		return nil, false
	}
	return o, true
}
