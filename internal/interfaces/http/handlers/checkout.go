// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/checkout"
	"github.com/your-org/bookstore-backend/internal/domain/pricing"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkout *checkout.Service
	sessions *Sessions
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(svc *checkout.Service, sessions *Sessions) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: svc,
		sessions: sessions,
	}
}

// Quote handles GET /checkout/quote?codes=SAVE10,WELCOME20
func (h *CheckoutHandler) Quote(c *gin.Context) {
	sessionID := h.sessions.CartID(c)
	codes := pricing.SplitCodes(c.QueryArray("codes")...)

	quote, err := h.checkout.Quote(c.Request.Context(), sessionID, codes)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Checkout quote calculated successfully", quote)
}

// Checkout handles POST /checkout. Guests may check out; a signed-in user owns the order.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sessionID := h.sessions.CartID(c)
	email, _ := middleware.GetUserEmailFromContext(c)

	placed, err := h.checkout.Checkout(c.Request.Context(), sessionID, email, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    placed,
	})
}
