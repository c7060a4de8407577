// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	carts    *cart.Service
	sessions *Sessions
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Service, sessions *Sessions) *CartHandler {
	return &CartHandler{
		carts:    carts,
		sessions: sessions,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := h.sessions.CartID(c)

	response, err := h.carts.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Cart retrieved successfully", response)
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	sessionID := h.sessions.CartID(c)

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.carts.AddToCart(c.Request.Context(), sessionID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Item added to cart successfully", response)
}

// UpdateCartItem handles PUT /cart/items. A quantity of zero removes the line.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	sessionID := h.sessions.CartID(c)

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.carts.UpdateCartItem(c.Request.Context(), sessionID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Cart item updated successfully", response)
}

// RemoveFromCart handles DELETE /cart/items/:title
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	sessionID := h.sessions.CartID(c)

	response, err := h.carts.RemoveFromCart(c.Request.Context(), sessionID, c.Param("title"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Item removed from cart successfully", response)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := h.sessions.CartID(c)

	if err := h.carts.ClearCart(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Cart cleared successfully", nil)
}
