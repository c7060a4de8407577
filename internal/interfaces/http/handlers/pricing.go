// internal/interfaces/http/handlers/pricing.go
package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/pricing"
)

// QuoteRequest prices an arbitrary entry list. Entries may be objects with
// price and qty, [price, qty] pairs or [id, qty, price] triples.
type QuoteRequest struct {
	Entries      []any    `json:"entries"`
	Codes        []string `json:"codes"`
	DiscountCode string   `json:"discount_code"`
}

// PricingHandler exposes the pricing engine
type PricingHandler struct {
	engine *pricing.Engine
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(engine *pricing.Engine) *PricingHandler {
	return &PricingHandler{engine: engine}
}

// Quote handles POST /pricing/quote
func (h *PricingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	decoder := json.NewDecoder(c.Request.Body)
	// keep numbers exact so 10.99 is not routed through float64
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		respondBindError(c, err)
		return
	}

	codes := pricing.SplitCodes(append(req.Codes, req.DiscountCode)...)
	totals, err := h.engine.Compute(req.Entries, codes)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Quote calculated successfully", totals)
}
