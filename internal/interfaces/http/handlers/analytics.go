// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/analytics"
)

// StatsQuery selects the reporting window
type StatsQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

// AnalyticsHandler serves the admin sales dashboard
type AnalyticsHandler struct {
	analytics *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc}
}

// GetSalesSummary handles GET /admin/stats?days=30
func (h *AnalyticsHandler) GetSalesSummary(c *gin.Context) {
	var query StatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	summary, err := h.analytics.GetSalesSummary(c.Request.Context(), query.Days)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Sales summary retrieved successfully", summary)
}
