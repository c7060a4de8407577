// internal/interfaces/http/handlers/feed.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/feed"
)

// UpdateFeedsRequest replaces the feed source table
type UpdateFeedsRequest struct {
	Sources []feed.Source `json:"sources" binding:"required,dive"`
}

// FeedHandler serves RSS feed items and their admin configuration
type FeedHandler struct {
	feeds *feed.Service
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feeds *feed.Service) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

// GetFeed handles GET /feeds/:name
func (h *FeedHandler) GetFeed(c *gin.Context) {
	items, err := h.feeds.Items(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Feed retrieved successfully", gin.H{
		"name":  c.Param("name"),
		"items": items,
	})
}

// GetSources handles GET /admin/feeds
func (h *FeedHandler) GetSources(c *gin.Context) {
	sources, err := h.feeds.Sources(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Feed sources retrieved successfully", sources)
}

// UpdateSources handles PUT /admin/feeds
func (h *FeedHandler) UpdateSources(c *gin.Context) {
	var req UpdateFeedsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sources, err := h.feeds.SetSources(c.Request.Context(), req.Sources)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Feed sources updated successfully", sources)
}
