package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-social/backend/internal/services"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/posts/feed", h.GetFeed)
}

// GetFeed returns the newest posts, annotated for the caller when authenticated
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, err := h.feed.Feed(c.Request().Context(), getUserIDFromContext(c), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": page.Posts,
		},
		"meta": paginationMeta(page.Page, page.Limit, page.Total),
	})
}
