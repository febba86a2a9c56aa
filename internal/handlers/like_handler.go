package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-social/backend/internal/services"
)

// LikeHandler handles like and retweet toggles
type LikeHandler struct {
	engagement *services.EngagementService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(engagement *services.EngagementService) *LikeHandler {
	return &LikeHandler{engagement: engagement}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/retweet", h.ToggleRetweet)
}

// ToggleLike flips the caller's like and returns the resulting state
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return err
	}

	res, err := h.engagement.ToggleLike(c.Request().Context(), postID, userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, res)
}

// ToggleRetweet flips the caller's retweet and returns the resulting state
func (h *LikeHandler) ToggleRetweet(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return err
	}

	res, err := h.engagement.ToggleRetweet(c.Request().Context(), postID, userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, res)
}
