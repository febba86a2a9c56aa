package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/services"
)

// PollHandler handles votes on post polls
type PollHandler struct {
	engagement *services.EngagementService
}

// NewPollHandler creates a new PollHandler
func NewPollHandler(engagement *services.EngagementService) *PollHandler {
	return &PollHandler{engagement: engagement}
}

// RegisterPollRoutes registers poll-related routes
func (h *PollHandler) RegisterPollRoutes(g *echo.Group) {
	g.POST("/posts/:id/poll/vote", h.Vote)
	g.POST("/posts/:id/poll/cancel-vote", h.CancelVote)
}

// Vote casts the caller's single vote and returns the poll as they now see it
func (h *PollHandler) Vote(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return err
	}

	var req models.VoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	poll, err := h.engagement.Vote(c.Request().Context(), postID, userID, *req.OptionIndex)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, services.NewViewPoll(*poll, userID))
}

// CancelVote withdraws the caller's vote
func (h *PollHandler) CancelVote(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return err
	}

	poll, err := h.engagement.CancelVote(c.Request().Context(), postID, userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, services.NewViewPoll(*poll, userID))
}
