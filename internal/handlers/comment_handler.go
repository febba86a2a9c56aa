package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	engagement *services.EngagementService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(engagement *services.EngagementService) *CommentHandler {
	return &CommentHandler{engagement: engagement}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment or reply to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, count, err := h.engagement.AddComment(c.Request().Context(), postID, userID, req.Content, req.ParentID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, echo.Map{
		"comment":        comment,
		"comments_count": count,
	})
}

// GetCommentsByPostID lists a post's comments, oldest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return err
	}

	comments, err := h.engagement.ListComments(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"comments": comments})
}

// DeleteComment removes the caller's comment and its replies
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	commentID, err := parseID(c, "id", "comment ID")
	if err != nil {
		return err
	}

	count, err := h.engagement.DeleteComment(c.Request().Context(), commentID, userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"comments_count": count})
}
