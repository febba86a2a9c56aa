package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/services"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
	feed  *services.FeedService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService, feed *services.FeedService) *PostHandler {
	return &PostHandler{posts: posts, feed: feed}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost handles creating a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.posts.CreatePost(ctx, userID, &req)
	if err != nil {
		return httpError(err)
	}

	view, err := h.feed.GetPost(ctx, post.ID, userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, view)
}

// GetPost returns one post as the caller sees it; anonymous callers allowed
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return err
	}

	view, err := h.feed.GetPost(c.Request().Context(), postID, getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, view)
}

// UpdatePost handles editing the text of the caller's post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.posts.UpdatePost(ctx, postID, userID, req.Content); err != nil {
		return httpError(err)
	}

	view, err := h.feed.GetPost(ctx, postID, userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, view)
}

// DeletePost handles deleting the caller's post
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return err
	}

	if err := h.posts.DeletePost(c.Request().Context(), postID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
