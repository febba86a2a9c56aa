package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-social/backend/internal/services"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	social *services.SocialService
	feed   *services.FeedService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(social *services.SocialService, feed *services.FeedService) *UserHandler {
	return &UserHandler{social: social, feed: feed}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// GetProfile returns the caller's own profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	profile, err := h.social.Profile(c.Request().Context(), userID, userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, profile)
}

// GetUser returns another user's profile
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id", "user ID")
	if err != nil {
		return err
	}

	profile, err := h.social.Profile(c.Request().Context(), id, getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, profile)
}

// GetUserPosts returns the posts authored by a user, newest first
func (h *UserHandler) GetUserPosts(c echo.Context) error {
	id, err := parseID(c, "id", "user ID")
	if err != nil {
		return err
	}

	posts, err := h.feed.UserPosts(c.Request().Context(), id, getUserIDFromContext(c), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"posts": posts})
}
