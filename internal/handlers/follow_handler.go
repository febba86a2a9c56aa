package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-social/backend/internal/services"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	social *services.SocialService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(social *services.SocialService) *FollowHandler {
	return &FollowHandler{social: social}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.POST("/users/:id/unfollow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// FollowUser follows a user; following twice succeeds without a second notification
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseID(c, "id", "user ID")
	if err != nil {
		return err
	}

	res, err := h.social.Follow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, res)
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseID(c, "id", "user ID")
	if err != nil {
		return err
	}

	res, err := h.social.Unfollow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, res)
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := parseID(c, "id", "user ID")
	if err != nil {
		return err
	}

	users, err := h.social.Followers(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"users": users})
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := parseID(c, "id", "user ID")
	if err != nil {
		return err
	}

	users, err := h.social.Following(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"users": users})
}
