package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/campus-social/backend/internal/handlers"
	"github.com/anonto42/campus-social/backend/internal/middleware"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	"github.com/anonto42/campus-social/backend/internal/services"
)

var log = logrus.WithField("layer", "router")

// SetupRoutes configures all application routes and injects dependencies.
// now is the clock used for notification grouping and message timestamps;
// nil means the system clock.
func SetupRoutes(e *echo.Echo, store *repositories.Store, auth *middleware.Authenticator, now services.Clock) {
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "campus-social api"})
	})

	// --- Services ---
	notifications := services.NewNotificationService(store, now)
	engagement := services.NewEngagementService(store, notifications)
	posts := services.NewPostService(store)
	feed := services.NewFeedService(store)
	social := services.NewSocialService(store, notifications)
	conversations := services.NewConversationService(store)
	messaging := services.NewMessagingService(store, conversations, now)

	// Reads are public and personalised when a token is present; handlers
	// that mutate state demand a user themselves.
	api := e.Group("/api/v1", auth.OptionalAuth)

	handlers.NewPostHandler(posts, feed).RegisterPostRoutes(api)
	handlers.NewFeedHandler(feed).RegisterFeedRoutes(api)
	handlers.NewLikeHandler(engagement).RegisterLikeRoutes(api)
	handlers.NewPollHandler(engagement).RegisterPollRoutes(api)
	handlers.NewCommentHandler(engagement).RegisterCommentRoutes(api)
	handlers.NewFollowHandler(social).RegisterFollowRoutes(api)
	handlers.NewUserHandler(social, feed).RegisterProfileRoutes(api)
	log.Debug("post, engagement and social routes configured")

	handlers.NewNotificationHandler(notifications).
		RegisterNotificationRoutes(api.Group("/notifications", auth.RequireAuth))
	log.Debug("notification routes configured")

	conversationHandler := handlers.NewConversationHandler(conversations, messaging)
	conversationHandler.RegisterConversationRoutes(api.Group("/conversations", auth.RequireAuth))
	conversationHandler.RegisterMessageRoutes(api)
	log.Debug("conversation routes configured")

	log.Info("all routes configured")
}
