package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-social/backend/internal/services"
)

// NotificationHandler handles notification-related HTTP requests. Its group
// requires authentication.
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes on the
// /notifications group
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.GET("/grouped", h.GetGroupedNotifications)
	g.GET("/unread-count", h.GetUnreadCount)
	g.POST("/:id/read", h.MarkAsRead)
	g.POST("/read-all", h.MarkAllAsRead)
}

// GetNotifications returns paginated notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	page, err := h.notifications.ListForUser(c.Request().Context(), currentUserID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": page.Notifications,
			"unreadCount":   page.UnreadCount,
		},
		"meta": paginationMeta(page.Page, page.Limit, page.Total),
	})
}

// GetGroupedNotifications returns notifications grouped by time period
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	grouped, err := h.notifications.Grouped(ctx, currentUserID)
	if err != nil {
		return httpError(err)
	}
	unreadCount, err := h.notifications.UnreadCount(ctx, currentUserID)
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, echo.Map{
		"notifications": grouped,
		"unreadCount":   unreadCount,
	})
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notifications.UnreadCount(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the caller's notifications read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := parseID(c, "id", "notification ID")
	if err != nil {
		return err
	}

	if err := h.notifications.MarkRead(c.Request().Context(), id, getUserIDFromContext(c)); err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	updated, err := h.notifications.MarkAllRead(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"updated": updated})
}
