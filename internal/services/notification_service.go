package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

// Notifier records a notification inside the caller's transaction, so the
// notification commits or rolls back together with the edge that caused it.
type Notifier interface {
	Notify(ctx context.Context, tx *repositories.Store, n *models.Notification) error
}

// NotificationView is a notification with its actor summary
type NotificationView struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

// NotificationPage is one page of a user's notifications, newest first
type NotificationPage struct {
	Notifications []NotificationView `json:"notifications"`
	Total         int64              `json:"total"`
	UnreadCount   int64              `json:"unread_count"`
	Page          int                `json:"page"`
	Limit         int                `json:"limit"`
}

// GroupedNotifications buckets notifications by age
type GroupedNotifications struct {
	Today     []NotificationView `json:"today"`
	Yesterday []NotificationView `json:"yesterday"`
	ThisWeek  []NotificationView `json:"this_week"`
	Older     []NotificationView `json:"older"`
}

var defaultNotificationText = map[models.NotificationType]string{
	models.NotificationLike:    "liked your post",
	models.NotificationRetweet: "retweeted your post",
	models.NotificationComment: "commented on your post",
	models.NotificationFollow:  "started following you",
}

// NotificationService is both the Notifier used by the engagement and social
// services and the read side of a user's inbox.
type NotificationService struct {
	store *repositories.Store
	now   Clock
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(store *repositories.Store, now Clock) *NotificationService {
	if now == nil {
		now = SystemClock
	}
	return &NotificationService{store: store, now: now}
}

// Notify stores n unless the actor is also the recipient. n.Message, when set,
// replaces the default phrase for n.Type; the actor's name is prepended.
func (s *NotificationService) Notify(ctx context.Context, tx *repositories.Store, n *models.Notification) error {
	if n.ActorID == n.RecipientID {
		return nil
	}

	actor, err := tx.Users.GetUserByID(ctx, n.ActorID)
	if err != nil {
		return err
	}

	text := n.Message
	if text == "" {
		text = defaultNotificationText[n.Type]
	}
	name := actor.DisplayName
	if name == "" {
		name = actor.Handle
	}
	n.Message = name + " " + text
	n.IsRead = false

	if err := tx.Notifications.CreateNotification(ctx, n); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"type":         n.Type,
		"actor_id":     n.ActorID,
		"recipient_id": n.RecipientID,
	}).Debug("notification recorded")
	return nil
}

// ListForUser returns a page of userID's notifications; limit is capped at 50.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, page, limit int) (*NotificationPage, error) {
	page, limit = normalizePage(page, limit, defaultPageSize, maxPageSize)

	notifications, total, err := s.store.Notifications.GetByRecipientID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.store.Notifications.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	views, err := s.withActors(ctx, notifications)
	if err != nil {
		return nil, err
	}

	return &NotificationPage{
		Notifications: views,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
	}, nil
}

// Grouped returns userID's notifications bucketed into today, yesterday, this
// week and older.
func (s *NotificationService) Grouped(ctx context.Context, userID uint) (*GroupedNotifications, error) {
	grouped, err := s.store.Notifications.GetGrouped(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	var out GroupedNotifications
	buckets := []struct {
		in  []models.Notification
		out *[]NotificationView
	}{
		{grouped.Today, &out.Today},
		{grouped.Yesterday, &out.Yesterday},
		{grouped.ThisWeek, &out.ThisWeek},
		{grouped.Older, &out.Older},
	}
	for _, b := range buckets {
		views, err := s.withActors(ctx, b.in)
		if err != nil {
			return nil, err
		}
		*b.out = views
	}
	return &out, nil
}

// MarkRead marks one notification read. Only its recipient may do so, and
// marking an already read notification succeeds.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uint) error {
	notification, err := s.store.Notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.RecipientID != userID {
		return appErrors.ErrNotRecipient
	}
	if notification.IsRead {
		return nil
	}
	return s.store.Notifications.MarkAsRead(ctx, notificationID)
}

// MarkAllRead marks every unread notification of userID and returns how many
// changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.store.Notifications.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.store.Notifications.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) withActors(ctx context.Context, notifications []models.Notification) ([]NotificationView, error) {
	views := make([]NotificationView, len(notifications))
	if len(notifications) == 0 {
		return views, nil
	}

	actorIDs := make([]uint, len(notifications))
	for i, n := range notifications {
		actorIDs[i] = n.ActorID
	}
	actors, err := s.store.Users.GetUsersByIDs(ctx, actorIDs)
	if err != nil {
		return nil, err
	}

	for i, n := range notifications {
		views[i] = NotificationView{Notification: n}
		if actor, ok := actors[n.ActorID]; ok {
			views[i].Actor = actor.ToCompact()
		}
	}
	return views, nil
}
