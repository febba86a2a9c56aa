package repositories

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/anonto42/campus-social/backend/internal/models"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	GetByRecipientID(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetGrouped(ctx context.Context, recipientID uint, now time.Time) (GroupedNotifications, error)
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAsRead(ctx context.Context, notificationID uint) error
	MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error)
}

// GroupedNotifications splits a user's notifications by age
type GroupedNotifications struct {
	Today     []models.Notification
	Yesterday []models.Notification
	ThisWeek  []models.Notification
	Older     []models.Notification
}

const olderNotificationsLimit = 50

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return pkgerrors.Wrap(err, "notificationRepo.CreateNotification.Create")
	}
	return nil
}

func (r *postgresNotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrNotificationNotFound
		}
		return nil, pkgerrors.Wrap(err, "notificationRepo.GetByID.First")
	}
	return &n, nil
}

func (r *postgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	db := r.db.WithContext(ctx)
	var notifications []models.Notification
	var total int64

	if err := db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "notificationRepo.GetByRecipientID.Count")
	}

	offset := (page - 1) * limit
	err := db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "notificationRepo.GetByRecipientID.Find")
	}

	return notifications, total, nil
}

func (r *postgresNotificationRepository) GetGrouped(ctx context.Context, recipientID uint, now time.Time) (GroupedNotifications, error) {
	db := r.db.WithContext(ctx)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	var g GroupedNotifications

	// Today
	if err := db.Where("recipient_id = ? AND created_at >= ?", recipientID, todayStart).
		Order("created_at DESC").Find(&g.Today).Error; err != nil {
		return g, pkgerrors.Wrap(err, "notificationRepo.GetGrouped.Today")
	}

	// Yesterday
	if err := db.Where("recipient_id = ? AND created_at >= ? AND created_at < ?", recipientID, yesterdayStart, todayStart).
		Order("created_at DESC").Find(&g.Yesterday).Error; err != nil {
		return g, pkgerrors.Wrap(err, "notificationRepo.GetGrouped.Yesterday")
	}

	// This week (excluding today and yesterday)
	if err := db.Where("recipient_id = ? AND created_at >= ? AND created_at < ?", recipientID, weekStart, yesterdayStart).
		Order("created_at DESC").Find(&g.ThisWeek).Error; err != nil {
		return g, pkgerrors.Wrap(err, "notificationRepo.GetGrouped.ThisWeek")
	}

	// Older
	if err := db.Where("recipient_id = ? AND created_at < ?", recipientID, weekStart).
		Order("created_at DESC").Limit(olderNotificationsLimit).Find(&g.Older).Error; err != nil {
		return g, pkgerrors.Wrap(err, "notificationRepo.GetGrouped.Older")
	}

	return g, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(err, "notificationRepo.GetUnreadCount.Count")
	}
	return count, nil
}

func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID uint) error {
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("is_read", true).Error
	if err != nil {
		return pkgerrors.Wrap(err, "notificationRepo.MarkAsRead.Update")
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(res.Error, "notificationRepo.MarkAllAsRead.Update")
	}
	return res.RowsAffected, nil
}
