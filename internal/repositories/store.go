package repositories

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/anonto42/campus-social/backend/internal/models"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

var log = logrus.WithField("layer", "repositories")

// Store bundles every repository bound to the same *gorm.DB. Inside InTx the
// bundle is rebuilt on top of the transaction so all writes commit together.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Posts         PostRepository
	Likes         LikeRepository
	Retweets      RetweetRepository
	Comments      CommentRepository
	Follows       FollowRepository
	Notifications NotificationRepository
	Conversations ConversationRepository
	Messages      MessageRepository
}

// NewStore creates a Store on top of db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewPostgresUserRepository(db),
		Posts:         NewPostgresPostRepository(db),
		Likes:         NewPostgresLikeRepository(db),
		Retweets:      NewPostgresRetweetRepository(db),
		Comments:      NewPostgresCommentRepository(db),
		Follows:       NewPostgresFollowRepository(db),
		Notifications: NewPostgresNotificationRepository(db),
		Conversations: NewPostgresConversationRepository(db),
		Messages:      NewPostgresMessageRepository(db),
	}
}

// InTx runs f inside a single transaction. A serialization failure or deadlock
// is retried once; a second one is returned as a transient error.
func (s *Store) InTx(ctx context.Context, f func(tx *Store) error) error {
	err := s.runTx(ctx, f)
	if err == nil || !IsRetryable(err) {
		return err
	}

	log.WithError(err).Warn("transaction conflict, retrying once")
	if err = s.runTx(ctx, f); err != nil && IsRetryable(err) {
		return appErrors.ErrStoreBusy(err)
	}
	return err
}

func (s *Store) runTx(ctx context.Context, f func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(NewStore(tx))
	})
}

// Now is the store clock. Timestamps are UTC with microsecond precision, the
// resolution of Postgres timestamptz.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// AutoMigrate creates or updates the schema of every persisted model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostMedia{},
		&models.Like{},
		&models.Retweet{},
		&models.Comment{},
		&models.Follow{},
		&models.Notification{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
	)
}
