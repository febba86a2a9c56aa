package repositories

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/anonto42/campus-social/backend/internal/models"
)

// RetweetRepository defines the interface for retweet data operations
type RetweetRepository interface {
	CreateRetweet(ctx context.Context, retweet *models.Retweet) error
	DeleteRetweet(ctx context.Context, postID, userID uint) (bool, error)
	HasUserRetweetedPost(ctx context.Context, postID, userID uint) (bool, error)
	GetRetweetsCountByPostID(ctx context.Context, postID uint) (int64, error)
	GetRetweetedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)
	DeleteByPostID(ctx context.Context, postID uint) error
}

// PostgresRetweetRepository implements RetweetRepository for PostgreSQL
type PostgresRetweetRepository struct {
	db *gorm.DB
}

// NewPostgresRetweetRepository creates a new PostgresRetweetRepository
func NewPostgresRetweetRepository(db *gorm.DB) *PostgresRetweetRepository {
	return &PostgresRetweetRepository{db: db}
}

// CreateRetweet creates a new retweet in PostgreSQL
func (r *PostgresRetweetRepository) CreateRetweet(ctx context.Context, retweet *models.Retweet) error {
	if err := r.db.WithContext(ctx).Create(retweet).Error; err != nil {
		return pkgerrors.Wrap(err, "retweetRepo.CreateRetweet.Create")
	}
	return nil
}

// DeleteRetweet deletes a retweet and reports whether one existed
func (r *PostgresRetweetRepository) DeleteRetweet(ctx context.Context, postID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Retweet{})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "retweetRepo.DeleteRetweet.Delete")
	}
	return res.RowsAffected > 0, nil
}

// HasUserRetweetedPost checks if a user has retweeted a specific post
func (r *PostgresRetweetRepository) HasUserRetweetedPost(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Retweet{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(err, "retweetRepo.HasUserRetweetedPost.Count")
	}
	return count > 0, nil
}

// GetRetweetsCountByPostID counts the retweet edges of a post
func (r *PostgresRetweetRepository) GetRetweetsCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Retweet{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, pkgerrors.Wrap(err, "retweetRepo.GetRetweetsCountByPostID.Count")
	}
	return count, nil
}

// GetRetweetedPostIDs returns which of postIDs the user has retweeted
func (r *PostgresRetweetRepository) GetRetweetedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Retweet{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "retweetRepo.GetRetweetedPostIDs.Pluck")
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// DeleteByPostID removes every retweet of a post
func (r *PostgresRetweetRepository) DeleteByPostID(ctx context.Context, postID uint) error {
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Retweet{}).Error; err != nil {
		return pkgerrors.Wrap(err, "retweetRepo.DeleteByPostID.Delete")
	}
	return nil
}
