package repositories

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/anonto42/campus-social/backend/internal/models"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, postID, userID uint) (bool, error)
	HasUserLikedPost(ctx context.Context, postID, userID uint) (bool, error)
	GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error)
	GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)
	DeleteByPostID(ctx context.Context, postID uint) error
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike creates a new like in PostgreSQL
func (r *PostgresLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return pkgerrors.Wrap(err, "likeRepo.CreateLike.Create")
	}
	return nil
}

// DeleteLike deletes a like and reports whether one existed
func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, postID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "likeRepo.DeleteLike.Delete")
	}
	return res.RowsAffected > 0, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(err, "likeRepo.HasUserLikedPost.Count")
	}
	return count > 0, nil
}

// GetLikesCountByPostID counts the like edges of a post
func (r *PostgresLikeRepository) GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, pkgerrors.Wrap(err, "likeRepo.GetLikesCountByPostID.Count")
	}
	return count, nil
}

// GetLikedPostIDs returns which of postIDs the user has liked
func (r *PostgresLikeRepository) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "likeRepo.GetLikedPostIDs.Pluck")
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// DeleteByPostID removes every like of a post
func (r *PostgresLikeRepository) DeleteByPostID(ctx context.Context, postID uint) error {
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
		return pkgerrors.Wrap(err, "likeRepo.DeleteByPostID.Delete")
	}
	return nil
}
