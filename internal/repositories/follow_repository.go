package repositories

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/anonto42/campus-social/backend/internal/models"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowersCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingIDs(ctx context.Context, userID uint, among []uint) (map[uint]bool, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		return pkgerrors.Wrap(err, "followRepo.CreateFollow.Create")
	}
	return nil
}

func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "followRepo.DeleteFollow.Delete")
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(err, "followRepo.IsFollowing.Count")
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	db := r.db.WithContext(ctx)
	var users []models.User
	err := db.Where("id IN (?)",
		db.Model(&models.Follow{}).Select("follower_id").Where("following_id = ?", userID),
	).Order("id ASC").Find(&users).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "followRepo.GetFollowers.Find")
	}
	return users, nil
}

func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	db := r.db.WithContext(ctx)
	var users []models.User
	err := db.Where("id IN (?)",
		db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID),
	).Order("id ASC").Find(&users).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "followRepo.GetFollowing.Find")
	}
	return users, nil
}

func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error; err != nil {
		return 0, pkgerrors.Wrap(err, "followRepo.GetFollowersCount.Count")
	}
	return count, nil
}

func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error; err != nil {
		return 0, pkgerrors.Wrap(err, "followRepo.GetFollowingCount.Count")
	}
	return count, nil
}

// GetFollowingIDs returns which of the among ids userID follows
func (r *PostgresFollowRepository) GetFollowingIDs(ctx context.Context, userID uint, among []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(among) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id IN ?", userID, among).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "followRepo.GetFollowingIDs.Pluck")
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
