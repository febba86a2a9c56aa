package repositories

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/anonto42/campus-social/backend/internal/models"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error)
	GetCommentsCountByPostID(ctx context.Context, postID uint) (int64, error)
	DeleteCommentThread(ctx context.Context, id uint) ([]uint, error)
	DeleteByPostID(ctx context.Context, postID uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return pkgerrors.Wrap(err, "commentRepo.CreateComment.Create")
	}
	return nil
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrCommentNotFound
		}
		return nil, pkgerrors.Wrap(err, "commentRepo.GetCommentByID.First")
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves all comments for a specific post, oldest first
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "commentRepo.GetCommentsByPostID.Find")
	}
	return comments, nil
}

// GetCommentsCountByPostID counts the comment rows of a post
func (r *PostgresCommentRepository) GetCommentsCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, pkgerrors.Wrap(err, "commentRepo.GetCommentsCountByPostID.Count")
	}
	return count, nil
}

// DeleteCommentThread deletes a comment with all of its replies and returns the
// deleted ids
func (r *PostgresCommentRepository) DeleteCommentThread(ctx context.Context, id uint) ([]uint, error) {
	db := r.db.WithContext(ctx)

	ids := []uint{id}
	level := []uint{id}
	for len(level) > 0 {
		var children []uint
		if err := db.Model(&models.Comment{}).Where("parent_id IN ?", level).Pluck("id", &children).Error; err != nil {
			return nil, pkgerrors.Wrap(err, "commentRepo.DeleteCommentThread.Pluck")
		}
		ids = append(ids, children...)
		level = children
	}

	if err := db.Where("id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "commentRepo.DeleteCommentThread.Delete")
	}
	return ids, nil
}

// DeleteByPostID removes every comment of a post
func (r *PostgresCommentRepository) DeleteByPostID(ctx context.Context, postID uint) error {
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return pkgerrors.Wrap(err, "commentRepo.DeleteByPostID.Delete")
	}
	return nil
}
