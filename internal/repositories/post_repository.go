package repositories

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anonto42/campus-social/backend/internal/models"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	LockPost(ctx context.Context, id uint) (*models.Post, error)
	GetFeed(ctx context.Context, skip, limit int) ([]models.Post, int64, error)
	GetPostsByUserID(ctx context.Context, userID uint, skip, limit int) ([]models.Post, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	UpdatePoll(ctx context.Context, id uint, poll models.Poll) error
	SetLikesCount(ctx context.Context, id uint, count int64) error
	SetCommentsCount(ctx context.Context, id uint, count int64) error
	SetRetweetsCount(ctx context.Context, id uint, count int64) error
	DeletePost(ctx context.Context, id uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func orderedMedia(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreatePost creates a post together with its media descriptors
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return pkgerrors.Wrap(err, "postRepo.CreatePost.Create")
	}
	return nil
}

// GetPostByID retrieves a post by ID with its media
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Media", orderedMedia).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrPostNotFound
		}
		return nil, pkgerrors.Wrap(err, "postRepo.GetPostByID.First")
	}
	return &post, nil
}

// LockPost selects the post row FOR UPDATE. Every counter, edge or poll write on
// a post happens after this call in the same transaction.
func (r *PostgresPostRepository) LockPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrPostNotFound
		}
		return nil, pkgerrors.Wrap(err, "postRepo.LockPost.First")
	}
	return &post, nil
}

// GetFeed retrieves posts newest first with pagination and the total count
func (r *PostgresPostRepository) GetFeed(ctx context.Context, skip, limit int) ([]models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "postRepo.GetFeed.Count")
	}

	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Media", orderedMedia).
		Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "postRepo.GetFeed.Find")
	}
	return posts, total, nil
}

// GetPostsByUserID retrieves posts by a specific user, newest first
func (r *PostgresPostRepository) GetPostsByUserID(ctx context.Context, userID uint, skip, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Media", orderedMedia).
		Where("author_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "postRepo.GetPostsByUserID.Find")
	}
	return posts, nil
}

// UpdateContent edits the text of a post
func (r *PostgresPostRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "postRepo.UpdateContent.Update")
	}
	if res.RowsAffected == 0 {
		return appErrors.ErrPostNotFound
	}
	return nil
}

// UpdatePoll replaces the embedded poll document
func (r *PostgresPostRepository) UpdatePoll(ctx context.Context, id uint, poll models.Poll) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("poll", datatypes.NewJSONType(poll)).Error
	if err != nil {
		return pkgerrors.Wrap(err, "postRepo.UpdatePoll.Update")
	}
	return nil
}

// SetLikesCount stores a recomputed likes counter
func (r *PostgresPostRepository) SetLikesCount(ctx context.Context, id uint, count int64) error {
	return r.setCounter(ctx, id, "likes_count", count)
}

// SetCommentsCount stores a recomputed comments counter
func (r *PostgresPostRepository) SetCommentsCount(ctx context.Context, id uint, count int64) error {
	return r.setCounter(ctx, id, "comments_count", count)
}

// SetRetweetsCount stores a recomputed retweets counter
func (r *PostgresPostRepository) SetRetweetsCount(ctx context.Context, id uint, count int64) error {
	return r.setCounter(ctx, id, "retweets_count", count)
}

func (r *PostgresPostRepository) setCounter(ctx context.Context, id uint, column string, count int64) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).UpdateColumn(column, count).Error
	if err != nil {
		return pkgerrors.Wrapf(err, "postRepo.setCounter.%s", column)
	}
	return nil
}

// DeletePost deletes a post and its media descriptors
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("post_id = ?", id).Delete(&models.PostMedia{}).Error; err != nil {
		return pkgerrors.Wrap(err, "postRepo.DeletePost.DeleteMedia")
	}
	res := db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "postRepo.DeletePost.Delete")
	}
	if res.RowsAffected == 0 {
		return appErrors.ErrPostNotFound
	}
	return nil
}
