package repositories

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anonto42/campus-social/backend/internal/models"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
	LockUsers(ctx context.Context, ids ...uint) ([]models.User, error)
	SetFollowCounts(ctx context.Context, userID uint, followers, following int64) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return pkgerrors.Wrap(err, "userRepo.CreateUser.Create")
	}
	return nil
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "userRepo.GetUserByID.First")
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "userRepo.GetUserByFirebaseUID.First")
	}
	return &user, nil
}

// GetUsersByIDs loads the given users keyed by id; unknown ids are skipped
func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "userRepo.GetUsersByIDs.Find")
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// LockUsers selects the rows FOR UPDATE in ascending id order, so two
// transactions locking the same pair cannot deadlock.
func (r *PostgresUserRepository) LockUsers(ctx context.Context, ids ...uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "userRepo.LockUsers.Find")
	}
	return users, nil
}

// SetFollowCounts stores the recomputed follow counters of a user
func (r *PostgresUserRepository) SetFollowCounts(ctx context.Context, userID uint, followers, following int64) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"followers_count": followers,
			"following_count": following,
		}).Error
	if err != nil {
		return pkgerrors.Wrap(err, "userRepo.SetFollowCounts.Update")
	}
	return nil
}
