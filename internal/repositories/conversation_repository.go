package repositories

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anonto42/campus-social/backend/internal/models"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

// ConversationRepository defines the interface for conversation operations
type ConversationRepository interface {
	GetByKey(ctx context.Context, participantKey string) (*models.Conversation, error)
	GetByID(ctx context.Context, id uint) (*models.Conversation, error)
	LockByID(ctx context.Context, id uint) (*models.Conversation, error)
	CreateIfAbsent(ctx context.Context, participantIDs []uint) (*models.Conversation, bool, error)
	GetByParticipant(ctx context.Context, userID uint) ([]models.Conversation, error)
	Touch(ctx context.Context, id uint, at time.Time) error
}

type postgresConversationRepository struct {
	db *gorm.DB
}

func NewPostgresConversationRepository(db *gorm.DB) ConversationRepository {
	return &postgresConversationRepository{db: db}
}

func (r *postgresConversationRepository) GetByKey(ctx context.Context, participantKey string) (*models.Conversation, error) {
	var c models.Conversation
	err := r.db.WithContext(ctx).Preload("Participants").
		Where("participant_key = ?", participantKey).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrConversationNotFound
		}
		return nil, pkgerrors.Wrap(err, "conversationRepo.GetByKey.First")
	}
	return &c, nil
}

func (r *postgresConversationRepository) GetByID(ctx context.Context, id uint) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.db.WithContext(ctx).Preload("Participants").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrConversationNotFound
		}
		return nil, pkgerrors.Wrap(err, "conversationRepo.GetByID.First")
	}
	return &c, nil
}

// LockByID selects the conversation row FOR UPDATE; appends to one conversation
// are serialized on it.
func (r *postgresConversationRepository) LockByID(ctx context.Context, id uint) (*models.Conversation, error) {
	db := r.db.WithContext(ctx)

	var c models.Conversation
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrConversationNotFound
		}
		return nil, pkgerrors.Wrap(err, "conversationRepo.LockByID.First")
	}
	if err := db.Where("conversation_id = ?", c.ID).Find(&c.Participants).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "conversationRepo.LockByID.Participants")
	}
	return &c, nil
}

// CreateIfAbsent inserts a conversation for the participant set unless one with
// the same key exists. INSERT ... ON CONFLICT DO NOTHING keeps the transaction
// usable when a concurrent request wins; in that case the winner's row is
// returned with created=false.
func (r *postgresConversationRepository) CreateIfAbsent(ctx context.Context, participantIDs []uint) (*models.Conversation, bool, error) {
	db := r.db.WithContext(ctx)
	ids := models.UniqueParticipants(participantIDs)

	c := &models.Conversation{ParticipantKey: models.ParticipantKey(ids)}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "participant_key"}},
		DoNothing: true,
	}).Create(c)
	if res.Error != nil {
		return nil, false, pkgerrors.Wrap(res.Error, "conversationRepo.CreateIfAbsent.Create")
	}

	if res.RowsAffected == 0 {
		existing, err := r.GetByKey(ctx, c.ParticipantKey)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	c.Participants = make([]models.ConversationParticipant, len(ids))
	for i, id := range ids {
		c.Participants[i] = models.ConversationParticipant{ConversationID: c.ID, UserID: id}
	}
	if err := db.Create(&c.Participants).Error; err != nil {
		return nil, false, pkgerrors.Wrap(err, "conversationRepo.CreateIfAbsent.Participants")
	}
	return c, true, nil
}

// GetByParticipant lists the conversations of a user, most recently active first
func (r *postgresConversationRepository) GetByParticipant(ctx context.Context, userID uint) ([]models.Conversation, error) {
	db := r.db.WithContext(ctx)
	var conversations []models.Conversation
	err := db.Preload("Participants").
		Where("id IN (?)",
			db.Model(&models.ConversationParticipant{}).Select("conversation_id").Where("user_id = ?", userID),
		).
		Order("updated_at DESC").Order("id DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "conversationRepo.GetByParticipant.Find")
	}
	return conversations, nil
}

// Touch moves the conversation's updated_at forward
func (r *postgresConversationRepository) Touch(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.Conversation{}).Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
	if err != nil {
		return pkgerrors.Wrap(err, "conversationRepo.Touch.Update")
	}
	return nil
}
