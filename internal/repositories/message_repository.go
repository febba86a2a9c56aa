package repositories

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/anonto42/campus-social/backend/internal/models"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

// MessageRepository defines the interface for message operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	GetLast(ctx context.Context, conversationID uint) (*models.Message, error)
	GetByConversationID(ctx context.Context, conversationID, beforeID uint, limit int) ([]models.Message, error)
	GetLatestByConversationIDs(ctx context.Context, conversationIDs []uint) (map[uint]models.Message, error)
	DeleteMessage(ctx context.Context, id uint) error
}

type postgresMessageRepository struct {
	db *gorm.DB
}

func NewPostgresMessageRepository(db *gorm.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

// latestMessageOfConversation matches the newest message of the row's conversation
const latestMessageOfConversation = `messages.id = (
	SELECT m2.id FROM messages m2
	WHERE m2.conversation_id = messages.conversation_id
	ORDER BY m2.created_at DESC, m2.id DESC
	LIMIT 1
)`

func (r *postgresMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return pkgerrors.Wrap(err, "messageRepo.CreateMessage.Create")
	}
	return nil
}

func (r *postgresMessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var m models.Message
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrMessageNotFound
		}
		return nil, pkgerrors.Wrap(err, "messageRepo.GetByID.First")
	}
	return &m, nil
}

// GetLast returns the newest message of a conversation, nil when it is empty
func (r *postgresMessageRepository) GetLast(ctx context.Context, conversationID uint) (*models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID).
		Order("created_at DESC").Order("id DESC").
		Limit(1).Find(&messages).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "messageRepo.GetLast.Find")
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return &messages[0], nil
}

// GetByConversationID returns up to limit messages older than beforeID (0 means
// newest), in ascending creation order
func (r *postgresMessageRepository) GetByConversationID(ctx context.Context, conversationID, beforeID uint, limit int) ([]models.Message, error) {
	q := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}

	var messages []models.Message
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "messageRepo.GetByConversationID.Find")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetLatestByConversationIDs computes the newest message per conversation
func (r *postgresMessageRepository) GetLatestByConversationIDs(ctx context.Context, conversationIDs []uint) (map[uint]models.Message, error) {
	out := make(map[uint]models.Message, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return out, nil
	}

	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("messages.conversation_id IN ?", conversationIDs).
		Where(latestMessageOfConversation).
		Find(&messages).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "messageRepo.GetLatestByConversationIDs.Find")
	}
	for _, m := range messages {
		out[m.ConversationID] = m
	}
	return out, nil
}

func (r *postgresMessageRepository) DeleteMessage(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Message{}, id)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "messageRepo.DeleteMessage.Delete")
	}
	if res.RowsAffected == 0 {
		return appErrors.ErrMessageNotFound
	}
	return nil
}
