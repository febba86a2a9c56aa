package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

const (
	previewLength       = 100
	defaultMessagesPage = 50
	maxMessagesPage     = 100
)

// MessagePreview summarizes the newest message of a conversation
type MessagePreview struct {
	ID        uint               `json:"id"`
	Content   string             `json:"content"`
	Sender    models.UserCompact `json:"sender"`
	CreatedAt time.Time          `json:"created_at"`
}

// ConversationView is a conversation with its participants and newest message
type ConversationView struct {
	ID           uint                 `json:"id"`
	Participants []models.UserCompact `json:"participants"`
	LastMessage  *MessagePreview      `json:"last_message"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// MessagingService appends and lists messages. Within a conversation message
// timestamps strictly increase in insertion order.
type MessagingService struct {
	store         *repositories.Store
	conversations *ConversationService
	now           Clock
}

// NewMessagingService creates a new MessagingService
func NewMessagingService(store *repositories.Store, conversations *ConversationService, now Clock) *MessagingService {
	if now == nil {
		now = SystemClock
	}
	return &MessagingService{store: store, conversations: conversations, now: now}
}

// Send appends a message from senderID, who must participate in the
// conversation.
func (s *MessagingService) Send(ctx context.Context, conversationID, senderID uint, content string) (*models.Message, error) {
	content, err := cleanContent(content, models.MaxMessageLength)
	if err != nil {
		return nil, err
	}

	var message *models.Message
	err = s.store.InTx(ctx, func(tx *repositories.Store) error {
		conversation, err := tx.Conversations.LockByID(ctx, conversationID)
		if err != nil {
			return err
		}
		if !conversation.HasParticipant(senderID) {
			return appErrors.ErrNotParticipant
		}

		last, err := tx.Messages.GetLast(ctx, conversationID)
		if err != nil {
			return err
		}
		at := s.now()
		if last != nil && !at.After(last.CreatedAt) {
			at = last.CreatedAt.Add(time.Microsecond)
		}

		message = &models.Message{
			ConversationID: conversationID,
			SenderID:       senderID,
			Content:        content,
			CreatedAt:      at,
		}
		if err := tx.Messages.CreateMessage(ctx, message); err != nil {
			return err
		}
		return tx.Conversations.Touch(ctx, conversationID, at)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"conversation_id": conversationID, "sender_id": senderID}).Debug("message sent")
	return message, nil
}

// ListMessages returns up to limit messages older than beforeID (0 for the
// newest), in chronological order.
func (s *MessagingService) ListMessages(ctx context.Context, conversationID, userID, beforeID uint, limit int) ([]models.Message, error) {
	if _, err := s.conversations.Get(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	_, limit = normalizePage(1, limit, defaultMessagesPage, maxMessagesPage)
	return s.store.Messages.GetByConversationID(ctx, conversationID, beforeID, limit)
}

// ListConversationsFor returns userID's conversations, most recently active
// first, each with its newest message.
func (s *MessagingService) ListConversationsFor(ctx context.Context, userID uint) ([]ConversationView, error) {
	conversations, err := s.conversations.ListFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Views(ctx, conversations)
}

// DeleteMessage removes a message; only its sender may do so
func (s *MessagingService) DeleteMessage(ctx context.Context, messageID, userID uint) error {
	return s.store.InTx(ctx, func(tx *repositories.Store) error {
		message, err := tx.Messages.GetByID(ctx, messageID)
		if err != nil {
			return err
		}
		if message.SenderID != userID {
			return appErrors.ErrNotMessageSender
		}
		return tx.Messages.DeleteMessage(ctx, messageID)
	})
}

// Views builds the participant and preview projections of conversations
func (s *MessagingService) Views(ctx context.Context, conversations []models.Conversation) ([]ConversationView, error) {
	views := make([]ConversationView, len(conversations))
	if len(conversations) == 0 {
		return views, nil
	}

	conversationIDs := make([]uint, len(conversations))
	var userIDs []uint
	for i := range conversations {
		conversationIDs[i] = conversations[i].ID
		userIDs = append(userIDs, conversations[i].ParticipantIDs()...)
	}

	latest, err := s.store.Messages.GetLatestByConversationIDs(ctx, conversationIDs)
	if err != nil {
		return nil, err
	}
	for _, m := range latest {
		userIDs = append(userIDs, m.SenderID)
	}
	users, err := s.store.Users.GetUsersByIDs(ctx, models.UniqueParticipants(userIDs))
	if err != nil {
		return nil, err
	}

	for i := range conversations {
		c := &conversations[i]
		view := ConversationView{
			ID:           c.ID,
			Participants: make([]models.UserCompact, 0, len(c.Participants)),
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		}
		for _, id := range c.ParticipantIDs() {
			if u, ok := users[id]; ok {
				view.Participants = append(view.Participants, u.ToCompact())
			}
		}
		if m, ok := latest[c.ID]; ok {
			preview := &MessagePreview{
				ID:        m.ID,
				Content:   truncate(m.Content, previewLength),
				CreatedAt: m.CreatedAt,
			}
			if u, ok := users[m.SenderID]; ok {
				preview.Sender = u.ToCompact()
			}
			view.LastMessage = preview
		}
		views[i] = view
	}
	return views, nil
}

// View is Views for a single conversation
func (s *MessagingService) View(ctx context.Context, conversation *models.Conversation) (*ConversationView, error) {
	views, err := s.Views(ctx, []models.Conversation{*conversation})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
