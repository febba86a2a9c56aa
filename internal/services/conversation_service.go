package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

// ConversationService maps participant sets to conversations. A set is
// identified by its canonical key, which the store keeps unique, so concurrent
// FindOrCreate calls for the same set end on the same conversation.
type ConversationService struct {
	store *repositories.Store
}

// NewConversationService creates a new ConversationService
func NewConversationService(store *repositories.Store) *ConversationService {
	return &ConversationService{store: store}
}

// FindOrCreate returns the conversation of exactly participantIDs, creating it
// when absent. created reports whether this call inserted it.
func (s *ConversationService) FindOrCreate(ctx context.Context, participantIDs []uint) (*models.Conversation, bool, error) {
	ids := models.UniqueParticipants(participantIDs)
	if len(ids) < 2 {
		return nil, false, appErrors.ErrTooFewParticipants
	}

	users, err := s.store.Users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, false, err
	}
	if len(users) != len(ids) {
		return nil, false, appErrors.ErrUserNotFound
	}

	key := models.ParticipantKey(ids)
	conversation, err := s.store.Conversations.GetByKey(ctx, key)
	if err == nil {
		return conversation, false, nil
	}
	if !errors.Is(err, appErrors.ErrConversationNotFound) {
		return nil, false, err
	}

	var created bool
	err = s.store.InTx(ctx, func(tx *repositories.Store) error {
		conversation, created, err = tx.Conversations.CreateIfAbsent(ctx, ids)
		return err
	})
	if err != nil {
		if !repositories.IsUniqueViolation(err) {
			return nil, false, err
		}
		// lost the race to a concurrent insert of the same key
		conversation, err = s.store.Conversations.GetByKey(ctx, key)
		if err != nil {
			return nil, false, err
		}
		created = false
	}

	if created {
		log.WithFields(logrus.Fields{"conversation_id": conversation.ID, "participants": key}).Info("conversation created")
	}
	return conversation, created, nil
}

// Start opens (or reopens) the conversation between requesterID and others
func (s *ConversationService) Start(ctx context.Context, requesterID uint, others []uint) (*models.Conversation, bool, error) {
	ids := append([]uint{requesterID}, others...)
	return s.FindOrCreate(ctx, ids)
}

// Get returns a conversation userID participates in
func (s *ConversationService) Get(ctx context.Context, conversationID, userID uint) (*models.Conversation, error) {
	conversation, err := s.store.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, appErrors.ErrNotParticipant
	}
	return conversation, nil
}

// ListFor returns userID's conversations, most recently active first
func (s *ConversationService) ListFor(ctx context.Context, userID uint) ([]models.Conversation, error) {
	return s.store.Conversations.GetByParticipant(ctx, userID)
}
