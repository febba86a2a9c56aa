package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Conversation is a direct-message thread. ParticipantKey is the canonical form
// of the participant set and is unique, so one set maps to one conversation.
type Conversation struct {
	ID             uint                      `json:"id" gorm:"primaryKey"`
	ParticipantKey string                    `json:"-" gorm:"type:text;uniqueIndex;not null"`
	Participants   []ConversationParticipant `json:"-" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at" gorm:"index"`
}

type ConversationParticipant struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index;uniqueIndex:idx_conversation_user"`
	UserID         uint      `json:"user_id" gorm:"index;uniqueIndex:idx_conversation_user"`
	CreatedAt      time.Time `json:"created_at"`
}

// UniqueParticipants drops zero and duplicate ids and sorts the rest.
func UniqueParticipants(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParticipantKey canonicalizes a participant set: sorted, deduplicated, comma-joined.
func ParticipantKey(ids []uint) string {
	unique := UniqueParticipants(ids)
	parts := make([]string, len(unique))
	for i, id := range unique {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func (c *Conversation) ParticipantIDs() []uint {
	ids := make([]uint, len(c.Participants))
	for i, p := range c.Participants {
		ids[i] = p.UserID
	}
	return UniqueParticipants(ids)
}

func (c *Conversation) HasParticipant(userID uint) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// CreateConversationRequest defines the request body for opening a conversation
type CreateConversationRequest struct {
	ParticipantIDs []uint `json:"participant_ids" validate:"required,min=1,max=50,dive,min=1"`
}
