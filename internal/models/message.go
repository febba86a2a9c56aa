package models

import "time"

// Message is immutable once created. CreatedAt is strictly increasing within a
// conversation.
type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index:idx_conversation_created;not null"`
	SenderID       uint      `json:"sender_id" gorm:"index;not null"`
	Content        string    `json:"content" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at" gorm:"index:idx_conversation_created"`
}

const MaxMessageLength = 2000

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
