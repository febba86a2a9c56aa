package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post represents a social media post. Counters are maintained by the engagement
// service inside the same transaction as the edge they count.
type Post struct {
	ID            uint                     `json:"id" gorm:"primaryKey"`
	AuthorID      uint                     `json:"author_id" gorm:"index;not null"`
	Content       string                   `json:"content" gorm:"type:text"`
	Media         []PostMedia              `json:"media,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Poll          datatypes.JSONType[Poll] `json:"-" gorm:"not null"`
	LikesCount    int64                    `json:"likes_count" gorm:"not null;default:0"`
	CommentsCount int64                    `json:"comments_count" gorm:"not null;default:0"`
	RetweetsCount int64                    `json:"retweets_count" gorm:"not null;default:0"`
	CreatedAt     time.Time                `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// PostMedia is an opaque descriptor of a file kept by the media storage
type PostMedia struct {
	ID       uint   `json:"-" gorm:"primaryKey"`
	PostID   uint   `json:"-" gorm:"index;not null"`
	Position int    `json:"position"`
	Path     string `json:"path"`
	Type     string `json:"type" gorm:"size:20"` // image, video, file
}

// PollData returns the embedded poll; a zero Poll means the post has none.
func (p *Post) PollData() Poll {
	return p.Poll.Data()
}

func (p *Post) SetPoll(poll Poll) {
	p.Poll = datatypes.NewJSONType(poll)
}

// MediaRequest describes one attached media file
type MediaRequest struct {
	Path string `json:"path" validate:"required,max=500"`
	Type string `json:"type" validate:"required,oneof=image video file"`
}

// PollRequest describes the poll attached at post creation
type PollRequest struct {
	Question string   `json:"question" validate:"required,min=1,max=280"`
	Options  []string `json:"options" validate:"required,min=2,max=10,dive,required,max=100"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string         `json:"content" validate:"required,min=1,max=280"`
	Media   []MediaRequest `json:"media,omitempty" validate:"omitempty,max=10,dive"`
	Poll    *PollRequest   `json:"poll,omitempty" validate:"omitempty"`
}

// UpdatePostRequest defines the request body for editing a post's text
type UpdatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=280"`
}
