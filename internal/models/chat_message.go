package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatMessage belongs to a job thread when JobID is set and to the admin
// support channel when ReceiverID is nil.
type ChatMessage struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	SenderID   uint   `gorm:"not null;index" json:"sender_id"`
	ReceiverID *uint  `gorm:"index" json:"receiver_id"` // nil = admin support channel
	JobID      *uint  `gorm:"index" json:"job_id"`      // nil = not job-scoped
	Content    string `gorm:"type:text;not null" json:"content"`

	// Rendering metadata only, never an authorization input.
	IsStaffReply bool `gorm:"not null;default:false" json:"is_staff_reply"`
	IsRead       bool `gorm:"not null;default:false" json:"is_read"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Sender Profile `gorm:"foreignKey:SenderID" json:"-"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
