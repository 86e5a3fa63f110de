package models

import (
	"time"

	"github.com/google/uuid"
)

// ApologyMessage is the degraded reply persisted and shown whenever
// the pipeline cannot produce a real one. Every failure path ends in a
// valid batch or stream outcome containing it.
const ApologyMessage = "Sorry, there was an error processing your message. Please try again."

// Role identifies who authored a message. It is a closed enumeration;
// display names live in Message.SenderLabel, not here.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the defined values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single entry in a conversation. Messages are immutable
// once created; ordering is by creation sequence, ascending.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;index;not null" json:"conversation_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Role           Role      `gorm:"type:varchar(16);not null" json:"role"`
	SenderLabel    string    `gorm:"type:varchar(128)" json:"sender_label,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// Conversation groups messages under one owner.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255)" json:"name,omitempty"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
