package store

import (
	"time"

	"github.com/google/uuid"
)

// User is a backend account. Accounts are created lazily on the first
// successful provider sign-in.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Name      string    `gorm:"type:varchar(255)" json:"name,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AuthProvider links a user to one external identity. The
// provider+subject pair is the external identity key and is unique.
type AuthProvider struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Provider  string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_provider_subject" json:"provider"`
	Subject   string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_provider_subject" json:"subject"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
