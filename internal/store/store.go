package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/iraycd/sway-backend/internal/services/chat/models"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrUserNotFound         = errors.New("user not found")
)

// Store is the relational persistence layer. All reads used as
// pipeline history come back in ascending creation order.
type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite database at dsn and runs migrations.
// Use ":memory:" for an ephemeral database.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(&User{}, &AuthProvider{}, &models.Conversation{}, &models.Message{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// CreateConversation starts a new conversation owned by userID.
func (s *Store) CreateConversation(ctx context.Context, userID uuid.UUID, name string) (*models.Conversation, error) {
	conv := &models.Conversation{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	}
	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// GetConversation fetches one conversation scoped to its owner.
func (s *Store) GetConversation(ctx context.Context, userID, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).
		First(&conv, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns the owner's conversations, most recently
// updated first.
func (s *Store) ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	var conversations []models.Conversation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// TouchConversation bumps the conversation's updated_at so listing
// order tracks activity.
func (s *Store) TouchConversation(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// CreateMessage appends one message to a conversation.
func (s *Store) CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if !msg.Role.Valid() {
		return nil, fmt.Errorf("invalid message role %q", msg.Role)
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

// CreateMessages appends a batch of messages in one transaction,
// preserving slice order.
func (s *Store) CreateMessages(ctx context.Context, msgs []*models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, msg := range msgs {
			if msg.ID == uuid.Nil {
				msg.ID = uuid.New()
			}
			if !msg.Role.Valid() {
				return fmt.Errorf("invalid message role %q", msg.Role)
			}
			if err := tx.Create(msg).Error; err != nil {
				return fmt.Errorf("failed to create message: %w", err)
			}
		}
		return nil
	})
}

// ListMessages returns a conversation's messages in ascending creation
// order, the shape pipeline history expects.
func (s *Store) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetOrCreateUserByProvider resolves the external identity
// provider+subject to a backend user, creating the account and the
// provider link on first sign-in.
func (s *Store) GetOrCreateUserByProvider(ctx context.Context, provider, subject, email, name string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link AuthProvider
		err := tx.First(&link, "provider = ? AND subject = ?", provider, subject).Error
		if err == nil {
			return tx.First(&user, "id = ?", link.UserID).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user = User{
			ID:    uuid.New(),
			Email: email,
			Name:  name,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		link = AuthProvider{
			ID:       uuid.New(),
			UserID:   user.ID,
			Provider: provider,
			Subject:  subject,
		}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("failed to link provider identity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
