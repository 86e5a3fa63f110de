package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iraycd/sway-backend/internal/services/chat/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	return s
}

func TestCreateAndGetConversation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	conv, err := s.CreateConversation(ctx, userID, "evening check-in")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, conv.ID)

	got, err := s.GetConversation(ctx, userID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "evening check-in", got.Name)
	assert.Equal(t, userID, got.UserID)
}

func TestGetConversationScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv, err := s.CreateConversation(ctx, uuid.New(), "private")
	require.NoError(t, err)

	_, err = s.GetConversation(ctx, uuid.New(), conv.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestListConversationsOnlyOwn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := s.CreateConversation(ctx, owner, fmt.Sprintf("conv-%d", i))
		require.NoError(t, err)
	}
	_, err := s.CreateConversation(ctx, uuid.New(), "someone else's")
	require.NoError(t, err)

	conversations, err := s.ListConversations(ctx, owner, 10, 0)
	require.NoError(t, err)
	require.Len(t, conversations, 3)
	for _, conv := range conversations {
		assert.Equal(t, owner, conv.UserID)
	}
}

func TestListMessagesAscendingOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv, err := s.CreateConversation(ctx, uuid.New(), "")
	require.NoError(t, err)

	_, err = s.CreateMessage(ctx, &models.Message{
		ConversationID: conv.ID,
		Content:        "how do I stop worrying?",
		Role:           models.RoleUser,
	})
	require.NoError(t, err)

	batch := []*models.Message{
		{ConversationID: conv.ID, Content: "That sounds heavy.", Role: models.RoleAssistant},
		{ConversationID: conv.ID, Content: "Worry often shrinks when named.", Role: models.RoleAssistant},
		{ConversationID: conv.ID, Content: "What is it about most?", Role: models.RoleAssistant},
	}
	require.NoError(t, s.CreateMessages(ctx, batch))

	messages, err := s.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, "how do I stop worrying?", messages[0].Content)
	assert.Equal(t, "That sounds heavy.", messages[1].Content)
	assert.Equal(t, "Worry often shrinks when named.", messages[2].Content)
	assert.Equal(t, "What is it about most?", messages[3].Content)
}

func TestCreateMessageRejectsInvalidRole(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateMessage(context.Background(), &models.Message{
		ConversationID: uuid.New(),
		Content:        "x",
		Role:           "system",
	})
	assert.Error(t, err)
}

func TestGetOrCreateUserByProvider(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateUserByProvider(ctx, "google", "sub-123", "a@example.com", "A")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)

	// Same identity resolves to the same account.
	again, err := s.GetOrCreateUserByProvider(ctx, "google", "sub-123", "a@example.com", "A")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// Same subject from a different provider is a different identity.
	other, err := s.GetOrCreateUserByProvider(ctx, "apple", "sub-123", "a@example.com", "A")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
