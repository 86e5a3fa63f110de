package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/iraycd/sway-backend/internal/middleware"
	"github.com/iraycd/sway-backend/internal/services/chat"
	"github.com/iraycd/sway-backend/internal/services/chat/models"
	"github.com/iraycd/sway-backend/internal/store"
	"github.com/iraycd/sway-backend/pkg/httpext"
)

// aiSenderLabel marks assistant messages for clients that display a
// sender name.
const aiSenderLabel = "AI"

type CreateConversationRequest struct {
	Name string `json:"name" validate:"max=255"`
}

type SendMessageRequest struct {
	Content  string `json:"content" validate:"required"`
	SenderID string `json:"sender_id"`
}

// HandleCreateConversation starts a new conversation for the
// authenticated user.
func HandleCreateConversation(db *store.Store, w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpext.JsonError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		httpext.JsonError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	conv, err := db.CreateConversation(r.Context(), userID, req.Name)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create conversation")
		httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	httpext.JsonResponse(w, http.StatusCreated, conv)
}

// HandleListConversations returns the user's conversations, most
// recently active first.
func HandleListConversations(db *store.Store, w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpext.JsonError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := queryInt(r, "limit", 100)
	skip := queryInt(r, "skip", 0)

	conversations, err := db.ListConversations(r.Context(), userID, limit, skip)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list conversations")
		httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	httpext.JsonResponse(w, http.StatusOK, conversations)
}

// HandleGetConversation returns one conversation by id.
func HandleGetConversation(db *store.Store, w http.ResponseWriter, r *http.Request) {
	_, conv, ok := ownedConversation(db, w, r)
	if !ok {
		return
	}

	httpext.JsonResponse(w, http.StatusOK, conv)
}

// HandleListMessages returns a conversation's messages in ascending
// creation order.
func HandleListMessages(db *store.Store, w http.ResponseWriter, r *http.Request) {
	_, conv, ok := ownedConversation(db, w, r)
	if !ok {
		return
	}

	messages, err := db.ListMessages(r.Context(), conv.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list messages")
		httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	httpext.JsonResponse(w, http.StatusOK, messages)
}

// HandleSendMessage persists the user's message, runs it through the
// pipeline and returns the assistant messages it produced.
func HandleSendMessage(pipeline chat.Service, db *store.Store, w http.ResponseWriter, r *http.Request) {
	_, conv, ok := ownedConversation(db, w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		httpext.JsonError(w, "Message content is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	if _, err := db.CreateMessage(ctx, &models.Message{
		ConversationID: conv.ID,
		Content:        req.Content,
		Role:           models.RoleUser,
		SenderLabel:    req.SenderID,
	}); err != nil {
		log.Error().Err(err).Msg("Failed to persist user message")
		httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	history, err := db.ListMessages(ctx, conv.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load conversation history")
		httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	batch := pipeline.Process(ctx, conv.ID, req.Content, history)

	replies := make([]*models.Message, 0, len(batch))
	for _, content := range batch {
		replies = append(replies, &models.Message{
			ConversationID: conv.ID,
			Content:        content,
			Role:           models.RoleAssistant,
			SenderLabel:    aiSenderLabel,
		})
	}
	if err := db.CreateMessages(ctx, replies); err != nil {
		log.Error().Err(err).Msg("Failed to persist assistant messages")
		httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := db.TouchConversation(ctx, conv.ID); err != nil {
		log.Warn().Err(err).Msg("Failed to bump conversation activity")
	}

	httpext.JsonResponse(w, http.StatusOK, replies)
}

// ownedConversation loads the conversation in the URL and verifies the
// caller owns it, writing the error response itself when not.
func ownedConversation(db *store.Store, w http.ResponseWriter, r *http.Request) (uuid.UUID, *models.Conversation, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpext.JsonError(w, "Unauthorized", http.StatusUnauthorized)
		return uuid.Nil, nil, false
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpext.JsonError(w, "Invalid conversation id", http.StatusBadRequest)
		return uuid.Nil, nil, false
	}

	conv, err := db.GetConversation(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			httpext.JsonError(w, "Conversation not found", http.StatusNotFound)
		} else {
			log.Error().Err(err).Msg("Failed to load conversation")
			httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
		}
		return uuid.Nil, nil, false
	}
	return userID, conv, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
