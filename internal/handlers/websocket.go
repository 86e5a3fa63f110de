package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/iraycd/sway-backend/internal/connections"
	"github.com/iraycd/sway-backend/internal/middleware"
	"github.com/iraycd/sway-backend/internal/services/chat"
	"github.com/iraycd/sway-backend/internal/services/chat/models"
	"github.com/iraycd/sway-backend/internal/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checking
	},
}

type wsIncoming struct {
	Content  string `json:"content"`
	SenderID string `json:"sender_id"`
}

// wsSink delivers stream events over one websocket connection.
// Writes are serialised; the ping goroutine uses WriteControl, which
// gorilla allows concurrently with WriteJSON.
type wsSink struct {
	conn      *websocket.Conn
	writeWait time.Duration
	mu        sync.Mutex
}

func (s *wsSink) Send(event models.StreamEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.writeWait))
	return s.conn.WriteJSON(event)
}

func (s *wsSink) sendError(message string) {
	s.Send(models.ErrorEvent(message))
}

// HandleWebSocket upgrades the connection and streams pipeline output
// for each message the client sends. Closing the connection cancels
// the in-flight stream.
func HandleWebSocket(pipeline chat.Service, db *store.Store, manager *connections.Manager, w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid conversation id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Could not upgrade connection")
		return
	}

	timeouts := manager.GetTimeouts()
	sink := &wsSink{conn: conn, writeWait: timeouts.WriteWait}

	ctx, cancel := context.WithCancel(context.Background())
	manager.AddConnection(conn, cancel)
	defer func() {
		manager.RemoveConnection(conn)
		conn.Close()
	}()

	if _, err := db.GetConversation(ctx, userID, conversationID); err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			sink.sendError("Conversation not found")
		} else {
			log.Error().Err(err).Msg("Failed to load conversation for websocket")
			sink.sendError("Internal server error")
		}
		return
	}

	conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, timeouts, done)

	persist := func(ctx context.Context, content string) (string, error) {
		msg, err := db.CreateMessage(ctx, &models.Message{
			ConversationID: conversationID,
			Content:        content,
			Role:           models.RoleAssistant,
			SenderLabel:    aiSenderLabel,
		})
		if err != nil {
			return "", err
		}
		if err := db.TouchConversation(ctx, conversationID); err != nil {
			log.Warn().Err(err).Msg("Failed to bump conversation activity")
		}
		return msg.ID.String(), nil
	}

	for {
		conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
		var incoming wsIncoming
		if err := conn.ReadJSON(&incoming); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("conversation_id", conversationID.String()).Msg("Websocket closed")
			}
			return
		}

		if incoming.Content == "" {
			sink.sendError("Message content is required")
			continue
		}

		if _, err := db.CreateMessage(ctx, &models.Message{
			ConversationID: conversationID,
			Content:        incoming.Content,
			Role:           models.RoleUser,
			SenderLabel:    incoming.SenderID,
		}); err != nil {
			log.Error().Err(err).Msg("Failed to persist user message")
			sink.sendError("Internal server error")
			continue
		}

		history, err := db.ListMessages(ctx, conversationID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load conversation history")
			sink.sendError("Internal server error")
			continue
		}

		pipeline.Stream(ctx, conversationID, incoming.Content, history, sink, persist)
	}
}

func pingLoop(conn *websocket.Conn, timeouts connections.TimeoutConfig, done <-chan struct{}) {
	ticker := time.NewTicker(timeouts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(timeouts.WriteWait)
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, deadline); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
