package chat

import (
	"context"

	"github.com/google/uuid"

	"github.com/iraycd/sway-backend/internal/services/chat/models"
)

// Sink receives stream events in production order. A send error means
// the consumer's connection is gone; there is no acknowledgement
// channel and no replay.
type Sink interface {
	Send(event models.StreamEvent) error
}

// Persister saves one assistant message for a conversation and returns
// its identifier. Persistence stays with the caller; the pipeline only
// invokes it at the end of a stream.
type Persister func(ctx context.Context, content string) (string, error)

// Service is the message-processing pipeline: analysis, prompt
// selection, generation and response decomposition.
type Service interface {
	// Process handles one message in request/response mode. It always
	// returns a non-empty batch; on generation failure the batch is a
	// single apology message. It never returns an error to the caller.
	Process(ctx context.Context, conversationID uuid.UUID, message string, history []models.Message) []string

	// Stream handles one message in streaming mode, forwarding deltas
	// to the sink as they arrive and persisting the concatenated text
	// as one assistant message at the end. Every stream ends in a
	// terminal outcome: a complete event, an error event, or silent
	// abandonment when the caller's context is cancelled.
	Stream(ctx context.Context, conversationID uuid.UUID, message string, history []models.Message, sink Sink, persist Persister)
}
