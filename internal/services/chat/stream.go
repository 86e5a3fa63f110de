package chat

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/iraycd/sway-backend/internal/services/chat/models"
	"github.com/iraycd/sway-backend/internal/services/completion"
)

// ErrStreamInterrupted reports a consumer connection dropped while a
// stream was in flight.
var ErrStreamInterrupted = errors.New("stream interrupted")

// sentenceBufferLimit flushes the internal boundary buffer even when
// no sentence-ending punctuation arrives.
const sentenceBufferLimit = 100

func (s *Implementation) Stream(ctx context.Context, conversationID uuid.UUID, message string, history []models.Message, sink Sink, persist Persister) {
	analysis := s.analyzer.Analyze(ctx, message, history)

	st, err := s.gateway.Stream(ctx, completion.Request{
		Model:    s.model,
		Messages: buildGenerationMessages(message, PromptFor(analysis), history),
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("conversation_id", conversationID.String()).
			Msg("Could not open streaming generation call")
		s.failStream(ctx, sink, persist)
		return
	}
	defer st.Close()

	var full strings.Builder
	var boundary strings.Builder

	for {
		content, err := st.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A cancelled caller context means the consumer went away;
			// release resources and abandon without a terminal event.
			if ctx.Err() != nil {
				log.Debug().
					Str("conversation_id", conversationID.String()).
					Msg("Stream cancelled by caller, abandoning")
				return
			}
			log.Error().
				Err(err).
				Str("conversation_id", conversationID.String()).
				Msg("Streaming generation failed mid-stream")
			s.failStream(ctx, sink, persist)
			return
		}

		full.WriteString(content)
		boundary.WriteString(content)

		if err := sink.Send(models.ChunkEvent(content)); err != nil {
			log.Warn().
				Err(errors.Join(ErrStreamInterrupted, err)).
				Str("conversation_id", conversationID.String()).
				Msg("Sink rejected chunk, abandoning stream")
			return
		}

		// Track sentence boundaries for potential future segmentation;
		// delivery itself stays pass-through.
		if endsSentence(boundary.String()) || boundary.Len() > sentenceBufferLimit {
			boundary.Reset()
		}
	}

	messageID, err := persist(ctx, full.String())
	if err != nil {
		log.Error().
			Err(err).
			Str("conversation_id", conversationID.String()).
			Msg("Could not persist streamed assistant message")
		sink.Send(models.ErrorEvent(models.ApologyMessage))
		return
	}

	if err := sink.Send(models.CompleteEvent(messageID)); err != nil {
		log.Warn().
			Err(errors.Join(ErrStreamInterrupted, err)).
			Str("conversation_id", conversationID.String()).
			Msg("Could not deliver completion event")
	}
}

// failStream delivers the terminal error outcome: one error event on
// the sink and an apology message persisted so the conversation never
// ends without a record.
func (s *Implementation) failStream(ctx context.Context, sink Sink, persist Persister) {
	if err := sink.Send(models.ErrorEvent("Sorry, there was an error processing your message.")); err != nil {
		log.Warn().Err(err).Msg("Could not deliver stream error event")
	}
	if _, err := persist(ctx, models.ApologyMessage); err != nil {
		log.Error().Err(err).Msg("Could not persist apology message")
	}
}

func endsSentence(text string) bool {
	return strings.HasSuffix(text, ".") ||
		strings.HasSuffix(text, "!") ||
		strings.HasSuffix(text, "?") ||
		strings.HasSuffix(text, "\n")
}
