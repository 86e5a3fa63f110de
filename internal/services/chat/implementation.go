package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/iraycd/sway-backend/internal/config"
	"github.com/iraycd/sway-backend/internal/services/analyzer"
	"github.com/iraycd/sway-backend/internal/services/chat/models"
	"github.com/iraycd/sway-backend/internal/services/completion"
	"github.com/iraycd/sway-backend/internal/services/decomposer"
)

// generationHistoryLimit caps how much history the generation call
// carries. The analyzer uses its own, smaller limit.
const generationHistoryLimit = 10

type Implementation struct {
	analyzer   *analyzer.Service
	decomposer *decomposer.Service
	gateway    *completion.Service

	model             string
	generationTimeout time.Duration
}

// NewService assembles the pipeline from its three stages and the
// shared gateway.
func NewService(gateway *completion.Service, analyzerSvc *analyzer.Service, decomposerSvc *decomposer.Service, cfg *config.Config) Service {
	return &Implementation{
		analyzer:          analyzerSvc,
		decomposer:        decomposerSvc,
		gateway:           gateway,
		model:             cfg.GenerationModel,
		generationTimeout: cfg.GenerationTimeout,
	}
}

func (s *Implementation) Process(ctx context.Context, conversationID uuid.UUID, message string, history []models.Message) []string {
	analysis := s.analyzer.Analyze(ctx, message, history)

	log.Debug().
		Str("conversation_id", conversationID.String()).
		Str("query_type", string(analysis.QueryType)).
		Str("approach", string(analysis.RecommendedApproach)).
		Msg("Conversation analyzed")

	raw, err := s.generate(ctx, message, PromptFor(analysis), history)
	if err != nil {
		log.Error().
			Err(err).
			Str("conversation_id", conversationID.String()).
			Msg("Generation failed, returning apology batch")
		return []string{models.ApologyMessage}
	}

	return s.decomposer.Decompose(ctx, raw, analysis, message)
}

// generate makes the primary completion call for the user-facing
// reply.
func (s *Implementation) generate(ctx context.Context, message, systemPrompt string, history []models.Message) (string, error) {
	return s.gateway.Complete(ctx, completion.Request{
		Model:    s.model,
		Messages: buildGenerationMessages(message, systemPrompt, history),
		Timeout:  s.generationTimeout,
	})
}

func buildGenerationMessages(message, systemPrompt string, history []models.Message) []openai.ChatCompletionMessage {
	out := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}

	start := 0
	if len(history) > generationHistoryLimit {
		start = len(history) - generationHistoryLimit
	}
	for _, msg := range history[start:] {
		role := openai.ChatMessageRoleAssistant
		if msg.Role == models.RoleUser {
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}

	// The caller persists the user message before invoking the
	// pipeline, so it is normally the last history entry already.
	last := len(history) - 1
	if last < 0 || history[last].Role != models.RoleUser {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
	}

	return out
}
