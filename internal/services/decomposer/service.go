package decomposer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/iraycd/sway-backend/internal/config"
	"github.com/iraycd/sway-backend/internal/services/chat/models"
	"github.com/iraycd/sway-backend/internal/services/completion"
)

// decomposeTemperature is slightly above the analysis temperature so
// the split messages read naturally.
const decomposeTemperature = 0.3

const systemPrompt = `You are an AI assistant specialized in processing therapeutic responses into multiple natural messages.
Your task is to take a raw AI response and break it down into 2-4 separate messages that feel more natural and conversational.

GUIDELINES:
1. Break the response into 2-4 separate messages (depending on length and complexity)
2. Each message should be self-contained and make sense on its own
3. The messages should flow naturally as if they were sent sequentially in a conversation
4. Preserve all the therapeutic content and advice from the original response
5. Make the messages feel more human-like and less formal/clinical when appropriate
6. Shorter messages (1-3 sentences) are often more natural than very long paragraphs
7. The first message should acknowledge the user's concern
8. The last message might include a gentle question or invitation to continue the conversation

OUTPUT FORMAT:
Your response MUST be a valid JSON array of strings, with no additional text before or after the JSON.
The JSON array should contain 2-4 separate messages:

["First message", "Second message", "Third message", "Fourth message (if needed)"]

IMPORTANT: Do not include any explanations, markdown formatting, or any text outside the JSON array.
Your entire response should be parseable as JSON. Do not include ` + "```json```" + ` code blocks or any other text.`

// Service reshapes one raw completion into an ordered batch of 1-4
// user-facing messages.
type Service struct {
	gateway *completion.Service
	model   string
	timeout time.Duration
}

// NewService builds a decomposer over the shared completion gateway.
func NewService(gateway *completion.Service, cfg *config.Config) *Service {
	return &Service{
		gateway: gateway,
		model:   cfg.UtilityModel,
		timeout: cfg.UtilityTimeout,
	}
}

// Decompose returns the display batch for a raw reply. It never fails
// and never returns an empty batch: if the processing model and every
// extraction strategy come up empty, the deterministic local splitter
// handles the original raw text.
func (s *Service) Decompose(ctx context.Context, raw string, analysis models.Analysis, userMessage string) []string {
	// Simple queries with a concise approach pass through untouched.
	if analysis.IsConciseShortCircuit() {
		return []string{raw}
	}

	if strings.TrimSpace(raw) == "" {
		return []string{models.ApologyMessage}
	}

	reply, err := s.gateway.Complete(ctx, completion.Request{
		Model:       s.model,
		Messages:    s.buildMessages(raw, analysis, userMessage),
		Temperature: decomposeTemperature,
		Timeout:     s.timeout,
	})
	if err != nil {
		log.Error().Err(err).Msg("Decomposition call failed, using fallback splitter")
		return SplitFallback(raw)
	}

	if messages, ok := ExtractMessages(reply); ok {
		log.Debug().Int("count", len(messages)).Msg("Extracted decomposed messages")
		return messages
	}

	log.Warn().Msg("Message extraction failed on processing reply, using fallback splitter")
	return SplitFallback(raw)
}

func (s *Service) buildMessages(raw string, analysis models.Analysis, userMessage string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(`USER'S MESSAGE:
%s

CONVERSATION CONTEXT:
%s

USER'S EMOTIONAL STATE:
%s

RAW AI RESPONSE TO PROCESS:
%s

Please process this into multiple natural messages.`, userMessage, analysis.ConversationSummary, analysis.EmotionalState, raw)},
	}
}
