package analyzer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/iraycd/sway-backend/internal/config"
	"github.com/iraycd/sway-backend/internal/services/chat/models"
	"github.com/iraycd/sway-backend/internal/services/completion"
)

// historyLimit caps how much trailing history is attached to the
// classification request.
const historyLimit = 5

// analysisTemperature keeps classification output stable across calls.
const analysisTemperature = 0.2

const systemPrompt = `You are an AI assistant specialized in analyzing conversations to determine the appropriate response approach.
Your task is to analyze the conversation history and the current message to determine:
1. The type of query (SIMPLE or THERAPEUTIC)
2. The recommended approach (CONCISE or DETAILED)
3. The user's emotional state
4. A summary of the conversation context

GUIDELINES:
- SIMPLE queries are informational, factual, or casual questions that don't involve emotional support or therapeutic guidance.
- THERAPEUTIC queries involve emotional support, mental health concerns, or requests for guidance on personal issues.
- CONCISE responses are brief, direct answers (2-4 sentences).
- DETAILED responses are longer, more supportive, and include validation and therapeutic elements.

OUTPUT FORMAT:
Return a JSON object with the following fields:
{
  "queryType": "SIMPLE" or "THERAPEUTIC",
  "recommendedApproach": "CONCISE" or "DETAILED",
  "emotionalState": "Brief description of user's emotional state",
  "conversationSummary": "Brief summary of the conversation context"
}`

// Service classifies incoming messages into an Analysis verdict.
type Service struct {
	gateway *completion.Service
	model   string
	timeout time.Duration
}

// NewService builds an analyzer over the shared completion gateway.
func NewService(gateway *completion.Service, cfg *config.Config) *Service {
	return &Service{
		gateway: gateway,
		model:   cfg.UtilityModel,
		timeout: cfg.UtilityTimeout,
	}
}

// Analyze classifies the current message against its trailing history.
// It never fails: one gateway call, no retries, and any failure
// (transport, malformed output) resolves to the safe default verdict.
func (s *Service) Analyze(ctx context.Context, message string, history []models.Message) models.Analysis {
	reply, err := s.gateway.Complete(ctx, completion.Request{
		Model:       s.model,
		Messages:    s.buildMessages(message, history),
		Temperature: analysisTemperature,
		Timeout:     s.timeout,
	})
	if err != nil {
		log.Error().Err(err).Msg("Conversation analysis call failed, using default verdict")
		return models.DefaultAnalysis()
	}

	analysis, ok := parseAnalysis(reply)
	if !ok {
		log.Warn().Str("reply", reply).Msg("Could not extract analysis JSON, using default verdict")
		return models.DefaultAnalysis()
	}

	analysis.Normalize()
	return analysis
}

func (s *Service) buildMessages(message string, history []models.Message) []openai.ChatCompletionMessage {
	out := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}

	start := 0
	if len(history) > historyLimit {
		start = len(history) - historyLimit
	}
	for _, msg := range history[start:] {
		role := openai.ChatMessageRoleAssistant
		if msg.Role == models.RoleUser {
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}

	// Append the current message unless it is already the most recent
	// user entry in history.
	last := len(history) - 1
	if last < 0 || history[last].Content != message || history[last].Role != models.RoleUser {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
	}

	return out
}

// parseAnalysis tries the whole reply as JSON first, then the substring
// between the first '{' and the last '}'.
func parseAnalysis(reply string) (models.Analysis, bool) {
	var analysis models.Analysis
	if err := json.Unmarshal([]byte(reply), &analysis); err == nil {
		return analysis, true
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return models.Analysis{}, false
	}

	if err := json.Unmarshal([]byte(reply[start:end+1]), &analysis); err != nil {
		return models.Analysis{}, false
	}
	return analysis, true
}
