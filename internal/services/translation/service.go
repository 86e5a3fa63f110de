// Package translation converts text between languages with a single
// utility-model completion. It degrades to the original text when the
// upstream call fails, so callers never lose content.
package translation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/iraycd/sway-backend/internal/config"
	"github.com/iraycd/sway-backend/internal/services/completion"
)

const translationTemperature = 0.1

const systemPromptFormat = `You are an AI assistant specialized in translating text between languages.
Your task is to translate the provided text from %s to %s.

GUIDELINES:
1. Translate the text accurately while preserving the meaning and tone
2. Maintain any formatting, such as paragraphs, bullet points, or emphasis
3. Preserve any technical terms or proper nouns that should not be translated
4. Ensure the translation is natural and fluent in the target language
5. If there are cultural references that don't translate well, provide appropriate equivalents
6. For therapeutic or mental health content, ensure the translation maintains the supportive tone

OUTPUT FORMAT:
Provide only the translated text without any explanations or notes.`

type Service struct {
	gateway *completion.Service
	model   string
	timeout time.Duration
}

func NewService(gateway *completion.Service, cfg *config.Config) *Service {
	return &Service{
		gateway: gateway,
		model:   cfg.UtilityModel,
		timeout: cfg.UtilityTimeout,
	}
}

// Translate renders text in the target language. Identical source and
// target short-circuit without an upstream call, and any failure
// returns the original text unchanged.
func (s *Service) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) string {
	if sourceLanguage == targetLanguage {
		return text
	}

	translated, err := s.gateway.Complete(ctx, completion.Request{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPromptFormat, sourceLanguage, targetLanguage)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: translationTemperature,
		Timeout:     s.timeout,
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("source", sourceLanguage).
			Str("target", targetLanguage).
			Msg("Translation failed, returning original text")
		return text
	}
	return translated
}
