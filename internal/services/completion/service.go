package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/iraycd/sway-backend/internal/config"
)

// UpstreamError reports a failed call to the completion endpoint,
// either a non-success status or a transport failure. StatusCode is
// zero for transport failures.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("completion endpoint unreachable: %s", e.Body)
	}
	return fmt.Sprintf("completion endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// Request describes one outbound completion call. A zero Timeout means
// the call is bounded only by the caller's context.
type Request struct {
	Model       string
	Messages    []openai.ChatCompletionMessage
	Temperature float32
	Timeout     time.Duration
}

// Service is the stateless gateway to the OpenAI-compatible completion
// endpoint. It makes exactly one attempt per call; callers decide
// whether to degrade on failure.
type Service struct {
	client     *openai.Client
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewService builds a gateway from the process configuration.
func NewService(cfg *config.Config) *Service {
	clientConfig := openai.DefaultConfig(cfg.CompletionAPIKey)
	clientConfig.BaseURL = strings.TrimRight(cfg.CompletionBaseURL, "/")

	return &Service{
		client: openai.NewClientWithConfig(clientConfig),
		// Streaming calls have no fixed timeout; they end at the
		// upstream sentinel or when the context is cancelled.
		httpClient: &http.Client{},
		baseURL:    clientConfig.BaseURL,
		apiKey:     cfg.CompletionAPIKey,
	}
}

// Complete makes a single blocking call and returns the first choice's
// full text.
func (s *Service) Complete(ctx context.Context, req Request) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			log.Error().
				Int("status", apiErr.HTTPStatusCode).
				Str("model", req.Model).
				Msg("Completion request rejected by upstream")
			return "", &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		log.Error().Err(err).Str("model", req.Model).Msg("Completion request failed")
		return "", &UpstreamError{Body: err.Error()}
	}

	if len(resp.Choices) == 0 {
		return "", &UpstreamError{StatusCode: http.StatusOK, Body: "no response choices returned"}
	}

	return resp.Choices[0].Message.Content, nil
}
