package completion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"

	scannerInitialBuffer = 16 * 1024
	scannerMaxBuffer     = 1024 * 1024
)

// Stream is a forward-only, non-restartable sequence of content deltas
// read from a live completion response. It must be closed by the
// caller; cancelling the originating context also releases it.
type Stream struct {
	resp    *http.Response
	scanner *bufio.Scanner
}

// Stream opens a long-lived streaming completion call. The request has
// no fixed timeout; it ends at the [DONE] sentinel or when ctx is
// cancelled, which closes the upstream response.
func (s *Service) Stream(ctx context.Context, req Request) (*Stream, error) {
	body, err := json.Marshal(openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Body: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		log.Error().
			Int("status", resp.StatusCode).
			Str("model", req.Model).
			Msg("Streaming completion request rejected by upstream")
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, scannerInitialBuffer), scannerMaxBuffer)

	return &Stream{resp: resp, scanner: scanner}, nil
}

// Recv returns the next non-empty content delta. It returns io.EOF
// after the [DONE] sentinel or when the upstream closes the response.
// Malformed fragments are logged and skipped, not fatal.
func (st *Stream) Recv() (string, error) {
	for st.scanner.Scan() {
		line := strings.TrimSpace(st.scanner.Text())
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		data := strings.TrimPrefix(line, dataPrefix)
		if data == doneMarker {
			return "", io.EOF
		}

		var chunk openai.ChatCompletionStreamResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			log.Warn().Str("fragment", data).Msg("Skipping malformed stream fragment")
			continue
		}

		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}

	if err := st.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Close releases the underlying response body.
func (st *Stream) Close() error {
	return st.resp.Body.Close()
}
