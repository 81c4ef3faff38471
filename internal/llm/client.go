// ABOUTME: Provider-neutral interfaces for chat completion and embedding clients
// ABOUTME: Defines the strict JSON decoding used for all model-generated payloads
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ChatMessage is one turn in a completion request
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// CompletionRequest describes a chat completion call
type CompletionRequest struct {
	System      string
	Messages    []ChatMessage
	Temperature float32
	JSONMode    bool
}

// CompletionResponse is the final result of a completion call. Token
// counts arrive with the last chunk when streaming.
type CompletionResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// StreamHandler receives token deltas as they arrive
type StreamHandler func(delta string)

// EmbeddingClient turns text into a fixed-length vector
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// ChatClient issues chat completions, optionally streamed
type ChatClient interface {
	CreateCompletion(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	StreamCompletion(ctx context.Context, req CompletionRequest, fn StreamHandler) (*CompletionResponse, error)
}

// Client is a full provider: completions plus embeddings
type Client interface {
	ChatClient
	EmbeddingClient
}

// ParseError reports a model response that was not valid JSON for the
// requested schema. Distinct from provider errors so callers can tell
// a broken upstream from a misbehaving model.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodeStrict parses a model-generated JSON payload into v. Model output
// is untrusted: a decode failure always surfaces as a *ParseError, never
// a silently-accepted partial result. Markdown code fences around the
// JSON body are tolerated since models emit them even in JSON mode.
func DecodeStrict(raw string, v any) error {
	cleaned := stripCodeFence(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	return nil
}

// stripCodeFence removes a surrounding ```json ... ``` fence if present
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
