// ABOUTME: Gemini client implementing the same chat and embedding interfaces
// ABOUTME: Wraps google.golang.org/genai with retry behavior matching the OpenAI client
package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/cadencehq/coachmem/internal/util"
)

const (
	// DefaultGeminiChatModel is the default Gemini model for completions
	DefaultGeminiChatModel = "gemini-2.5-flash"
	// DefaultGeminiEmbeddingModel is the default Gemini embedding model
	DefaultGeminiEmbeddingModel = "gemini-embedding-001"
)

// GeminiClient wraps the genai client behind the provider interfaces
type GeminiClient struct {
	client         *genai.Client
	chatModel      string
	embeddingModel string
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// GeminiOption configures a GeminiClient
type GeminiOption func(*GeminiClient)

// WithGeminiChatModel overrides the generative model
func WithGeminiChatModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.chatModel = model
	}
}

// WithGeminiEmbeddingModel overrides the embedding model
func WithGeminiEmbeddingModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.embeddingModel = model
	}
}

// WithGeminiTimeout overrides the per-call timeout
func WithGeminiTimeout(d time.Duration) GeminiOption {
	return func(g *GeminiClient) {
		g.timeout = d
	}
}

// NewGeminiClient creates a Gemini client against Vertex AI
func NewGeminiClient(ctx context.Context, projectID, location string, opts ...GeminiOption) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	g := &GeminiClient{
		client:         client,
		chatModel:      DefaultGeminiChatModel,
		embeddingModel: DefaultGeminiEmbeddingModel,
		timeout:        30 * time.Second,
		maxRetries:     3,
		retryDelay:     time.Second * 2,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// GenerateEmbedding generates an embedding vector for the given text
func (g *GeminiClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(g.retryDelay, attempt))
		}

		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		resp, err := g.client.Models.EmbedContent(callCtx, g.embeddingModel, genai.Text(text), &genai.EmbedContentConfig{})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embedding returned", attempt+1)
			continue
		}

		values := resp.Embeddings[0].Values
		vector := make([]float64, len(values))
		for i, v := range values {
			vector[i] = float64(v)
		}

		return vector, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", g.maxRetries+1, lastErr)
}

// CreateCompletion issues a completion and returns the full response
func (g *GeminiClient) CreateCompletion(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	contents, config := g.buildRequest(req)

	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(g.retryDelay, attempt))
		}

		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		resp, err := g.client.Models.GenerateContent(callCtx, g.chatModel, contents, config)
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = fmt.Errorf("attempt %d: empty response from model", attempt+1)
			continue
		}

		result := &CompletionResponse{
			Content: resp.Candidates[0].Content.Parts[0].Text,
		}
		if resp.UsageMetadata != nil {
			result.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
			result.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		}

		return result, nil
	}

	return nil, fmt.Errorf("failed to create completion after %d attempts: %w", g.maxRetries+1, lastErr)
}

// StreamCompletion issues a streaming completion. Not retried: partial
// output may already have been delivered.
func (g *GeminiClient) StreamCompletion(ctx context.Context, req CompletionRequest, fn StreamHandler) (*CompletionResponse, error) {
	contents, config := g.buildRequest(req)

	result := &CompletionResponse{}

	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.chatModel, contents, config) {
		if err != nil {
			return nil, fmt.Errorf("stream interrupted: %w", err)
		}

		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			for _, part := range resp.Candidates[0].Content.Parts {
				if part.Text != "" {
					result.Content += part.Text
					if fn != nil {
						fn(part.Text)
					}
				}
			}
		}

		if resp.UsageMetadata != nil {
			result.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
			result.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		}
	}

	return result, nil
}

// buildRequest converts a CompletionRequest into genai contents and config
func (g *GeminiClient) buildRequest(req CompletionRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, "")
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	return contents, config
}
