// ABOUTME: Shared fakes and fixtures for core package tests
// ABOUTME: In-memory storage plus scripted LLM clients, no network
package core

import (
	"context"
	"testing"
	"time"

	"github.com/cadencehq/coachmem/internal/llm"
	"github.com/cadencehq/coachmem/internal/models"
	"github.com/cadencehq/coachmem/internal/storage/sqlite"
)

// testVector builds a full-dimension vector with the given leading values
func testVector(leading ...float64) []float64 {
	v := make([]float64, sqlite.ExpectedDimension)
	copy(v, leading)
	return v
}

// fakeEmbedder returns a fixed vector or error for every call
type fakeEmbedder struct {
	vector []float64
	err    error
	texts  []string
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

// fakeChat returns scripted responses in order, recording each request
type fakeChat struct {
	responses []string
	err       error
	requests  []llm.CompletionRequest
}

func (f *fakeChat) CreateCompletion(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &llm.CompletionResponse{}, nil
	}
	content := f.responses[0]
	f.responses = f.responses[1:]
	return &llm.CompletionResponse{Content: content}, nil
}

func (f *fakeChat) StreamCompletion(ctx context.Context, req llm.CompletionRequest, fn llm.StreamHandler) (*llm.CompletionResponse, error) {
	resp, err := f.CreateCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		fn(resp.Content)
	}
	return resp, nil
}

// fakeClient combines chat and embedding fakes into a full llm.Client
type fakeClient struct {
	fakeChat
	fakeEmbedder
}

func newTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seedConversation creates a conversation and its messages, alternating
// roles starting with the user
func seedConversation(t *testing.T, store *sqlite.Storage, convID, userID string, contents ...string) []models.Message {
	t.Helper()
	if err := store.Messages().CreateConversation(&models.Conversation{
		ID:        convID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	messages := make([]models.Message, 0, len(contents))
	for i, content := range contents {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		msg := models.Message{
			ID:             convID + "_msg_" + string(rune('a'+i)),
			ConversationID: convID,
			UserID:         userID,
			Role:           role,
			Content:        content,
			CreatedAt:      time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := store.Messages().SaveMessage(&msg); err != nil {
			t.Fatalf("SaveMessage() error = %v", err)
		}
		messages = append(messages, msg)
	}
	return messages
}
