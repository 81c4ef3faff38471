// ABOUTME: Tests for the message embedding pipeline
// ABOUTME: Verifies best-effort semantics, role-labeled text, and backfill
package core

import (
	"context"
	"errors"
	"testing"

	"github.com/cadencehq/coachmem/internal/models"
)

func TestEmbeddingTextIncludesRoleLabel(t *testing.T) {
	msg := models.Message{Role: models.RoleAssistant, Content: "try timeboxing it"}
	got := EmbeddingText(msg)
	want := "Assistant: try timeboxing it"
	if got != want {
		t.Errorf("EmbeddingText() = %q, want %q", got, want)
	}
}

func TestProcessMessageEmbeddingStoresVector(t *testing.T) {
	store := newTestStorage(t)
	msgs := seedConversation(t, store, "conv_1", "user_1", "I keep procrastinating on hiring")

	client := &fakeEmbedder{vector: testVector(0.5, 0.5)}
	embedder := NewEmbedder(store, client, nil)

	embedder.ProcessMessageEmbedding(context.Background(), msgs[0])

	emb, err := store.Embeddings().GetByMessageID(msgs[0].ID)
	if err != nil {
		t.Fatalf("GetByMessageID() error = %v", err)
	}
	if emb == nil {
		t.Fatal("expected embedding to be stored")
	}
	if emb.UserID != "user_1" || emb.ConversationID != "conv_1" {
		t.Errorf("embedding row = %+v, want user_1/conv_1", emb)
	}
	if len(client.texts) != 1 || client.texts[0] != "User: I keep procrastinating on hiring" {
		t.Errorf("embedded texts = %v", client.texts)
	}
}

func TestProcessMessageEmbeddingFailureIsSilent(t *testing.T) {
	store := newTestStorage(t)
	msgs := seedConversation(t, store, "conv_1", "user_1", "hello")

	client := &fakeEmbedder{err: errors.New("provider down")}
	embedder := NewEmbedder(store, client, nil)

	// must not panic or surface the error
	embedder.ProcessMessageEmbedding(context.Background(), msgs[0])

	emb, err := store.Embeddings().GetByMessageID(msgs[0].ID)
	if err != nil {
		t.Fatalf("GetByMessageID() error = %v", err)
	}
	if emb != nil {
		t.Error("expected no embedding after failure")
	}
}

func TestProcessMessageEmbeddingAsync(t *testing.T) {
	store := newTestStorage(t)
	msgs := seedConversation(t, store, "conv_1", "user_1", "hello")

	client := &fakeEmbedder{vector: testVector(1)}
	embedder := NewEmbedder(store, client, nil)

	embedder.ProcessMessageEmbeddingAsync(msgs[0])
	embedder.Wait()

	emb, err := store.Embeddings().GetByMessageID(msgs[0].ID)
	if err != nil {
		t.Fatalf("GetByMessageID() error = %v", err)
	}
	if emb == nil {
		t.Fatal("expected embedding after async processing")
	}
}

func TestBatchProcessEmbeddingsBackfillsMissing(t *testing.T) {
	store := newTestStorage(t)
	msgs := seedConversation(t, store, "conv_1", "user_1", "one", "two", "three")

	client := &fakeEmbedder{vector: testVector(1)}
	embedder := NewEmbedder(store, client, nil)

	// pre-embed the middle message so only two remain
	embedder.ProcessMessageEmbedding(context.Background(), msgs[1])

	processed, err := embedder.BatchProcessEmbeddings(context.Background(), 10)
	if err != nil {
		t.Fatalf("BatchProcessEmbeddings() error = %v", err)
	}
	if processed != 2 {
		t.Errorf("processed = %d, want 2", processed)
	}

	remaining, err := store.Embeddings().MessagesWithoutEmbeddings(10)
	if err != nil {
		t.Fatalf("MessagesWithoutEmbeddings() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("remaining = %d messages, want 0", len(remaining))
	}
}

func TestBatchProcessEmbeddingsSkipsFailures(t *testing.T) {
	store := newTestStorage(t)
	seedConversation(t, store, "conv_1", "user_1", "one", "two")

	client := &fakeEmbedder{err: errors.New("provider down")}
	embedder := NewEmbedder(store, client, nil)

	processed, err := embedder.BatchProcessEmbeddings(context.Background(), 10)
	if err != nil {
		t.Fatalf("BatchProcessEmbeddings() error = %v", err)
	}
	if processed != 0 {
		t.Errorf("processed = %d, want 0", processed)
	}
}

func TestBatchProcessEmbeddingsRespectsLimit(t *testing.T) {
	store := newTestStorage(t)
	seedConversation(t, store, "conv_1", "user_1", "one", "two", "three")

	client := &fakeEmbedder{vector: testVector(1)}
	embedder := NewEmbedder(store, client, nil)

	processed, err := embedder.BatchProcessEmbeddings(context.Background(), 2)
	if err != nil {
		t.Fatalf("BatchProcessEmbeddings() error = %v", err)
	}
	if processed != 2 {
		t.Errorf("processed = %d, want 2", processed)
	}
}
