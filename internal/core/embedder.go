// ABOUTME: Message embedding pipeline, fire-and-forget relative to the send path
// ABOUTME: Failures are logged and skipped; the batch backfill picks up stragglers
package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cadencehq/coachmem/internal/llm"
	"github.com/cadencehq/coachmem/internal/models"
	"github.com/cadencehq/coachmem/internal/storage/sqlite"
)

// Embedder turns stored messages into searchable embedding rows
type Embedder struct {
	store  *sqlite.Storage
	client llm.EmbeddingClient
	logger *slog.Logger
	wg     sync.WaitGroup // tracks detached embedding work for shutdown
}

// NewEmbedder creates a new Embedder
func NewEmbedder(store *sqlite.Storage, client llm.EmbeddingClient, logger *slog.Logger) *Embedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Embedder{
		store:  store,
		client: client,
		logger: logger,
	}
}

// EmbeddingText builds the enriched string that gets embedded for a
// message: role label plus content, so retrieval carries speaker context.
func EmbeddingText(msg models.Message) string {
	return fmt.Sprintf("%s: %s", msg.Role.Label(), msg.Content)
}

// ProcessMessageEmbedding embeds one message and stores the vector.
// Best-effort: failures are logged, never surfaced, and never roll back
// the message write. A failed message is skipped until the next backfill.
func (e *Embedder) ProcessMessageEmbedding(ctx context.Context, msg models.Message) {
	if err := e.embedMessage(ctx, msg); err != nil {
		e.logger.Warn("message embedding failed",
			"message_id", msg.ID,
			"conversation_id", msg.ConversationID,
			"error", err)
	}
}

// ProcessMessageEmbeddingAsync runs the embedding pipeline in a detached
// goroutine. The caller responds to the user without waiting. At-most-once:
// errors are logged, there is no retry queue.
func (e *Embedder) ProcessMessageEmbeddingAsync(msg models.Message) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("panic in embedding pipeline", "message_id", msg.ID, "panic", r)
			}
		}()
		e.ProcessMessageEmbedding(context.Background(), msg)
	}()
}

// Wait blocks until all detached embedding work has finished. Used at
// shutdown and in tests.
func (e *Embedder) Wait() {
	e.wg.Wait()
}

// BatchProcessEmbeddings finds messages lacking embeddings and processes
// up to limit of them, oldest first. Per-message failures are logged and
// skipped. Returns the number successfully embedded.
func (e *Embedder) BatchProcessEmbeddings(ctx context.Context, limit int) (int, error) {
	messages, err := e.store.Embeddings().MessagesWithoutEmbeddings(limit)
	if err != nil {
		return 0, fmt.Errorf("failed to find messages without embeddings: %w", err)
	}

	processed := 0
	for _, msg := range messages {
		if err := e.embedMessage(ctx, msg); err != nil {
			e.logger.Warn("backfill embedding failed", "message_id", msg.ID, "error", err)
			continue
		}
		processed++
	}

	e.logger.Info("embedding backfill complete", "processed", processed, "candidates", len(messages))
	return processed, nil
}

// embedMessage is the shared synchronous implementation
func (e *Embedder) embedMessage(ctx context.Context, msg models.Message) error {
	vector, err := e.client.GenerateEmbedding(ctx, EmbeddingText(msg))
	if err != nil {
		return fmt.Errorf("embedding generation: %w", err)
	}

	emb := &models.MessageEmbedding{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		UserID:         msg.UserID,
		Role:           msg.Role,
		Content:        msg.Content,
		Vector:         vector,
		CreatedAt:      msg.CreatedAt,
	}
	if err := e.store.Embeddings().Save(emb); err != nil {
		return fmt.Errorf("embedding persistence: %w", err)
	}

	return nil
}
