// ABOUTME: Semantic retriever over stored message embeddings
// ABOUTME: RAG is an enhancement: query failures degrade to empty results, never errors
package core

import (
	"context"
	"log/slog"

	"github.com/cadencehq/coachmem/internal/llm"
	"github.com/cadencehq/coachmem/internal/models"
	"github.com/cadencehq/coachmem/internal/storage/sqlite"
)

// DefaultSimilarityThreshold is the minimum cosine similarity for a
// retrieved item to be considered relevant
const DefaultSimilarityThreshold = 0.7

// Retriever performs similarity search over a user's message history
type Retriever struct {
	store     *sqlite.Storage
	client    llm.EmbeddingClient
	threshold float64
	logger    *slog.Logger
}

// NewRetriever creates a Retriever with the default similarity threshold
func NewRetriever(store *sqlite.Storage, client llm.EmbeddingClient, logger *slog.Logger) *Retriever {
	return NewRetrieverWithThreshold(store, client, DefaultSimilarityThreshold, logger)
}

// NewRetrieverWithThreshold creates a Retriever with a custom threshold
func NewRetrieverWithThreshold(store *sqlite.Storage, client llm.EmbeddingClient, threshold float64, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		store:     store,
		client:    client,
		threshold: threshold,
		logger:    logger,
	}
}

// SearchSimilar returns up to limit messages above the similarity
// threshold, descending by similarity. excludeConversationID keeps the
// active session out of its own retrieval. Empty on any error.
func (r *Retriever) SearchSimilar(ctx context.Context, userID string, queryEmbedding []float64, limit int, excludeConversationID string) []models.RetrievedMessage {
	results, err := r.store.Embeddings().SearchSimilar(userID, queryEmbedding, r.threshold, limit, excludeConversationID)
	if err != nil {
		r.logger.Warn("similarity search failed", "user_id", userID, "error", err)
		return []models.RetrievedMessage{}
	}
	if results == nil {
		return []models.RetrievedMessage{}
	}
	return results
}

// SearchByText embeds the query text and searches. Embedding failure
// degrades to empty results: the chat flow must not depend on RAG.
func (r *Retriever) SearchByText(ctx context.Context, userID, query string, limit int, excludeConversationID string) []models.RetrievedMessage {
	queryEmbedding, err := r.client.GenerateEmbedding(ctx, query)
	if err != nil {
		r.logger.Warn("query embedding failed", "user_id", userID, "error", err)
		return []models.RetrievedMessage{}
	}
	return r.SearchSimilar(ctx, userID, queryEmbedding, limit, excludeConversationID)
}
