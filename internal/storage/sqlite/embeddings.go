// ABOUTME: Message embedding storage and similarity search
// ABOUTME: Mirrors the managed-store vector RPC: user filter, threshold, count cap
package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/cadencehq/coachmem/internal/models"
)

// EmbeddingStore handles message embedding persistence and search
type EmbeddingStore struct {
	db *DB
}

// NewEmbeddingStore creates a new EmbeddingStore
func NewEmbeddingStore(db *DB) *EmbeddingStore {
	return &EmbeddingStore{db: db}
}

// Save stores an embedding for a message. Keyed on message_id so a
// re-run backfill cannot create duplicate rows.
func (s *EmbeddingStore) Save(emb *models.MessageEmbedding) error {
	if len(emb.Vector) != ExpectedDimension {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", ExpectedDimension, len(emb.Vector))
	}
	return s.save(emb)
}

// SaveWithDimension stores an embedding with a custom dimension (for testing)
func (s *EmbeddingStore) SaveWithDimension(emb *models.MessageEmbedding, expectedDim int) error {
	if len(emb.Vector) != expectedDim {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", expectedDim, len(emb.Vector))
	}
	return s.save(emb)
}

func (s *EmbeddingStore) save(emb *models.MessageEmbedding) error {
	if emb.CreatedAt.IsZero() {
		emb.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO message_embeddings (message_id, conversation_id, user_id, role, content, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id) DO UPDATE SET
			vector = excluded.vector,
			content = excluded.content
	`, emb.MessageID, emb.ConversationID, emb.UserID, string(emb.Role), emb.Content, vectorToBlob(emb.Vector), emb.CreatedAt)

	return err
}

// GetByMessageID retrieves an embedding by message ID, nil if not found
func (s *EmbeddingStore) GetByMessageID(messageID string) (*models.MessageEmbedding, error) {
	var (
		emb  models.MessageEmbedding
		role string
		blob []byte
	)

	err := s.db.QueryRow(`
		SELECT message_id, conversation_id, user_id, role, content, vector, created_at
		FROM message_embeddings
		WHERE message_id = ?
	`, messageID).Scan(&emb.MessageID, &emb.ConversationID, &emb.UserID, &role, &emb.Content, &blob, &emb.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	emb.Role = models.Role(role)
	emb.Vector = blobToVector(blob)

	return &emb, nil
}

// SearchSimilar performs cosine similarity search over one user's message
// embeddings. Results below threshold are dropped, the rest sorted by
// similarity descending and capped at limit. excludeConversationID, when
// non-empty, keeps the active session out of its own retrieval results.
func (s *EmbeddingStore) SearchSimilar(userID string, queryVector []float64, threshold float64, limit int, excludeConversationID string) ([]models.RetrievedMessage, error) {
	rows, err := s.db.Query(`
		SELECT message_id, conversation_id, role, content, vector, created_at
		FROM message_embeddings
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []models.RetrievedMessage

	for rows.Next() {
		var (
			msg  models.RetrievedMessage
			role string
			blob []byte
		)

		if err := rows.Scan(&msg.ID, &msg.ConversationID, &role, &msg.Content, &blob, &msg.CreatedAt); err != nil {
			return nil, err
		}

		if excludeConversationID != "" && msg.ConversationID == excludeConversationID {
			continue
		}

		similarity := CosineSimilarity(queryVector, blobToVector(blob))
		if similarity < threshold {
			continue
		}

		msg.Role = models.Role(role)
		msg.Similarity = similarity
		results = append(results, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// MessagesWithoutEmbeddings finds messages lacking an embedding row,
// oldest first, bounded by limit. Used by the batch backfill job.
func (s *EmbeddingStore) MessagesWithoutEmbeddings(limit int) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT m.id, m.conversation_id, m.user_id, m.role, m.content, m.created_at
		FROM messages m
		LEFT JOIN message_embeddings e ON e.message_id = m.id
		WHERE e.message_id IS NULL
		ORDER BY m.created_at ASC, m.id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}
