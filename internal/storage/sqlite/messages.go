// ABOUTME: Message and conversation persistence
// ABOUTME: Messages are append-only; this store never updates or deletes them
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cadencehq/coachmem/internal/models"
)

// MessageStore handles conversation and message persistence
type MessageStore struct {
	db *DB
}

// NewMessageStore creates a new MessageStore
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// CreateConversation creates a new conversation
func (s *MessageStore) CreateConversation(conv *models.Conversation) error {
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO conversations (id, user_id, title, created_at, ended_at)
		VALUES (?, ?, ?, ?, ?)
	`, conv.ID, conv.UserID, nullString(conv.Title), conv.CreatedAt, nullTime(conv.EndedAt))
	return err
}

// GetConversation retrieves a conversation by ID, nil if not found
func (s *MessageStore) GetConversation(id string) (*models.Conversation, error) {
	var (
		conv    models.Conversation
		title   sql.NullString
		endedAt sql.NullTime
	)

	err := s.db.QueryRow(`
		SELECT id, user_id, title, created_at, ended_at
		FROM conversations
		WHERE id = ?
	`, id).Scan(&conv.ID, &conv.UserID, &title, &conv.CreatedAt, &endedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	conv.Title = title.String
	conv.EndedAt = timePtr(endedAt)

	return &conv, nil
}

// EndConversation marks a conversation as ended
func (s *MessageStore) EndConversation(id string, endedAt time.Time) error {
	_, err := s.db.Exec(`UPDATE conversations SET ended_at = ? WHERE id = ?`, endedAt, id)
	return err
}

// SaveMessage appends a message to a conversation
func (s *MessageStore) SaveMessage(msg *models.Message) error {
	if msg.Role != models.RoleUser && msg.Role != models.RoleAssistant {
		return fmt.Errorf("invalid message role: %q", msg.Role)
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO messages (id, conversation_id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, msg.UserID, string(msg.Role), msg.Content, msg.CreatedAt)

	return err
}

// GetMessages returns all messages of a conversation in chronological order
func (s *MessageStore) GetMessages(conversationID string) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, conversation_id, user_id, role, content, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// GetRecentMessages returns up to limit most recent messages of a
// conversation, in chronological order
func (s *MessageStore) GetRecentMessages(conversationID string, limit int) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, conversation_id, user_id, role, content, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	// Reverse newest-first to chronological order for the prompt
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// CountMessages returns the number of messages in a conversation
func (s *MessageStore) CountMessages(conversationID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE conversation_id = ?`, conversationID).Scan(&count)
	return count, err
}

// scanMessages scans rows into messages
func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	var messages []models.Message

	for rows.Next() {
		var (
			msg  models.Message
			role string
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.UserID, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Role = models.Role(role)
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
