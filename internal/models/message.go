// ABOUTME: Message and MessageEmbedding models for conversation storage
// ABOUTME: Messages are immutable once created; embeddings are derived async
package models

import "time"

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label returns the capitalized role label used in transcripts and
// embedding text ("User", "Assistant")
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// Message represents a single conversation turn, immutable once created
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessageEmbedding is the stored vector for a message, one-to-one with
// its Message and created asynchronously after it
type MessageEmbedding struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Vector         []float64 `json:"vector"`
	CreatedAt      time.Time `json:"created_at"`
}

// RetrievedMessage is a semantic search hit with its similarity score
type RetrievedMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Similarity     float64   `json:"similarity"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation groups messages for a single coaching session
type Conversation struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}
