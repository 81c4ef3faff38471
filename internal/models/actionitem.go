// ABOUTME: ActionItem model for explicit user commitments extracted from sessions
// ABOUTME: Persisted as pending tasks; empty extraction is the common case
package models

import "time"

// Action item statuses
const (
	ActionItemPending   = "pending"
	ActionItemCompleted = "completed"
)

// ActionItem is a commitment the user made during a coaching session
type ActionItem struct {
	ID             string     `json:"id,omitempty"`
	UserID         string     `json:"user_id"`
	ConversationID string     `json:"conversation_id"`
	Task           string     `json:"task"`
	Description    string     `json:"description,omitempty"`
	Priority       string     `json:"priority,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}
