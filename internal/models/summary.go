// ABOUTME: ConversationSummary model for per-session LLM-derived insight
// ABOUTME: At most one per conversation, regenerating overwrites via upsert
package models

import "time"

// ConversationSummary captures the structured takeaways of one coaching
// session. Derived data: re-computable from the source messages.
type ConversationSummary struct {
	ConversationID       string    `json:"conversation_id"`
	UserID               string    `json:"user_id"`
	Summary              string    `json:"summary"`
	KeyTopics            []string  `json:"key_topics"`
	DecisionsMade        []string  `json:"decisions_made"`
	ActionItemsDiscussed []string  `json:"action_items_discussed"`
	GoalsReferenced      []string  `json:"goals_referenced"`
	BlockersIdentified   []string  `json:"blockers_identified"`
	Breakthroughs        []string  `json:"breakthroughs"`
	PatternsNoticed      []string  `json:"patterns_noticed"`
	UserState            string    `json:"user_state"`
	CoachingApproachUsed string    `json:"coaching_approach_used"`
	SessionValue         string    `json:"session_value"`
	Embedding            []float64 `json:"embedding,omitempty"`
	MessageCount         int       `json:"message_count"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// RetrievedSummary is a semantic search hit over stored summary embeddings
type RetrievedSummary struct {
	ConversationID string    `json:"conversation_id"`
	Summary        string    `json:"summary"`
	KeyTopics      []string  `json:"key_topics"`
	Similarity     float64   `json:"similarity"`
	GeneratedAt    time.Time `json:"generated_at"`
}
