// ABOUTME: UserContext is the ephemeral assembled context for one request
// ABOUTME: Never persisted; recomputed from live tables on every turn
package models

// UserContext bundles everything the context assembler gathers for a
// single chat turn. RelevantHistory is only populated on the RAG path.
type UserContext struct {
	Profile         Profile            `json:"profile"`
	Business        BusinessProfile    `json:"business"`
	Goals           []Goal             `json:"goals"`
	ActionItems     []ActionItem       `json:"action_items"`
	RecentHistory   []Message          `json:"recent_history"`
	RelevantHistory []RetrievedMessage `json:"relevant_history,omitempty"`
}
