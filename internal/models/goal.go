// ABOUTME: Goal model for user coaching goals
// ABOUTME: Priority 1 is highest; active goals feed the context assembler
package models

import "time"

// Goal statuses
const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusArchived  = "archived"
)

// Goal represents a coaching goal the user is working toward
type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	Priority    int        `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}
