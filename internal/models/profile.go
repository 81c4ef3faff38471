// ABOUTME: Profile and BusinessProfile models for user context
// ABOUTME: All business fields are optional; absent fields are omitted from prompts
package models

// Profile holds the user's basic identity for prompt context
type Profile struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// BusinessProfile holds optional business context fields. Every field may
// be empty; formatting emits only the fields that are set.
type BusinessProfile struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role,omitempty"`
	Industry string `json:"industry,omitempty"`
	Stage    string `json:"stage,omitempty"`
	TeamSize int    `json:"team_size,omitempty"`
}

// IsEmpty reports whether no business field is set
func (bp *BusinessProfile) IsEmpty() bool {
	return bp == nil || (bp.Role == "" && bp.Industry == "" && bp.Stage == "" && bp.TeamSize == 0)
}
