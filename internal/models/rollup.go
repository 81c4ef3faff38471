// ABOUTME: Weekly and monthly rollup summary models
// ABOUTME: Upserted per (user, period-start) so regeneration is idempotent
package models

import "time"

// GoalProgressNote is one qualitative progress observation for a goal
type GoalProgressNote struct {
	Note string `json:"note"`
}

// WeeklySummary aggregates a user's conversation summaries over one week
type WeeklySummary struct {
	UserID          string             `json:"user_id"`
	WeekStart       time.Time          `json:"week_start"`
	WeekEnd         time.Time          `json:"week_end"`
	Summary         string             `json:"summary"`
	ProgressNotes   string             `json:"progress_notes"`
	GoalsProgress   []GoalProgressNote `json:"goals_progress"`
	KeyDecisions    []string           `json:"key_decisions"`
	ChallengesFaced []string           `json:"challenges_faced"`
	Wins            []string           `json:"wins"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// MonthlySummary aggregates a user's weekly summaries over one month.
// The count fields are computed from stored conversation summaries,
// never taken from model output.
type MonthlySummary struct {
	UserID              string             `json:"user_id"`
	MonthStart          time.Time          `json:"month_start"`
	MonthEnd            time.Time          `json:"month_end"`
	Summary             string             `json:"summary"`
	GoalsProgress       []GoalProgressNote `json:"goals_progress"`
	MilestonesAchieved  []string           `json:"milestones_achieved"`
	RecurringThemes     []string           `json:"recurring_themes"`
	BehavioralPatterns  []string           `json:"behavioral_patterns"`
	GrowthAreas         []string           `json:"growth_areas"`
	SessionsCount       int                `json:"sessions_count"`
	BreakthroughsCount  int                `json:"breakthroughs_count"`
	DecisionsCount      int                `json:"decisions_count"`
	FocusAreasNextMonth []string           `json:"focus_areas_next_month"`
	CoachObservations   string             `json:"coach_observations"`
	GeneratedAt         time.Time          `json:"generated_at"`
}
