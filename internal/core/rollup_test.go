// ABOUTME: Tests for weekly and monthly rollup generation
// ABOUTME: Verifies empty-period handling, idempotence, and data-derived counts
package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cadencehq/coachmem/internal/models"
	"github.com/cadencehq/coachmem/internal/storage/sqlite"
)

const validWeeklyJSON = `{
	"summary": "A productive week focused on hiring.",
	"progress_notes": "Moved the hiring goal forward.",
	"goals_progress": [{"note": "drafted the job description"}],
	"key_decisions": [],
	"challenges_faced": [],
	"wins": []
}`

const validMonthlyJSON = `{
	"summary": "A month of steady execution.",
	"goals_progress": [{"note": "hiring pipeline is live"}],
	"milestones_achieved": ["first candidate interviews"],
	"recurring_themes": ["delegation"],
	"behavioral_patterns": ["over-prepares for decisions"],
	"growth_areas": ["letting go of control"],
	"focus_areas_next_month": ["close the hire"],
	"coach_observations": "Confidence is growing week over week."
}`

// seedSessionSummary upserts a conversation summary generated at the
// given time, with two breakthroughs and one decision
func seedSessionSummary(t *testing.T, store *sqlite.SummaryStore, convID, userID string, generatedAt time.Time) {
	t.Helper()
	if err := store.Upsert(&models.ConversationSummary{
		ConversationID:     convID,
		UserID:             userID,
		Summary:            "session " + convID,
		KeyTopics:          []string{"hiring"},
		DecisionsMade:      []string{"decision from " + convID},
		BlockersIdentified: []string{"blocker from " + convID},
		Breakthroughs:      []string{convID + " breakthrough one", convID + " breakthrough two"},
		MessageCount:       4,
		GeneratedAt:        generatedAt,
	}); err != nil {
		t.Fatalf("Upsert(%s) error = %v", convID, err)
	}
}

func TestGenerateWeeklySummaryEmptyWeek(t *testing.T) {
	store := newTestStorage(t)
	gen := NewRollupGenerator(store, &fakeChat{}, nil)

	weekly, err := gen.GenerateWeeklySummary(context.Background(), "user_1",
		time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GenerateWeeklySummary() error = %v", err)
	}
	if weekly != nil {
		t.Errorf("expected nil for an empty week, got %+v", weekly)
	}
}

func TestGenerateWeeklySummaryFactualFallback(t *testing.T) {
	store := newTestStorage(t)
	weekStart := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	seedSessionSummary(t, store.Summaries(), "conv_1", "user_1", weekStart.Add(24*time.Hour))
	seedSessionSummary(t, store.Summaries(), "conv_2", "user_1", weekStart.Add(72*time.Hour))

	chat := &fakeChat{responses: []string{validWeeklyJSON}}
	gen := NewRollupGenerator(store, chat, nil)

	weekly, err := gen.GenerateWeeklySummary(context.Background(), "user_1", weekStart)
	if err != nil {
		t.Fatalf("GenerateWeeklySummary() error = %v", err)
	}
	if weekly == nil {
		t.Fatal("expected a weekly summary")
	}

	// the model returned empty lists, so the session facts fill them
	if len(weekly.KeyDecisions) != 2 {
		t.Errorf("KeyDecisions = %v, want the 2 session decisions", weekly.KeyDecisions)
	}
	if len(weekly.ChallengesFaced) != 2 {
		t.Errorf("ChallengesFaced = %v, want the 2 session blockers", weekly.ChallengesFaced)
	}
	if len(weekly.Wins) != 4 {
		t.Errorf("Wins = %v, want the 4 session breakthroughs", weekly.Wins)
	}
	if !weekly.WeekEnd.Equal(weekStart.AddDate(0, 0, 7)) {
		t.Errorf("WeekEnd = %v, want %v", weekly.WeekEnd, weekStart.AddDate(0, 0, 7))
	}
}

func TestGenerateWeeklySummaryPromptIncludesActiveGoals(t *testing.T) {
	store := newTestStorage(t)
	weekStart := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	seedSessionSummary(t, store.Summaries(), "conv_1", "user_1", weekStart.Add(time.Hour))

	if err := store.Goals().Save(&models.Goal{
		UserID:   "user_1",
		Title:    "Hire a head of sales",
		Priority: 1,
		Status:   models.GoalStatusActive,
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	chat := &fakeChat{responses: []string{validWeeklyJSON}}
	gen := NewRollupGenerator(store, chat, nil)
	if _, err := gen.GenerateWeeklySummary(context.Background(), "user_1", weekStart); err != nil {
		t.Fatalf("GenerateWeeklySummary() error = %v", err)
	}

	if len(chat.requests) != 1 {
		t.Fatalf("got %d completion requests, want 1", len(chat.requests))
	}
	prompt := chat.requests[0].Messages[0].Content
	if !strings.Contains(prompt, "Active goals:") {
		t.Errorf("prompt missing goals header:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Hire a head of sales") {
		t.Errorf("prompt missing goal title:\n%s", prompt)
	}
}

func TestGenerateWeeklySummaryIdempotent(t *testing.T) {
	store := newTestStorage(t)
	weekStart := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	seedSessionSummary(t, store.Summaries(), "conv_1", "user_1", weekStart.Add(time.Hour))

	chat := &fakeChat{responses: []string{validWeeklyJSON, validWeeklyJSON}}
	gen := NewRollupGenerator(store, chat, nil)

	for i := 0; i < 2; i++ {
		if _, err := gen.GenerateWeeklySummary(context.Background(), "user_1", weekStart); err != nil {
			t.Fatalf("run %d: GenerateWeeklySummary() error = %v", i, err)
		}
	}

	count, err := store.Rollups().CountWeeklies("user_1")
	if err != nil {
		t.Fatalf("CountWeeklies() error = %v", err)
	}
	if count != 1 {
		t.Errorf("weekly rows = %d after regeneration, want 1", count)
	}
}

func TestGenerateMonthlySummaryEmptyMonth(t *testing.T) {
	store := newTestStorage(t)
	gen := NewRollupGenerator(store, &fakeChat{}, nil)

	monthly, err := gen.GenerateMonthlySummary(context.Background(), "user_1",
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GenerateMonthlySummary() error = %v", err)
	}
	if monthly != nil {
		t.Errorf("expected nil for an empty month, got %+v", monthly)
	}
}

func TestGenerateMonthlySummaryCountsComeFromData(t *testing.T) {
	store := newTestStorage(t)
	monthStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// three sessions in the month, each with 2 breakthroughs and 1 decision
	for i, convID := range []string{"conv_1", "conv_2", "conv_3"} {
		seedSessionSummary(t, store.Summaries(), convID, "user_1",
			monthStart.AddDate(0, 0, i*7).Add(time.Hour))
	}

	weekStarts := []time.Time{
		monthStart.AddDate(0, 0, 2),
		monthStart.AddDate(0, 0, 9),
	}
	chat := &fakeChat{responses: []string{validWeeklyJSON, validWeeklyJSON, validMonthlyJSON}}
	gen := NewRollupGenerator(store, chat, nil)
	for _, ws := range weekStarts {
		if _, err := gen.GenerateWeeklySummary(context.Background(), "user_1", ws); err != nil {
			t.Fatalf("GenerateWeeklySummary(%v) error = %v", ws, err)
		}
	}

	monthly, err := gen.GenerateMonthlySummary(context.Background(), "user_1", monthStart)
	if err != nil {
		t.Fatalf("GenerateMonthlySummary() error = %v", err)
	}
	if monthly == nil {
		t.Fatal("expected a monthly summary")
	}
	if monthly.SessionsCount != 3 {
		t.Errorf("SessionsCount = %d, want 3", monthly.SessionsCount)
	}
	if monthly.BreakthroughsCount != 6 {
		t.Errorf("BreakthroughsCount = %d, want 6", monthly.BreakthroughsCount)
	}
	if monthly.DecisionsCount != 3 {
		t.Errorf("DecisionsCount = %d, want 3", monthly.DecisionsCount)
	}

	latest, err := gen.GetLatestMonthlySummary("user_1")
	if err != nil {
		t.Fatalf("GetLatestMonthlySummary() error = %v", err)
	}
	if latest == nil || !latest.MonthStart.Equal(monthStart) {
		t.Errorf("latest monthly = %+v", latest)
	}
}

func TestGenerateMonthlySummaryPromptIncludesCompletedGoals(t *testing.T) {
	store := newTestStorage(t)
	monthStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seedSessionSummary(t, store.Summaries(), "conv_1", "user_1", monthStart.Add(time.Hour))

	for _, goal := range []models.Goal{
		{UserID: "user_1", Title: "Hire a head of sales", Priority: 1, Status: models.GoalStatusActive},
		{UserID: "user_1", Title: "Close the seed round", Priority: 2, Status: models.GoalStatusCompleted},
	} {
		g := goal
		if err := store.Goals().Save(&g); err != nil {
			t.Fatalf("Save(%s) error = %v", g.Title, err)
		}
	}

	chat := &fakeChat{responses: []string{validWeeklyJSON, validMonthlyJSON}}
	gen := NewRollupGenerator(store, chat, nil)
	if _, err := gen.GenerateWeeklySummary(context.Background(), "user_1", monthStart); err != nil {
		t.Fatalf("GenerateWeeklySummary() error = %v", err)
	}
	if _, err := gen.GenerateMonthlySummary(context.Background(), "user_1", monthStart); err != nil {
		t.Fatalf("GenerateMonthlySummary() error = %v", err)
	}

	if len(chat.requests) != 2 {
		t.Fatalf("got %d completion requests, want 2", len(chat.requests))
	}
	prompt := chat.requests[1].Messages[0].Content
	if !strings.Contains(prompt, "Goals:") {
		t.Errorf("prompt missing goals header:\n%s", prompt)
	}
	// the month view pulls every goal, completed ones included
	if !strings.Contains(prompt, "Close the seed round (completed)") {
		t.Errorf("prompt missing completed goal:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Hire a head of sales (active)") {
		t.Errorf("prompt missing active goal:\n%s", prompt)
	}
}

func TestGetRecentSummariesOrdering(t *testing.T) {
	store := newTestStorage(t)
	chat := &fakeChat{responses: []string{validWeeklyJSON, validWeeklyJSON}}
	gen := NewRollupGenerator(store, chat, nil)

	older := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	seedSessionSummary(t, store.Summaries(), "conv_1", "user_1", older.Add(time.Hour))
	seedSessionSummary(t, store.Summaries(), "conv_2", "user_1", newer.Add(time.Hour))

	for _, ws := range []time.Time{older, newer} {
		if _, err := gen.GenerateWeeklySummary(context.Background(), "user_1", ws); err != nil {
			t.Fatalf("GenerateWeeklySummary(%v) error = %v", ws, err)
		}
	}

	recent, err := gen.GetRecentSummaries("user_1", 10)
	if err != nil {
		t.Fatalf("GetRecentSummaries() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d weeklies, want 2", len(recent))
	}
	if !recent[0].WeekStart.Equal(newer) {
		t.Errorf("recent[0].WeekStart = %v, want %v", recent[0].WeekStart, newer)
	}
}
