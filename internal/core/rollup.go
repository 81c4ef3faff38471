// ABOUTME: Weekly and monthly rollup generation over stored session summaries
// ABOUTME: Narrative comes from the model; counts always come from the data
package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cadencehq/coachmem/internal/llm"
	"github.com/cadencehq/coachmem/internal/models"
	"github.com/cadencehq/coachmem/internal/storage/sqlite"
)

const weeklySystemPrompt = `You are an expert coaching analyst. You read the structured summaries of a user's coaching sessions from one week and produce a weekly digest.

Respond with a single JSON object with exactly these fields:
{
  "summary": "3-5 sentence narrative of the week",
  "progress_notes": "1-3 sentences on overall progress",
  "goals_progress": [{"note": "one observation about progress on a goal"}, ...],
  "key_decisions": ["decision", ...],
  "challenges_faced": ["challenge", ...],
  "wins": ["win", ...]
}

Use empty arrays and empty strings for anything the sessions do not support. Never invent content.`

const monthlySystemPrompt = `You are an expert coaching analyst. You read a user's weekly coaching digests from one month and produce a monthly review.

Respond with a single JSON object with exactly these fields:
{
  "summary": "4-6 sentence narrative of the month",
  "goals_progress": [{"note": "one observation about progress on a goal"}, ...],
  "milestones_achieved": ["milestone", ...],
  "recurring_themes": ["theme", ...],
  "behavioral_patterns": ["pattern", ...],
  "growth_areas": ["area", ...],
  "focus_areas_next_month": ["focus", ...],
  "coach_observations": "2-3 sentences of meta-observations for the coach"
}

Use empty arrays and empty strings for anything the digests do not support. Never invent content.`

type weeklyPayload struct {
	Summary         string                    `json:"summary"`
	ProgressNotes   string                    `json:"progress_notes"`
	GoalsProgress   []models.GoalProgressNote `json:"goals_progress"`
	KeyDecisions    []string                  `json:"key_decisions"`
	ChallengesFaced []string                  `json:"challenges_faced"`
	Wins            []string                  `json:"wins"`
}

type monthlyPayload struct {
	Summary             string                    `json:"summary"`
	GoalsProgress       []models.GoalProgressNote `json:"goals_progress"`
	MilestonesAchieved  []string                  `json:"milestones_achieved"`
	RecurringThemes     []string                  `json:"recurring_themes"`
	BehavioralPatterns  []string                  `json:"behavioral_patterns"`
	GrowthAreas         []string                  `json:"growth_areas"`
	FocusAreasNextMonth []string                  `json:"focus_areas_next_month"`
	CoachObservations   string                    `json:"coach_observations"`
}

// RollupGenerator builds weekly and monthly summaries from stored data
type RollupGenerator struct {
	store  *sqlite.Storage
	client llm.ChatClient
	logger *slog.Logger
}

// NewRollupGenerator creates a new RollupGenerator
func NewRollupGenerator(store *sqlite.Storage, client llm.ChatClient, logger *slog.Logger) *RollupGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RollupGenerator{
		store:  store,
		client: client,
		logger: logger,
	}
}

// GenerateWeeklySummary rolls up the user's conversation summaries for the
// week starting at weekStart (inclusive, seven days). Returns (nil, nil)
// when the week has no summaries. The result is upserted per (user, week)
// so re-running a week replaces it. When the model returns empty decision,
// challenge, or win lists, the factual lists aggregated from the session
// summaries are used instead.
func (g *RollupGenerator) GenerateWeeklySummary(ctx context.Context, userID string, weekStart time.Time) (*models.WeeklySummary, error) {
	weekStart = weekStart.UTC().Truncate(24 * time.Hour)
	weekEnd := weekStart.AddDate(0, 0, 7)

	summaries, err := g.store.Summaries().GetByGeneratedRange(userID, weekStart, weekEnd.Add(-time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("load session summaries: %w", err)
	}
	if len(summaries) == 0 {
		return nil, nil
	}

	content := formatSummariesForRollup(summaries)
	if goals, err := g.store.Goals().GetActive(userID, MaxContextGoals); err != nil {
		g.logger.Warn("goals fetch failed, rolling up without them", "user_id", userID, "error", err)
	} else if len(goals) > 0 {
		content = "Active goals:\n" + formatGoalsForRollup(goals, false) + "\n" + content
	}

	resp, err := g.client.CreateCompletion(ctx, llm.CompletionRequest{
		System: weeklySystemPrompt,
		Messages: []llm.ChatMessage{
			{Role: "user", Content: content},
		},
		Temperature: 0.3,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("weekly completion: %w", err)
	}

	var payload weeklyPayload
	if err := llm.DecodeStrict(resp.Content, &payload); err != nil {
		return nil, err
	}

	decisions, blockers, breakthroughs := aggregateSessionFacts(summaries)
	if len(payload.KeyDecisions) == 0 {
		payload.KeyDecisions = decisions
	}
	if len(payload.ChallengesFaced) == 0 {
		payload.ChallengesFaced = blockers
	}
	if len(payload.Wins) == 0 {
		payload.Wins = breakthroughs
	}

	weekly := &models.WeeklySummary{
		UserID:          userID,
		WeekStart:       weekStart,
		WeekEnd:         weekEnd,
		Summary:         payload.Summary,
		ProgressNotes:   payload.ProgressNotes,
		GoalsProgress:   payload.GoalsProgress,
		KeyDecisions:    payload.KeyDecisions,
		ChallengesFaced: payload.ChallengesFaced,
		Wins:            payload.Wins,
		GeneratedAt:     time.Now().UTC(),
	}

	if err := g.store.Rollups().UpsertWeekly(weekly); err != nil {
		return nil, fmt.Errorf("store weekly summary: %w", err)
	}

	return weekly, nil
}

// GenerateMonthlySummary rolls up the user's weekly summaries for the
// calendar month starting at monthStart. Returns (nil, nil) when the month
// has no weekly summaries. SessionsCount, BreakthroughsCount, and
// DecisionsCount are computed from the stored conversation summaries of
// the month, regardless of what the model says.
func (g *RollupGenerator) GenerateMonthlySummary(ctx context.Context, userID string, monthStart time.Time) (*models.MonthlySummary, error) {
	monthStart = time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	weeklies, err := g.store.Rollups().GetWeekliesInRange(userID, monthStart, monthEnd.Add(-time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("load weekly summaries: %w", err)
	}
	if len(weeklies) == 0 {
		return nil, nil
	}

	// the month view includes completed goals so progress on finished
	// work still shows up in the review
	content := formatWeekliesForRollup(weeklies)
	if goals, err := g.store.Goals().GetAll(userID); err != nil {
		g.logger.Warn("goals fetch failed, rolling up without them", "user_id", userID, "error", err)
	} else if len(goals) > 0 {
		content = "Goals:\n" + formatGoalsForRollup(goals, true) + "\n" + content
	}

	resp, err := g.client.CreateCompletion(ctx, llm.CompletionRequest{
		System: monthlySystemPrompt,
		Messages: []llm.ChatMessage{
			{Role: "user", Content: content},
		},
		Temperature: 0.3,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("monthly completion: %w", err)
	}

	var payload monthlyPayload
	if err := llm.DecodeStrict(resp.Content, &payload); err != nil {
		return nil, err
	}

	monthly := &models.MonthlySummary{
		UserID:              userID,
		MonthStart:          monthStart,
		MonthEnd:            monthEnd,
		Summary:             payload.Summary,
		GoalsProgress:       payload.GoalsProgress,
		MilestonesAchieved:  payload.MilestonesAchieved,
		RecurringThemes:     payload.RecurringThemes,
		BehavioralPatterns:  payload.BehavioralPatterns,
		GrowthAreas:         payload.GrowthAreas,
		FocusAreasNextMonth: payload.FocusAreasNextMonth,
		CoachObservations:   payload.CoachObservations,
		GeneratedAt:         time.Now().UTC(),
	}

	sessions, err := g.store.Summaries().GetByGeneratedRange(userID, monthStart, monthEnd.Add(-time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	monthly.SessionsCount = len(sessions)
	for _, cs := range sessions {
		monthly.BreakthroughsCount += len(cs.Breakthroughs)
		monthly.DecisionsCount += len(cs.DecisionsMade)
	}

	if err := g.store.Rollups().UpsertMonthly(monthly); err != nil {
		return nil, fmt.Errorf("store monthly summary: %w", err)
	}

	return monthly, nil
}

// GetRecentSummaries returns up to limit weekly summaries, newest first
func (g *RollupGenerator) GetRecentSummaries(userID string, limit int) ([]models.WeeklySummary, error) {
	return g.store.Rollups().GetRecentWeeklies(userID, limit)
}

// GetLatestMonthlySummary returns the newest monthly summary, or nil
func (g *RollupGenerator) GetLatestMonthlySummary(userID string) (*models.MonthlySummary, error) {
	return g.store.Rollups().GetLatestMonthly(userID)
}

// aggregateSessionFacts collects the factual lists from session summaries
func aggregateSessionFacts(summaries []models.ConversationSummary) (decisions, blockers, breakthroughs []string) {
	for _, cs := range summaries {
		decisions = append(decisions, cs.DecisionsMade...)
		blockers = append(blockers, cs.BlockersIdentified...)
		breakthroughs = append(breakthroughs, cs.Breakthroughs...)
	}
	return decisions, blockers, breakthroughs
}

func formatSummariesForRollup(summaries []models.ConversationSummary) string {
	var sb strings.Builder
	for i, cs := range summaries {
		fmt.Fprintf(&sb, "Session %d (%s):\n", i+1, cs.GeneratedAt.Format("2006-01-02"))
		fmt.Fprintf(&sb, "Summary: %s\n", cs.Summary)
		writeListLine(&sb, "Key topics", cs.KeyTopics)
		writeListLine(&sb, "Decisions", cs.DecisionsMade)
		writeListLine(&sb, "Blockers", cs.BlockersIdentified)
		writeListLine(&sb, "Breakthroughs", cs.Breakthroughs)
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatGoalsForRollup renders goals one per line, optionally with status
func formatGoalsForRollup(goals []models.Goal, withStatus bool) string {
	var sb strings.Builder
	for _, g := range goals {
		if withStatus {
			fmt.Fprintf(&sb, "- %s (%s)\n", g.Title, g.Status)
		} else {
			fmt.Fprintf(&sb, "- %s\n", g.Title)
		}
	}
	return sb.String()
}

func formatWeekliesForRollup(weeklies []models.WeeklySummary) string {
	var sb strings.Builder
	for _, ws := range weeklies {
		fmt.Fprintf(&sb, "Week of %s:\n", ws.WeekStart.Format("2006-01-02"))
		fmt.Fprintf(&sb, "Summary: %s\n", ws.Summary)
		if ws.ProgressNotes != "" {
			fmt.Fprintf(&sb, "Progress: %s\n", ws.ProgressNotes)
		}
		writeListLine(&sb, "Decisions", ws.KeyDecisions)
		writeListLine(&sb, "Challenges", ws.ChallengesFaced)
		writeListLine(&sb, "Wins", ws.Wins)
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeListLine(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s: %s\n", label, strings.Join(items, "; "))
}
