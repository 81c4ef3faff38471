// ABOUTME: Weekly and monthly rollup summary persistence
// ABOUTME: Upserts keyed on (user_id, period-start) keep regeneration idempotent
package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cadencehq/coachmem/internal/models"
)

// RollupStore handles weekly and monthly summary persistence
type RollupStore struct {
	db *DB
}

// NewRollupStore creates a new RollupStore
func NewRollupStore(db *DB) *RollupStore {
	return &RollupStore{db: db}
}

// UpsertWeekly stores a weekly summary keyed on (user_id, week_start)
func (s *RollupStore) UpsertWeekly(ws *models.WeeklySummary) error {
	if ws.GeneratedAt.IsZero() {
		ws.GeneratedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO weekly_summaries (
			user_id, week_start, week_end, summary, progress_notes,
			goals_progress, key_decisions, challenges_faced, wins, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, week_start) DO UPDATE SET
			week_end = excluded.week_end,
			summary = excluded.summary,
			progress_notes = excluded.progress_notes,
			goals_progress = excluded.goals_progress,
			key_decisions = excluded.key_decisions,
			challenges_faced = excluded.challenges_faced,
			wins = excluded.wins,
			generated_at = excluded.generated_at
	`, ws.UserID, ws.WeekStart, ws.WeekEnd, ws.Summary, nullString(ws.ProgressNotes),
		marshalProgress(ws.GoalsProgress), marshalStrings(ws.KeyDecisions),
		marshalStrings(ws.ChallengesFaced), marshalStrings(ws.Wins), ws.GeneratedAt)

	return err
}

// UpsertMonthly stores a monthly summary keyed on (user_id, month_start)
func (s *RollupStore) UpsertMonthly(ms *models.MonthlySummary) error {
	if ms.GeneratedAt.IsZero() {
		ms.GeneratedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO monthly_summaries (
			user_id, month_start, month_end, summary, goals_progress,
			milestones_achieved, recurring_themes, behavioral_patterns,
			growth_areas, sessions_count, breakthroughs_count, decisions_count,
			focus_areas_next_month, coach_observations, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, month_start) DO UPDATE SET
			month_end = excluded.month_end,
			summary = excluded.summary,
			goals_progress = excluded.goals_progress,
			milestones_achieved = excluded.milestones_achieved,
			recurring_themes = excluded.recurring_themes,
			behavioral_patterns = excluded.behavioral_patterns,
			growth_areas = excluded.growth_areas,
			sessions_count = excluded.sessions_count,
			breakthroughs_count = excluded.breakthroughs_count,
			decisions_count = excluded.decisions_count,
			focus_areas_next_month = excluded.focus_areas_next_month,
			coach_observations = excluded.coach_observations,
			generated_at = excluded.generated_at
	`, ms.UserID, ms.MonthStart, ms.MonthEnd, ms.Summary,
		marshalProgress(ms.GoalsProgress), marshalStrings(ms.MilestonesAchieved),
		marshalStrings(ms.RecurringThemes), marshalStrings(ms.BehavioralPatterns),
		marshalStrings(ms.GrowthAreas), ms.SessionsCount, ms.BreakthroughsCount,
		ms.DecisionsCount, marshalStrings(ms.FocusAreasNextMonth),
		nullString(ms.CoachObservations), ms.GeneratedAt)

	return err
}

// GetWeekliesInRange returns weekly summaries with week_start in [from, to]
func (s *RollupStore) GetWeekliesInRange(userID string, from, to time.Time) ([]models.WeeklySummary, error) {
	rows, err := s.db.Query(weeklySelect+`
		WHERE user_id = ? AND week_start >= ? AND week_start <= ?
		ORDER BY week_start ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanWeeklies(rows)
}

// GetRecentWeeklies returns up to limit weekly summaries, newest first
func (s *RollupStore) GetRecentWeeklies(userID string, limit int) ([]models.WeeklySummary, error) {
	rows, err := s.db.Query(weeklySelect+`
		WHERE user_id = ?
		ORDER BY week_start DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanWeeklies(rows)
}

// GetWeekly retrieves one weekly summary, nil if none exists
func (s *RollupStore) GetWeekly(userID string, weekStart time.Time) (*models.WeeklySummary, error) {
	row := s.db.QueryRow(weeklySelect+`
		WHERE user_id = ? AND week_start = ?
	`, userID, weekStart)

	ws, err := scanWeeklyRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// GetLatestMonthly retrieves the newest monthly summary, nil if none exists
func (s *RollupStore) GetLatestMonthly(userID string) (*models.MonthlySummary, error) {
	row := s.db.QueryRow(monthlySelect+`
		WHERE user_id = ?
		ORDER BY month_start DESC
		LIMIT 1
	`, userID)

	ms, err := scanMonthlyRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ms, nil
}

// GetMonthly retrieves one monthly summary, nil if none exists
func (s *RollupStore) GetMonthly(userID string, monthStart time.Time) (*models.MonthlySummary, error) {
	row := s.db.QueryRow(monthlySelect+`
		WHERE user_id = ? AND month_start = ?
	`, userID, monthStart)

	ms, err := scanMonthlyRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ms, nil
}

// CountWeeklies returns the number of stored weekly summaries for a user
func (s *RollupStore) CountWeeklies(userID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM weekly_summaries WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}

const weeklySelect = `
	SELECT user_id, week_start, week_end, summary, progress_notes,
		goals_progress, key_decisions, challenges_faced, wins, generated_at
	FROM weekly_summaries`

const monthlySelect = `
	SELECT user_id, month_start, month_end, summary, goals_progress,
		milestones_achieved, recurring_themes, behavioral_patterns,
		growth_areas, sessions_count, breakthroughs_count, decisions_count,
		focus_areas_next_month, coach_observations, generated_at
	FROM monthly_summaries`

func scanWeeklyRow(scan func(...interface{}) error) (*models.WeeklySummary, error) {
	var (
		ws                         models.WeeklySummary
		progressNotes              sql.NullString
		progress                   sql.NullString
		decisions, challenges, win sql.NullString
	)

	err := scan(&ws.UserID, &ws.WeekStart, &ws.WeekEnd, &ws.Summary, &progressNotes,
		&progress, &decisions, &challenges, &win, &ws.GeneratedAt)
	if err != nil {
		return nil, err
	}

	ws.ProgressNotes = progressNotes.String
	ws.GoalsProgress = unmarshalProgress(progress)
	ws.KeyDecisions = unmarshalStrings(decisions)
	ws.ChallengesFaced = unmarshalStrings(challenges)
	ws.Wins = unmarshalStrings(win)

	return &ws, nil
}

func scanWeeklies(rows *sql.Rows) ([]models.WeeklySummary, error) {
	summaries := []models.WeeklySummary{}

	for rows.Next() {
		ws, err := scanWeeklyRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *ws)
	}

	return summaries, rows.Err()
}

func scanMonthlyRow(scan func(...interface{}) error) (*models.MonthlySummary, error) {
	var (
		ms                            models.MonthlySummary
		progress, milestones, themes  sql.NullString
		behavioral, growth, focus     sql.NullString
		observations                  sql.NullString
	)

	err := scan(&ms.UserID, &ms.MonthStart, &ms.MonthEnd, &ms.Summary, &progress,
		&milestones, &themes, &behavioral, &growth, &ms.SessionsCount,
		&ms.BreakthroughsCount, &ms.DecisionsCount, &focus, &observations,
		&ms.GeneratedAt)
	if err != nil {
		return nil, err
	}

	ms.GoalsProgress = unmarshalProgress(progress)
	ms.MilestonesAchieved = unmarshalStrings(milestones)
	ms.RecurringThemes = unmarshalStrings(themes)
	ms.BehavioralPatterns = unmarshalStrings(behavioral)
	ms.GrowthAreas = unmarshalStrings(growth)
	ms.FocusAreasNextMonth = unmarshalStrings(focus)
	ms.CoachObservations = observations.String

	return &ms, nil
}

// marshalProgress encodes goal progress notes as a JSON text column
func marshalProgress(notes []models.GoalProgressNote) string {
	if len(notes) == 0 {
		return "[]"
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// unmarshalProgress decodes a JSON text column into goal progress notes
func unmarshalProgress(raw sql.NullString) []models.GoalProgressNote {
	if !raw.Valid || raw.String == "" {
		return []models.GoalProgressNote{}
	}
	var notes []models.GoalProgressNote
	if err := json.Unmarshal([]byte(raw.String), &notes); err != nil {
		return []models.GoalProgressNote{}
	}
	return notes
}
