// ABOUTME: Goal persistence and priority-ordered retrieval
// ABOUTME: Active goals feed the context assembler; rollups also read completed ones
package sqlite

import (
	"database/sql"
	"time"

	"github.com/cadencehq/coachmem/internal/models"
)

// GoalStore handles goal persistence
type GoalStore struct {
	db *DB
}

// NewGoalStore creates a new GoalStore
func NewGoalStore(db *DB) *GoalStore {
	return &GoalStore{db: db}
}

// Save inserts or updates a goal
func (s *GoalStore) Save(goal *models.Goal) error {
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	if goal.Status == "" {
		goal.Status = models.GoalStatusActive
	}

	_, err := s.db.Exec(`
		INSERT INTO goals (id, user_id, title, description, category, target_date, priority, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			target_date = excluded.target_date,
			priority = excluded.priority,
			status = excluded.status
	`, goal.ID, goal.UserID, goal.Title, nullString(goal.Description),
		nullString(goal.Category), nullTime(goal.TargetDate), goal.Priority,
		goal.Status, goal.CreatedAt)

	return err
}

// GetActive returns up to limit active goals ordered by priority
// ascending (priority 1 = highest)
func (s *GoalStore) GetActive(userID string, limit int) ([]models.Goal, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, title, description, category, target_date, priority, status, created_at
		FROM goals
		WHERE user_id = ? AND status = ?
		ORDER BY priority ASC
		LIMIT ?
	`, userID, models.GoalStatusActive, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanGoals(rows)
}

// GetAll returns all goals for a user regardless of status, priority
// ascending. The monthly rollup wants completed goals too.
func (s *GoalStore) GetAll(userID string) ([]models.Goal, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, title, description, category, target_date, priority, status, created_at
		FROM goals
		WHERE user_id = ?
		ORDER BY priority ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanGoals(rows)
}

// scanGoals scans rows into goals
func scanGoals(rows *sql.Rows) ([]models.Goal, error) {
	goals := []models.Goal{}

	for rows.Next() {
		var (
			goal        models.Goal
			description sql.NullString
			category    sql.NullString
			targetDate  sql.NullTime
		)

		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Title, &description,
			&category, &targetDate, &goal.Priority, &goal.Status, &goal.CreatedAt); err != nil {
			return nil, err
		}

		goal.Description = description.String
		goal.Category = category.String
		goal.TargetDate = timePtr(targetDate)
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}
