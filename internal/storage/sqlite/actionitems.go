// ABOUTME: ActionItem persistence for extracted user commitments
// ABOUTME: Items land as pending tasks owned by the excluded task UI
package sqlite

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/cadencehq/coachmem/internal/models"
)

// ActionItemStore handles action item persistence
type ActionItemStore struct {
	db *DB
}

// NewActionItemStore creates a new ActionItemStore
func NewActionItemStore(db *DB) *ActionItemStore {
	return &ActionItemStore{db: db}
}

// Save persists a single action item, assigning an ID if absent
func (s *ActionItemStore) Save(item *models.ActionItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = models.ActionItemPending
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO action_items (id, user_id, conversation_id, task, description, priority, due_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.UserID, nullString(item.ConversationID), item.Task,
		nullString(item.Description), nullString(item.Priority),
		nullTime(item.DueDate), item.Status, item.CreatedAt)

	return err
}

// SaveAll persists a batch of action items
func (s *ActionItemStore) SaveAll(items []models.ActionItem) error {
	for i := range items {
		if err := s.Save(&items[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetPending returns pending action items for a user, newest first
func (s *ActionItemStore) GetPending(userID string, limit int) ([]models.ActionItem, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, conversation_id, task, description, priority, due_date, status, created_at
		FROM action_items
		WHERE user_id = ? AND status = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, models.ActionItemPending, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanActionItems(rows)
}

// scanActionItems scans rows into action items
func scanActionItems(rows *sql.Rows) ([]models.ActionItem, error) {
	items := []models.ActionItem{}

	for rows.Next() {
		var (
			item           models.ActionItem
			conversationID sql.NullString
			description    sql.NullString
			priority       sql.NullString
			dueDate        sql.NullTime
		)

		if err := rows.Scan(&item.ID, &item.UserID, &conversationID, &item.Task,
			&description, &priority, &dueDate, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}

		item.ConversationID = conversationID.String
		item.Description = description.String
		item.Priority = priority.String
		item.DueDate = timePtr(dueDate)
		items = append(items, item)
	}

	return items, rows.Err()
}
