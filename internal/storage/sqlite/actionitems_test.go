// ABOUTME: Tests for action item persistence
// ABOUTME: Verifies defaulting of ID/status and pending retrieval
package sqlite

import (
	"testing"

	"github.com/cadencehq/coachmem/internal/models"
)

func TestActionItemSaveDefaults(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewActionItemStore(db)

	item := models.ActionItem{
		UserID:         "user_1",
		ConversationID: "conv_1",
		Task:           "Email three investor intros",
	}
	if err := store.SaveAll([]models.ActionItem{item}); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	pending, err := store.GetPending("user_1", 10)
	if err != nil {
		t.Fatalf("GetPending() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("len(pending) = %d, want 1", len(pending))
	}
	if pending[0].ID == "" {
		t.Error("ID should be assigned on save")
	}
	if pending[0].Status != models.ActionItemPending {
		t.Errorf("Status = %q, want pending", pending[0].Status)
	}
	if pending[0].Task != "Email three investor intros" {
		t.Errorf("Task = %q", pending[0].Task)
	}
}

func TestGetPendingEmptyForFreshUser(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewActionItemStore(db)

	pending, err := store.GetPending("fresh", 10)
	if err != nil {
		t.Fatalf("GetPending() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("len(pending) = %d, want 0", len(pending))
	}
}
