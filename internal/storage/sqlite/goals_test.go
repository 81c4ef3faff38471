// ABOUTME: Tests for goal persistence and priority ordering
// ABOUTME: Verifies active-only filtering and the 5-goal cap used by the assembler
package sqlite

import (
	"fmt"
	"testing"

	"github.com/cadencehq/coachmem/internal/models"
)

func TestGoalsPriorityOrdering(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewGoalStore(db)

	// Insert out of priority order
	for _, priority := range []int{3, 1, 2} {
		goal := &models.Goal{
			ID:       fmt.Sprintf("goal_%d", priority),
			UserID:   "user_1",
			Title:    fmt.Sprintf("Goal with priority %d", priority),
			Priority: priority,
			Status:   models.GoalStatusActive,
		}
		if err := store.Save(goal); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	goals, err := store.GetActive("user_1", 5)
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if len(goals) != 3 {
		t.Fatalf("len(goals) = %d, want 3", len(goals))
	}
	for i, want := range []int{1, 2, 3} {
		if goals[i].Priority != want {
			t.Errorf("goals[%d].Priority = %d, want %d", i, goals[i].Priority, want)
		}
	}
}

func TestGetActiveExcludesCompletedAndCaps(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewGoalStore(db)

	for i := 1; i <= 7; i++ {
		goal := &models.Goal{
			ID:       fmt.Sprintf("goal_%d", i),
			UserID:   "user_1",
			Title:    fmt.Sprintf("Goal %d", i),
			Priority: i,
			Status:   models.GoalStatusActive,
		}
		if err := store.Save(goal); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	done := &models.Goal{
		ID:       "goal_done",
		UserID:   "user_1",
		Title:    "Completed goal",
		Priority: 1,
		Status:   models.GoalStatusCompleted,
	}
	if err := store.Save(done); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	goals, err := store.GetActive("user_1", 5)
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if len(goals) != 5 {
		t.Errorf("len(goals) = %d, want 5 (capped)", len(goals))
	}
	for _, g := range goals {
		if g.Status != models.GoalStatusActive {
			t.Errorf("goal %s status = %q, want active", g.ID, g.Status)
		}
	}

	all, err := store.GetAll("user_1")
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 8 {
		t.Errorf("len(all) = %d, want 8 (includes completed)", len(all))
	}
}
