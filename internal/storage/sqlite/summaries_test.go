// ABOUTME: Tests for conversation summary persistence
// ABOUTME: Verifies upsert idempotence, empty-state retrieval, and summary search
package sqlite

import (
	"testing"
	"time"

	"github.com/cadencehq/coachmem/internal/models"
)

func testSummary(convID, userID string) *models.ConversationSummary {
	return &models.ConversationSummary{
		ConversationID:       convID,
		UserID:               userID,
		Summary:              "Discussed pricing strategy and hiring plans",
		KeyTopics:            []string{"pricing", "hiring"},
		DecisionsMade:        []string{"raise prices 10%"},
		Breakthroughs:        []string{"realized churn is pricing-driven"},
		UserState:            "energized",
		CoachingApproachUsed: "socratic",
		SessionValue:         "Clarity on pricing direction",
		MessageCount:         12,
		GeneratedAt:          time.Now(),
	}
}

func TestSummaryUpsertIdempotent(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewSummaryStore(db)

	first := testSummary("conv_1", "user_1")
	if err := store.Upsert(first); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	second := testSummary("conv_1", "user_1")
	second.Summary = "Regenerated summary"
	if err := store.Upsert(second); err != nil {
		t.Fatalf("Upsert() second error = %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM conversation_summaries WHERE conversation_id = 'conv_1'`).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 1 {
		t.Errorf("summary rows = %d, want 1 (regeneration must overwrite)", count)
	}

	got, err := store.GetByConversationID("conv_1")
	if err != nil {
		t.Fatalf("GetByConversationID() error = %v", err)
	}
	if got.Summary != "Regenerated summary" {
		t.Errorf("Summary = %q, want the regenerated text", got.Summary)
	}
	if len(got.KeyTopics) != 2 {
		t.Errorf("len(KeyTopics) = %d, want 2", len(got.KeyTopics))
	}
}

func TestGetSummaryMissing(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewSummaryStore(db)

	got, err := store.GetByConversationID("nope")
	if err != nil {
		t.Fatalf("GetByConversationID() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetByConversationID() = %+v, want nil", got)
	}
}

func TestGetRecentEmptyForFreshUser(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewSummaryStore(db)

	got, err := store.GetRecent("fresh_user", 10)
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetRecent() = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("len(GetRecent()) = %d, want 0", len(got))
	}
}

func TestGetByGeneratedRange(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewSummaryStore(db)

	weekStart := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	inRange := testSummary("conv_in", "user_1")
	inRange.GeneratedAt = weekStart.Add(48 * time.Hour)
	if err := store.Upsert(inRange); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	outOfRange := testSummary("conv_out", "user_1")
	outOfRange.GeneratedAt = weekStart.Add(10 * 24 * time.Hour)
	if err := store.Upsert(outOfRange); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := store.GetByGeneratedRange("user_1", weekStart, weekStart.Add(6*24*time.Hour))
	if err != nil {
		t.Fatalf("GetByGeneratedRange() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if got[0].ConversationID != "conv_in" {
		t.Errorf("ConversationID = %q, want conv_in", got[0].ConversationID)
	}
}

func TestSummarySearchSkipsMissingEmbeddings(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewSummaryStore(db)

	withVector := testSummary("conv_vec", "user_1")
	withVector.Embedding = []float64{1, 0, 0}
	if err := store.Upsert(withVector); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Embedding generation failed for this one; stored without a vector
	withoutVector := testSummary("conv_novec", "user_1")
	if err := store.Upsert(withoutVector); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	results, err := store.SearchSimilar("user_1", []float64{1, 0, 0}, 0.7, 10)
	if err != nil {
		t.Fatalf("SearchSimilar() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].ConversationID != "conv_vec" {
		t.Errorf("ConversationID = %q, want conv_vec", results[0].ConversationID)
	}
}
