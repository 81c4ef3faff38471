// ABOUTME: Unified Storage facade wrapping all SQLite stores
// ABOUTME: Single handle injected into the pipeline components
package sqlite

import (
	"fmt"
)

// Storage bundles all per-entity stores behind one handle. Lifecycle is
// process start to process shutdown; all mutation relies on SQLite's
// per-statement atomicity, no multi-statement transactions.
type Storage struct {
	db          *DB
	messages    *MessageStore
	embeddings  *EmbeddingStore
	summaries   *SummaryStore
	rollups     *RollupStore
	goals       *GoalStore
	profiles    *ProfileStore
	actionItems *ActionItemStore
}

// NewStorage initializes storage at the default database path
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:          db,
		messages:    NewMessageStore(db),
		embeddings:  NewEmbeddingStore(db),
		summaries:   NewSummaryStore(db),
		rollups:     NewRollupStore(db),
		goals:       NewGoalStore(db),
		profiles:    NewProfileStore(db),
		actionItems: NewActionItemStore(db),
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Messages returns the message store
func (s *Storage) Messages() *MessageStore { return s.messages }

// Embeddings returns the embedding store
func (s *Storage) Embeddings() *EmbeddingStore { return s.embeddings }

// Summaries returns the conversation summary store
func (s *Storage) Summaries() *SummaryStore { return s.summaries }

// Rollups returns the weekly/monthly rollup store
func (s *Storage) Rollups() *RollupStore { return s.rollups }

// Goals returns the goal store
func (s *Storage) Goals() *GoalStore { return s.goals }

// Profiles returns the profile store
func (s *Storage) Profiles() *ProfileStore { return s.profiles }

// ActionItems returns the action item store
func (s *Storage) ActionItems() *ActionItemStore { return s.actionItems }
