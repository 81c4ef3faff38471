// ABOUTME: ConversationSummary persistence with upsert-on-conflict semantics
// ABOUTME: Also serves semantic search over stored summary embeddings
package sqlite

import (
	"database/sql"
	"sort"
	"time"

	"github.com/cadencehq/coachmem/internal/models"
)

// SummaryStore handles conversation summary persistence
type SummaryStore struct {
	db *DB
}

// NewSummaryStore creates a new SummaryStore
func NewSummaryStore(db *DB) *SummaryStore {
	return &SummaryStore{db: db}
}

// Upsert stores a summary keyed on conversation_id. Re-summarizing a
// conversation overwrites the prior record rather than duplicating.
func (s *SummaryStore) Upsert(cs *models.ConversationSummary) error {
	if cs.GeneratedAt.IsZero() {
		cs.GeneratedAt = time.Now()
	}

	var blob []byte
	if len(cs.Embedding) > 0 {
		blob = vectorToBlob(cs.Embedding)
	}

	_, err := s.db.Exec(`
		INSERT INTO conversation_summaries (
			conversation_id, user_id, summary, key_topics, decisions_made,
			action_items_discussed, goals_referenced, blockers_identified,
			breakthroughs, patterns_noticed, user_state, coaching_approach_used,
			session_value, vector, message_count, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			summary = excluded.summary,
			key_topics = excluded.key_topics,
			decisions_made = excluded.decisions_made,
			action_items_discussed = excluded.action_items_discussed,
			goals_referenced = excluded.goals_referenced,
			blockers_identified = excluded.blockers_identified,
			breakthroughs = excluded.breakthroughs,
			patterns_noticed = excluded.patterns_noticed,
			user_state = excluded.user_state,
			coaching_approach_used = excluded.coaching_approach_used,
			session_value = excluded.session_value,
			vector = excluded.vector,
			message_count = excluded.message_count,
			generated_at = excluded.generated_at
	`, cs.ConversationID, cs.UserID, cs.Summary,
		marshalStrings(cs.KeyTopics), marshalStrings(cs.DecisionsMade),
		marshalStrings(cs.ActionItemsDiscussed), marshalStrings(cs.GoalsReferenced),
		marshalStrings(cs.BlockersIdentified), marshalStrings(cs.Breakthroughs),
		marshalStrings(cs.PatternsNoticed), nullString(cs.UserState),
		nullString(cs.CoachingApproachUsed), nullString(cs.SessionValue),
		blob, cs.MessageCount, cs.GeneratedAt)

	return err
}

// GetByConversationID retrieves a summary, nil if none exists
func (s *SummaryStore) GetByConversationID(conversationID string) (*models.ConversationSummary, error) {
	row := s.db.QueryRow(summarySelect+` WHERE conversation_id = ?`, conversationID)

	cs, err := scanSummaryRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// GetRecent returns up to limit most recent summaries for a user,
// newest first. Empty slice for a user with no summarized sessions.
func (s *SummaryStore) GetRecent(userID string, limit int) ([]models.ConversationSummary, error) {
	rows, err := s.db.Query(summarySelect+`
		WHERE user_id = ?
		ORDER BY generated_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanSummaries(rows)
}

// GetByGeneratedRange returns summaries with generated_at in [from, to]
func (s *SummaryStore) GetByGeneratedRange(userID string, from, to time.Time) ([]models.ConversationSummary, error) {
	rows, err := s.db.Query(summarySelect+`
		WHERE user_id = ? AND generated_at >= ? AND generated_at <= ?
		ORDER BY generated_at ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanSummaries(rows)
}

// SearchSimilar ranks stored summaries by cosine similarity to the query
// vector. Summaries without an embedding are skipped.
func (s *SummaryStore) SearchSimilar(userID string, queryVector []float64, threshold float64, limit int) ([]models.RetrievedSummary, error) {
	rows, err := s.db.Query(`
		SELECT conversation_id, summary, key_topics, vector, generated_at
		FROM conversation_summaries
		WHERE user_id = ? AND vector IS NOT NULL
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []models.RetrievedSummary

	for rows.Next() {
		var (
			rs     models.RetrievedSummary
			topics sql.NullString
			blob   []byte
		)
		if err := rows.Scan(&rs.ConversationID, &rs.Summary, &topics, &blob, &rs.GeneratedAt); err != nil {
			return nil, err
		}

		similarity := CosineSimilarity(queryVector, blobToVector(blob))
		if similarity < threshold {
			continue
		}

		rs.KeyTopics = unmarshalStrings(topics)
		rs.Similarity = similarity
		results = append(results, rs)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

const summarySelect = `
	SELECT conversation_id, user_id, summary, key_topics, decisions_made,
		action_items_discussed, goals_referenced, blockers_identified,
		breakthroughs, patterns_noticed, user_state, coaching_approach_used,
		session_value, vector, message_count, generated_at
	FROM conversation_summaries`

// scanSummaryRow scans one summary row via the given scan function
func scanSummaryRow(scan func(...interface{}) error) (*models.ConversationSummary, error) {
	var (
		cs                                        models.ConversationSummary
		topics, decisions, actions, goals         sql.NullString
		blockers, breakthroughs, patterns         sql.NullString
		userState, coachingApproach, sessionValue sql.NullString
		blob                                      []byte
	)

	err := scan(&cs.ConversationID, &cs.UserID, &cs.Summary, &topics, &decisions,
		&actions, &goals, &blockers, &breakthroughs, &patterns,
		&userState, &coachingApproach, &sessionValue, &blob,
		&cs.MessageCount, &cs.GeneratedAt)
	if err != nil {
		return nil, err
	}

	cs.KeyTopics = unmarshalStrings(topics)
	cs.DecisionsMade = unmarshalStrings(decisions)
	cs.ActionItemsDiscussed = unmarshalStrings(actions)
	cs.GoalsReferenced = unmarshalStrings(goals)
	cs.BlockersIdentified = unmarshalStrings(blockers)
	cs.Breakthroughs = unmarshalStrings(breakthroughs)
	cs.PatternsNoticed = unmarshalStrings(patterns)
	cs.UserState = userState.String
	cs.CoachingApproachUsed = coachingApproach.String
	cs.SessionValue = sessionValue.String
	if len(blob) > 0 {
		cs.Embedding = blobToVector(blob)
	}

	return &cs, nil
}

// scanSummaries scans rows into summaries
func scanSummaries(rows *sql.Rows) ([]models.ConversationSummary, error) {
	summaries := []models.ConversationSummary{}

	for rows.Next() {
		cs, err := scanSummaryRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *cs)
	}

	return summaries, rows.Err()
}
