// ABOUTME: Conversation summarizer producing structured per-session insight
// ABOUTME: Summaries are upserted per conversation and embedded for search
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

const summarySystemPrompt = `You are an expert coaching session analyst. You read the transcript of one coaching conversation and produce a structured JSON summary.

Respond with a single JSON object with exactly these fields:
{
  "summary": "2-4 sentence narrative of the session",
  "key_topics": ["topic", ...],
  "decisions_made": ["decision", ...],
  "action_items_discussed": ["item", ...],
  "goals_referenced": ["goal", ...],
  "blockers_identified": ["blocker", ...],
  "breakthroughs": ["breakthrough", ...],
  "patterns_noticed": ["pattern", ...],
  "user_state": "one short phrase describing the user's emotional/mental state",
  "coaching_approach_used": "one short phrase",
  "session_value": "one sentence on what the user got out of the session"
}

Use empty arrays and empty strings for anything the transcript does not support. Never invent content.`

// summaryPayload is the JSON shape the model returns
type summaryPayload struct {
	Summary              string   `json:"summary"`
	KeyTopics            []string `json:"key_topics"`
	DecisionsMade        []string `json:"decisions_made"`
	ActionItemsDiscussed []string `json:"action_items_discussed"`
	GoalsReferenced      []string `json:"goals_referenced"`
	BlockersIdentified   []string `json:"blockers_identified"`
	Breakthroughs        []string `json:"breakthroughs"`
	PatternsNoticed      []string `json:"patterns_noticed"`
	UserState            string   `json:"user_state"`
	CoachingApproachUsed string   `json:"coaching_approach_used"`
	SessionValue         string   `json:"session_value"`
}

// Summarizer generates and retrieves per-conversation summaries
type Summarizer struct {
	store  *sqlite.Storage
	client llm.Client
	logger *slog.Logger
}

// NewSummarizer creates a new Summarizer
func NewSummarizer(store *sqlite.Storage, client llm.Client, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		store:  store,
		client: client,
		logger: logger,
	}
}

// GenerateConversationSummary summarizes one conversation's full transcript
// and upserts the result keyed by conversation id. Returns (nil, nil) when
// the conversation does not exist or has no messages: nothing to summarize
// is not an error. A malformed model response surfaces as *llm.ParseError.
// Embedding the summary text is best-effort; a failure there logs and the
// summary is stored without a vector.
func (s *Summarizer) GenerateConversationSummary(ctx context.Context, conversationID string) (*models.ConversationSummary, error) {
	conv, err := s.store.Messages().GetConversation(conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if conv == nil {
		return nil, nil
	}

	messages, err := s.store.Messages().GetMessages(conversationID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	if len(messages) == 0 {
		return nil, nil
	}

	content := formatTranscript(messages)
	if goals, err := s.store.Goals().GetActive(conv.UserID, MaxContextGoals); err == nil && len(goals) > 0 {
		titles := make([]string, 0, len(goals))
		for _, g := range goals {
			titles = append(titles, g.Title)
		}
		content = fmt.Sprintf("Active goals: %s\n\nTranscript:\n%s", strings.Join(titles, "; "), content)
	}

	resp, err := s.client.CreateCompletion(ctx, llm.CompletionRequest{
		System: summarySystemPrompt,
		Messages: []llm.ChatMessage{
			{Role: "user", Content: content},
		},
		Temperature: 0.3,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("summary completion: %w", err)
	}

	var payload summaryPayload
	if err := llm.DecodeStrict(resp.Content, &payload); err != nil {
		return nil, err
	}

	summary := &models.ConversationSummary{
		ConversationID:       conversationID,
		UserID:               conv.UserID,
		Summary:              payload.Summary,
		KeyTopics:            payload.KeyTopics,
		DecisionsMade:        payload.DecisionsMade,
		ActionItemsDiscussed: payload.ActionItemsDiscussed,
		GoalsReferenced:      payload.GoalsReferenced,
		BlockersIdentified:   payload.BlockersIdentified,
		Breakthroughs:        payload.Breakthroughs,
		PatternsNoticed:      payload.PatternsNoticed,
		UserState:            payload.UserState,
		CoachingApproachUsed: payload.CoachingApproachUsed,
		SessionValue:         payload.SessionValue,
		MessageCount:         len(messages),
		GeneratedAt:          time.Now().UTC(),
	}

	if vector, err := s.client.GenerateEmbedding(ctx, summaryEmbeddingText(summary)); err != nil {
		s.logger.Warn("summary embedding failed, storing without vector",
			"conversation_id", conversationID, "error", err)
	} else {
		summary.Embedding = vector
	}

	if err := s.store.Summaries().Upsert(summary); err != nil {
		return nil, fmt.Errorf("store summary: %w", err)
	}

	return summary, nil
}

// GetConversationSummary returns the stored summary, or nil when none exists
func (s *Summarizer) GetConversationSummary(conversationID string) (*models.ConversationSummary, error) {
	return s.store.Summaries().GetByConversationID(conversationID)
}

// GetRecentConversationSummaries returns up to limit summaries for the
// user, newest first. A user with no summaries gets an empty slice.
func (s *Summarizer) GetRecentConversationSummaries(userID string, limit int) ([]models.ConversationSummary, error) {
	return s.store.Summaries().GetRecent(userID, limit)
}

// SearchSummaries embeds the query and searches stored summary vectors.
// Summaries persisted without a vector are never returned.
func (s *Summarizer) SearchSummaries(ctx context.Context, userID, query string, limit int) ([]models.RetrievedSummary, error) {
	vector, err := s.client.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.store.Summaries().SearchSimilar(userID, vector, DefaultSimilarityThreshold, limit)
}

// summaryEmbeddingText composes the text that gets embedded for summary
// search: the narrative plus the list fields most useful for recall
func summaryEmbeddingText(cs *models.ConversationSummary) string {
	parts := []string{cs.Summary}
	for _, list := range [][]string{cs.KeyTopics, cs.DecisionsMade, cs.Breakthroughs} {
		if len(list) > 0 {
			parts = append(parts, strings.Join(list, "; "))
		}
	}
	return strings.Join(parts, "\n")
}

// formatTranscript renders messages as blank-line separated "Role: content"
// turns for the model
func formatTranscript(messages []models.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, msg.Role.Label()+": "+msg.Content)
	}
	return strings.Join(lines, "\n\n")
}
