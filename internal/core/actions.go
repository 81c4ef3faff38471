// ABOUTME: Action item extraction from coaching sessions via LLM
// ABOUTME: Only explicit user commitments qualify; empty is the common case
package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cadencehq/coachmem/internal/llm"
	"github.com/cadencehq/coachmem/internal/models"
	"github.com/cadencehq/coachmem/internal/storage/sqlite"
)

// CommitmentMarker prefixes chat-visible action item confirmations
const CommitmentMarker = "📋"

const actionSystemPrompt = `You extract action items from a coaching conversation transcript.

An action item is a task the USER explicitly committed to doing. Topics that were merely discussed, suggestions the coach made that the user did not accept, and vague intentions are NOT action items.

Respond with ONLY a JSON array. Each element:
{
  "task": "short imperative task statement",
  "description": "optional extra detail",
  "priority": "high" | "medium" | "low",
  "due_date": "YYYY-MM-DD or null if none was stated"
}

If the user committed to nothing, respond with [].`

// actionPayload is one element of the model's JSON array
type actionPayload struct {
	Task        string `json:"task"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// ActionExtractor pulls committed tasks out of conversation transcripts
type ActionExtractor struct {
	store  *sqlite.Storage
	client llm.ChatClient
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewActionExtractor creates a new ActionExtractor
func NewActionExtractor(store *sqlite.Storage, client llm.ChatClient, logger *slog.Logger) *ActionExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActionExtractor{
		store:  store,
		client: client,
		logger: logger,
	}
}

// ExtractActionItems runs the extraction over the conversation's full
// transcript. It returns an empty slice both when the conversation is
// empty and when the model finds no commitments. Extracted items are not
// persisted; callers decide via SaveActionItems. A malformed model
// response surfaces as *llm.ParseError.
func (e *ActionExtractor) ExtractActionItems(ctx context.Context, conversationID string) ([]models.ActionItem, error) {
	conv, err := e.store.Messages().GetConversation(conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if conv == nil {
		return []models.ActionItem{}, nil
	}

	messages, err := e.store.Messages().GetMessages(conversationID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	if len(messages) == 0 {
		return []models.ActionItem{}, nil
	}

	resp, err := e.client.CreateCompletion(ctx, llm.CompletionRequest{
		System: actionSystemPrompt,
		Messages: []llm.ChatMessage{
			{Role: "user", Content: formatTranscript(messages)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction completion: %w", err)
	}

	var payloads []actionPayload
	if err := llm.DecodeStrict(resp.Content, &payloads); err != nil {
		return nil, err
	}

	items := make([]models.ActionItem, 0, len(payloads))
	for _, p := range payloads {
		if strings.TrimSpace(p.Task) == "" {
			continue
		}
		item := models.ActionItem{
			UserID:         conv.UserID,
			ConversationID: conversationID,
			Task:           p.Task,
			Description:    p.Description,
			Priority:       p.Priority,
			Status:         models.ActionItemPending,
		}
		if p.DueDate != "" && p.DueDate != "null" {
			if due, err := time.Parse("2006-01-02", p.DueDate); err == nil {
				item.DueDate = &due
			} else {
				e.logger.Warn("unparseable due date dropped",
					"conversation_id", conversationID, "due_date", p.DueDate)
			}
		}
		items = append(items, item)
	}

	return items, nil
}

// ExtractActionItemsAsync runs extraction and persistence in the
// background. Failures are logged and never reach the caller.
func (e *ActionExtractor) ExtractActionItemsAsync(ctx context.Context, conversationID string) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("action extraction panicked",
					"conversation_id", conversationID, "panic", r)
			}
		}()

		items, err := e.ExtractActionItems(ctx, conversationID)
		if err != nil {
			e.logger.Warn("action extraction failed",
				"conversation_id", conversationID, "error", err)
			return
		}
		if len(items) == 0 {
			return
		}
		if err := e.SaveActionItems(items); err != nil {
			e.logger.Warn("action item save failed",
				"conversation_id", conversationID, "error", err)
		}
	}()
}

// Wait blocks until all background extractions finish. Test hook and
// shutdown aid.
func (e *ActionExtractor) Wait() {
	e.wg.Wait()
}

// SaveActionItems persists extracted items as pending tasks
func (e *ActionExtractor) SaveActionItems(items []models.ActionItem) error {
	return e.store.ActionItems().SaveAll(items)
}

// FormatActionItemsForChat renders items as a chat-visible confirmation
// block. Returns "" for an empty list so callers can append it verbatim.
func FormatActionItemsForChat(items []models.ActionItem) string {
	if len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(CommitmentMarker)
	sb.WriteString(" Action items from this session:\n")
	for i, item := range items {
		fmt.Fprintf(&sb, "%d. %s", i+1, item.Task)
		if item.DueDate != nil {
			fmt.Fprintf(&sb, " (due %s)", item.DueDate.Format("2006-01-02"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// HasCommitmentMarker reports whether a chat message already carries the
// action item confirmation block
func HasCommitmentMarker(content string) bool {
	return strings.Contains(content, CommitmentMarker)
}
