// ABOUTME: MCP tool handler implementations for the coachmem server
// ABOUTME: Thin argument plumbing over the core pipelines, JSON responses
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cadencehq/coachmem/internal/core"
	"github.com/cadencehq/coachmem/internal/models"
	"github.com/cadencehq/coachmem/internal/storage/sqlite"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	store      *sqlite.Storage
	assembler  *core.Assembler
	retriever  *core.Retriever
	embedder   *core.Embedder
	summarizer *core.Summarizer
	extractor  *core.ActionExtractor
	logger     *slog.Logger
}

// StoreMessage handles the store_message tool
func (h *Handlers) StoreMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	roleStr, err := request.RequireString("role")
	if err != nil {
		return mcp.NewToolResultError("role argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	role := models.Role(roleStr)
	if role != models.RoleUser && role != models.RoleAssistant {
		return mcp.NewToolResultError("role must be 'user' or 'assistant'"), nil
	}

	conversationID := request.GetString("conversation_id", "")
	created := false
	if conversationID == "" {
		conversationID = uuid.New().String()
		created = true
	} else {
		conv, err := h.store.Messages().GetConversation(conversationID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load conversation: %v", err)), nil
		}
		created = conv == nil
	}
	if created {
		if err := h.store.Messages().CreateConversation(&models.Conversation{
			ID:        conversationID,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create conversation: %v", err)), nil
		}
	}

	msg := models.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.store.Messages().SaveMessage(&msg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store message: %v", err)), nil
	}

	// embedding runs detached; the turn never waits on the provider
	h.embedder.ProcessMessageEmbeddingAsync(msg)

	return marshalResult(map[string]interface{}{
		"message_id":           msg.ID,
		"conversation_id":      conversationID,
		"conversation_created": created,
	})
}

// AssembleContext handles the assemble_context tool
func (h *Handlers) AssembleContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	conversationID := request.GetString("conversation_id", "")
	message := request.GetString("message", "")
	historyLimit := request.GetInt("history_limit", 10)
	retrievalCount := request.GetInt("retrieval_count", 5)

	var uc *models.UserContext
	if message != "" {
		uc, err = h.assembler.AssembleUserContextWithRAG(ctx, userID, conversationID, historyLimit, message, retrievalCount)
	} else {
		uc, err = h.assembler.AssembleUserContext(ctx, userID, conversationID, historyLimit)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("context assembly failed: %v", err)), nil
	}

	return marshalResult(map[string]interface{}{
		"context":           core.FormatUserContext(uc),
		"goals":             len(uc.Goals),
		"recent_messages":   len(uc.RecentHistory),
		"relevant_snippets": len(uc.RelevantHistory),
	})
}

// SearchMemory handles the search_memory tool
func (h *Handlers) SearchMemory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 5)

	results := h.retriever.SearchByText(ctx, userID, query, maxResults, "")

	matches := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		matches = append(matches, map[string]interface{}{
			"conversation_id": r.ConversationID,
			"role":            string(r.Role),
			"content":         r.Content,
			"similarity":      r.Similarity,
			"created_at":      r.CreatedAt.Format(time.RFC3339),
		})
	}

	return marshalResult(map[string]interface{}{
		"matches": matches,
	})
}

// SummarizeConversation handles the summarize_conversation tool
func (h *Handlers) SummarizeConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversationID, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError("conversation_id argument is required and must be a string"), nil
	}

	summary, err := h.summarizer.GenerateConversationSummary(ctx, conversationID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summarization failed: %v", err)), nil
	}
	if summary == nil {
		return mcp.NewToolResultError("conversation not found or has no messages"), nil
	}

	return marshalResult(map[string]interface{}{
		"summary": summary,
	})
}

// RecentSummaries handles the recent_summaries tool
func (h *Handlers) RecentSummaries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	limit := request.GetInt("limit", 5)

	summaries, err := h.summarizer.GetRecentConversationSummaries(userID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load summaries: %v", err)), nil
	}

	return marshalResult(map[string]interface{}{
		"summaries": summaries,
	})
}

// ExtractActionItems handles the extract_action_items tool
func (h *Handlers) ExtractActionItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversationID, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError("conversation_id argument is required and must be a string"), nil
	}
	save := request.GetBool("save", false)

	items, err := h.extractor.ExtractActionItems(ctx, conversationID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
	}

	if save && len(items) > 0 {
		if err := h.extractor.SaveActionItems(items); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to save action items: %v", err)), nil
		}
	}

	return marshalResult(map[string]interface{}{
		"action_items": items,
		"formatted":    core.FormatActionItemsForChat(items),
		"saved":        save && len(items) > 0,
	})
}

// Shutdown waits for detached embedding and extraction work to finish
func (h *Handlers) Shutdown() {
	h.logger.Info("waiting for background pipelines to drain")
	h.embedder.Wait()
	h.extractor.Wait()
	h.logger.Info("background pipelines drained")
}

// marshalResult renders a response map as a JSON tool result
func marshalResult(response map[string]interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
