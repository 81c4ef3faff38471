// ABOUTME: MCP tool definitions and registration for the coachmem server
// ABOUTME: Exposes message storage, context assembly, search, summaries, and extraction
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/cadencehq/coachmem/internal/core"
	"github.com/cadencehq/coachmem/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Storage, assembler *core.Assembler, retriever *core.Retriever, embedder *core.Embedder, summarizer *core.Summarizer, extractor *core.ActionExtractor, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	handlers := &Handlers{
		store:      store,
		assembler:  assembler,
		retriever:  retriever,
		embedder:   embedder,
		summarizer: summarizer,
		extractor:  extractor,
		logger:     logger,
	}

	server.AddTool(mcp.Tool{
		Name:        "store_message",
		Description: "Store one conversation turn. Creates the conversation on first use and schedules embedding generation in the background.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User the message belongs to",
				},
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to append to; omit to start a new one",
				},
				"role": map[string]interface{}{
					"type":        "string",
					"description": "Message author: 'user' or 'assistant'",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Message text",
				},
			},
			Required: []string{"user_id", "role", "content"},
		},
	}, handlers.StoreMessage)

	server.AddTool(mcp.Tool{
		Name:        "assemble_context",
		Description: "Assemble the system-prompt context for a user: profile, business details, active goals, recent history, and optionally semantically relevant past conversation snippets.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User to assemble context for",
				},
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Active conversation for recent history",
				},
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Current user message; when provided, relevant past snippets are retrieved for it",
				},
				"history_limit": map[string]interface{}{
					"type":        "number",
					"description": "Recent messages to include (default: 10)",
					"default":     10,
				},
				"retrieval_count": map[string]interface{}{
					"type":        "number",
					"description": "Relevant past snippets to retrieve (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"user_id"},
		},
	}, handlers.AssembleContext)

	server.AddTool(mcp.Tool{
		Name:        "search_memory",
		Description: "Semantic search over a user's past conversation messages.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User whose history to search",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"user_id", "query"},
		},
	}, handlers.SearchMemory)

	server.AddTool(mcp.Tool{
		Name:        "summarize_conversation",
		Description: "Generate (or regenerate) the structured summary for a conversation and store it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to summarize",
				},
			},
			Required: []string{"conversation_id"},
		},
	}, handlers.SummarizeConversation)

	server.AddTool(mcp.Tool{
		Name:        "recent_summaries",
		Description: "List a user's most recent conversation summaries, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User whose summaries to list",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of summaries (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"user_id"},
		},
	}, handlers.RecentSummaries)

	server.AddTool(mcp.Tool{
		Name:        "extract_action_items",
		Description: "Extract the user's explicit commitments from a conversation. Optionally persists them as pending action items.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to extract from",
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "Persist extracted items as pending tasks (default: false)",
					"default":     false,
				},
			},
			Required: []string{"conversation_id"},
		},
	}, handlers.ExtractActionItems)

	return handlers
}
