// ABOUTME: Standalone entry point for the coachmem MCP server over stdio
// ABOUTME: Minimal wiring for deployments that only need the server
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/cadencehq/coachmem/internal/config"
	"github.com/cadencehq/coachmem/internal/core"
	"github.com/cadencehq/coachmem/internal/llm"
	"github.com/cadencehq/coachmem/internal/mcp"
	"github.com/cadencehq/coachmem/internal/storage/sqlite"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var store *sqlite.Storage
	if cfg.DBPath != "" {
		store, err = sqlite.NewStorageWithPath(cfg.DBPath)
	} else {
		store, err = sqlite.NewStorage()
	}
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	var client llm.Client
	if cfg.Provider == "gemini" {
		client, err = llm.NewGeminiClient(context.Background(), cfg.GeminiProject, cfg.GeminiLocation,
			llm.WithGeminiTimeout(cfg.Timeout))
	} else {
		client, err = llm.NewOpenAIClient(cfg.OpenAIKey)
	}
	if err != nil {
		logger.Error("failed to initialize LLM client", "error", err)
		os.Exit(1)
	}

	embedder := core.NewEmbedder(store, client, logger)
	retriever := core.NewRetrieverWithThreshold(store, client, cfg.SimilarityThreshold, logger)
	assembler := core.NewAssembler(store, retriever, logger)
	summarizer := core.NewSummarizer(store, client, logger)
	extractor := core.NewActionExtractor(store, client, logger)

	server := mcpserver.NewMCPServer("coachmem", "0.1.0")
	handlers := mcp.RegisterTools(server, store, assembler, retriever, embedder, summarizer, extractor, logger)
	defer handlers.Shutdown()

	logger.Info("MCP server starting on stdio")
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
