// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Exposes the memory pipelines to LLM agents over stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/cadencehq/coachmem/internal/core"
	"github.com/cadencehq/coachmem/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start coachmem as an MCP (Model Context Protocol) server over
stdio, exposing message storage, context assembly, semantic search,
summarization, and action item extraction as tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the agent host)
  coachmem mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "coachmem": {
  #       "command": "coachmem",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	store, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	client, err := newLLMClient(cmd.Context(), cfg)
	if err != nil {
		_ = store.Close()
		return err
	}

	embedder := core.NewEmbedder(store, client, logger)
	retriever := core.NewRetrieverWithThreshold(store, client, cfg.SimilarityThreshold, logger)
	assembler := core.NewAssembler(store, retriever, logger)
	summarizer := core.NewSummarizer(store, client, logger)
	extractor := core.NewActionExtractor(store, client, logger)

	server := mcpserver.NewMCPServer("coachmem", versionInfo.Version)
	handlers := mcp.RegisterTools(server, store, assembler, retriever, embedder, summarizer, extractor, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		handlers.Shutdown()
		if err := store.Close(); err != nil {
			logger.Warn("error closing storage", "error", err)
		}
		logger.Info("shutdown complete")

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
