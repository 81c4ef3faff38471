// ABOUTME: Shared wiring for CLI commands: config, storage, LLM client, logger
// ABOUTME: Every subcommand builds its dependencies through these helpers
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/cadencehq/coachmem/internal/config"
	"github.com/cadencehq/coachmem/internal/llm"
	"github.com/cadencehq/coachmem/internal/storage/sqlite"
)

// newLogger builds the CLI logger. Logs go to stderr so stdout stays
// clean for command output (and for the MCP stdio transport).
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads .env (if present) and the environment configuration
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// openStorage opens the configured database, falling back to the
// XDG-compliant default path
func openStorage(cfg *config.Config) (*sqlite.Storage, error) {
	if cfg.DBPath != "" {
		return sqlite.NewStorageWithPath(cfg.DBPath)
	}
	return sqlite.NewStorage()
}

// newLLMClient builds the configured provider client
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiProject == "" {
			return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for the gemini provider")
		}
		return llm.NewGeminiClient(ctx, cfg.GeminiProject, cfg.GeminiLocation,
			llm.WithGeminiTimeout(cfg.Timeout))
	default:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		return llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
			APIKey:         cfg.OpenAIKey,
			ChatModel:      cfg.ChatModel,
			EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
		})
	}
}
