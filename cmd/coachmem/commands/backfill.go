// ABOUTME: CLI command to embed stored messages that are missing vectors
// ABOUTME: Recovery path for embeddings lost to provider outages
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cadencehq/coachmem/internal/core"
)

var backfillLimit int

// NewBackfillCmd creates the backfill command
func NewBackfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Embed messages that are missing vectors",
		Long: `Find stored messages without embeddings and generate them, oldest
first. Messages fall behind when the embedding provider was down at
write time; this command catches them up.

Examples:
  coachmem backfill
  coachmem backfill --limit 500`,
		RunE: runBackfill,
	}

	cmd.Flags().IntVar(&backfillLimit, "limit", 100, "Maximum messages to process")

	return cmd
}

func runBackfill(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(backfillLimit, "limit"); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	store, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	client, err := newLLMClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	embedder := core.NewEmbedder(store, client, logger)
	processed, err := embedder.BatchProcessEmbeddings(cmd.Context(), backfillLimit)
	if err != nil {
		return fmt.Errorf("backfilling embeddings: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Embedded %d message(s)\n", processed)
	}

	return nil
}
