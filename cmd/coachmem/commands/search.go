// ABOUTME: CLI command for semantic search over a user's conversation history
// ABOUTME: Embeds the query and ranks stored message vectors by similarity
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cadencehq/coachmem/internal/core"
)

var (
	searchUser  string
	searchLimit int
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search a user's conversation memory",
		Long: `Search past conversation messages using semantic similarity.

The query is embedded with the configured provider and matched
against stored message vectors. Only messages above the similarity
threshold are returned, strongest match first.

Examples:
  coachmem search --user user_123 "hiring decisions"
  coachmem search --user user_123 --limit 10 "fundraising"
  coachmem search --user user_123 --format json "delegation"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVar(&searchUser, "user", "", "User ID to search (required)")
	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
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

	retriever := core.NewRetrieverWithThreshold(store, client, cfg.SimilarityThreshold, logger)
	results := retriever.SearchByText(cmd.Context(), searchUser, args[0], searchLimit, "")

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No matches found for query: %s\n", args[0])
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tWHEN\tROLE\tMESSAGE\n")
	fmt.Fprintf(w, "-----\t----\t----\t-------\n")
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n",
			r.Similarity,
			formatTime(r.CreatedAt),
			r.Role.Label(),
			truncate(r.Content, 60))
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}

	return nil
}
