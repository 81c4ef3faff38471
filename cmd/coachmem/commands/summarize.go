// ABOUTME: CLI command to generate the structured summary for a conversation
// ABOUTME: Regenerating replaces the stored summary for the same conversation
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cadencehq/coachmem/internal/core"
)

// NewSummarizeCmd creates the summarize command
func NewSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <conversation-id>",
		Short: "Summarize a coaching conversation",
		Long: `Generate the structured summary for one conversation and store it:
narrative, key topics, decisions, blockers, breakthroughs, and the
coach-facing session observations. Safe to re-run; the stored summary
is replaced.

Examples:
  coachmem summarize conv_456
  coachmem summarize --format json conv_456`,
		Args: cobra.ExactArgs(1),
		RunE: runSummarize,
	}

	return cmd
}

func runSummarize(cmd *cobra.Command, args []string) error {
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

	summarizer := core.NewSummarizer(store, client, logger)
	summary, err := summarizer.GenerateConversationSummary(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("summarizing conversation: %w", err)
	}
	if summary == nil {
		return fmt.Errorf("conversation %s not found or has no messages", args[0])
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Summary (%d messages):\n%s\n", summary.MessageCount, summary.Summary)
	printList(out, "Key topics", summary.KeyTopics)
	printList(out, "Decisions", summary.DecisionsMade)
	printList(out, "Blockers", summary.BlockersIdentified)
	printList(out, "Breakthroughs", summary.Breakthroughs)
	if summary.UserState != "" {
		fmt.Fprintf(out, "\nUser state: %s\n", summary.UserState)
	}
	if summary.SessionValue != "" {
		fmt.Fprintf(out, "Session value: %s\n", summary.SessionValue)
	}

	return nil
}

func printList(out io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s: %s\n", label, strings.Join(items, "; "))
}
