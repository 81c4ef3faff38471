// ABOUTME: CLI command to extract action items from a conversation
// ABOUTME: Only explicit user commitments are extracted; --save persists them
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cadencehq/coachmem/internal/core"
)

var actionsSave bool

// NewActionsCmd creates the actions command
func NewActionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions <conversation-id>",
		Short: "Extract action items from a conversation",
		Long: `Extract the tasks the user explicitly committed to during a
conversation. Discussed topics and coach suggestions the user did
not accept are ignored; most sessions yield nothing.

Examples:
  coachmem actions conv_456
  coachmem actions --save conv_456
  coachmem actions --format json conv_456`,
		Args: cobra.ExactArgs(1),
		RunE: runActions,
	}

	cmd.Flags().BoolVar(&actionsSave, "save", false, "Persist extracted items as pending tasks")

	return cmd
}

func runActions(cmd *cobra.Command, args []string) error {
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

	extractor := core.NewActionExtractor(store, client, logger)
	items, err := extractor.ExtractActionItems(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("extracting action items: %w", err)
	}

	if len(items) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No commitments found")
		}
		return nil
	}

	if actionsSave {
		if err := extractor.SaveActionItems(items); err != nil {
			return fmt.Errorf("saving action items: %w", err)
		}
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), core.FormatActionItemsForChat(items))
	if actionsSave && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSaved %d item(s)\n", len(items))
	}

	return nil
}
