// ABOUTME: CLI command to assemble and print the coaching context for a user
// ABOUTME: Mirrors what the chat path injects into the system prompt
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cadencehq/coachmem/internal/core"
)

var (
	contextConversation string
	contextMessage      string
	contextHistory      int
	contextRetrieve     int
)

// NewContextCmd creates the context command
func NewContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context <user-id>",
		Short: "Assemble the coaching context for a user",
		Long: `Assemble and print the context block injected into the coaching
model's system prompt: profile, business details, active goals,
recent history, and optionally relevant past conversation snippets.

When --message is given, semantically relevant snippets from past
conversations are retrieved for it.

Examples:
  coachmem context user_123
  coachmem context user_123 --conversation conv_456
  coachmem context user_123 --message "struggling with my cofounder" --retrieve 3`,
		Args: cobra.ExactArgs(1),
		RunE: runContext,
	}

	cmd.Flags().StringVar(&contextConversation, "conversation", "", "Active conversation ID for recent history")
	cmd.Flags().StringVar(&contextMessage, "message", "", "Current message to retrieve relevant snippets for")
	cmd.Flags().IntVar(&contextHistory, "history", 10, "Recent messages to include")
	cmd.Flags().IntVar(&contextRetrieve, "retrieve", 5, "Relevant past snippets to retrieve")

	return cmd
}

func runContext(cmd *cobra.Command, args []string) error {
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

	var retriever *core.Retriever
	if contextMessage != "" {
		client, err := newLLMClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		retriever = core.NewRetrieverWithThreshold(store, client, cfg.SimilarityThreshold, logger)
	}

	assembler := core.NewAssembler(store, retriever, logger)
	uc, err := assembler.AssembleUserContextWithRAG(cmd.Context(),
		args[0], contextConversation, contextHistory, contextMessage, contextRetrieve)
	if err != nil {
		return fmt.Errorf("assembling context: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), core.FormatUserContext(uc))
	return nil
}
