// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Entry point for all coachmem CLI operations
package commands

import (
	"github.com/spf13/cobra"
)

// Global flags shared by all subcommands
var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
 ██████╗ ██████╗  █████╗  ██████╗██╗  ██╗███╗   ███╗███████╗███╗   ███╗
██╔════╝██╔═══██╗██╔══██╗██╔════╝██║  ██║████╗ ████║██╔════╝████╗ ████║
██║     ██║   ██║███████║██║     ███████║██╔████╔██║█████╗  ██╔████╔██║
██║     ██║   ██║██╔══██║██║     ██╔══██║██║╚██╔╝██║██╔══╝  ██║╚██╔╝██║
╚██████╗╚██████╔╝██║  ██║╚██████╗██║  ██║██║ ╚═╝ ██║███████╗██║ ╚═╝ ██║
 ╚═════╝ ╚═════╝ ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚═╝     ╚═╝╚══════╝╚═╝     ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coachmem",
		Short: "Conversational memory for AI coaching",
		Long: banner + `
Coachmem stores coaching conversations, embeds them for semantic
retrieval, and distills sessions into summaries, weekly and monthly
rollups, and action items. It assembles per-turn context for the
coaching model from profile, goals, and relevant past conversations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")

	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewContextCmd())
	cmd.AddCommand(NewBackfillCmd())
	cmd.AddCommand(NewSummarizeCmd())
	cmd.AddCommand(NewRollupCmd())
	cmd.AddCommand(NewActionsCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
