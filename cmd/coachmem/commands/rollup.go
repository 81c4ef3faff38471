// ABOUTME: CLI command to generate weekly and monthly rollup summaries
// ABOUTME: Periods are idempotent; re-running a period replaces its rollup
package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cadencehq/coachmem/internal/core"
)

var (
	rollupUser string
	rollupDate string
)

// NewRollupCmd creates the rollup command with weekly/monthly subcommands
func NewRollupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollup",
		Short: "Generate weekly or monthly rollup summaries",
		Long: `Aggregate a user's stored session summaries into periodic rollups.

Weekly rollups digest one week of conversation summaries; monthly
rollups digest the month's weekly rollups and compute session,
decision, and breakthrough counts from the stored data.

Examples:
  coachmem rollup weekly --user user_123 --date 2026-08-17
  coachmem rollup monthly --user user_123 --date 2026-08-01
  coachmem rollup monthly --user user_123 --format json`,
	}

	cmd.PersistentFlags().StringVar(&rollupUser, "user", "", "User ID to roll up (required)")
	cmd.PersistentFlags().StringVar(&rollupDate, "date", "", "Period start date (YYYY-MM-DD), defaults to the current period")
	_ = cmd.MarkPersistentFlagRequired("user")

	cmd.AddCommand(&cobra.Command{
		Use:   "weekly",
		Short: "Generate the weekly rollup",
		RunE:  runWeeklyRollup,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "monthly",
		Short: "Generate the monthly rollup",
		RunE:  runMonthlyRollup,
	})

	return cmd
}

// resolvePeriodStart parses --date or derives the current period start
func resolvePeriodStart(monthly bool) (time.Time, error) {
	if rollupDate != "" {
		t, err := time.Parse("2006-01-02", rollupDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", rollupDate)
		}
		return t, nil
	}

	now := time.Now().UTC()
	if monthly {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	// back up to the most recent Monday
	day := now.Truncate(24 * time.Hour)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset), nil
}

func newRollupGenerator(cmd *cobra.Command) (*core.RollupGenerator, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger()

	store, err := openStorage(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}

	client, err := newLLMClient(cmd.Context(), cfg)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	return core.NewRollupGenerator(store, client, logger), func() { _ = store.Close() }, nil
}

func runWeeklyRollup(cmd *cobra.Command, args []string) error {
	weekStart, err := resolvePeriodStart(false)
	if err != nil {
		return err
	}

	gen, closeStore, err := newRollupGenerator(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	weekly, err := gen.GenerateWeeklySummary(cmd.Context(), rollupUser, weekStart)
	if err != nil {
		return fmt.Errorf("generating weekly rollup: %w", err)
	}
	if weekly == nil {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No sessions in the week of %s\n", weekStart.Format("2006-01-02"))
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(weekly, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Week of %s:\n%s\n", weekly.WeekStart.Format("2006-01-02"), weekly.Summary)
	printList(out, "Decisions", weekly.KeyDecisions)
	printList(out, "Challenges", weekly.ChallengesFaced)
	printList(out, "Wins", weekly.Wins)

	return nil
}

func runMonthlyRollup(cmd *cobra.Command, args []string) error {
	monthStart, err := resolvePeriodStart(true)
	if err != nil {
		return err
	}

	gen, closeStore, err := newRollupGenerator(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	monthly, err := gen.GenerateMonthlySummary(cmd.Context(), rollupUser, monthStart)
	if err != nil {
		return fmt.Errorf("generating monthly rollup: %w", err)
	}
	if monthly == nil {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No weekly rollups in %s\n", monthStart.Format("January 2006"))
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(monthly, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:\n%s\n", monthly.MonthStart.Format("January 2006"), monthly.Summary)
	fmt.Fprintf(out, "\nSessions: %d  Decisions: %d  Breakthroughs: %d\n",
		monthly.SessionsCount, monthly.DecisionsCount, monthly.BreakthroughsCount)
	printList(out, "Milestones", monthly.MilestonesAchieved)
	printList(out, "Recurring themes", monthly.RecurringThemes)
	printList(out, "Focus next month", monthly.FocusAreasNextMonth)

	return nil
}
