package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/matsen/genusmatch/internal/storage"
	"github.com/spf13/cobra"
)

var (
	historyFamily  string
	historyLimit   int
	historySummary bool
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyFamily, "family", "f", "", "Only show runs for this family")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to show (0 = all)")
	historyCmd.Flags().BoolVar(&historySummary, "summary", false, "Aggregate runs per family")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long: `List runs recorded with --record (or history: true in genusmatch.yml),
newest first.

The log lives in <history_dir>/runs.jsonl; queries go through a SQLite cache
rebuilt from it on every call.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

// HistoryResult is the response for the history command.
type HistoryResult struct {
	Runs []storage.Run `json:"runs"`
}

// HistorySummaryResult is the response for history --summary.
type HistorySummaryResult struct {
	Families []storage.FamilySummary `json:"families"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := storage.OpenDB(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening history cache: %w", err)
	}
	defer db.Close()

	if _, err := db.RebuildFromJSONL(cfg.RunsPath()); err != nil {
		return withCode(ExitDataError, "rebuilding history: %v", err)
	}

	if historySummary {
		families, err := db.SummarizeByFamily()
		if err != nil {
			return err
		}
		if families == nil {
			families = []storage.FamilySummary{}
		}
		if humanOutput {
			printSummaryHuman(families)
			return nil
		}
		return outputJSON(HistorySummaryResult{Families: families})
	}

	runs, err := db.ListRuns(historyFamily, historyLimit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []storage.Run{}
	}
	if humanOutput {
		printRunsHuman(runs)
		return nil
	}
	return outputJSON(HistoryResult{Runs: runs})
}

func printRunsHuman(runs []storage.Run) {
	if len(runs) == 0 {
		outputHuman("No recorded runs\n")
		return
	}
	for _, r := range runs {
		family := r.Family
		if family == "" {
			family = "(files)"
		}
		headingColor.Fprintf(stdout, "%s", family)
		dimColor.Fprintf(stdout, "  %s  %s\n", humanize.Time(r.StartedAt), truncateString(r.ID, 8))
		outputHuman("  %d/%d matches  %s mode, > %s  %s  %s\n",
			r.NMatches, r.NAbstracts, r.Mode, formatPercent(r.Threshold),
			formatMiB(r.PeakMemMiB), formatSeconds(time.Duration(r.TimeSeconds*float64(time.Second))))
	}
}

func printSummaryHuman(families []storage.FamilySummary) {
	if len(families) == 0 {
		outputHuman("No recorded runs\n")
		return
	}
	for _, s := range families {
		name := s.Family
		if name == "" {
			name = "(files)"
		}
		headingColor.Fprintf(stdout, "%s", name)
		outputHuman("  %d runs, %.1f matches avg, %.2f s avg, %s peak, last %s\n",
			s.Runs, s.AvgMatches, s.AvgSeconds, formatMiB(s.MaxPeakMiB),
			humanize.Time(time.Unix(s.LastRunUnix, 0)))
	}
}
