package main

import (
	"fmt"

	"github.com/matsen/genusmatch/internal/batch"
	"github.com/matsen/genusmatch/internal/chart"
	"github.com/matsen/genusmatch/internal/config"
	"github.com/matsen/genusmatch/internal/corpus"
	"github.com/matsen/genusmatch/internal/logging"
	"github.com/matsen/genusmatch/internal/storage"
	"github.com/spf13/cobra"
)

var (
	batchFamiliesFile string
	batchPlot         bool
	batchOutDir       string
	batchNoProgress   bool
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchFamiliesFile, "families", "", "File listing one family per line (default: families_file from config)")
	batchCmd.Flags().BoolVar(&batchPlot, "plot", false, "Write the matches, time and memory bar charts")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "Directory for the charts (default: out_dir from config)")
	batchCmd.Flags().BoolVar(&batchNoProgress, "no-progress", false, "Suppress progress output")
	addMatcherFlags(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch [family...]",
	Short: "Run the matcher for several families and tabulate the results",
	Long: `Run the matcher for each family in turn and report one row per family:
Family, N_Abstracts, N_Matches, Peak_MEM (MiB) and Time (seconds).

Families come from the arguments, or else from the families file (one name
per line, # comments allowed). Every family needs both
<data_dir>/<family>_genera.txt and <data_dir>/<family>_abstracts_full.txt;
a missing file aborts the batch.

Examples:
  genusmatch batch Rosaceae Fagaceae --human
  genusmatch batch --families families.txt --plot --out-dir figures/`,
	RunE: runBatch,
}

// BatchResult is the response for the batch command.
type BatchResult struct {
	DataDir   string      `json:"data_dir"`
	Mode      string      `json:"mode"`
	Threshold float64     `json:"threshold"`
	Rows      []batch.Row `json:"rows"`
	Totals    batch.Row   `json:"totals"`
	Figures   []string    `json:"figures,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	if err := applyMatcherFlags(cmd); err != nil {
		return err
	}
	if cmd.Flags().Changed("families") {
		cfg.FamiliesFile = batchFamiliesFile
	}
	if cmd.Flags().Changed("out-dir") {
		cfg.OutDir = batchOutDir
	}

	dataDir := config.ExpandPath(cfg.DataDir)
	if err := config.ValidateDataDir(dataDir); err != nil {
		return withCode(ExitDataError, "data directory: %v", err)
	}

	families := args
	if len(families) == 0 {
		var err error
		families, err = corpus.ReadFamilies(cfg.FamiliesPath())
		if err != nil {
			return withCode(ExitDataError, "%v", err)
		}
	}
	if len(families) == 0 {
		return withCode(ExitDataError, "no families to process")
	}

	m, err := newMatcher()
	if err != nil {
		return err
	}

	driver := &batch.Driver{
		Dir:     dataDir,
		Matcher: m,
		Logger:  logging.Component(logger, "batch"),
	}
	showProgress := humanOutput && !batchNoProgress
	if showProgress {
		driver.Progress = printProgress
	}

	rows, err := driver.Run(cmd.Context(), families)
	if showProgress {
		clearProgress()
	}
	if err != nil {
		return withCode(ExitDataError, "%v", err)
	}

	result := BatchResult{
		DataDir:   dataDir,
		Mode:      cfg.Mode,
		Threshold: cfg.Threshold,
		Rows:      rows,
		Totals:    batch.Totals(rows),
	}

	if batchPlot {
		paths, err := chart.RenderAll(rows, config.ExpandPath(cfg.OutDir))
		if err != nil {
			return fmt.Errorf("plotting: %w", err)
		}
		result.Figures = paths
	}

	if cfg.History {
		if err := storage.AppendRuns(cfg.RunsPath(), rowsToRuns(rows)); err != nil {
			return fmt.Errorf("recording runs: %w", err)
		}
	}

	if humanOutput {
		outputHuman("%s\n", batch.Table(rows))
		outputHuman("%d families, %d abstracts, %d matches in %.2f s\n",
			len(rows), result.Totals.NAbstracts, result.Totals.NMatches, result.Totals.TimeSeconds)
		for _, p := range result.Figures {
			dimColor.Fprintf(stdout, "Wrote %s\n", p)
		}
		return nil
	}
	return outputJSON(result)
}

// rowsToRuns converts batch rows into history records.
func rowsToRuns(rows []batch.Row) []storage.Run {
	runs := make([]storage.Run, len(rows))
	for i, r := range rows {
		runs[i] = storage.Run{
			ID:           storage.NewRunID(),
			Family:       r.Family,
			StartedAt:    r.StartedAt,
			Mode:         cfg.Mode,
			Threshold:    cfg.Threshold,
			NAbstracts:   r.NAbstracts,
			NMatches:     r.NMatches,
			PeakMemMiB:   r.PeakMemMiB,
			TimeSeconds:  r.TimeSeconds,
			MatchIndexes: r.MatchIndexes,
		}
	}
	return runs
}
