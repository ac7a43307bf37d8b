package main

import (
	"github.com/matsen/genusmatch/internal/config"
	"github.com/matsen/genusmatch/internal/logging"
	"github.com/matsen/genusmatch/internal/match"
	"github.com/spf13/cobra"
)

// Flags shared by the commands that run the matcher. Each value only
// overrides the resolved config when the flag was set explicitly.
var (
	thresholdFlag float64
	modeFlag      string
	workersFlag   int
	dataDirFlag   string
	recordFlag    bool
)

func addMatcherFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&thresholdFlag, "threshold", config.DefaultThreshold, "Similarity percent a document must exceed to match")
	cmd.Flags().StringVar(&modeFlag, "mode", config.DefaultMode, "Vocabulary mode: pairwise or global")
	cmd.Flags().IntVar(&workersFlag, "workers", 1, "Documents scored concurrently (1 = sequential)")
	cmd.Flags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding <family>_genera.txt and <family>_abstracts_full.txt")
	cmd.Flags().BoolVar(&recordFlag, "record", false, "Append the run to the history log")
}

// applyMatcherFlags overlays explicitly set flags onto cfg and validates it.
func applyMatcherFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("threshold") {
		cfg.Threshold = thresholdFlag
	}
	if f.Changed("mode") {
		cfg.Mode = modeFlag
	}
	if f.Changed("workers") {
		cfg.Workers = workersFlag
	}
	if f.Changed("data-dir") {
		cfg.DataDir = dataDirFlag
	}
	if f.Changed("record") {
		cfg.History = recordFlag
	}

	if err := cfg.Validate(); err != nil {
		return withCode(ExitConfigError, "%v", err)
	}
	return nil
}

// newMatcher builds a matcher from the effective config.
func newMatcher() (*match.Matcher, error) {
	mode, err := match.ParseMode(cfg.Mode)
	if err != nil {
		return nil, withCode(ExitConfigError, "%v", err)
	}

	m := match.New()
	m.Threshold = cfg.Threshold
	m.Mode = mode
	m.Workers = cfg.Workers
	m.Logger = logging.Component(logger, "match")
	return m, nil
}
