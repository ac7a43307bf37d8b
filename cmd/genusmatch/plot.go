package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/genusmatch/internal/chart"
	"github.com/spf13/cobra"
)

var (
	plotFrom   string
	plotOutDir string
)

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().StringVar(&plotFrom, "from", "", "Saved JSON output of the batch command")
	plotCmd.Flags().StringVar(&plotOutDir, "out", ".", "Directory for the charts")
	plotCmd.MarkFlagRequired("from")
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render batch charts from saved batch output",
	Long: `Render the matches, time and memory bar charts from the JSON printed by
'genusmatch batch', without rerunning the matcher.

Example:
  genusmatch batch > results.json
  genusmatch plot --from results.json --out figures/`,
	Args: cobra.NoArgs,
	RunE: runPlot,
}

// PlotResult is the response for the plot command.
type PlotResult struct {
	Figures []string `json:"figures"`
}

func runPlot(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(plotFrom)
	if err != nil {
		return withCode(ExitDataError, "reading batch output: %v", err)
	}

	var saved BatchResult
	if err := json.Unmarshal(data, &saved); err != nil {
		return withCode(ExitDataError, "parsing batch output: %v", err)
	}
	if len(saved.Rows) == 0 {
		return withCode(ExitDataError, "%s has no batch rows", plotFrom)
	}

	paths, err := chart.RenderAll(saved.Rows, plotOutDir)
	if err != nil {
		return fmt.Errorf("plotting: %w", err)
	}

	if humanOutput {
		for _, p := range paths {
			outputHuman("Wrote %s\n", p)
		}
		return nil
	}
	return outputJSON(PlotResult{Figures: paths})
}
