// Package chart renders batch results as bar charts.
package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/genusmatch/internal/batch"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Output file names, one chart per measure.
const (
	MatchesFile = "figure_matches.png"
	TimeFile    = "figure_time.png"
	MemFile     = "figure_mem.png"
)

const (
	figureWidth  = 6 * vg.Inch
	figureHeight = 4 * vg.Inch
	barWidth     = 20 * vg.Millimeter
)

// Figure describes one bar chart.
type Figure struct {
	File   string
	Title  string
	YLabel string
	Value  func(batch.Row) float64
}

// Figures lists the three charts written by RenderAll.
var Figures = []Figure{
	{MatchesFile, "Matching abstracts per family", "N_Matches", func(r batch.Row) float64 { return float64(r.NMatches) }},
	{TimeFile, "Matching time per family", "Time (s)", func(r batch.Row) float64 { return r.TimeSeconds }},
	{MemFile, "Peak memory per family", "Peak_MEM (MiB)", func(r batch.Row) float64 { return r.PeakMemMiB }},
}

// RenderAll writes the matches, time and memory charts into outDir and
// returns the written paths.
func RenderAll(rows []batch.Row, outDir string) ([]string, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to plot")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	paths := make([]string, 0, len(Figures))
	for _, fig := range Figures {
		path := filepath.Join(outDir, fig.File)
		if err := Render(rows, fig, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Render draws one bar chart keyed by family and saves it to path. The
// image format follows the file extension.
func Render(rows []batch.Row, fig Figure, path string) error {
	values := make(plotter.Values, len(rows))
	names := make([]string, len(rows))
	for i, r := range rows {
		values[i] = fig.Value(r)
		names[i] = r.Family
	}

	p := plot.New()
	p.Title.Text = fig.Title
	p.Y.Label.Text = fig.YLabel
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return fmt.Errorf("building %s: %w", fig.File, err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(figureWidth, figureHeight, path); err != nil {
		return fmt.Errorf("saving %s: %w", fig.File, err)
	}
	return nil
}
