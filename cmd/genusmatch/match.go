package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/matsen/genusmatch/internal/config"
	"github.com/matsen/genusmatch/internal/corpus"
	"github.com/matsen/genusmatch/internal/match"
	"github.com/matsen/genusmatch/internal/profile"
	"github.com/matsen/genusmatch/internal/storage"
	"github.com/spf13/cobra"
)

var (
	matchGenera       string
	matchAbstracts    string
	matchFamily       string
	matchPDFs         []string
	matchAbstractOnly bool
	matchOverlap      bool
	matchShowText     bool
)

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVar(&matchGenera, "genera", "", "Reference vocabulary file (one genus per line)")
	matchCmd.Flags().StringVar(&matchAbstracts, "abstracts", "", "Abstracts file (documents separated by two blank lines)")
	matchCmd.Flags().StringVarP(&matchFamily, "family", "f", "", "Family name; resolves both files under the data directory")
	matchCmd.Flags().StringSliceVar(&matchPDFs, "pdf", nil, "PDF files or directories to use as documents instead of an abstracts file (- reads stdin)")
	matchCmd.Flags().BoolVar(&matchAbstractOnly, "abstract-only", false, "Keep only the abstract section of each PDF")
	matchCmd.Flags().BoolVar(&matchOverlap, "overlap", false, "Report the tokens each match shares with the vocabulary")
	matchCmd.Flags().BoolVar(&matchShowText, "show-text", false, "Include the cleaned text of each matching document")
	addMatcherFlags(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a corpus against one genus list",
	Long: `Score every document of a corpus against a reference vocabulary and report
the documents whose cosine similarity exceeds the threshold.

Inputs are given either by family name, which resolves
<data_dir>/<family>_genera.txt and <data_dir>/<family>_abstracts_full.txt,
or explicitly with --genera and --abstracts. --pdf replaces the abstracts
file with text extracted from PDF papers, one document per file.

Examples:
  genusmatch match --family Rosaceae
  genusmatch match --genera genera.txt --abstracts abstracts.txt --human
  genusmatch match --genera genera.txt --pdf papers/ --abstract-only --overlap
  curl -s https://example.org/paper.pdf | genusmatch match --genera genera.txt --pdf -`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

// MatchResult is the response for the match command.
type MatchResult struct {
	Family      string         `json:"family,omitempty"`
	Genera      string         `json:"genera"`
	Abstracts   string         `json:"abstracts,omitempty"`
	PDFs        []string       `json:"pdfs,omitempty"`
	Mode        match.Mode     `json:"mode"`
	Threshold   float64        `json:"threshold"`
	NAbstracts  int            `json:"n_abstracts"`
	NMatches    int            `json:"n_matches"`
	PeakMemMiB  float64        `json:"peak_mem_mib"`
	TimeSeconds float64        `json:"time_seconds"`
	Matches     []match.Result `json:"matches"`
	RunID       string         `json:"run_id,omitempty"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	if err := applyMatcherFlags(cmd); err != nil {
		return err
	}

	generaPath, abstractsPath, err := resolveMatchInputs()
	if err != nil {
		return err
	}

	vocab, err := corpus.ReadVocabulary(generaPath)
	if err != nil {
		return withCode(ExitDataError, "%v", err)
	}

	var docs []string
	var pdfPaths []string
	if len(matchPDFs) > 0 {
		pdfPaths, err = corpus.ExpandPDFPaths(matchPDFs)
		if err != nil {
			return withCode(ExitDataError, "%v", err)
		}
		docs, err = corpus.ReadPDFDocuments(pdfPaths, cmd.InOrStdin(), matchAbstractOnly)
		if err != nil {
			return withCode(ExitDataError, "%v", err)
		}
		abstractsPath = ""
	} else {
		docs, err = corpus.ReadAbstracts(abstractsPath)
		if err != nil {
			return withCode(ExitDataError, "%v", err)
		}
	}

	m, err := newMatcher()
	if err != nil {
		return err
	}
	m.Overlap = matchOverlap
	m.KeepText = matchShowText

	started := time.Now().UTC()
	var report *match.Report
	stats, err := profile.Measure(func() error {
		var runErr error
		report, runErr = m.Run(cmd.Context(), vocab, docs)
		return runErr
	})
	if err != nil {
		return fmt.Errorf("matching: %w", err)
	}

	result := MatchResult{
		Family:      matchFamily,
		Genera:      generaPath,
		Abstracts:   abstractsPath,
		PDFs:        pdfPaths,
		Mode:        report.Mode,
		Threshold:   report.Threshold,
		NAbstracts:  len(docs),
		NMatches:    report.MatchCount(),
		PeakMemMiB:  stats.PeakMemMiB,
		TimeSeconds: stats.Seconds(),
		Matches:     report.Matches(),
	}
	if result.Matches == nil {
		result.Matches = []match.Result{}
	}

	if cfg.History {
		run := storage.Run{
			ID:           storage.NewRunID(),
			Family:       matchFamily,
			StartedAt:    started,
			Mode:         string(report.Mode),
			Threshold:    report.Threshold,
			NAbstracts:   result.NAbstracts,
			NMatches:     result.NMatches,
			PeakMemMiB:   result.PeakMemMiB,
			TimeSeconds:  result.TimeSeconds,
			MatchIndexes: report.MatchIndexes(),
		}
		if err := storage.AppendRun(cfg.RunsPath(), run); err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
		result.RunID = run.ID
	}

	if humanOutput {
		printMatchHuman(result, stats)
		return nil
	}
	return outputJSON(result)
}

// resolveMatchInputs picks the vocabulary and abstracts paths from the
// explicit flags, falling back to the family naming convention.
func resolveMatchInputs() (genera, abstracts string, err error) {
	dir := config.ExpandPath(cfg.DataDir)
	genera, abstracts = matchGenera, matchAbstracts
	if matchFamily != "" {
		if genera == "" {
			genera = corpus.GeneraPath(dir, matchFamily)
		}
		if abstracts == "" {
			abstracts = corpus.AbstractsPath(dir, matchFamily)
		}
	}

	if genera == "" {
		return "", "", withCode(ExitError, "a vocabulary is required: use --genera or --family")
	}
	if abstracts == "" && len(matchPDFs) == 0 {
		return "", "", withCode(ExitError, "documents are required: use --abstracts, --pdf or --family")
	}
	return genera, abstracts, nil
}

func printMatchHuman(r MatchResult, stats profile.Stats) {
	if r.Family != "" {
		headingColor.Fprintf(stdout, "%s\n", r.Family)
	}
	outputHuman("Abstracts:   %d\n", r.NAbstracts)
	outputHuman("Matches:     %d (similarity > %s, %s mode)\n", r.NMatches, formatPercent(r.Threshold), r.Mode)
	outputHuman("Peak memory: %s\n", formatMiB(r.PeakMemMiB))
	outputHuman("Time:        %s\n", formatSeconds(stats.Elapsed))
	if r.RunID != "" {
		dimColor.Fprintf(stdout, "Recorded run %s\n", r.RunID)
	}

	if len(r.Matches) == 0 {
		return
	}
	outputHuman("\n")
	for _, m := range r.Matches {
		matchColor.Fprintf(stdout, "[%d] %s", m.Index, formatPercent(m.Similarity))
		if len(m.Shared) > 0 {
			outputHuman("  %s", wrapText(strings.Join(m.Shared, ", "), TextWrapWidth, "    "))
		}
		outputHuman("\n")
		if m.Text != "" {
			outputHuman("    %s\n", wrapText(m.Text, TextWrapWidth, "    "))
		}
	}
}
