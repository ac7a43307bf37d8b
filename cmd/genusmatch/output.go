package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// Output destinations. Tests swap these for buffers.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

const (
	// TextWrapWidth is the wrap width for document text in human output.
	TextWrapWidth = 72

	// progressBarWidth is the width in characters for terminal progress display.
	progressBarWidth = 30
	// progressLineClearWidth is the width needed to clear the entire progress line.
	progressLineClearWidth = 70
)

var (
	headingColor = color.New(color.Bold)
	matchColor   = color.New(color.FgGreen)
	dimColor     = color.New(color.Faint)
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Fprintf(stdout, format, args...)
}

// reportError writes err in the active output format.
func reportError(err error) {
	if humanOutput {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.Encode(ErrorResponse{Error: err.Error()})
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// formatPercent formats a similarity percentage the way match reports show it.
func formatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// formatSeconds formats a duration in seconds with two decimals.
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2f s", d.Seconds())
}

// formatMiB formats a MiB amount, switching to humanized bytes for small values.
func formatMiB(mib float64) string {
	if mib < 1 {
		return humanize.IBytes(uint64(mib * 1024 * 1024))
	}
	return fmt.Sprintf("%.2f MiB", mib)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= width {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n"+indent)
}

// buildProgressBar creates a progress bar string of the given width.
// Returns a string like "[=====>    ]" showing progress.
func buildProgressBar(current, total, width int) string {
	if total == 0 {
		return strings.Repeat(" ", width)
	}
	filled := (width * current) / total
	if filled >= width {
		return strings.Repeat("=", width)
	}
	return strings.Repeat("=", filled) + ">" + strings.Repeat(" ", width-filled-1)
}

// printProgress prints a progress bar to stderr.
func printProgress(current, total int, label string) {
	if total == 0 {
		return
	}
	pct := float64(current) / float64(total) * 100
	bar := buildProgressBar(current, total, progressBarWidth)
	fmt.Fprintf(stderr, "\r[%s] %d/%d (%.0f%%) %s", bar, current, total, pct, truncateString(label, 20))
}

// clearProgress erases the progress line.
func clearProgress() {
	fmt.Fprintf(stderr, "\r%*s\r", progressLineClearWidth, "")
}
