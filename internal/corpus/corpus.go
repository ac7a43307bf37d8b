// Package corpus loads reference vocabularies and abstract corpora from disk.
package corpus

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DocumentDelimiter separates abstracts in an abstracts file: two blank lines.
const DocumentDelimiter = "\n\n\n"

// File name suffixes for per-family inputs.
const (
	GeneraSuffix    = "_genera.txt"
	AbstractsSuffix = "_abstracts_full.txt"
)

// MaxLineCapacity is the maximum buffer size for reading list files (1MB per line).
const MaxLineCapacity = 1024 * 1024

var (
	digitPattern   = regexp.MustCompile(`\d`)
	nonWordPattern = regexp.MustCompile(`[^a-zA-Z ]`)
)

// GeneraPath returns <dir>/<family>_genera.txt.
func GeneraPath(dir, family string) string {
	return filepath.Join(dir, family+GeneraSuffix)
}

// AbstractsPath returns <dir>/<family>_abstracts_full.txt.
func AbstractsPath(dir, family string) string {
	return filepath.Join(dir, family+AbstractsSuffix)
}

// JoinNames builds a reference vocabulary from list lines. Line terminators
// are stripped and the names are joined with single spaces; nothing is
// deduplicated or normalized.
func JoinNames(lines []string) string {
	names := make([]string, len(lines))
	for i, line := range lines {
		names[i] = strings.TrimRight(line, "\r\n")
	}
	return strings.Join(names, " ")
}

// ReadVocabulary reads a name list (one per line) and joins it into a
// reference vocabulary.
func ReadVocabulary(path string) (string, error) {
	lines, err := readLines(path)
	if err != nil {
		return "", fmt.Errorf("reading vocabulary: %w", err)
	}
	return JoinNames(lines), nil
}

// NormalizeNewlines converts \r\n and lone \r line endings to \n.
func NormalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// SplitDocuments splits raw text into documents on DocumentDelimiter.
// Text without a delimiter is a single document.
func SplitDocuments(text string) []string {
	return strings.Split(text, DocumentDelimiter)
}

// Clean replaces every digit, then every character outside [a-zA-Z ], with a
// space. Positions are preserved, so applying Clean twice changes nothing.
func Clean(text string) string {
	text = digitPattern.ReplaceAllString(text, " ")
	return nonWordPattern.ReplaceAllString(text, " ")
}

// CleanAll applies Clean to every document, keeping order.
func CleanAll(docs []string) []string {
	cleaned := make([]string, len(docs))
	for i, d := range docs {
		cleaned[i] = Clean(d)
	}
	return cleaned
}

// ReadAbstracts reads an abstracts file, splits it into documents and cleans
// each one. Line endings are normalized first, so CRLF files split the same
// way. The slice index is the document's identity.
func ReadAbstracts(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading abstracts: %w", err)
	}
	return CleanAll(SplitDocuments(NormalizeNewlines(string(data)))), nil
}

// ReadFamilies reads a family list: one name per line. Surrounding
// whitespace is trimmed; blank lines and lines starting with # are skipped.
func ReadFamilies(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("reading families: %w", err)
	}

	var families []string
	for _, line := range lines {
		name := strings.TrimSpace(line)
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		families = append(families, name)
	}
	return families, nil
}

// readLines returns the lines of a file without their terminators.
// A trailing newline does not produce an extra empty line.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, MaxLineCapacity)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
