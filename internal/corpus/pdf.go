package corpus

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matsen/genusmatch/internal/pdf"
)

// StdinPath names standard input in a list of PDF paths.
const StdinPath = "-"

// ReadPDFDocuments extracts one cleaned document per PDF. A StdinPath entry
// is read from stdin. When abstractOnly is set, only the abstract section of
// each paper is kept.
func ReadPDFDocuments(paths []string, stdin io.Reader, abstractOnly bool) ([]string, error) {
	docs := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == StdinPath {
			doc, err := ReadPDF(stdin, abstractOnly)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}

		text, err := pdf.ExtractText(p, pdf.DefaultMaxPages)
		if err != nil {
			return nil, fmt.Errorf("reading pdf: %w", err)
		}
		docs = append(docs, cleanPDFText(text, abstractOnly))
	}
	return docs, nil
}

// ReadPDF extracts one cleaned document from an in-memory or streamed PDF.
func ReadPDF(r io.Reader, abstractOnly bool) (string, error) {
	if r == nil {
		return "", fmt.Errorf("reading pdf: no input")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}
	text, err := pdf.ExtractTextReader(bytes.NewReader(data), int64(len(data)), pdf.DefaultMaxPages)
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}
	return cleanPDFText(text, abstractOnly), nil
}

func cleanPDFText(text string, abstractOnly bool) string {
	if abstractOnly {
		text = pdf.ExtractAbstract(text)
	}
	return Clean(text)
}

// ExpandPDFPaths replaces directories with the .pdf files they contain,
// sorted by name. Plain file paths and StdinPath are kept as given.
func ExpandPDFPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if p == StdinPath {
			out = append(out, p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading pdf: %w", err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				continue
			}
			found = append(found, filepath.Join(p, e.Name()))
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
