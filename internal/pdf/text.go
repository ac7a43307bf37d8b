// Package pdf extracts candidate document text from PDF files.
package pdf

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxPages limits extraction to the pages where an abstract lives.
const DefaultMaxPages = 2

var (
	abstractHeading = regexp.MustCompile(`(?im)^\s*(abstract|summary)\b[\s.:]*`)
	sectionEnd      = regexp.MustCompile(`(?im)^\s*(keywords?|key words|introduction|1\.?\s+introduction|background)\b`)
)

// ExtractText extracts all text from the first N pages of a PDF.
// maxPages <= 0 reads every page.
func ExtractText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	return readPages(r, maxPages), nil
}

// ExtractTextReader extracts text from a PDF reader.
func ExtractTextReader(r io.ReaderAt, size int64, maxPages int) (string, error) {
	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", err
	}
	return readPages(pdfReader, maxPages), nil
}

func readPages(r *pdf.Reader, maxPages int) string {
	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String()
}

// ExtractAbstract returns the abstract section of a paper's text: everything
// after an "Abstract" (or "Summary") heading up to the keywords or
// introduction. Text without a recognizable heading is returned whole.
func ExtractAbstract(text string) string {
	loc := abstractHeading.FindStringIndex(text)
	if loc == nil {
		return strings.TrimSpace(text)
	}

	body := text[loc[1]:]
	if end := sectionEnd.FindStringIndex(body); end != nil {
		body = body[:end[0]]
	}
	return strings.TrimSpace(body)
}
