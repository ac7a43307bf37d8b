package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractAbstract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "heading and introduction",
			text: "A Study of Asteraceae\nJ. Smith\nAbstract\nWe sampled Bellis and Aster.\n1. Introduction\nDaisies are common.",
			want: "We sampled Bellis and Aster.",
		},
		{
			name: "heading with colon and keywords",
			text: "Title\nAbstract: Rosa hybrids were crossed.\nKeywords: roses, breeding",
			want: "Rosa hybrids were crossed.",
		},
		{
			name: "summary heading without end marker",
			text: "Summary\nQuercus acorns were weighed.",
			want: "Quercus acorns were weighed.",
		},
		{
			name: "no heading returns whole text",
			text: "  Just some text about Salix.  ",
			want: "Just some text about Salix.",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAbstract(tt.text)
			if got != tt.want {
				t.Errorf("ExtractAbstract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractText_MissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.pdf"), DefaultMaxPages)
	if err == nil {
		t.Error("ExtractText() should return error for missing file")
	}
}

func TestExtractTextReader(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "corpus", "testdata", "rosa.pdf"))
	if err != nil {
		t.Fatal(err)
	}

	text, err := ExtractTextReader(bytes.NewReader(data), int64(len(data)), DefaultMaxPages)
	if err != nil {
		t.Fatalf("ExtractTextReader() error = %v", err)
	}
	if !strings.Contains(text, "This paper studies Rosa flowers.") {
		t.Errorf("ExtractTextReader() = %q, missing the abstract sentence", text)
	}
	if got := ExtractAbstract(text); got != "This paper studies Rosa flowers." {
		t.Errorf("ExtractAbstract() = %q", got)
	}
}

func TestExtractTextReader_NotPDF(t *testing.T) {
	data := []byte("Rosa canina")
	if _, err := ExtractTextReader(bytes.NewReader(data), int64(len(data)), DefaultMaxPages); err == nil {
		t.Error("ExtractTextReader() should fail for non-PDF data")
	}
}
