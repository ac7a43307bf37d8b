// Package match scores documents against a reference vocabulary using
// bag-of-words count vectors and cosine similarity.
package match

import "fmt"

// Mode selects how the token vocabulary behind the count vectors is fit.
type Mode string

const (
	// ModePairwise fits a fresh vocabulary on each (document, reference) pair.
	ModePairwise Mode = "pairwise"
	// ModeGlobal fits one vocabulary over the whole corpus plus the reference.
	// Scores differ slightly from pairwise because the shared token set differs.
	ModeGlobal Mode = "global"
)

// DefaultThreshold is the similarity percentage a document must exceed.
const DefaultThreshold = 1.0

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePairwise, "":
		return ModePairwise, nil
	case ModeGlobal:
		return ModeGlobal, nil
	}
	return "", fmt.Errorf("unknown mode %q (valid: %s, %s)", s, ModePairwise, ModeGlobal)
}

// Result is the score of a single document.
type Result struct {
	Index      int      `json:"index"`
	Similarity float64  `json:"similarity"` // percent, 0-100
	Match      bool     `json:"match"`
	Shared     []string `json:"shared,omitempty"` // tokens present in both document and reference
	Text       string   `json:"text,omitempty"`
}

// Report holds the results of one run, in document order.
type Report struct {
	Threshold float64  `json:"threshold"`
	Mode      Mode     `json:"mode"`
	Results   []Result `json:"results"`
}

// Matches returns the results above the threshold, in document order.
func (r *Report) Matches() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Match {
			out = append(out, res)
		}
	}
	return out
}

// MatchCount returns the number of results above the threshold.
func (r *Report) MatchCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Match {
			n++
		}
	}
	return n
}

// MatchIndexes returns the document indexes above the threshold.
func (r *Report) MatchIndexes() []int {
	var out []int
	for _, res := range r.Results {
		if res.Match {
			out = append(out, res.Index)
		}
	}
	return out
}
