package match

import (
	"fmt"
	"math"
	"strings"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 when either vector is all zeros or the lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	// Sums of integer counts are exact, so the result does not depend on
	// term order or argument order.
	denominator := math.Sqrt(floats.Dot(a, a)) * math.Sqrt(floats.Dot(b, b))
	if denominator == 0 {
		return 0
	}

	// Rounding can push identical vectors a hair past 1.
	return math.Min(floats.Dot(a, b)/denominator, 1)
}

// Similarity returns the similarity percentage (0-100) between a document and
// a reference vocabulary. Count vectors are built from a vocabulary fit on
// exactly these two texts. Texts without tokens score 0.
func Similarity(doc, vocab string) (float64, error) {
	return pairSimilarity(Tokenize(doc), Tokenize(vocab))
}

// pairSimilarity fits a fresh count vectoriser on the two token streams and
// compares their count columns.
func pairSimilarity(docTokens, vocabTokens []string) (float64, error) {
	if len(docTokens) == 0 || len(vocabTokens) == 0 {
		return 0, nil
	}

	vectors, err := countVectors(joinTokens(docTokens), joinTokens(vocabTokens))
	if err != nil {
		return 0, err
	}
	return CosineSimilarity(vectors[0], vectors[1]) * 100, nil
}

// countVectors fits a count vectoriser on texts and returns one term count
// vector per text, in input order.
func countVectors(texts ...string) ([][]float64, error) {
	vectoriser := nlp.NewCountVectoriser()
	vectoriser.Tokeniser = &nlp.RegExpTokeniser{RegExp: tokenPattern}
	matrix, err := vectoriser.FitTransform(texts...)
	if err != nil {
		return nil, fmt.Errorf("vectorising: %w", err)
	}
	return documentVectors(matrix, len(texts)), nil
}

// documentVectors extracts per-document vectors from a term-document matrix
// (one column per document). A document-term layout is handled as well.
func documentVectors(m mat.Matrix, docs int) [][]float64 {
	_, cols := m.Dims()
	vectors := make([][]float64, docs)
	for i := 0; i < docs; i++ {
		if cols == docs {
			vectors[i] = mat.Col(nil, i, m)
		} else {
			vectors[i] = mat.Row(nil, i, m)
		}
	}
	return vectors
}

// joinTokens rebuilds text from already-filtered tokens so the vectoriser's
// own tokenisation yields exactly these tokens.
func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}
