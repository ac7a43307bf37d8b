package match

import (
	"context"
	"fmt"

	"github.com/matsen/genusmatch/internal/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Matcher scores a corpus against a reference vocabulary. The zero value is
// not useful; start from New.
type Matcher struct {
	Threshold float64 // percent; a document matches when its score is strictly greater
	Mode      Mode
	Workers   int  // documents scored concurrently; <= 1 is sequential
	Overlap   bool // fill Result.Shared for matches
	KeepText  bool // copy the document text into Result.Text for matches
	Logger    *logrus.Entry
}

// New returns a sequential pairwise matcher with the default threshold.
func New() *Matcher {
	return &Matcher{
		Threshold: DefaultThreshold,
		Mode:      ModePairwise,
		Workers:   1,
	}
}

// IsMatch reports whether a similarity percentage passes the threshold.
func (m *Matcher) IsMatch(similarity float64) bool {
	return similarity > m.Threshold
}

// Run scores every document in docs against vocab. Documents are
// independent; results come back in document order whatever the worker
// count. Empty documents or an empty vocabulary score 0.
func (m *Matcher) Run(ctx context.Context, vocab string, docs []string) (*Report, error) {
	log := m.Logger
	if log == nil {
		log = logging.Discard()
	}

	mode := m.Mode
	if mode == "" {
		mode = ModePairwise
	}

	vocabTokens := Tokenize(vocab)
	vocabSet := tokenSet(vocabTokens)
	docTokens := make([][]string, len(docs))
	for i, d := range docs {
		docTokens[i] = Tokenize(d)
	}

	var score func(i int) (float64, error)
	switch mode {
	case ModePairwise:
		score = func(i int) (float64, error) {
			return pairSimilarity(docTokens[i], vocabTokens)
		}
	case ModeGlobal:
		scores, err := globalSimilarities(docTokens, vocabTokens)
		if err != nil {
			return nil, err
		}
		score = func(i int) (float64, error) { return scores[i], nil }
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	report := &Report{
		Threshold: m.Threshold,
		Mode:      mode,
		Results:   make([]Result, len(docs)),
	}

	scoreOne := func(i int) error {
		sim, err := score(i)
		if err != nil {
			return fmt.Errorf("scoring document %d: %w", i, err)
		}
		res := Result{Index: i, Similarity: sim, Match: m.IsMatch(sim)}
		log.WithFields(logrus.Fields{"doc": i, "similarity": sim}).Debug("scored document")
		if res.Match {
			log.WithField("doc", i).Debug("similarity above threshold")
			if m.Overlap {
				res.Shared = sharedTokens(docTokens[i], vocabSet)
			}
			if m.KeepText {
				res.Text = docs[i]
			}
		}
		report.Results[i] = res
		return nil
	}

	if m.Workers <= 1 {
		for i := range docs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := scoreOne(i); err != nil {
				return nil, err
			}
		}
		return report, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.Workers)
	for i := range docs {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return scoreOne(i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return report, nil
}

// globalSimilarities fits a single vectoriser over every document plus the
// reference and scores each document column against the reference column.
func globalSimilarities(docTokens [][]string, vocabTokens []string) ([]float64, error) {
	scores := make([]float64, len(docTokens))
	if len(vocabTokens) == 0 {
		return scores, nil
	}

	texts := make([]string, 0, len(docTokens)+1)
	for _, toks := range docTokens {
		texts = append(texts, joinTokens(toks))
	}
	texts = append(texts, joinTokens(vocabTokens))

	vectors, err := countVectors(texts...)
	if err != nil {
		return nil, err
	}
	ref := vectors[len(vectors)-1]
	for i := range docTokens {
		scores[i] = CosineSimilarity(vectors[i], ref) * 100
	}
	return scores, nil
}
