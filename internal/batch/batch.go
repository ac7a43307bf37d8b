// Package batch runs the matcher over several taxonomic families and
// tabulates the per-family results.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/matsen/genusmatch/internal/corpus"
	"github.com/matsen/genusmatch/internal/logging"
	"github.com/matsen/genusmatch/internal/match"
	"github.com/matsen/genusmatch/internal/profile"
	"github.com/sirupsen/logrus"
)

// Row is one family's result. Field names follow the report columns.
type Row struct {
	Family      string  `json:"family"`
	NAbstracts  int     `json:"n_abstracts"`
	NMatches    int     `json:"n_matches"`
	PeakMemMiB  float64 `json:"peak_mem"`
	TimeSeconds float64 `json:"time"`

	// Set when the driver runs; not part of the tabulated columns.
	StartedAt    time.Time `json:"-"`
	MatchIndexes []int     `json:"-"`
}

// ProgressFunc receives progress updates as each family finishes.
type ProgressFunc func(done, total int, family string)

// Driver runs the matcher for each family found under Dir.
type Driver struct {
	Dir      string
	Matcher  *match.Matcher
	Logger   *logrus.Entry
	Progress ProgressFunc
}

// Load reads a family's vocabulary and corpus from dir.
func Load(dir, family string) (vocab string, docs []string, err error) {
	vocab, err = corpus.ReadVocabulary(corpus.GeneraPath(dir, family))
	if err != nil {
		return "", nil, fmt.Errorf("family %s: %w", family, err)
	}
	docs, err = corpus.ReadAbstracts(corpus.AbstractsPath(dir, family))
	if err != nil {
		return "", nil, fmt.Errorf("family %s: %w", family, err)
	}
	return vocab, docs, nil
}

// RunFamily loads one family and runs the matcher on it under measurement.
// Only the matcher call is measured; loading is not.
func (d *Driver) RunFamily(ctx context.Context, family string) (Row, *match.Report, error) {
	vocab, docs, err := Load(d.Dir, family)
	if err != nil {
		return Row{}, nil, err
	}

	started := time.Now().UTC()
	var report *match.Report
	stats, err := profile.Measure(func() error {
		var runErr error
		report, runErr = d.Matcher.Run(ctx, vocab, docs)
		return runErr
	})
	if err != nil {
		return Row{}, nil, fmt.Errorf("family %s: %w", family, err)
	}

	return Row{
		Family:       family,
		NAbstracts:   len(docs),
		NMatches:     report.MatchCount(),
		PeakMemMiB:   stats.PeakMemMiB,
		TimeSeconds:  stats.Seconds(),
		StartedAt:    started,
		MatchIndexes: report.MatchIndexes(),
	}, report, nil
}

// Run processes families in order and returns one row per family. Any read
// failure aborts the batch.
func (d *Driver) Run(ctx context.Context, families []string) ([]Row, error) {
	log := d.Logger
	if log == nil {
		log = logging.Discard()
	}

	rows := make([]Row, 0, len(families))
	for i, family := range families {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, _, err := d.RunFamily(ctx, family)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"family":  family,
			"matches": row.NMatches,
			"total":   row.NAbstracts,
		}).Info("family processed")

		rows = append(rows, row)
		if d.Progress != nil {
			d.Progress(i+1, len(families), family)
		}
	}
	return rows, nil
}
