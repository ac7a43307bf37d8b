// Package storage persists run history as JSONL with an SQLite query cache.
//
// runs.jsonl is the source of truth and is safe to version; the SQLite
// database under cache/ is rebuilt from it whenever it is queried.
package storage

import (
	"time"

	"github.com/google/uuid"
)

// Run is one recorded matcher run over a single family or input pair.
type Run struct {
	ID           string    `json:"id"`
	Family       string    `json:"family,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	Mode         string    `json:"mode"`
	Threshold    float64   `json:"threshold"`
	NAbstracts   int       `json:"n_abstracts"`
	NMatches     int       `json:"n_matches"`
	PeakMemMiB   float64   `json:"peak_mem_mib"`
	TimeSeconds  float64   `json:"time_seconds"`
	MatchIndexes []int     `json:"match_indexes,omitempty"`
}

// NewRunID returns a fresh identifier for a run record.
func NewRunID() string {
	return uuid.NewString()
}
