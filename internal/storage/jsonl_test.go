package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func sampleRuns() []Run {
	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return []Run{
		{
			ID:           "run-1",
			Family:       "Asteraceae",
			StartedAt:    base,
			Mode:         "pairwise",
			Threshold:    1.0,
			NAbstracts:   120,
			NMatches:     14,
			PeakMemMiB:   3.5,
			TimeSeconds:  0.82,
			MatchIndexes: []int{2, 7, 9},
		},
		{
			ID:          "run-2",
			Family:      "Rosaceae",
			StartedAt:   base.Add(time.Hour),
			Mode:        "global",
			Threshold:   2.0,
			NAbstracts:  40,
			NMatches:    0,
			PeakMemMiB:  1.25,
			TimeSeconds: 0.1,
		},
		{
			ID:          "run-3",
			Family:      "Asteraceae",
			StartedAt:   base.Add(2 * time.Hour),
			Mode:        "pairwise",
			Threshold:   1.0,
			NAbstracts:  120,
			NMatches:    16,
			PeakMemMiB:  4.5,
			TimeSeconds: 1.18,
		},
	}
}

func TestReadRuns_NotExist(t *testing.T) {
	runs, err := ReadRuns(filepath.Join(t.TempDir(), "runs.jsonl"))
	if err != nil {
		t.Fatalf("ReadRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("ReadRuns() returned %d runs, want 0", len(runs))
	}
}

func TestAppendRun_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history", "runs.jsonl")

	want := sampleRuns()
	if err := AppendRuns(path, want); err != nil {
		t.Fatalf("AppendRuns() error = %v", err)
	}

	got, err := ReadRuns(path)
	if err != nil {
		t.Fatalf("ReadRuns() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadRuns() = %+v, want %+v", got, want)
	}
}

func TestReadRuns_SkipsEmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	content := `{"id":"a","started_at":"2026-01-01T00:00:00Z","mode":"pairwise","threshold":1,"n_abstracts":1,"n_matches":1,"peak_mem_mib":0,"time_seconds":0}

{"id":"b","started_at":"2026-01-02T00:00:00Z","mode":"pairwise","threshold":1,"n_abstracts":2,"n_matches":0,"peak_mem_mib":0,"time_seconds":0}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err := ReadRuns(path)
	if err != nil {
		t.Fatalf("ReadRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ReadRuns() returned %d runs, want 2", len(runs))
	}
	if runs[1].ID != "b" || runs[1].NAbstracts != 2 {
		t.Errorf("second run = %+v", runs[1])
	}
}

func TestReadRuns_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	if err := os.WriteFile(path, []byte("{not json}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadRuns(path); err == nil {
		t.Error("ReadRuns() should fail on malformed JSON")
	}
}

func TestNewRunID_Unique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Errorf("NewRunID() returned %q and %q", a, b)
	}
}
