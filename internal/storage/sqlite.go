package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectRunFields contains the standard field list for SELECT queries.
const selectRunFields = `id, family, started_at, mode, threshold,
	n_abstracts, n_matches, peak_mem_mib, time_seconds, match_indexes_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			family TEXT,
			started_at INTEGER NOT NULL,
			mode TEXT NOT NULL,
			threshold REAL NOT NULL,
			n_abstracts INTEGER NOT NULL,
			n_matches INTEGER NOT NULL,
			peak_mem_mib REAL NOT NULL,
			time_seconds REAL NOT NULL,
			match_indexes_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_runs_family ON runs(family);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	runs, err := ReadRuns(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM runs"); err != nil {
		return 0, fmt.Errorf("clearing runs table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO runs (
			id, family, started_at, mode, threshold,
			n_abstracts, n_matches, peak_mem_mib, time_seconds, match_indexes_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing runs insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range runs {
		indexesJSON, err := json.Marshal(r.MatchIndexes)
		if err != nil {
			return 0, fmt.Errorf("marshaling match indexes for %s: %w", r.ID, err)
		}
		_, err = stmt.Exec(
			r.ID, r.Family, r.StartedAt.UnixNano(), r.Mode, r.Threshold,
			r.NAbstracts, r.NMatches, r.PeakMemMiB, r.TimeSeconds, string(indexesJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting run %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(runs), nil
}

// ListRuns returns recorded runs, newest first. An empty family lists every
// family; limit <= 0 means no limit.
func (d *DB) ListRuns(family string, limit int) ([]Run, error) {
	query := `SELECT ` + selectRunFields + ` FROM runs`
	var args []interface{}
	if family != "" {
		query += " WHERE family = ?"
		args = append(args, family)
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// FamilySummary aggregates recorded runs for one family.
type FamilySummary struct {
	Family      string  `json:"family"`
	Runs        int     `json:"runs"`
	AvgMatches  float64 `json:"avg_matches"`
	AvgSeconds  float64 `json:"avg_seconds"`
	MaxPeakMiB  float64 `json:"max_peak_mem_mib"`
	LastRunUnix int64   `json:"last_run_unix"`
}

// SummarizeByFamily returns one aggregate row per family, ordered by name.
func (d *DB) SummarizeByFamily() ([]FamilySummary, error) {
	rows, err := d.db.Query(`
		SELECT family, COUNT(*), AVG(n_matches), AVG(time_seconds),
			MAX(peak_mem_mib), MAX(started_at)
		FROM runs
		GROUP BY family
		ORDER BY family
	`)
	if err != nil {
		return nil, fmt.Errorf("summarizing runs: %w", err)
	}
	defer rows.Close()

	var out []FamilySummary
	for rows.Next() {
		var s FamilySummary
		var family sql.NullString
		var lastNanos int64
		if err := rows.Scan(&family, &s.Runs, &s.AvgMatches, &s.AvgSeconds, &s.MaxPeakMiB, &lastNanos); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		s.Family = family.String
		s.LastRunUnix = time.Unix(0, lastNanos).Unix()
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var family, indexesJSON sql.NullString
		var startedNanos int64
		err := rows.Scan(
			&r.ID, &family, &startedNanos, &r.Mode, &r.Threshold,
			&r.NAbstracts, &r.NMatches, &r.PeakMemMiB, &r.TimeSeconds, &indexesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Family = family.String
		r.StartedAt = time.Unix(0, startedNanos).UTC()
		if indexesJSON.Valid && indexesJSON.String != "" && indexesJSON.String != "null" {
			if err := json.Unmarshal([]byte(indexesJSON.String), &r.MatchIndexes); err != nil {
				return nil, fmt.Errorf("parsing match indexes for %s: %w", r.ID, err)
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
