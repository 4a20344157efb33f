package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobfeed/internal/model"
)

// Ensure SQLiteStore implements model.Ledger.
var _ model.Ledger = (*SQLiteStore)(nil)

// SQLiteStore is the run ledger: it remembers every URL ever exported and a
// summary row per run.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS seen_postings (
	url        TEXT PRIMARY KEY,
	first_seen TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	started_at   TEXT NOT NULL,
	finished_at  TEXT NOT NULL,
	keywords     TEXT NOT NULL,
	partitions   TEXT NOT NULL,
	fetched      INTEGER NOT NULL,
	filtered_out INTEGER NOT NULL,
	uniq         INTEGER NOT NULL,
	new          INTEGER NOT NULL,
	output_file  TEXT NOT NULL,
	upload       TEXT
);`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the ledger tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// MarkSeen records url and reports whether this is the first time it was seen.
func (s *SQLiteStore) MarkSeen(url string) (bool, error) {
	res, err := s.db.Exec(
		"INSERT OR IGNORE INTO seen_postings (url, first_seen) VALUES (?, ?)",
		url, formatTime(time.Now()),
	)
	if err != nil {
		return false, fmt.Errorf("marking %s as seen: %w", url, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("marking %s as seen: %w", url, err)
	}
	return n == 1, nil
}

// RecordRun stores one run summary.
func (s *SQLiteStore) RecordRun(r model.RunSummary) error {
	partitions, err := json.Marshal(r.Partitions)
	if err != nil {
		return fmt.Errorf("encoding partitions: %w", err)
	}
	var upload sql.NullString
	if r.Upload != nil {
		b, err := json.Marshal(r.Upload)
		if err != nil {
			return fmt.Errorf("encoding upload result: %w", err)
		}
		upload = sql.NullString{String: string(b), Valid: true}
	}

	_, err = s.db.Exec(`INSERT INTO runs
		(run_id, started_at, finished_at, keywords, partitions, fetched, filtered_out, uniq, new, output_file, upload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, formatTime(r.StartedAt), formatTime(r.FinishedAt), r.Keywords, string(partitions),
		r.Fetched, r.FilteredOut, r.Unique, r.New, r.OutputFile, upload,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.RunID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *SQLiteStore) RecentRuns(limit int) ([]model.RunSummary, error) {
	rows, err := s.db.Query(`SELECT run_id, started_at, finished_at, keywords, partitions,
		fetched, filtered_out, uniq, new, output_file, upload
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunSummary
	for rows.Next() {
		var (
			r                 model.RunSummary
			started, finished string
			partitions        string
			upload            sql.NullString
		)
		if err := rows.Scan(&r.RunID, &started, &finished, &r.Keywords, &partitions,
			&r.Fetched, &r.FilteredOut, &r.Unique, &r.New, &r.OutputFile, &upload); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		if err := json.Unmarshal([]byte(partitions), &r.Partitions); err != nil {
			return nil, fmt.Errorf("decoding partitions of run %s: %w", r.RunID, err)
		}
		if upload.Valid {
			r.Upload = &model.UploadResult{}
			if err := json.Unmarshal([]byte(upload.String), r.Upload); err != nil {
				return nil, fmt.Errorf("decoding upload of run %s: %w", r.RunID, err)
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Cleanup forgets URLs first seen longer ago than olderThan and returns how
// many were removed.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-olderThan))
	res, err := s.db.Exec("DELETE FROM seen_postings WHERE first_seen < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up postings older than %v: %w", olderThan, err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// formatTime renders t in UTC so that string comparison orders correctly.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
