package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// SQLite driver for the sync journal.
	_ "github.com/mattn/go-sqlite3"
)

// Run is one row of the sync journal, recording a single sync pass
// against an org.
type Run struct {
	ID            string    `json:"id"`
	Alias         string    `json:"alias"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	ObjectsSynced int       `json:"objects_synced"`
	ObjectsFailed int       `json:"objects_failed"`
	APIVersion    string    `json:"api_version"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Journal keeps sync run history in an SQLite database at the cache root.
type Journal struct {
	db *sql.DB
}

// HasJournal reports whether a sync journal already exists under root,
// without creating one.
func HasJournal(root string) bool {
	_, err := os.Stat(filepath.Join(root, journalFile))
	return err == nil
}

// OpenJournal opens (creating if needed) the journal database under root.
func OpenJournal(root string) (*Journal, error) {
	db, err := sql.Open("sqlite3", filepath.Join(root, journalFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open sync journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return j, nil
}

// Close releases the underlying database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}

// initialize ensures the sync_runs table exists
func (j *Journal) initialize() error {
	query := `
CREATE TABLE IF NOT EXISTS sync_runs (
	id TEXT PRIMARY KEY,
	alias TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL,
	objects_synced INTEGER NOT NULL DEFAULT 0,
	objects_failed INTEGER NOT NULL DEFAULT 0,
	api_version TEXT
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_alias_started
ON sync_runs(alias, started_at);
`
	_, err := j.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to initialize sync journal: %w", err)
	}

	return nil
}

// Record appends one sync run to the journal.
func (j *Journal) Record(run *Run) error {
	query := `
INSERT INTO sync_runs (id, alias, started_at, finished_at, objects_synced, objects_failed, api_version)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
	_, err := j.db.Exec(query, run.ID, run.Alias, run.StartedAt, run.FinishedAt,
		run.ObjectsSynced, run.ObjectsFailed, run.APIVersion)
	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}

	return nil
}

// History returns the most recent runs, newest first. An empty alias
// returns runs for every org; limit <= 0 means no limit.
func (j *Journal) History(alias string, limit int) ([]*Run, error) {
	query := `
SELECT id, alias, started_at, finished_at, objects_synced, objects_failed, api_version
FROM sync_runs
`
	var args []interface{}
	if alias != "" {
		query += "WHERE alias = ?\n"
		args = append(args, alias)
	}
	query += "ORDER BY started_at DESC\n"
	if limit > 0 {
		query += "LIMIT ?\n"
		args = append(args, limit)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync history: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		var apiVersion sql.NullString
		if err := rows.Scan(&r.ID, &r.Alias, &r.StartedAt, &r.FinishedAt,
			&r.ObjectsSynced, &r.ObjectsFailed, &apiVersion); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		if apiVersion.Valid {
			r.APIVersion = apiVersion.String
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync history: %w", err)
	}

	return runs, nil
}

// Last returns the most recent run for an org, or nil when the journal
// has no runs for it yet.
func (j *Journal) Last(alias string) (*Run, error) {
	runs, err := j.History(alias, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}
