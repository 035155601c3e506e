package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	conn *sql.DB
}

// Run is one answered stock query.
type Run struct {
	ID               int64  `json:"id"`
	TraceID          string `json:"traceId"`
	Source           string `json:"source"`
	SelectionJSON    string `json:"selection"`
	TotalRecords     int    `json:"totalRecords"`
	AvailableRecords int    `json:"availableRecords"`
	FilteredRecords  int    `json:"filteredRecords"`
	MissingJSON      string `json:"missing"`
	DurationMs       int64  `json:"durationMs"`
	CreatedAt        string `json:"createdAt"`
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  source TEXT NOT NULL,
  selectionJson TEXT NOT NULL,
  totalRecords INTEGER NOT NULL,
  availableRecords INTEGER NOT NULL,
  filteredRecords INTEGER NOT NULL,
  missingJson TEXT NOT NULL,
  durationMs INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_traceId ON runs(traceId);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(ctx context.Context, run Run) (int64, error) {
	result, err := d.conn.ExecContext(ctx, `
INSERT INTO runs (traceId, source, selectionJson, totalRecords, availableRecords, filteredRecords, missingJson, durationMs)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, run.TraceID, run.Source, run.SelectionJSON, run.TotalRecords, run.AvailableRecords, run.FilteredRecords, run.MissingJSON, run.DurationMs)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListRuns returns the newest runs first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.QueryContext(ctx, `
SELECT id, traceId, source, selectionJson, totalRecords, availableRecords, filteredRecords, missingJson, durationMs, createdAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Run, 0)
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.TraceID, &r.Source, &r.SelectionJSON,
			&r.TotalRecords, &r.AvailableRecords, &r.FilteredRecords,
			&r.MissingJSON, &r.DurationMs, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
