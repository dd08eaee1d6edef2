package telemetry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
)

// SQLiteConfig configures the SQLite sender.
type SQLiteConfig struct {
	Path string `json:"path"`
}

// SQLiteSender stores every event as a row of the log_events table.
type SQLiteSender struct {
	db *sql.DB
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS log_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER,
	kind TEXT,
	source TEXT,
	severity TEXT,
	reference_id TEXT,
	record TEXT
);`

// NewSQLiteSender opens or creates the database at cfg.Path.
func NewSQLiteSender(cfg SQLiteConfig) (*SQLiteSender, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteSender{db: db}, nil
}

// Send inserts the event.
func (s *SQLiteSender) Send(ev coretelemetry.Event) error {
	rec := ev.Record()
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(context.Background(),
		`INSERT INTO log_events (ts, kind, source, severity, reference_id, record) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Time.UnixNano(), rec.Kind, rec.Source, rec.Severity, rec.ReferenceID, string(b))
	return err
}

// Query returns the matching records in insertion order.
func (s *SQLiteSender) Query(ctx context.Context, q Query) ([]coretelemetry.Record, error) {
	var args []any
	query := `SELECT record FROM log_events WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	if q.Source != "" {
		query += ` AND source = ?`
		args = append(args, q.Source)
	}
	if q.Severity != nil {
		query += ` AND severity = ?`
		args = append(args, q.Severity.String())
	}
	if q.ReferenceID != "" {
		query += ` AND reference_id = ?`
		args = append(args, q.ReferenceID)
	}
	if q.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, q.Kind)
	}
	query += ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []coretelemetry.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r coretelemetry.Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the database.
func (s *SQLiteSender) Close() error { return s.db.Close() }
