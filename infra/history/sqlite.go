// Package history provides the SQLite-backed history store.
package history

import (
	"database/sql"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	core "github.com/pkozlov/blackoutcal/core/history"
)

// SQLiteStore persists outage history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS outage_history (
        day TEXT,
        group_id TEXT,
        total_seconds INTEGER,
        intervals TEXT,
        PRIMARY KEY(day, group_id)
    );`

// NewSQLiteStore opens or creates the database and ensures the schema.
// A corrupt database file is discarded and recreated empty; history is
// derived state and losing it must never abort a run.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := openDB(path)
	if err == nil {
		return &SQLiteStore{db: db}, nil
	}
	if !strings.Contains(err.Error(), "not a database") {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		return nil, err
	}
	db, err = openDB(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Record inserts or replaces the entry for (day, group).
func (s *SQLiteStore) Record(e core.Entry) error {
	_, err := s.db.Exec(`INSERT INTO outage_history (day, group_id, total_seconds, intervals)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(day, group_id) DO UPDATE SET
            total_seconds = excluded.total_seconds,
            intervals = excluded.intervals`,
		e.Date, e.Group, e.TotalSeconds, strings.Join(e.Ranges, ","))
	return err
}

// All returns every recorded entry ordered by day then group.
func (s *SQLiteStore) All() ([]core.Entry, error) {
	rows, err := s.db.Query(`SELECT day, group_id, total_seconds, intervals
        FROM outage_history ORDER BY day, group_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []core.Entry
	for rows.Next() {
		var e core.Entry
		var intervals string
		if err := rows.Scan(&e.Date, &e.Group, &e.TotalSeconds, &intervals); err != nil {
			return nil, err
		}
		if intervals != "" {
			e.Ranges = strings.Split(intervals, ",")
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
