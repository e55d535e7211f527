// Package store handles SQLite persistence of the correction journal.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tcm/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for journal events.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			recorded_at TEXT NOT NULL,
			kind TEXT NOT NULL,
			suspicious TEXT NOT NULL,
			correct TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_recorded_at ON events(recorded_at);`,
		`CREATE INDEX IF NOT EXISTS idx_events_source ON events(source);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AppendEvents stores events in a single transaction, in order.
func (s *Store) AppendEvents(ctx context.Context, events []model.Event) (err error) {
	if len(events) == 0 {
		return nil
	}
	for _, ev := range events {
		if !ev.Kind.Valid() {
			return fmt.Errorf("invalid event kind %q", ev.Kind)
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (recorded_at, kind, suspicious, correct, source)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, ev := range events {
		recordedAt := ev.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = time.Now()
		}
		if _, err = stmt.ExecContext(ctx,
			recordedAt.UTC().Format(time.RFC3339Nano),
			string(ev.Kind),
			ev.Suspicious,
			ev.Correct,
			ev.Source,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListEvents returns journaled events in insertion order.
func (s *Store) ListEvents(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	where, args := filterClause(filter)
	query := fmt.Sprintf(`SELECT id, recorded_at, kind, suspicious, correct, source
		FROM events
		WHERE %s
		ORDER BY id ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var events []model.Event
	for rows.Next() {
		var ev model.Event
		var recordedAt, kind string
		if err := rows.Scan(&ev.ID, &recordedAt, &kind, &ev.Suspicious, &ev.Correct, &ev.Source); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, err
		}
		ev.RecordedAt = parsed
		ev.Kind = model.EventKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CountEvents returns the number of journaled events per kind matching filter.
func (s *Store) CountEvents(ctx context.Context, filter model.EventFilter) (map[model.EventKind]int, error) {
	where, args := filterClause(filter)
	query := fmt.Sprintf(`SELECT kind, COUNT(*) FROM events WHERE %s GROUP BY kind`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	counts := map[model.EventKind]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[model.EventKind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// filterClause builds the WHERE clause for filter. Since only drops confirm
// events so replay always sees the moves they refer to.
func filterClause(filter model.EventFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, filter.Source)
	}
	if filter.Since != nil {
		clauses = append(clauses, "(kind <> ? OR recorded_at >= ?)")
		args = append(args, string(model.EventConfirm), filter.Since.UTC().Format(time.RFC3339Nano))
	}
	return strings.Join(clauses, " AND "), args
}
