package schema

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore persists the schema mapping in a single SQLite table keyed on
// the canonical symbol pair. Save performs a full delete-and-reinsert within
// one transaction rather than an incremental upsert: save cost is O(schema
// count), which is fine at the table sizes the engine caps at.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

const tableSchemas = "schemas"

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schemas table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// _journal_mode=WAL: better concurrency
	// _busy_timeout=5000: wait up to 5s for a lock instead of failing immediately
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrapError("open", fmt.Errorf("failed to open database: %w", err))
	}

	createSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		symbol_a TEXT NOT NULL,
		symbol_b TEXT NOT NULL,
		count INTEGER NOT NULL,
		cumulative_strength REAL NOT NULL,
		last_seen REAL NOT NULL,
		PRIMARY KEY(symbol_a, symbol_b)
	);`, tableSchemas)
	if _, err := db.Exec(createSQL); err != nil {
		db.Close()
		return nil, wrapError("open", fmt.Errorf("failed to create table: %w", err))
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads all rows into a schema mapping.
func (s *SQLiteStore) Load(ctx context.Context) (map[PairKey]*Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, wrapError("load", ErrStoreClosed)
	}

	query := fmt.Sprintf(
		"SELECT symbol_a, symbol_b, count, cumulative_strength, last_seen FROM %s",
		tableSchemas)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapError("load", err)
	}
	defer rows.Close()

	mapping := make(map[PairKey]*Schema)
	for rows.Next() {
		var a, b string
		var count int
		var strength, lastSeen float64
		if err := rows.Scan(&a, &b, &count, &strength, &lastSeen); err != nil {
			return nil, wrapError("load", err)
		}
		key := NewPairKey(a, b)
		mapping[key] = &Schema{
			Symbols:            key,
			Count:              count,
			CumulativeStrength: strength,
			LastSeen:           lastSeen,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("load", err)
	}
	return mapping, nil
}

// Save replaces the table contents with the given mapping in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, mapping map[PairKey]*Schema) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("save", ErrStoreClosed)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapError("save", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", tableSchemas)); err != nil {
		return wrapError("save", err)
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (symbol_a, symbol_b, count, cumulative_strength, last_seen) VALUES (?, ?, ?, ?, ?)",
		tableSchemas)
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return wrapError("save", err)
	}
	defer stmt.Close()

	for _, sc := range mapping {
		if _, err := stmt.ExecContext(ctx,
			sc.Symbols.A, sc.Symbols.B, sc.Count, sc.CumulativeStrength, sc.LastSeen); err != nil {
			return wrapError("save", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapError("save", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
