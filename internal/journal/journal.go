// Package journal persists recorded kernel-op traces of generation runs
// to SQLite, so a run can be audited or replayed after the fact.
//
// Each run is keyed by a time-sortable UUIDv7 token. The journal is an
// append-only log: runs and their ops are written once, after the run,
// and read back by the trace command.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tessellate-dev/planemesh/internal/kernel"
)

//go:embed schema.sql
var schemaSQL string

// Run is one journaled generation run.
type Run struct {
	Token     string
	Model     string
	CreatedAt string
	OpCount   int
}

// Store is a SQLite-backed run journal.
type Store struct {
	db *sql.DB
}

// Open creates or opens the journal database at path. ":memory:" gives an
// ephemeral journal for tests.
//
// The database is configured with WAL mode, NORMAL synchronous, a 5-second
// busy timeout, and foreign key enforcement. SQLite allows one writer at a
// time, so the pool is pinned to a single connection.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun writes one run and its full op trace in a single transaction:
// either the whole run is journaled or none of it is.
func (s *Store) RecordRun(ctx context.Context, token, model string, ops []kernel.Op) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (token, model) VALUES (?, ?)`, token, model); err != nil {
		return fmt.Errorf("insert run %s: %w", token, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ops (run_token, seq, name, args, tag) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare op insert: %w", err)
	}
	defer stmt.Close()

	for _, op := range ops {
		var args []byte
		if op.Args != nil {
			args, err = json.Marshal(op.Args)
			if err != nil {
				return fmt.Errorf("marshal args of op %d: %w", op.Seq, err)
			}
		}
		if _, err := stmt.ExecContext(ctx, token, op.Seq, op.Name, args, op.Tag); err != nil {
			return fmt.Errorf("insert op %d: %w", op.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", token, err)
	}
	return nil
}

// Runs lists journaled runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.token, r.model, r.created_at, COUNT(o.seq)
		FROM runs r
		LEFT JOIN ops o ON o.run_token = r.token
		GROUP BY r.token
		ORDER BY r.created_at DESC, r.token DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.Token, &r.Model, &r.CreatedAt, &r.OpCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Ops returns one run's op trace in seq order.
func (s *Store) Ops(ctx context.Context, token string) ([]kernel.Op, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, name, args, tag FROM ops WHERE run_token = ? ORDER BY seq`, token)
	if err != nil {
		return nil, fmt.Errorf("query ops of %s: %w", token, err)
	}
	defer rows.Close()

	var ops []kernel.Op
	for rows.Next() {
		var op kernel.Op
		var args sql.NullString
		if err := rows.Scan(&op.Seq, &op.Name, &args, &op.Tag); err != nil {
			return nil, fmt.Errorf("scan op: %w", err)
		}
		if args.Valid && args.String != "" {
			if err := json.Unmarshal([]byte(args.String), &op.Args); err != nil {
				return nil, fmt.Errorf("unmarshal args of op %d: %w", op.Seq, err)
			}
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}
