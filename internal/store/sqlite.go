package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seantiz/draftbridge/internal/model"

	_ "modernc.org/sqlite"
)

const createInvocationsTable = `
CREATE TABLE IF NOT EXISTS invocations (
    id          TEXT PRIMARY KEY,
    status      TEXT NOT NULL,
    args        TEXT NOT NULL,
    kind        TEXT NOT NULL DEFAULT '',
    output      TEXT NOT NULL DEFAULT '',
    error       TEXT NOT NULL DEFAULT '',
    exit_code   INTEGER,
    duration_ms INTEGER NOT NULL,
    created_at  DATETIME NOT NULL,
    finished_at DATETIME
)`

// ErrNotFound is returned when an invocation is not found.
var ErrNotFound = errors.New("invocation not found")

// Compile-time interface satisfaction check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the SQLite database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(createInvocationsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create invocations table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateInvocation inserts a new invocation record.
func (s *SQLiteStore) CreateInvocation(ctx context.Context, inv *model.Invocation) error {
	args, err := model.EncodeArgs(inv.Args)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO invocations (
			id, status, args, kind, output, error, exit_code,
			duration_ms, created_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Status, args, inv.Kind, inv.Output, inv.Error,
		inv.ExitCode, inv.DurationMS, inv.CreatedAt, inv.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}

// GetInvocation retrieves an invocation by ID.
func (s *SQLiteStore) GetInvocation(ctx context.Context, id string) (*model.Invocation, error) {
	inv := &model.Invocation{}
	var args string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, args, kind, output, error, exit_code,
			duration_ms, created_at, finished_at
		FROM invocations WHERE id = ?`, id,
	).Scan(
		&inv.ID, &inv.Status, &args, &inv.Kind, &inv.Output, &inv.Error,
		&inv.ExitCode, &inv.DurationMS, &inv.CreatedAt, &inv.FinishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invocation: %w", err)
	}

	if inv.Args, err = model.DecodeArgs(args); err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvocations returns a paginated list of invocations ordered newest
// first, along with the total count of all invocations.
func (s *SQLiteStore) ListInvocations(ctx context.Context, limit, offset int) ([]*model.Invocation, int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin read tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM invocations").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invocations: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, status, args, kind, output, error, exit_code,
			duration_ms, created_at, finished_at
		FROM invocations ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list invocations: %w", err)
	}
	defer rows.Close()

	var invocations []*model.Invocation
	for rows.Next() {
		inv := &model.Invocation{}
		var args string
		if err := rows.Scan(
			&inv.ID, &inv.Status, &args, &inv.Kind, &inv.Output, &inv.Error,
			&inv.ExitCode, &inv.DurationMS, &inv.CreatedAt, &inv.FinishedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan invocation: %w", err)
		}
		if inv.Args, err = model.DecodeArgs(args); err != nil {
			return nil, 0, err
		}
		invocations = append(invocations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate invocations: %w", err)
	}

	return invocations, total, nil
}

// GetInvocationStats computes aggregate statistics over all invocations.
func (s *SQLiteStore) GetInvocationStats(ctx context.Context) (*InvocationStats, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin read tx: %w", err)
	}
	defer tx.Rollback()

	stats := &InvocationStats{
		CountByStatus: make(map[string]int),
		CountByKind:   make(map[string]int),
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM invocations GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.CountByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	kindRows, err := tx.QueryContext(ctx,
		"SELECT kind, COUNT(*) FROM invocations WHERE kind != '' GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("count by kind: %w", err)
	}
	defer kindRows.Close()

	for kindRows.Next() {
		var kind string
		var count int
		if err := kindRows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		stats.CountByKind[kind] = count
	}
	if err := kindRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kind counts: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(duration_ms), 0) FROM invocations",
	).Scan(&stats.AvgDurationMS); err != nil {
		return nil, fmt.Errorf("average duration: %w", err)
	}

	return stats, nil
}
