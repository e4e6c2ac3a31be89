package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"bitacora-backend/internal/apperr"
)

// dbtx is satisfied by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// queries implements Repository on top of either the pool or a transaction.
type queries struct {
	db   dbtx
	inTx bool
}

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresStore is the pooled Postgres implementation of Store. Every
// statement borrows a connection from the pool and returns it when done.
type PostgresStore struct {
	*queries
	pool *sql.DB
}

func NewPostgresStore(ctx context.Context, connectionString string, opts PoolOptions) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{queries: &queries{db: db}, pool: db}, nil
}

// DB exposes the pool for the migrator.
func (s *PostgresStore) DB() *sql.DB {
	return s.pool
}

func (s *PostgresStore) WithTx(ctx context.Context, fn func(Repository) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return apperr.StoreUnavailable("failed to begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&queries{db: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.StoreUnavailable("failed to commit transaction", err)
	}
	committed = true
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.PingContext(ctx); err != nil {
		return apperr.StoreUnavailable("database unreachable", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.pool.Close()
}

// forUpdate appends a row lock when running inside a transaction. NO KEY
// UPDATE leaves the KEY SHARE locks taken by child foreign-key checks
// unblocked.
func (q *queries) forUpdate(query string) string {
	if q.inTx {
		return query + " FOR NO KEY UPDATE"
	}
	return query
}

// classify maps driver errors onto the store's error taxonomy.
func classify(err error, entity, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(entity + " not found")
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return apperr.Conflict(entity+" already exists", err)
		case "23503":
			return apperr.NotFound("referenced parent of " + entity + " not found")
		case "23502", "23514", "22P02", "22007", "22008":
			return &apperr.Error{Kind: apperr.KindValidation, Message: "invalid " + entity, Err: err}
		}
	}
	return apperr.StoreUnavailable(fmt.Sprintf("failed to %s %s", op, entity), err)
}

// patchText normalizes a coalesce field: nil and blank both mean "keep".
func patchText(p *string) string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return ""
	}
	return *p
}

func nullString(s *string) sql.NullString {
	if s == nil || strings.TrimSpace(*s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
