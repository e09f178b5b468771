package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// pgx maps BYTEA fine through database/sql; the BLOB column type above is
// accepted by both engines we support.
const kvSchemaPostgres = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// SQLStore implements Store over a single kv table. The same type serves both
// backends; only placeholder syntax and DDL differ.
type SQLStore struct {
	db        *sql.DB
	getSQL    string
	upsertSQL string
	log       *slog.Logger
}

// OpenSQLite opens (and if needed creates) a SQLite-backed store.
func OpenSQLite(ctx context.Context, dsn string, logger *slog.Logger) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite serializes writes; one connection avoids lock churn.
	db.SetMaxOpenConns(1)
	s := &SQLStore{
		db:     db,
		getSQL: `SELECT value FROM kv_store WHERE key = ?`,
		upsertSQL: `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		log: logger,
	}
	if err := s.init(ctx, kvSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// OpenPostgres opens a Postgres-backed store through the pgx stdlib driver.
func OpenPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	s := &SQLStore{
		db:     db,
		getSQL: `SELECT value FROM kv_store WHERE key = $1`,
		upsertSQL: `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		log: logger,
	}
	if err := s.init(ctx, kvSchemaPostgres); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) init(ctx context.Context, ddl string) error {
	if s.log == nil {
		s.log = slog.Default()
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.getSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.upsertSQL, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	return nil
}

// HealthCheck pings the underlying database with a bounded timeout.
func (s *SQLStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	hctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.db.PingContext(hctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
