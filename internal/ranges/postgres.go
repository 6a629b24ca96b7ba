package ranges

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/rileyhilliard/vitals/internal/config"
)

// PostgresBackend stores values in a two-column key/value table.
type PostgresBackend struct {
	db    *sql.DB
	table string
}

// NewPostgresBackend wraps an open database. table may be schema-qualified.
func NewPostgresBackend(db *sql.DB, table string) *PostgresBackend {
	return &PostgresBackend{db: db, table: quoteTable(table)}
}

// OpenPostgres opens the database, checks connectivity and creates the
// table when it does not exist yet.
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	b := NewPostgresBackend(db, cfg.Table)
	if err := b.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// EnsureSchema creates the settings table if needed.
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)`, b.table)
	if _, err := b.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create table %s: %w", b.table, err)
	}
	return nil
}

// Get fetches the value for key.
func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	q := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, b.table)

	var value string
	err := b.db.QueryRowContext(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Put upserts value under key. The statement commits before returning.
func (b *PostgresBackend) Put(ctx context.Context, key string, value []byte) error {
	q := fmt.Sprintf(`INSERT INTO %s (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, b.table)
	_, err := b.db.ExecContext(ctx, q, key, string(value))
	return err
}

// Close closes the database handle.
func (b *PostgresBackend) Close() error {
	return b.db.Close()
}

// quoteTable quotes each dotted part of a possibly schema-qualified name.
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
