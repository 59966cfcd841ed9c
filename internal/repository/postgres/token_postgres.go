// Package postgres persists token records in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docportal/internal/tokens"
)

// TokenPostgres implements tokens.Backend on the auth_tokens table. Each
// key holds one JSONB record.
type TokenPostgres struct {
	db *sql.DB
}

// NewTokenPostgres creates a TokenPostgres backend.
func NewTokenPostgres(db *sql.DB) *TokenPostgres {
	return &TokenPostgres{db: db}
}

var _ tokens.Backend = (*TokenPostgres)(nil)

func (r *TokenPostgres) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT record::text FROM auth_tokens WHERE key = $1`
	var raw string
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokens.ErrNoToken
		}
		return nil, fmt.Errorf("select token record: %w", err)
	}
	return []byte(raw), nil
}

// Put upserts the record under key.
func (r *TokenPostgres) Put(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO auth_tokens (key, record, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE
		SET record = EXCLUDED.record, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, q, key, string(value)); err != nil {
		return fmt.Errorf("upsert token record: %w", err)
	}
	return nil
}

// Delete removes the record. Deleting an absent key is not an error.
func (r *TokenPostgres) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM auth_tokens WHERE key = $1`
	if _, err := r.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("delete token record: %w", err)
	}
	return nil
}

// Purge removes records not updated since before. It returns the number
// of rows deleted.
func (r *TokenPostgres) Purge(ctx context.Context, before time.Time) (int64, error) {
	const q = `DELETE FROM auth_tokens WHERE updated_at < $1`
	res, err := r.db.ExecContext(ctx, q, before)
	if err != nil {
		return 0, fmt.Errorf("purge token records: %w", err)
	}
	return res.RowsAffected()
}
