package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func (r *Repository) observe(queryType string) func() {
	startTime := time.Now()

	return func() {
		r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
	}
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	defer r.observe("kv_get")()

	query := `SELECT value FROM kv_entries WHERE key=$1`

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get value by key: %w", err)
	}

	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	defer r.observe("kv_set")()

	query := `
		INSERT INTO kv_entries (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP;
	`

	_, err := r.db.Exec(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to save value: %w", err)
	}

	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *Repository) Delete(ctx context.Context, key string) error {
	defer r.observe("kv_delete")()

	query := `DELETE FROM kv_entries WHERE key=$1;`

	_, err := r.db.Exec(ctx, query, key)
	if err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}

	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
