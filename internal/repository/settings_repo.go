package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepo is a per-user key-value store.
type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// Get returns the stored value and whether the key exists.
func (r *SettingsRepo) Get(ctx context.Context, userID int64, key string) (string, bool, error) {
	var value string
	err := r.pool.QueryRow(ctx, `
		SELECT value FROM user_settings
		WHERE telegram_id = $1 AND key = $2
	`, userID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

// GetAll returns every key stored for the user.
func (r *SettingsRepo) GetAll(ctx context.Context, userID int64) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT key, value FROM user_settings WHERE telegram_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (r *SettingsRepo) Set(ctx context.Context, userID int64, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_settings (telegram_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, userID, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// Increment atomically adds delta to an integer value, creating it at delta.
func (r *SettingsRepo) Increment(ctx context.Context, userID int64, key string, delta int64) (int64, error) {
	var value string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_settings (telegram_id, key, value)
		VALUES ($1, $2, $3::BIGINT::TEXT)
		ON CONFLICT (telegram_id, key)
		DO UPDATE SET value = (COALESCE(NULLIF(user_settings.value, ''), '0')::BIGINT + $3::BIGINT)::TEXT,
			updated_at = NOW()
		RETURNING value
	`, userID, key, delta).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("increment setting %s: %w", key, err)
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse setting %s: %w", key, err)
	}
	return n, nil
}
