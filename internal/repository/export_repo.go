package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/set-night/chatexport/internal/domain"
)

type ExportRepo struct {
	pool *pgxpool.Pool
}

func NewExportRepo(pool *pgxpool.Pool) *ExportRepo {
	return &ExportRepo{pool: pool}
}

func (r *ExportRepo) Create(ctx context.Context, rec *domain.ExportRecord) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO exports (id, telegram_id, title, format, message_count, drive_file_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, rec.ID, rec.UserID, rec.Title, string(rec.Format), rec.MessageCount, rec.DriveFileID).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert export: %w", err)
	}
	return nil
}

// ListByUser returns a page of the user's exports, newest first.
func (r *ExportRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.ExportRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, telegram_id, title, format, message_count, drive_file_id, created_at
		FROM exports
		WHERE telegram_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var out []domain.ExportRecord
	for rows.Next() {
		var (
			rec    domain.ExportRecord
			format string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Title, &format, &rec.MessageCount, &rec.DriveFileID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		rec.Format = domain.Format(format)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *ExportRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exports WHERE telegram_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count exports: %w", err)
	}
	return n, nil
}
