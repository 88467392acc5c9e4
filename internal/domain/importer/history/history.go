// Package history records completed statement imports so users can audit
// what was processed and when. Records expire on a retention schedule.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Record is one completed import run.
type Record struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Filename     string
	SuccessCount int
	FailureCount int
	InfoCount    int
	AccountID    *uuid.UUID
	ImportedAt   time.Time
}

// DB is the pgx query surface the repository needs. Both *pgxpool.Pool and
// test mocks satisfy it.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository persists import history over Postgres.
type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const historyColumns = `id, user_id, filename, success_count, failure_count, info_count, account_id, imported_at`

// Save inserts a record and fills its generated fields.
func (r *Repository) Save(ctx context.Context, rec *Record) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO import_history (user_id, filename, success_count, failure_count, info_count, account_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, imported_at`,
		rec.UserID, rec.Filename, rec.SuccessCount, rec.FailureCount, rec.InfoCount, rec.AccountID,
	)
	if err := row.Scan(&rec.ID, &rec.ImportedAt); err != nil {
		return fmt.Errorf("save import record: %w", err)
	}
	return nil
}

// ListByUser returns a user's imports, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Record, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+historyColumns+`
		FROM import_history
		WHERE user_id = $1
		ORDER BY imported_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list import history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Filename,
			&rec.SuccessCount, &rec.FailureCount, &rec.InfoCount,
			&rec.AccountID, &rec.ImportedAt,
		); err != nil {
			return nil, fmt.Errorf("scan import record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteOlderThan removes records imported before the cutoff and reports how
// many were swept.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM import_history WHERE imported_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep import history: %w", err)
	}
	return tag.RowsAffected(), nil
}
