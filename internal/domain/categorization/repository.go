package categorization

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Override is a user's stored correction: any transaction whose text
// contains the pattern takes the override's mapping before the rule chain
// runs.
type Override struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Pattern   string
	Primary   string
	Detailed  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Matches reports whether the override applies to the uppercased text.
func (o *Override) Matches(text string) bool {
	pattern := strings.ToUpper(strings.TrimSpace(o.Pattern))
	return pattern != "" && strings.Contains(text, pattern)
}

// DB is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Repository stores user category overrides.
type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const overrideColumns = `id, user_id, pattern, primary_category, detailed_category, created_at, updated_at`

// ListByUser returns a user's overrides, most recently updated first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Override, error) {
	query := `
		SELECT ` + overrideColumns + `
		FROM category_overrides
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []Override
	for rows.Next() {
		var o Override
		err := rows.Scan(&o.ID, &o.UserID, &o.Pattern, &o.Primary, &o.Detailed, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// Save upserts an override keyed on (user, pattern).
func (r *Repository) Save(ctx context.Context, o Override) (*Override, error) {
	query := `
		INSERT INTO category_overrides (user_id, pattern, primary_category, detailed_category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, pattern) DO UPDATE SET
			primary_category = EXCLUDED.primary_category,
			detailed_category = EXCLUDED.detailed_category,
			updated_at = now()
		RETURNING ` + overrideColumns + `
	`
	var saved Override
	err := r.db.QueryRow(ctx, query, o.UserID, o.Pattern, o.Primary, o.Detailed).Scan(
		&saved.ID, &saved.UserID, &saved.Pattern, &saved.Primary, &saved.Detailed,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Delete removes a user's override. Missing rows report pgx.ErrNoRows.
func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM category_overrides WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
