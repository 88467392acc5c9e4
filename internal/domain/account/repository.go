package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of pgxpool.Pool the repository uses; pgxmock satisfies
// it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresRepository is the pgx-backed account lookup.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, user_id, name, institution, account_number, type, subtype, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Institution, &a.AccountNumber,
		&a.Type, &a.Subtype, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// FindByNumberAndInstitution matches on the stored trailing-4 number and a
// case-insensitive institution name.
func (r *PostgresRepository) FindByNumberAndInstitution(ctx context.Context, userID uuid.UUID, number, institution string) (*Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		  AND RIGHT(regexp_replace(account_number, '\D', '', 'g'), 4) = $2
		  AND LOWER(institution) = LOWER($3)
		LIMIT 1
	`
	return scanAccount(r.db.QueryRow(ctx, query, userID, number, institution))
}

// FindByNumber matches on the stored trailing-4 number alone.
func (r *PostgresRepository) FindByNumber(ctx context.Context, userID uuid.UUID, number string) (*Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		  AND RIGHT(regexp_replace(account_number, '\D', '', 'g'), 4) = $2
		LIMIT 1
	`
	return scanAccount(r.db.QueryRow(ctx, query, userID, number))
}

// FindByUser returns all of the user's accounts, newest first.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		err := rows.Scan(
			&a.ID, &a.UserID, &a.Name, &a.Institution, &a.AccountNumber,
			&a.Type, &a.Subtype, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Create stores a newly detected account and returns it with generated
// fields filled in.
func (r *PostgresRepository) Create(ctx context.Context, userID uuid.UUID, det *Detected) (*Account, error) {
	query := `
		INSERT INTO accounts (user_id, name, institution, account_number, type, subtype)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountColumns + `
	`
	return scanAccount(r.db.QueryRow(ctx, query,
		userID, det.Name(), det.Institution, det.AccountNumber, det.Type, det.Subtype,
	))
}
