package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositorySave(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	recordID := uuid.New()
	importedAt := time.Now()

	mock.ExpectQuery(`INSERT INTO import_history`).
		WithArgs(userID, "chase_3100.pdf", 12, 1, 2, (*uuid.UUID)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "imported_at"}).AddRow(recordID, importedAt))

	repo := NewRepository(mock)
	rec := &Record{
		UserID:       userID,
		Filename:     "chase_3100.pdf",
		SuccessCount: 12,
		FailureCount: 1,
		InfoCount:    2,
	}
	require.NoError(t, repo.Save(context.Background(), rec))

	assert.Equal(t, recordID, rec.ID)
	assert.Equal(t, importedAt, rec.ImportedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	accountID := uuid.New()
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "filename", "success_count", "failure_count", "info_count", "account_id", "imported_at",
	}).
		AddRow(uuid.New(), userID, "dec.csv", 40, 0, 1, &accountID, time.Now()).
		AddRow(uuid.New(), userID, "nov.csv", 38, 2, 0, (*uuid.UUID)(nil), time.Now().Add(-time.Hour))

	mock.ExpectQuery(`FROM import_history`).
		WithArgs(userID, 10).
		WillReturnRows(rows)

	repo := NewRepository(mock)
	records, err := repo.ListByUser(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "dec.csv", records[0].Filename)
	require.NotNil(t, records[0].AccountID)
	assert.Equal(t, accountID, *records[0].AccountID)
	assert.Nil(t, records[1].AccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteOlderThan(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cutoff := time.Now().AddDate(0, 0, -90)
	mock.ExpectExec(`DELETE FROM import_history`).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 17))

	repo := NewRepository(mock)
	deleted, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(17), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteOlderThan_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM import_history`).
		WillReturnError(errors.New("connection reset"))

	repo := NewRepository(mock)
	_, err = repo.DeleteOlderThan(context.Background(), time.Now())
	assert.Error(t, err)
}
