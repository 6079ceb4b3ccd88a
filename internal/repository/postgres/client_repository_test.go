package postgres

import (
	"context"
	"testing"

	"caseAssist/business/client"
	"caseAssist/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE "clients"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age"}).AddRow(3, "Ana", "ana@example.com", 34))

	c, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), c.ID)
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, 34, c.Age)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE "clients"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientRepository_FindByCriteria(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	minAge := 20
	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE age >= \$1 AND gender = \$2 AND level_of_schooling = \$3 ORDER BY id`).
		WithArgs(20, 1, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	got, err := repo.FindByCriteria(context.Background(), client.Criteria{
		AgeMin: &minAge,
		Equals: map[string]int{"education_level": 5, "gender": 1},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_FindByCaseWorker(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectQuery(`SELECT DISTINCT clients\.\* FROM "clients" JOIN client_cases ON client_cases.client_id = clients.id WHERE client_cases.user_id = \$1`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	got, err := repo.FindByCaseWorker(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(9), got[0].ID)
}

func TestClientRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "client_cases" WHERE client_id = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "clients" WHERE "clients"."id" = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "client_cases"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "clients"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_CancelledContext(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
