package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docport/internal/model"
	"docport/internal/repository"
)

func TestOrganizationPostgres_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrganizationPostgres(db)

	rows := sqlmock.NewRows([]string{"id", "name", "code"}).
		AddRow("h1", "Central Hospital", "CH").
		AddRow("h2", "North Clinic", "NC")
	mock.ExpectQuery("SELECT id, name, code FROM organizations ORDER BY name").
		WillReturnRows(rows)

	items, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Central Hospital", items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationPostgres_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrganizationPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT id, name, code FROM organizations WHERE id = ?").
		WithArgs(orgA).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code"}).AddRow(orgA, "Central Hospital", "CH"))
	mock.ExpectQuery("SELECT id, name, code FROM organizations WHERE id = ?").
		WithArgs(orgB).
		WillReturnError(sql.ErrNoRows)

	org, err := repo.FindByID(ctx, orgA)
	require.NoError(t, err)
	assert.Equal(t, "CH", org.Code)

	_, err = repo.FindByID(ctx, orgB)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Not a UUID: no query reaches the uuid column.
	_, err = repo.FindByID(ctx, "zzz")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationPostgres_Seed(t *testing.T) {
	orgs := []model.Organization{
		{ID: orgA, Name: "General Hospital", Code: "GH"},
		{ID: orgB, Name: "City Clinic", Code: "CC"},
	}
	const insert = "INSERT INTO organizations \\(id, name, code\\) VALUES (.+) ON CONFLICT \\(code\\) DO NOTHING"

	t.Run("skips existing codes", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrganizationPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec(insert).WithArgs(orgA, "General Hospital", "GH").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insert).WithArgs(orgB, "City Clinic", "CC").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		added, err := repo.Seed(context.Background(), orgs)

		require.NoError(t, err)
		assert.Equal(t, 1, added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrganizationPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec(insert).WithArgs(orgA, "General Hospital", "GH").WillReturnError(errors.New("db down"))
		mock.ExpectRollback()

		_, err := repo.Seed(context.Background(), orgs)

		assert.ErrorContains(t, err, "GH")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
