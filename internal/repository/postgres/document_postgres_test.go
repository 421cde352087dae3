package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docport/internal/model"
	"docport/internal/repository"
)

const (
	orgA = "6f1d3c2a-8b4e-5a7f-9c0d-1e2f3a4b5c6d"
	orgB = "0a9b8c7d-6e5f-5a4b-8c3d-2e1f0a9b8c7d"
)

var docCols = []string{"id", "sender_id", "recipient_id", "comment", "status", "created_at", "expires_at", "storage_key"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestDocumentPostgres_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	exp := now.Add(7 * 24 * time.Hour)
	comment := "lab results"
	doc := &model.Document{
		ID:          "doc-1",
		SenderID:    "org-a",
		RecipientID: "org-b",
		Comment:     &comment,
		Status:      model.StatusUploaded,
		CreatedAt:   now,
		ExpiresAt:   &exp,
		StorageKey:  "documents/doc-1.pdf",
	}

	rows := sqlmock.NewRows(docCols).
		AddRow(doc.ID, doc.SenderID, doc.RecipientID, comment, "UPLOADED", now, exp, doc.StorageKey)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, "org-a", "org-b", comment, "UPLOADED", now, exp, doc.StorageKey).
		WillReturnRows(rows)

	result, err := repo.Insert(ctx, doc)

	require.NoError(t, err)
	assert.Equal(t, "doc-1", result.ID)
	assert.Equal(t, model.StatusUploaded, result.Status)
	require.NotNil(t, result.Comment)
	assert.Equal(t, comment, *result.Comment)
	require.NotNil(t, result.ExpiresAt)
	assert.True(t, exp.Equal(*result.ExpiresAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_InsertAssignsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentPostgres(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(docCols).
		AddRow("generated", "org-a", "org-b", nil, "UPLOADED", now, nil, "documents/x.pdf")

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), "org-a", "org-b", nil, "UPLOADED", now, nil, "documents/x.pdf").
		WillReturnRows(rows)

	result, err := repo.Insert(context.Background(), &model.Document{
		SenderID:    "org-a",
		RecipientID: "org-b",
		Status:      model.StatusUploaded,
		CreatedAt:   now,
		StorageKey:  "documents/x.pdf",
	})

	require.NoError(t, err)
	assert.Nil(t, result.Comment)
	assert.Nil(t, result.ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(docCols).
			AddRow("test-id", "org-a", "org-b", nil, "DOWNLOADED", time.Now(), time.Now(), "documents/a.pdf")

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		assert.Equal(t, "test-id", doc.ID)
		assert.Equal(t, model.StatusDownloaded, doc.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		rows := sqlmock.NewRows(docCols).
			AddRow("bad", "org-a", "org-b", nil, "READ", time.Now(), nil, "documents/a.pdf")

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("bad").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "bad")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown document status")
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentPostgres(db)

	rows := sqlmock.NewRows(docCols).
		AddRow("doc-1", "org-a", "org-b", nil, "UPLOADED", time.Now(), nil, "documents/k.pdf")
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE storage_key = ?").
		WithArgs("documents/k.pdf").
		WillReturnRows(rows)

	doc, err := repo.FindByKey(context.Background(), "documents/k.pdf")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("applied", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectExec("UPDATE documents SET status = (.+) WHERE id = (.+) AND status = (.+)").
			WithArgs("doc-1", "UPLOADED", "DOWNLOADED").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, "doc-1", model.StatusUploaded, model.StatusDownloaded)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale expectation is a conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectExec("UPDATE documents").
			WithArgs("doc-1", "UPLOADED", "CANCELLED").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("doc-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := repo.UpdateStatus(ctx, "doc-1", model.StatusUploaded, model.StatusCancelled)

		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectExec("UPDATE documents").
			WithArgs("missing", "UPLOADED", "ARCHIVED").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := repo.UpdateStatus(ctx, "missing", model.StatusUploaded, model.StatusArchived)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectExec("UPDATE documents").
			WillReturnError(errors.New("connection reset"))

		err := repo.UpdateStatus(ctx, "doc-1", model.StatusUploaded, model.StatusArchived)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentPostgres_InsertDuplicateKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentPostgres(db)

	mock.ExpectQuery("INSERT INTO documents").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "documents_storage_key_key"})
	mock.ExpectQuery("INSERT INTO documents").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "documents_sender_id_fkey"})

	doc := &model.Document{SenderID: orgA, RecipientID: orgB, Status: model.StatusUploaded, StorageKey: "documents/k.pdf"}

	_, err := repo.Insert(context.Background(), doc)
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	_, err = repo.Insert(context.Background(), doc)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrDuplicateKey)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Lists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("by recipient", func(t *testing.T) {
		rows := sqlmock.NewRows(docCols).
			AddRow("d2", "org-a", "org-b", nil, "UPLOADED", time.Now(), nil, "documents/2.pdf").
			AddRow("d1", "org-c", "org-b", "hi", "CANCELLED", time.Now().Add(-time.Hour), nil, "documents/1.pdf")

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE recipient_id = (.+) ORDER BY created_at DESC").
			WithArgs(orgB).
			WillReturnRows(rows)

		items, err := repo.ListByRecipient(ctx, orgB)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "d2", items[0].ID)
		assert.Equal(t, "hi", items[1].CommentText())
	})

	t.Run("by sender", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE sender_id = (.+) ORDER BY created_at DESC").
			WithArgs(orgA).
			WillReturnRows(sqlmock.NewRows(docCols))

		items, err := repo.ListBySender(ctx, orgA)

		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE sender_id").
			WillReturnError(errors.New("db down"))

		_, err := repo.ListBySender(ctx, orgA)

		assert.Error(t, err)
	})

	t.Run("non uuid organization matches nothing", func(t *testing.T) {
		items, err := repo.ListBySender(ctx, "zzz")

		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
