package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"docport/internal/model"
	"docport/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// storageKeyConstraint is the name Postgres gives the UNIQUE on documents.storage_key.
const storageKeyConstraint = "documents_storage_key_key"

const documentColumns = `id, sender_id, recipient_id, comment, status, created_at, expires_at, storage_key`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d         model.Document
		comment   sql.NullString
		status    string
		expiresAt sql.NullTime
	)
	if err := row.Scan(
		&d.ID,
		&d.SenderID,
		&d.RecipientID,
		&comment,
		&status,
		&d.CreatedAt,
		&expiresAt,
		&d.StorageKey,
	); err != nil {
		return nil, err
	}
	st, err := model.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	d.Status = st
	if comment.Valid {
		c := comment.String
		d.Comment = &c
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		d.ExpiresAt = &t
	}
	return &d, nil
}

// Insert inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Insert(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + documentColumns
	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	var comment sql.NullString
	if doc.Comment != nil {
		comment = sql.NullString{String: *doc.Comment, Valid: true}
	}
	var expiresAt sql.NullTime
	if doc.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *doc.ExpiresAt, Valid: true}
	}
	row := r.db.QueryRowContext(ctx, q,
		id,
		doc.SenderID,
		doc.RecipientID,
		comment,
		string(doc.Status),
		doc.CreatedAt,
		expiresAt,
		doc.StorageKey,
	)
	out, err := scanDocument(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == storageKeyConstraint {
			return nil, repository.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1
	`
	return r.findOne(ctx, q, id)
}

// FindByKey fetches the document that owns a storage key.
func (r *DocumentPostgres) FindByKey(ctx context.Context, key string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE storage_key = $1
	`
	return r.findOne(ctx, q, key)
}

func (r *DocumentPostgres) findOne(ctx context.Context, q string, arg string) (*model.Document, error) {
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select document: %w", err)
	}
	return d, nil
}

// UpdateStatus applies a conditional status write keyed by the expected current status.
func (r *DocumentPostgres) UpdateStatus(ctx context.Context, id string, expected, next model.Status) error {
	const q = `UPDATE documents SET status = $3 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, q, id, string(expected), string(next))
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if n == 1 {
		return nil
	}

	// Zero rows: either the row is gone or another writer moved the status first.
	const qExists = `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, qExists, id).Scan(&exists); err != nil {
		return fmt.Errorf("check document existence: %w", err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}

// ListByRecipient returns the inbox of an organization.
func (r *DocumentPostgres) ListByRecipient(ctx context.Context, orgID string) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE recipient_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, q, orgID)
}

// ListBySender returns the sent history of an organization.
func (r *DocumentPostgres) ListBySender(ctx context.Context, orgID string) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE sender_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, q, orgID)
}

func (r *DocumentPostgres) list(ctx context.Context, q string, orgID string) ([]model.Document, error) {
	// Organization ids are UUIDs; anything else cannot match a row.
	if !isUUID(orgID) {
		return []model.Document{}, nil
	}
	rows, err := r.db.QueryContext(ctx, q, orgID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
