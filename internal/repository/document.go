package repository

import (
	"context"

	"docport/internal/model"
)

// DocumentRepository defines data access for documents. No business logic here;
// guards belong to the lifecycle engine.
type DocumentRepository interface {
	// Insert stores a new document record and returns it as persisted.
	// An empty ID is assigned by the store.
	Insert(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindByKey returns the document owning a storage key or ErrNotFound.
	FindByKey(ctx context.Context, key string) (*model.Document, error)

	// UpdateStatus sets the status to next only if the stored status still equals
	// expected. It returns ErrConflict when the stored status differs and
	// ErrNotFound when the row does not exist.
	UpdateStatus(ctx context.Context, id string, expected, next model.Status) error

	// ListByRecipient returns documents addressed to orgID, newest first.
	ListByRecipient(ctx context.Context, orgID string) ([]model.Document, error)

	// ListBySender returns documents sent by orgID, newest first.
	ListBySender(ctx context.Context, orgID string) ([]model.Document, error)
}

// EventRepository is the append-only audit trail.
type EventRepository interface {
	// Append records an event. An empty ID is assigned by the store.
	Append(ctx context.Context, ev *model.DocumentEvent) error

	// ListByDocument returns the events of a document, oldest first.
	ListByDocument(ctx context.Context, documentID string) ([]model.DocumentEvent, error)
}

// OrganizationRepository reads organization reference data.
type OrganizationRepository interface {
	// List returns all organizations ordered by name.
	List(ctx context.Context) ([]model.Organization, error)

	// FindByID returns an organization or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Organization, error)
}
