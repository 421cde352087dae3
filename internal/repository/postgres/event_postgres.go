package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"docport/internal/model"
	"docport/internal/repository"
)

// EventPostgres stores the document audit trail. Rows are only ever inserted.
type EventPostgres struct {
	db *sql.DB
}

// NewEventPostgres creates a new EventPostgres repository.
func NewEventPostgres(db *sql.DB) *EventPostgres {
	return &EventPostgres{db: db}
}

var _ repository.EventRepository = (*EventPostgres)(nil)

// Append inserts one event row.
func (r *EventPostgres) Append(ctx context.Context, ev *model.DocumentEvent) error {
	const q = `
		INSERT INTO document_events (id, document_id, actor_id, action, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if _, err := r.db.ExecContext(ctx, q, ev.ID, ev.DocumentID, ev.ActorID, string(ev.Action), ev.CreatedAt); err != nil {
		return fmt.Errorf("insert document event: %w", err)
	}
	return nil
}

// ListByDocument returns the events of one document in the order they happened.
func (r *EventPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.DocumentEvent, error) {
	const q = `
		SELECT id, document_id, actor_id, action, created_at
		FROM document_events
		WHERE document_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document events: %w", err)
	}
	defer rows.Close()

	items := make([]model.DocumentEvent, 0)
	for rows.Next() {
		var (
			ev     model.DocumentEvent
			action string
		)
		if err := rows.Scan(&ev.ID, &ev.DocumentID, &ev.ActorID, &action, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document event: %w", err)
		}
		ev.Action = model.Action(action)
		items = append(items, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
