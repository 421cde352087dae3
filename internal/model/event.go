package model

import "time"

// Action is the kind of operation recorded in the event log.
type Action string

const (
	ActionUpload   Action = "UPLOAD"
	ActionDownload Action = "DOWNLOAD"
	ActionArchive  Action = "ARCHIVE"
	ActionCancel   Action = "CANCEL"
)

// DocumentEvent is an append-only audit entry. Entries are never updated or deleted.
type DocumentEvent struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	ActorID    string    `json:"actor_id"`
	Action     Action    `json:"action"`
	CreatedAt  time.Time `json:"created_at"`
}
