package model

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a Document.
type Status string

const (
	StatusUploaded   Status = "UPLOADED"
	StatusDownloaded Status = "DOWNLOADED"
	StatusCancelled  Status = "CANCELLED"
	StatusArchived   Status = "ARCHIVED"
)

// ParseStatus converts a stored status value into a Status.
// Unknown values are rejected so the state machine never sees them.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusUploaded, StatusDownloaded, StatusCancelled, StatusArchived:
		return st, nil
	default:
		return "", fmt.Errorf("unknown document status %q", s)
	}
}

// Terminal reports whether no transition may leave the status.
func (s Status) Terminal() bool { return s == StatusArchived }

// Document is one PDF transfer between two organizations.
// This is a pure domain model; persistence concerns live in the repository packages.
type Document struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	Comment     *string    `json:"comment"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	StorageKey  string     `json:"file_key"`
}

// IsParticipant reports whether the organization sent or received the document.
func (d *Document) IsParticipant(orgID string) bool {
	return orgID != "" && (d.SenderID == orgID || d.RecipientID == orgID)
}

// CommentText returns the comment or an empty string.
func (d *Document) CommentText() string {
	if d.Comment == nil {
		return ""
	}
	return *d.Comment
}
