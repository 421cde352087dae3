package policy

import (
	"time"

	"docport/internal/model"
)

// DefaultDocumentTTL is how long a document stays downloadable after creation.
const DefaultDocumentTTL = 7 * 24 * time.Hour

// Expired reports whether the document's time-to-live has elapsed at now.
// A document without an expiry never expires.
func Expired(doc *model.Document, now time.Time) bool {
	return doc != nil && doc.ExpiresAt != nil && doc.ExpiresAt.Before(now)
}

// ExpiresAt returns the expiry assigned to a document created at createdAt.
func ExpiresAt(createdAt time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = DefaultDocumentTTL
	}
	return createdAt.Add(ttl)
}
