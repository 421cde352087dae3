// Package storage contains object storage abstractions for S3-compatible stores.
// The service never streams document bytes through these clients; it only
// mints time-limited URLs and checks object existence.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned by Stat when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Storage is the object storage collaborator. Implementations must be safe for
// concurrent use.
type Storage interface {
	// PresignPut returns a time-limited URL that accepts a single PUT of the
	// object under key with the given content type.
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	// PresignGet returns a time-limited URL that can be used to download the
	// object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// Stat reports the object's metadata or ErrObjectNotFound.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}
