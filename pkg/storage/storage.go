// Package storage defines the blob interfaces the flipbook build depends on.
//
// Photos are read through a [PhotoSource]; sealed documents are written
// through a [DocumentStore]. Backends:
//   - local: filesystem directory (CLI, tests)
//   - mongo: GridFS bucket (server deployments)
//
// Record repositories (events, photos, sessions) have in-memory and MongoDB
// implementations in the memory and mongo subpackages.
package storage

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for blob operations.
var (
	// ErrNotFound is returned when no object exists under a key.
	ErrNotFound = errors.New("storage: object not found")

	// ErrAccessDenied is returned when the key is outside the store or unreadable.
	ErrAccessDenied = errors.New("storage: access denied")
)

// PhotoSource fetches raw photo bytes by storage key.
type PhotoSource interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Versioner is implemented by sources that can tell when an object was
// rewritten in place. Version changes whenever the stored bytes may have.
type Versioner interface {
	Version(ctx context.Context, key string) (string, error)
}

// DocumentStore persists a blob and returns its permanent public URL.
type DocumentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// BlobStore is a backend that can serve both roles plus direct reads for
// the file-serving endpoint.
type BlobStore interface {
	PhotoSource
	DocumentStore
	// Open returns the object bytes and the content type recorded at Put.
	Open(ctx context.Context, key string) ([]byte, string, error)
}

// PublicURL joins a base URL and an object key into the URL the file
// endpoint serves the object under.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/files/" + strings.TrimLeft(key, "/")
}
