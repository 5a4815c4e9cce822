// internal/core/ports/blobstore.go
package ports

import (
	"context"
	"errors"
)

// Sentinel errors for blob store operations. Adapters translate backend
// responses into these; callers check with errors.Is, never by matching
// status codes or message text.
var (
	// ErrNotFound means the path has never been written (or was deleted).
	ErrNotFound = errors.New("blob not found")

	// ErrVersionConflict means the expected version tag no longer matches
	// the stored content; the caller lost a compare-and-swap race.
	ErrVersionConflict = errors.New("blob version conflict")
)

// Blob is a stored object together with its concurrency token.
type Blob struct {
	Content    []byte
	VersionTag string
}

// VersionedBlobStore is the persistence port for content-addressed blobs
// with optimistic concurrency. A Put with a non-empty expected tag only
// succeeds if the stored version still matches; an empty tag means first
// write.
type VersionedBlobStore interface {
	Get(ctx context.Context, path string) (*Blob, error)
	Put(ctx context.Context, path string, content []byte, expectedTag, message string) (string, error)
	Delete(ctx context.Context, path, versionTag, message string) error
}
