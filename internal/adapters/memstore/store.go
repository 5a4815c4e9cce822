// internal/adapters/memstore/store.go
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/elikagan/objectlesson-api/internal/core/ports"
)

// Store is an in-memory VersionedBlobStore for development and tests.
// Version tags are monotonically increasing counters per path, compared
// exactly like a real backend's content hashes.
type Store struct {
	mu      sync.Mutex
	blobs   map[string]entry
	counter int
}

type entry struct {
	content []byte
	tag     string
}

// Statically assert that *Store implements the port.
var _ ports.VersionedBlobStore = (*Store)(nil)

// New creates an empty in-memory store
func New() *Store {
	return &Store{blobs: make(map[string]entry)}
}

// Get returns the stored blob for path
func (s *Store) Get(_ context.Context, path string) (*ports.Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.blobs[path]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", path, ports.ErrNotFound)
	}
	content := make([]byte, len(e.content))
	copy(content, e.content)
	return &ports.Blob{Content: content, VersionTag: e.tag}, nil
}

// Put writes content conditionally against the expected version tag
func (s *Store) Put(_ context.Context, path string, content []byte, expectedTag, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.blobs[path]
	if exists && expectedTag != current.tag {
		return "", fmt.Errorf("put %s: expected %q, have %q: %w", path, expectedTag, current.tag, ports.ErrVersionConflict)
	}
	if !exists && expectedTag != "" {
		return "", fmt.Errorf("put %s: expected %q on unwritten path: %w", path, expectedTag, ports.ErrVersionConflict)
	}

	s.counter++
	tag := fmt.Sprintf("v%d", s.counter)
	stored := make([]byte, len(content))
	copy(stored, content)
	s.blobs[path] = entry{content: stored, tag: tag}
	return tag, nil
}

// Delete removes the blob if the version tag matches
func (s *Store) Delete(_ context.Context, path, versionTag, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.blobs[path]
	if !ok {
		return fmt.Errorf("delete %s: %w", path, ports.ErrNotFound)
	}
	if versionTag != current.tag {
		return fmt.Errorf("delete %s: %w", path, ports.ErrVersionConflict)
	}
	delete(s.blobs, path)
	return nil
}
