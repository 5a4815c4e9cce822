// internal/core/ports/image_store.go
package ports

import (
	"context"
	"io"
)

// ImageStore is the port for product image blobs. Keys are write-once:
// every upload gets a fresh key, nothing is ever overwritten in place,
// so concurrent sessions cannot race on image content.
type ImageStore interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
