// internal/adapters/blobrepo/repository.go
package blobrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/elikagan/objectlesson-api/internal/core/domain"
	"github.com/elikagan/objectlesson-api/internal/core/ports"
)

// DefaultDocumentPath is where the inventory document lives in the store.
const DefaultDocumentPath = "inventory.json"

// InventoryRepository persists the whole inventory as a single versioned
// JSON blob. Concurrency control is optimistic: every save is a
// compare-and-swap on the version tag captured at load time, retried once
// on conflict with the same in-memory document.
type InventoryRepository struct {
	store  ports.VersionedBlobStore
	path   string
	logger *slog.Logger
}

// Statically assert that *InventoryRepository implements the port.
var _ ports.InventoryRepository = (*InventoryRepository)(nil)

// NewInventoryRepository creates a repository over the given blob store
func NewInventoryRepository(store ports.VersionedBlobStore, path string, logger *slog.Logger) *InventoryRepository {
	if path == "" {
		path = DefaultDocumentPath
	}
	return &InventoryRepository{
		store:  store,
		path:   path,
		logger: logger.With(slog.String("repository", "inventory")),
	}
}

// Load fetches and parses the inventory document. A missing document,
// a fetch failure, or an unparseable payload all yield an empty document
// with no version tag: first run and transient errors start fresh rather
// than failing. Individual malformed records are skipped, not fatal.
func (r *InventoryRepository) Load(ctx context.Context) (*domain.Inventory, error) {
	blob, err := r.store.Get(ctx, r.path)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			r.logger.InfoContext(ctx, "inventory document not found, starting empty",
				slog.String("path", r.path))
		} else {
			r.logger.WarnContext(ctx, "inventory fetch failed, starting empty",
				slog.String("path", r.path),
				slog.String("error", err.Error()))
		}
		return domain.NewInventory(), nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(blob.Content, &raw); err != nil {
		r.logger.WarnContext(ctx, "inventory document unparseable, starting empty",
			slog.String("path", r.path),
			slog.String("error", err.Error()))
		return domain.NewInventory(), nil
	}

	inv := domain.NewInventory()
	inv.VersionTag = blob.VersionTag
	for idx, rec := range raw {
		var item domain.Item
		if err := json.Unmarshal(rec, &item); err != nil {
			r.logger.WarnContext(ctx, "skipping malformed item record",
				slog.Int("index", idx),
				slog.String("error", err.Error()))
			continue
		}
		inv.Items = append(inv.Items, item)
	}
	inv.Sort()

	r.logger.DebugContext(ctx, "inventory loaded",
		slog.Int("items", len(inv.Items)),
		slog.String("version_tag", inv.VersionTag))

	return inv, nil
}

// Save serializes the full item list and writes it conditionally against
// the document's version tag. On a version conflict it re-fetches the
// current tag and retries the put once with the same in-memory document;
// a second conflict is terminal and the caller must reload and redo.
// Every other failure surfaces immediately. On success the document's
// version tag is advanced to the committed revision.
func (r *InventoryRepository) Save(ctx context.Context, inv *domain.Inventory, message string) (string, error) {
	items := inv.Items
	if items == nil {
		items = []domain.Item{}
	}
	content, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize inventory: %w", err)
	}

	newTag, err := r.store.Put(ctx, r.path, content, inv.VersionTag, message)
	if err == nil {
		inv.VersionTag = newTag
		return newTag, nil
	}
	if !errors.Is(err, ports.ErrVersionConflict) {
		return "", fmt.Errorf("failed to save inventory: %w", err)
	}

	r.logger.WarnContext(ctx, "version conflict on save, retrying once",
		slog.String("stale_tag", inv.VersionTag),
		slog.String("message", message))

	freshTag := ""
	if blob, getErr := r.store.Get(ctx, r.path); getErr == nil {
		freshTag = blob.VersionTag
	} else if !errors.Is(getErr, ports.ErrNotFound) {
		return "", fmt.Errorf("failed to refresh version tag after conflict: %w", getErr)
	}

	newTag, err = r.store.Put(ctx, r.path, content, freshTag, message)
	if err != nil {
		if errors.Is(err, ports.ErrVersionConflict) {
			return "", fmt.Errorf("inventory save conflicted twice, reload and retry: %w", err)
		}
		return "", fmt.Errorf("failed to save inventory after conflict retry: %w", err)
	}

	inv.VersionTag = newTag
	r.logger.InfoContext(ctx, "inventory saved after conflict retry",
		slog.String("version_tag", newTag))
	return newTag, nil
}
