// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/elikagan/objectlesson-api/internal/core/domain"
	"github.com/elikagan/objectlesson-api/internal/core/ports"
	"github.com/elikagan/objectlesson-api/internal/workers"
)

// CacheKeyInventory is where the rendered document is cached between saves.
const CacheKeyInventory = "inv:document"

// TaskEnqueuer is the slice of asynq.Client the services need, kept as an
// interface so side-effect dispatch can be mocked.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// InventoryService handles inventory mutations. Every operation is a
// full load-mutate-save cycle over the single persisted document; the
// repository's conflict-retry makes concurrent admin sessions and the
// checkout webhook converge without locks.
type InventoryService struct {
	repo   ports.InventoryRepository
	images ports.ImageStore
	cache  ports.CacheRepository
	tasks  TaskEnqueuer
	logger *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service. The cache and task
// enqueuer are optional; both degrade to no-ops when nil.
func NewInventoryService(repo ports.InventoryRepository, images ports.ImageStore, cache ports.CacheRepository, tasks TaskEnqueuer, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		repo:   repo,
		images: images,
		cache:  cache,
		tasks:  tasks,
		logger: logger.With(slog.String("service", "inventory")),
	}
}

// GetInventory returns the full document, cached between saves
func (s *InventoryService) GetInventory(ctx context.Context) (*domain.Inventory, error) {
	if s.cache != nil {
		var cached domain.Inventory
		if err := s.cache.Get(ctx, CacheKeyInventory, &cached); err == nil && cached.VersionTag != "" {
			return &cached, nil
		}
	}

	inv, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	if s.cache != nil && inv.VersionTag != "" {
		if err := s.cache.Set(ctx, CacheKeyInventory, inv); err != nil {
			s.logger.WarnContext(ctx, "failed to cache inventory",
				slog.String("error", err.Error()))
		}
	}
	return inv, nil
}

// CreateItem assigns the next sequential ID and inserts the item at the
// top of the active section.
func (s *InventoryService) CreateItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	inv, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	item.ID = inv.NextID()
	if err := inv.Add(item); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.repo.Save(ctx, inv, "Add "+item.Title); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)

	s.logger.InfoContext(ctx, "item created",
		slog.String("id", item.ID),
		slog.String("title", item.Title))

	return inv.FindByID(item.ID), nil
}

// UpdateItem replaces the stored record with the same ID in place
func (s *InventoryService) UpdateItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	inv, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	if err := inv.Update(item); err != nil {
		return nil, err
	}

	if _, err := s.repo.Save(ctx, inv, "Update "+item.Title); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)

	s.logger.InfoContext(ctx, "item updated", slog.String("id", item.ID))
	return inv.FindByID(item.ID), nil
}

// DeleteItem removes the item and releases its image blobs. Image
// cleanup is best-effort: each failed deletion is logged and handed to
// the background cleanup queue, never blocking the delete itself.
func (s *InventoryService) DeleteItem(ctx context.Context, id string) error {
	inv, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	removed := inv.Remove(id)
	if removed == nil {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}

	title := removed.Title
	if title == "" {
		title = "item"
	}
	if _, err := s.repo.Save(ctx, inv, "Delete "+title); err != nil {
		return err
	}
	s.invalidateCache(ctx)

	var failed []string
	for _, key := range removed.Images {
		if err := s.images.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to delete item image",
				slog.String("id", id),
				slog.String("key", key),
				slog.String("error", err.Error()))
			failed = append(failed, key)
		}
	}
	if len(failed) > 0 {
		s.enqueueImageCleanup(ctx, id, failed)
	}

	s.logger.InfoContext(ctx, "item deleted",
		slog.String("id", id),
		slog.Int("images_released", len(removed.Images)-len(failed)))

	return nil
}

// Reorder applies a new display ordering for the active items
func (s *InventoryService) Reorder(ctx context.Context, ids []string) error {
	inv, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	if err := inv.Reorder(ids); err != nil {
		return err
	}

	if _, err := s.repo.Save(ctx, inv, "Reorder items"); err != nil {
		return err
	}
	s.invalidateCache(ctx)

	s.logger.InfoContext(ctx, "items reordered", slog.Int("count", len(ids)))
	return nil
}

// MarkSold transitions the item to sold. Idempotent: a second call for
// an already-sold item performs zero writes and returns the item as-is.
func (s *InventoryService) MarkSold(ctx context.Context, id string) (*domain.Item, error) {
	inv, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	changed, err := inv.MarkSold(id)
	if err != nil {
		return nil, err
	}
	item := inv.FindByID(id)
	if !changed {
		s.logger.InfoContext(ctx, "item already sold, skipping write",
			slog.String("id", id))
		return item, nil
	}

	title := item.Title
	if title == "" {
		title = id
	}
	if _, err := s.repo.Save(ctx, inv, "Mark "+title+" as sold"); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)

	s.logger.InfoContext(ctx, "item marked sold", slog.String("id", id))
	return item, nil
}

func (s *InventoryService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, CacheKeyInventory); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate inventory cache",
			slog.String("error", err.Error()))
	}
}

func (s *InventoryService) enqueueImageCleanup(ctx context.Context, itemID string, keys []string) {
	if s.tasks == nil {
		return
	}
	task, err := workers.NewImageCleanupTask(itemID, keys)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to build cleanup task",
			slog.String("error", err.Error()))
		return
	}
	if _, err := s.tasks.EnqueueContext(ctx, task, asynq.Queue("low"), asynq.MaxRetry(5)); err != nil {
		s.logger.WarnContext(ctx, "failed to enqueue image cleanup",
			slog.String("item_id", itemID),
			slog.String("error", err.Error()))
	}
}
