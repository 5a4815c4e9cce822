// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/elikagan/objectlesson-api/internal/core/ports"
)

// ImageCleanupPayload represents the payload for image cleanup tasks
type ImageCleanupPayload struct {
	ItemID string   `json:"item_id"`
	Keys   []string `json:"keys"`
}

// NewImageCleanupTask builds a cleanup task for orphaned image keys
func NewImageCleanupTask(itemID string, keys []string) (*asynq.Task, error) {
	b, err := json.Marshal(ImageCleanupPayload{ItemID: itemID, Keys: keys})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cleanup payload: %w", err)
	}
	return asynq.NewTask(TypeCleanupImages, b), nil
}

// CleanupProcessor deletes orphaned image blobs left behind when an
// item delete could not release all of its images inline. Cleanup is
// best-effort all the way down: a key that keeps failing is logged and
// dropped, never retried forever.
type CleanupProcessor struct {
	images ports.ImageStore
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(images ports.ImageStore, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		images: images,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupImages removes the orphaned image keys in the task payload
func (p *CleanupProcessor) CleanupImages(ctx context.Context, t *asynq.Task) error {
	var payload ImageCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	var failed []string
	for _, key := range payload.Keys {
		if err := p.images.Delete(ctx, key); err != nil {
			p.logger.WarnContext(ctx, "failed to delete orphaned image",
				slog.String("item_id", payload.ItemID),
				slog.String("key", key),
				slog.String("error", err.Error()))
			failed = append(failed, key)
		}
	}

	p.logger.InfoContext(ctx, "image cleanup finished",
		slog.String("item_id", payload.ItemID),
		slog.Int("deleted", len(payload.Keys)-len(failed)),
		slog.Int("failed", len(failed)))

	if len(failed) > 0 {
		// let asynq retry the stragglers with backoff
		return fmt.Errorf("%d of %d image deletions failed", len(failed), len(payload.Keys))
	}
	return nil
}
