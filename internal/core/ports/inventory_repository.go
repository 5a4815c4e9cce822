// internal/core/ports/inventory_repository.go
package ports

import (
	"context"

	"github.com/elikagan/objectlesson-api/internal/core/domain"
)

// InventoryRepository is the persistence port for the inventory document.
// Load never fails for a missing or unreadable document: first run and
// transient fetch errors both start from an empty document. Save performs
// a conditional write against the document's version tag and retries a
// version conflict exactly once before surfacing it.
type InventoryRepository interface {
	Load(ctx context.Context) (*domain.Inventory, error)
	Save(ctx context.Context, inv *domain.Inventory, message string) (string, error)
}
