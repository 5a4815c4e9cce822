// internal/core/ports/inventory_service.go
package ports

import (
	"context"

	"github.com/elikagan/objectlesson-api/internal/core/domain"
)

// InventoryService is the application service port for inventory
// mutations. Every operation is a full read-modify-write cycle over the
// single persisted document.
type InventoryService interface {
	GetInventory(ctx context.Context) (*domain.Inventory, error)
	CreateItem(ctx context.Context, item domain.Item) (*domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
	MarkSold(ctx context.Context, id string) (*domain.Item, error)
}
