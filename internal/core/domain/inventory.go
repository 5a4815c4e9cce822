// internal/core/domain/inventory.go
package domain

import (
	"fmt"
	"sort"
	"strconv"
)

// Inventory is the full ordered list of items persisted as one versioned
// document. VersionTag is the storage layer's concurrency token for the
// revision this document was loaded from; it is opaque to the domain.
type Inventory struct {
	Items      []Item
	VersionTag string
}

// NewInventory returns an empty document with no version tag
func NewInventory() *Inventory {
	return &Inventory{}
}

// Sort orders items by their Order field, ties broken by array position.
func (inv *Inventory) Sort() {
	sort.SliceStable(inv.Items, func(a, b int) bool {
		return inv.Items[a].Order < inv.Items[b].Order
	})
}

// FindByID returns a pointer into the document's item slice, or nil.
func (inv *Inventory) FindByID(id string) *Item {
	for idx := range inv.Items {
		if inv.Items[idx].ID == id {
			return &inv.Items[idx]
		}
	}
	return nil
}

// ActiveIDs returns the ids of non-sold items in display order
func (inv *Inventory) ActiveIDs() []string {
	var ids []string
	for idx := range inv.Items {
		if !inv.Items[idx].IsSold {
			ids = append(ids, inv.Items[idx].ID)
		}
	}
	return ids
}

// NextID assigns the next sequential item ID: one greater than the largest
// numeric ID present, zero-padded. Non-numeric IDs are ignored.
func (inv *Inventory) NextID() string {
	max := 0
	for idx := range inv.Items {
		if n, err := strconv.Atoi(inv.Items[idx].ID); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%0*d", IDWidth, max+1)
}

// Add inserts a new item at the top of the active section: the new item
// gets Order 0 and every existing active item is pushed down one slot.
// Sold items keep their order untouched. The item's ID must already be
// assigned (see NextID) and must not collide with an existing item.
func (inv *Inventory) Add(item Item) error {
	if item.ID == "" {
		return fmt.Errorf("item id is required")
	}
	if inv.FindByID(item.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
	}
	if err := item.Validate(); err != nil {
		return err
	}
	item.PrepareForStorage()
	item.Order = 0

	for idx := range inv.Items {
		if !inv.Items[idx].IsSold {
			inv.Items[idx].Order++
		}
	}
	inv.Items = append(inv.Items, item)
	inv.Sort()
	return nil
}

// Update replaces the item with the same ID in place, preserving its
// original Order and CreatedAt.
func (inv *Inventory) Update(item Item) error {
	existing := inv.FindByID(item.ID)
	if existing == nil {
		return fmt.Errorf("%w: %s", ErrItemNotFound, item.ID)
	}
	if err := item.Validate(); err != nil {
		return err
	}
	item.Order = existing.Order
	item.CreatedAt = existing.CreatedAt
	item.PrepareForStorage()
	*existing = item
	inv.Sort()
	return nil
}

// Remove deletes the item by ID and returns the removed record so the
// caller can release its image blobs. Returns nil if the ID is absent.
func (inv *Inventory) Remove(id string) *Item {
	for idx := range inv.Items {
		if inv.Items[idx].ID == id {
			removed := inv.Items[idx]
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			return &removed
		}
	}
	return nil
}

// Reorder applies a client-supplied ordering for the active (non-sold)
// items. The supplied ids must be exactly the current active set; any
// omission or addition rejects the whole operation and leaves the
// document untouched. Sold items keep their relative order and are
// appended after all active items.
func (inv *Inventory) Reorder(ids []string) error {
	active := make(map[string]int, len(inv.Items))
	for idx := range inv.Items {
		if !inv.Items[idx].IsSold {
			active[inv.Items[idx].ID] = idx
		}
	}

	if len(ids) != len(active) {
		return fmt.Errorf("%w: got %d ids, have %d active items", ErrReorderMismatch, len(ids), len(active))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		idx, ok := active[id]
		if !ok {
			return fmt.Errorf("%w: unknown or sold item %s", ErrReorderMismatch, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate item %s", ErrReorderMismatch, id)
		}
		seen[id] = true
		_ = idx
	}

	reordered := make([]Item, 0, len(inv.Items))
	for pos, id := range ids {
		item := inv.Items[active[id]]
		item.Order = pos
		reordered = append(reordered, item)
	}
	for idx := range inv.Items {
		if inv.Items[idx].IsSold {
			reordered = append(reordered, inv.Items[idx])
		}
	}
	inv.Items = reordered
	return nil
}

// MarkSold sets the terminal sold state on the item with the given ID.
// The second return reports whether the document actually changed:
// (false, nil) means the item was already sold and no write is needed.
func (inv *Inventory) MarkSold(id string) (bool, error) {
	item := inv.FindByID(id)
	if item == nil {
		return false, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return item.MarkSold(), nil
}
