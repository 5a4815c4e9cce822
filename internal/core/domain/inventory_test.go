// internal/core/domain/inventory_test.go
package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elikagan/objectlesson-api/internal/core/domain"
)

func testItem(id string, order int, mods ...func(*domain.Item)) domain.Item {
	item := domain.Item{
		ID:        id,
		Title:     "Studio Vase",
		Category:  domain.CategoryCeramic,
		Condition: domain.ConditionGood,
		Price:     decimal.NewFromInt(120),
		Images:    []string{"images/products/" + id + "/0.jpg"},
		Order:     order,
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	item.HeroImage = item.Images[0]
	for _, mod := range mods {
		mod(&item)
	}
	return item
}

func TestInventory_NextID(t *testing.T) {
	tests := []struct {
		name     string
		ids      []string
		expected string
	}{
		{name: "empty_document_starts_at_one", ids: nil, expected: "000001"},
		{name: "increments_past_max", ids: []string{"000001", "000007", "000003"}, expected: "000008"},
		{name: "ignores_non_numeric_ids", ids: []string{"legacy-token", "000002"}, expected: "000003"},
		{name: "all_non_numeric_falls_back_to_one", ids: []string{"abc", "def"}, expected: "000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := domain.NewInventory()
			for i, id := range tt.ids {
				inv.Items = append(inv.Items, testItem(id, i))
			}
			assert.Equal(t, tt.expected, inv.NextID())
		})
	}
}

func TestInventory_Add_PushesToFront(t *testing.T) {
	inv := domain.NewInventory()
	inv.Items = []domain.Item{testItem("000001", 0)}

	item := testItem("000002", 99, func(i *domain.Item) {
		i.Title = "Vase"
		i.Category = domain.CategoryObject
	})
	require.NoError(t, inv.Add(item))

	require.Len(t, inv.Items, 2)
	added := inv.FindByID("000002")
	require.NotNil(t, added)
	assert.Equal(t, 0, added.Order)
	assert.Equal(t, 1, inv.FindByID("000001").Order)
	// new item sorts first
	assert.Equal(t, "000002", inv.Items[0].ID)
}

func TestInventory_Add_SoldItemsExcludedFromRenumbering(t *testing.T) {
	inv := domain.NewInventory()
	inv.Items = []domain.Item{
		testItem("000001", 0),
		testItem("000002", 5, func(i *domain.Item) { i.IsSold = true }),
	}

	require.NoError(t, inv.Add(testItem("000003", 0)))

	assert.Equal(t, 1, inv.FindByID("000001").Order)
	assert.Equal(t, 5, inv.FindByID("000002").Order, "sold item order untouched")
	assert.Equal(t, 0, inv.FindByID("000003").Order)
}

func TestInventory_Add_RejectsDuplicateID(t *testing.T) {
	inv := domain.NewInventory()
	inv.Items = []domain.Item{testItem("000001", 0)}

	err := inv.Add(testItem("000001", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate item id")
	assert.Len(t, inv.Items, 1)
}

func TestInventory_Add_ValidatesRequiredFields(t *testing.T) {
	tests := []struct {
		name          string
		mod           func(*domain.Item)
		errorContains string
	}{
		{
			name:          "missing_title",
			mod:           func(i *domain.Item) { i.Title = "" },
			errorContains: "title is required",
		},
		{
			name:          "missing_category",
			mod:           func(i *domain.Item) { i.Category = "" },
			errorContains: "category is required",
		},
		{
			name:          "negative_price",
			mod:           func(i *domain.Item) { i.Price = decimal.NewFromInt(-5) },
			errorContains: "price cannot be negative",
		},
		{
			name:          "hero_image_not_in_images",
			mod:           func(i *domain.Item) { i.HeroImage = "images/other.jpg" },
			errorContains: "heroImage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := domain.NewInventory()
			err := inv.Add(testItem("000001", 0, tt.mod))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.Empty(t, inv.Items, "validation failure must not mutate the document")
		})
	}
}

func TestInventory_Update_PreservesOrderAndCreatedAt(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	inv := domain.NewInventory()
	inv.Items = []domain.Item{
		testItem("000001", 3, func(i *domain.Item) { i.CreatedAt = created }),
	}

	updated := testItem("000001", 0, func(i *domain.Item) {
		i.Title = "Encaustic Painting"
		i.Category = domain.CategoryWallArt
		i.Order = 42
		i.CreatedAt = time.Now()
	})
	require.NoError(t, inv.Update(updated))

	got := inv.FindByID("000001")
	assert.Equal(t, "Encaustic Painting", got.Title)
	assert.Equal(t, 3, got.Order)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestInventory_Update_UnknownIDFails(t *testing.T) {
	inv := domain.NewInventory()
	err := inv.Update(testItem("000009", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestInventory_Remove(t *testing.T) {
	inv := domain.NewInventory()
	inv.Items = []domain.Item{testItem("000001", 0), testItem("000002", 1)}

	removed := inv.Remove("000001")
	require.NotNil(t, removed)
	assert.Equal(t, "000001", removed.ID)
	assert.Len(t, inv.Items, 1)

	assert.Nil(t, inv.Remove("000001"), "second remove is a no-op")
}

func TestInventory_Reorder(t *testing.T) {
	setup := func() *domain.Inventory {
		inv := domain.NewInventory()
		inv.Items = []domain.Item{
			testItem("000001", 0),
			testItem("000002", 1),
			testItem("000003", 2, func(i *domain.Item) { i.IsSold = true }),
		}
		return inv
	}

	t.Run("applies_supplied_sequence", func(t *testing.T) {
		inv := setup()
		require.NoError(t, inv.Reorder([]string{"000002", "000001"}))

		assert.Equal(t, 0, inv.FindByID("000002").Order)
		assert.Equal(t, 1, inv.FindByID("000001").Order)
		assert.Len(t, inv.Items, 3, "reorder never creates or destroys records")
		// sold items append after the active section
		assert.Equal(t, "000003", inv.Items[2].ID)
	})

	t.Run("rejects_missing_id", func(t *testing.T) {
		inv := setup()
		err := inv.Reorder([]string{"000002"})
		require.Error(t, err)
		assert.Equal(t, 0, inv.FindByID("000001").Order, "document unchanged on rejection")
	})

	t.Run("rejects_unknown_id", func(t *testing.T) {
		inv := setup()
		err := inv.Reorder([]string{"000002", "000099"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown")
	})

	t.Run("rejects_sold_id", func(t *testing.T) {
		inv := setup()
		err := inv.Reorder([]string{"000002", "000003"})
		require.Error(t, err)
	})

	t.Run("rejects_duplicate_id", func(t *testing.T) {
		inv := setup()
		err := inv.Reorder([]string{"000002", "000002"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})
}

func TestInventory_MarkSold_Idempotent(t *testing.T) {
	inv := domain.NewInventory()
	inv.Items = []domain.Item{
		testItem("000001", 0, func(i *domain.Item) { i.IsNew = true; i.IsHold = true }),
	}

	changed, err := inv.MarkSold("000001")
	require.NoError(t, err)
	assert.True(t, changed)

	got := inv.FindByID("000001")
	assert.True(t, got.IsSold)
	assert.False(t, got.IsNew, "sold overrides new")
	assert.False(t, got.IsHold, "sold overrides hold")

	changed, err = inv.MarkSold("000001")
	require.NoError(t, err)
	assert.False(t, changed, "duplicate delivery must not double-apply")

	_, err = inv.MarkSold("000404")
	require.Error(t, err)
}

func TestItem_NormalizeFlags_Exclusivity(t *testing.T) {
	item := testItem("000001", 0, func(i *domain.Item) {
		i.IsSold = true
		i.IsNew = true
		i.IsHold = true
	})
	item.NormalizeFlags()

	assert.True(t, item.IsSold)
	assert.False(t, item.IsNew)
	assert.False(t, item.IsHold)
}

func TestItem_PrepareForStorage(t *testing.T) {
	item := domain.Item{
		Title:    "Brass Lamp",
		Category: domain.CategoryLight,
		Images:   []string{"images/products/000004/0.jpg", "images/products/000004/1.jpg"},
	}
	item.PrepareForStorage()

	assert.Equal(t, item.Images[0], item.HeroImage, "first image becomes the hero")
	assert.False(t, item.CreatedAt.IsZero())
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "A000042", domain.FormatID("000042"))
	assert.Equal(t, "Alegacy", domain.FormatID("legacy"))
}
