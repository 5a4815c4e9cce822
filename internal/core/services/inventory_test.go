// internal/core/services/inventory_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/elikagan/objectlesson-api/internal/core/domain"
	"github.com/elikagan/objectlesson-api/internal/core/ports"
	"github.com/elikagan/objectlesson-api/internal/core/services"
	"github.com/elikagan/objectlesson-api/test/helpers"
	"github.com/elikagan/objectlesson-api/test/mocks"
)

func newServiceWithMocks(t *testing.T) (*services.InventoryService, *mocks.MockInventoryRepository, *mocks.MockImageStore, *mocks.MockCacheRepository, *mocks.MockTaskEnqueuer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockInventoryRepository(ctrl)
	images := mocks.NewMockImageStore(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)
	tasks := mocks.NewMockTaskEnqueuer(ctrl)
	svc := services.NewInventoryService(repo, images, cache, tasks, helpers.TestLogger())
	return svc, repo, images, cache, tasks
}

func loadedInventory(items ...domain.Item) *domain.Inventory {
	inv := domain.NewInventory()
	inv.Items = items
	inv.VersionTag = "v1"
	return inv
}

func TestInventoryService_GetInventory(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the repository", func(t *testing.T) {
		svc, _, _, cache, _ := newServiceWithMocks(t)

		cache.EXPECT().Get(gomock.Any(), services.CacheKeyInventory, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest interface{}) error {
				cached := dest.(*domain.Inventory)
				cached.Items = []domain.Item{helpers.CreateTestItem("000001")}
				cached.VersionTag = "cached-tag"
				return nil
			})

		inv, err := svc.GetInventory(ctx)
		require.NoError(t, err)
		assert.Equal(t, "cached-tag", inv.VersionTag)
		assert.Len(t, inv.Items, 1)
	})

	t.Run("cache miss loads and fills the cache", func(t *testing.T) {
		svc, repo, _, cache, _ := newServiceWithMocks(t)
		stored := loadedInventory(helpers.CreateTestItem("000001"))

		cache.EXPECT().Get(gomock.Any(), services.CacheKeyInventory, gomock.Any()).
			Return(errors.New("cache miss"))
		repo.EXPECT().Load(gomock.Any()).Return(stored, nil)
		cache.EXPECT().Set(gomock.Any(), services.CacheKeyInventory, stored).Return(nil)

		inv, err := svc.GetInventory(ctx)
		require.NoError(t, err)
		assert.Equal(t, "v1", inv.VersionTag)
	})

	t.Run("cache set failure is not fatal", func(t *testing.T) {
		svc, repo, _, cache, _ := newServiceWithMocks(t)
		stored := loadedInventory(helpers.CreateTestItem("000001"))

		cache.EXPECT().Get(gomock.Any(), services.CacheKeyInventory, gomock.Any()).
			Return(errors.New("cache miss"))
		repo.EXPECT().Load(gomock.Any()).Return(stored, nil)
		cache.EXPECT().Set(gomock.Any(), services.CacheKeyInventory, stored).
			Return(errors.New("redis down"))

		_, err := svc.GetInventory(ctx)
		assert.NoError(t, err)
	})
}

func TestInventoryService_CreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns next sequential id and saves", func(t *testing.T) {
		svc, repo, _, cache, _ := newServiceWithMocks(t)
		stored := loadedInventory(helpers.CreateTestItem("000007"))

		repo.EXPECT().Load(gomock.Any()).Return(stored, nil)
		repo.EXPECT().Save(gomock.Any(), stored, "Add Walnut Credenza").Return("v2", nil)
		cache.EXPECT().Delete(gomock.Any(), services.CacheKeyInventory).Return(nil)

		item := helpers.CreateTestItem("", func(i *domain.Item) {
			i.Title = "Walnut Credenza"
			i.Images = nil
			i.HeroImage = ""
		})
		created, err := svc.CreateItem(ctx, item)
		require.NoError(t, err)
		assert.Equal(t, "000008", created.ID)
		assert.Equal(t, 0, created.Order, "new item goes to the top")
	})

	t.Run("validation failure performs no save", func(t *testing.T) {
		svc, repo, _, _, _ := newServiceWithMocks(t)
		repo.EXPECT().Load(gomock.Any()).Return(loadedInventory(), nil)

		item := helpers.CreateTestItem("", func(i *domain.Item) { i.Title = "" })
		_, err := svc.CreateItem(ctx, item)
		assert.ErrorIs(t, err, domain.ErrInvalidItem)
	})

	t.Run("save conflict is surfaced to the caller", func(t *testing.T) {
		svc, repo, _, _, _ := newServiceWithMocks(t)
		stored := loadedInventory()

		repo.EXPECT().Load(gomock.Any()).Return(stored, nil)
		repo.EXPECT().Save(gomock.Any(), stored, gomock.Any()).
			Return("", ports.ErrVersionConflict)

		item := helpers.CreateTestItem("", func(i *domain.Item) {
			i.Images = nil
			i.HeroImage = ""
		})
		_, err := svc.CreateItem(ctx, item)
		assert.ErrorIs(t, err, ports.ErrVersionConflict)
	})
}

func TestInventoryService_DeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("removes item and releases images", func(t *testing.T) {
		svc, repo, images, cache, _ := newServiceWithMocks(t)
		stored := loadedInventory(helpers.CreateTestItem("000001"))

		repo.EXPECT().Load(gomock.Any()).Return(stored, nil)
		repo.EXPECT().Save(gomock.Any(), stored, gomock.Any()).Return("v2", nil)
		cache.EXPECT().Delete(gomock.Any(), services.CacheKeyInventory).Return(nil)
		images.EXPECT().Delete(gomock.Any(), "products/000001/main.jpg").Return(nil)

		err := svc.DeleteItem(ctx, "000001")
		require.NoError(t, err)
		assert.Empty(t, stored.Items)
	})

	t.Run("failed image delete falls to the cleanup queue", func(t *testing.T) {
		svc, repo, images, cache, tasks := newServiceWithMocks(t)
		stored := loadedInventory(helpers.CreateTestItem("000001"))

		repo.EXPECT().Load(gomock.Any()).Return(stored, nil)
		repo.EXPECT().Save(gomock.Any(), stored, gomock.Any()).Return("v2", nil)
		cache.EXPECT().Delete(gomock.Any(), services.CacheKeyInventory).Return(nil)
		images.EXPECT().Delete(gomock.Any(), "products/000001/main.jpg").
			Return(errors.New("s3 unavailable"))
		tasks.EXPECT().EnqueueContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&asynq.TaskInfo{}, nil)

		err := svc.DeleteItem(ctx, "000001")
		assert.NoError(t, err, "image cleanup failures never fail the delete")
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, repo, _, _, _ := newServiceWithMocks(t)
		repo.EXPECT().Load(gomock.Any()).Return(loadedInventory(), nil)

		err := svc.DeleteItem(ctx, "999999")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestInventoryService_Reorder(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the new ordering", func(t *testing.T) {
		svc, repo, _, cache, _ := newServiceWithMocks(t)
		items := helpers.CreateTestItems(3)
		stored := loadedInventory(items...)

		repo.EXPECT().Load(gomock.Any()).Return(stored, nil)
		repo.EXPECT().Save(gomock.Any(), stored, "Reorder items").Return("v2", nil)
		cache.EXPECT().Delete(gomock.Any(), services.CacheKeyInventory).Return(nil)

		err := svc.Reorder(ctx, []string{"000003", "000001", "000002"})
		require.NoError(t, err)
		assert.Equal(t, "000003", stored.Items[0].ID)
	})

	t.Run("incomplete id set rejects without saving", func(t *testing.T) {
		svc, repo, _, _, _ := newServiceWithMocks(t)
		stored := loadedInventory(helpers.CreateTestItems(3)...)
		repo.EXPECT().Load(gomock.Any()).Return(stored, nil)

		err := svc.Reorder(ctx, []string{"000001"})
		assert.ErrorIs(t, err, domain.ErrReorderMismatch)
	})

	t.Run("sold items cannot be reordered", func(t *testing.T) {
		svc, repo, _, _, _ := newServiceWithMocks(t)
		items := helpers.CreateTestItems(2)
		items[1].IsSold = true
		stored := loadedInventory(items...)
		repo.EXPECT().Load(gomock.Any()).Return(stored, nil)

		err := svc.Reorder(ctx, []string{"000001", "000002"})
		assert.ErrorIs(t, err, domain.ErrReorderMismatch)
	})
}

func TestInventoryService_MarkSold(t *testing.T) {
	ctx := context.Background()

	t.Run("marks active item sold", func(t *testing.T) {
		svc, repo, _, cache, _ := newServiceWithMocks(t)
		stored := loadedInventory(helpers.CreateTestItem("000001"))

		repo.EXPECT().Load(gomock.Any()).Return(stored, nil)
		repo.EXPECT().Save(gomock.Any(), stored, gomock.Any()).Return("v2", nil)
		cache.EXPECT().Delete(gomock.Any(), services.CacheKeyInventory).Return(nil)

		item, err := svc.MarkSold(ctx, "000001")
		require.NoError(t, err)
		assert.True(t, item.IsSold)
		assert.False(t, item.IsNew)
		assert.False(t, item.IsHold)
	})

	t.Run("already sold performs zero writes", func(t *testing.T) {
		svc, repo, _, _, _ := newServiceWithMocks(t)
		sold := helpers.CreateTestItem("000001", func(i *domain.Item) { i.IsSold = true })
		stored := loadedInventory(sold)

		// no Save, no cache invalidation expected
		repo.EXPECT().Load(gomock.Any()).Return(stored, nil)

		item, err := svc.MarkSold(ctx, "000001")
		require.NoError(t, err)
		assert.True(t, item.IsSold)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, repo, _, _, _ := newServiceWithMocks(t)
		repo.EXPECT().Load(gomock.Any()).Return(loadedInventory(), nil)

		_, err := svc.MarkSold(ctx, "999999")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}
