// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/elikagan/objectlesson-api/internal/adapters/blobrepo"
	"github.com/elikagan/objectlesson-api/internal/adapters/memstore"
	"github.com/elikagan/objectlesson-api/internal/core/domain"
	"github.com/elikagan/objectlesson-api/internal/pkg/config"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// SetupTestRepository creates an inventory repository backed by the
// in-memory blob store, so the full load-mutate-save cycle including
// conflict handling runs without any network.
func SetupTestRepository(t *testing.T) (*blobrepo.InventoryRepository, *memstore.Store) {
	t.Helper()

	store := memstore.New()
	repo := blobrepo.NewInventoryRepository(store, blobrepo.DefaultDocumentPath, TestLogger())
	return repo, store
}

// SeedTestInventory writes an initial document with the given items
func SeedTestInventory(t *testing.T, repo *blobrepo.InventoryRepository, items []domain.Item) *domain.Inventory {
	t.Helper()

	ctx := context.Background()
	inv := domain.NewInventory()
	inv.Items = items

	_, err := repo.Save(ctx, inv, "seed test inventory")
	require.NoError(t, err, "Failed to seed test inventory")

	return inv
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		GitHub: config.GitHubConfig{
			Owner:        "test-owner",
			Repo:         "test-repo",
			Branch:       "main",
			Token:        "test-token",
			DocumentPath: "inventory.json",
			Timeout:      5 * time.Second,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Security: config.SecurityConfig{
			AdminToken:        "test-admin-token",
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestItem creates a test item
func CreateTestItem(id string, overrides ...func(*domain.Item)) domain.Item {
	item := domain.Item{
		ID:          id,
		Title:       "Noguchi Style Paper Lantern",
		Description: "Sculptural washi paper floor lamp, mid-century",
		Price:       decimal.NewFromInt(240),
		Size:        `14" x 14" x 22"`,
		Category:    domain.CategoryLight,
		Condition:   domain.ConditionExcellent,
		Images:      []string{"products/" + id + "/main.jpg"},
		HeroImage:   "products/" + id + "/main.jpg",
		CreatedAt:   time.Now().UTC().Add(-24 * time.Hour),
	}

	for _, override := range overrides {
		override(&item)
	}

	return item
}

// CreateTestItems creates count sequential test items in display order
func CreateTestItems(count int) []domain.Item {
	categories := []domain.ItemCategory{
		domain.CategoryWallArt,
		domain.CategoryObject,
		domain.CategoryCeramic,
		domain.CategoryFurniture,
		domain.CategoryLight,
	}

	items := make([]domain.Item, count)
	for i := 0; i < count; i++ {
		items[i] = CreateTestItem(fmt.Sprintf("%06d", i+1), func(item *domain.Item) {
			item.Title = fmt.Sprintf("Test Item %d", i+1)
			item.Category = categories[i%len(categories)]
			item.Order = i
			item.Price = decimal.NewFromInt(int64(100 + i*50))
		})
	}

	return items
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}
