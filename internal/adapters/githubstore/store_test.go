// internal/adapters/githubstore/store_test.go
package githubstore_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elikagan/objectlesson-api/internal/adapters/githubstore"
	"github.com/elikagan/objectlesson-api/internal/core/ports"
	"github.com/elikagan/objectlesson-api/test/helpers"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *githubstore.Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return githubstore.New(githubstore.Config{
		Owner:   "test-owner",
		Repo:    "test-repo",
		Branch:  "main",
		Token:   "test-token",
		BaseURL: server.URL,
	}, helpers.TestLogger())
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes content and captures the file sha", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/repos/test-owner/test-repo/contents/inventory.json", r.URL.Path)
			assert.Equal(t, "main", r.URL.Query().Get("ref"))
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			// GitHub wraps base64 with newlines mid-stream
			encoded := base64.StdEncoding.EncodeToString([]byte(`[{"id":"000001"}]`))
			json.NewEncoder(w).Encode(map[string]string{
				"content": encoded[:12] + "\n" + encoded[12:],
				"sha":     "abc123def456",
			})
		})

		blob, err := store.Get(ctx, "inventory.json")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"000001"}]`, string(blob.Content))
		assert.Equal(t, "abc123def456", blob.VersionTag)
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
		})

		_, err := store.Get(ctx, "inventory.json")
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("other failures carry the api message", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"message": "API rate limit exceeded"})
		})

		_, err := store.Get(ctx, "inventory.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limit")
	})
}

func TestStore_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the expected sha and returns the new one", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Update inventory", payload["message"])
			assert.Equal(t, "old-sha", payload["sha"])
			assert.Equal(t, "main", payload["branch"])

			json.NewEncoder(w).Encode(map[string]any{
				"content": map[string]string{"sha": "new-sha"},
			})
		})

		tag, err := store.Put(ctx, "inventory.json", []byte("[]"), "old-sha", "Update inventory")
		require.NoError(t, err)
		assert.Equal(t, "new-sha", tag)
	})

	t.Run("first write omits the sha field", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			_, hasSHA := payload["sha"]
			assert.False(t, hasSHA)

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"content": map[string]string{"sha": "first-sha"},
			})
		})

		tag, err := store.Put(ctx, "inventory.json", []byte("[]"), "", "Initialize inventory")
		require.NoError(t, err)
		assert.Equal(t, "first-sha", tag)
	})

	t.Run("409 maps to ErrVersionConflict", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"message": "is at abc but expected def"})
		})

		_, err := store.Put(ctx, "inventory.json", []byte("[]"), "stale", "Update inventory")
		assert.ErrorIs(t, err, ports.ErrVersionConflict)
	})

	t.Run("422 with a stale sha message maps to ErrVersionConflict", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{
				"message": "inventory.json does not match abc123",
			})
		})

		_, err := store.Put(ctx, "inventory.json", []byte("[]"), "stale", "Update inventory")
		assert.ErrorIs(t, err, ports.ErrVersionConflict)
	})

	t.Run("422 for other reasons is not a conflict", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"message": "content is not valid Base64"})
		})

		_, err := store.Put(ctx, "inventory.json", []byte("[]"), "tag", "Update inventory")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ports.ErrVersionConflict)
	})
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes with the version tag", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "abc123", payload["sha"])

			json.NewEncoder(w).Encode(map[string]any{"content": nil})
		})

		err := store.Delete(ctx, "inventory.json", "abc123", "Remove inventory")
		assert.NoError(t, err)
	})

	t.Run("missing file maps to ErrNotFound", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
		})

		err := store.Delete(ctx, "inventory.json", "abc123", "Remove inventory")
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})
}

func TestStore_EscapesDocumentPath(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/test-owner/test-repo/contents/data/inventory%202024.json", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	})

	_, err := store.Get(context.Background(), "data/inventory 2024.json")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
