//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/elikagan/objectlesson-api/internal/adapters/blobrepo"
	"github.com/elikagan/objectlesson-api/internal/adapters/memstore"
	"github.com/elikagan/objectlesson-api/internal/adapters/payment"
	redis_a "github.com/elikagan/objectlesson-api/internal/adapters/redis_adapter"
	"github.com/elikagan/objectlesson-api/internal/core/services"
	"github.com/elikagan/objectlesson-api/internal/handlers"
	"github.com/elikagan/objectlesson-api/internal/handlers/middleware"
	"github.com/elikagan/objectlesson-api/test/helpers"
)

const (
	adminToken   = "e2e-admin-token"
	signatureKey = "e2e-signature-key"
)

// fakeImageStore keeps uploaded keys in memory so delete flows can be
// observed without S3.
type fakeImageStore struct {
	keys map[string]bool
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{keys: make(map[string]bool)}
}

func (f *fakeImageStore) Upload(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	io.Copy(io.Discard, data)
	f.keys[key] = true
	return "https://cdn.test/" + key, nil
}

func (f *fakeImageStore) Delete(_ context.Context, key string) error {
	delete(f.keys, key)
	return nil
}

func (f *fakeImageStore) Exists(_ context.Context, key string) (bool, error) {
	return f.keys[key], nil
}

type InventoryE2ESuite struct {
	suite.Suite
	server     *httptest.Server
	square     *httptest.Server
	client     *http.Client
	baseURL    string
	webhookURL string
	store      *memstore.Store
	images     *fakeImageStore
}

func (s *InventoryE2ESuite) SetupSuite() {
	logger := helpers.TestLogger()

	s.store = memstore.New()
	s.images = newFakeImageStore()
	repo := blobrepo.NewInventoryRepository(s.store, blobrepo.DefaultDocumentPath, logger)

	testRedis := helpers.SetupTestRedis(s.T())
	cache := redis_a.NewCache(testRedis.Client, time.Hour, logger)

	// fake Square endpoint for payment link creation
	s.square = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"payment_link": map[string]string{"url": "https://square.link/u/e2e"},
		})
	}))

	inventoryService := services.NewInventoryService(repo, s.images, cache, nil, logger)
	paymentClient := payment.NewSquareClient(payment.Config{
		AccessToken:  "e2e-token",
		LocationID:   "e2e-location",
		RedirectBase: "https://objectlesson.shop",
		BaseURL:      s.square.URL,
	}, logger)
	checkoutService := services.NewCheckoutService(inventoryService, paymentClient, nil, logger)

	s.webhookURL = "https://api.test/api/v1/webhook"

	inventoryHandler := handlers.NewInventoryHandler(inventoryService, s.images, logger)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, signatureKey, s.webhookURL, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/inventory", inventoryHandler.GetInventory)
	mux.HandleFunc("POST /api/v1/inventory", inventoryHandler.CreateItem)
	mux.HandleFunc("GET /api/v1/inventory/{id}", inventoryHandler.GetItem)
	mux.HandleFunc("POST /api/v1/inventory/reorder", inventoryHandler.Reorder)
	mux.HandleFunc("PUT /api/v1/inventory/{id}", inventoryHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/v1/inventory/{id}", inventoryHandler.DeleteItem)
	mux.HandleFunc("POST /api/v1/inventory/{id}/sold", inventoryHandler.MarkSold)
	mux.HandleFunc("POST /api/v1/checkout", checkoutHandler.CreateCheckout)
	mux.HandleFunc("POST /api/v1/webhook", checkoutHandler.HandleWebhook)

	handler := middleware.AdminAuth(adminToken, []string{"/api/v1/inventory"})(mux)

	s.server = httptest.NewServer(handler)
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + "/api/v1"
}

func (s *InventoryE2ESuite) TearDownSuite() {
	s.server.Close()
	s.square.Close()
}

func (s *InventoryE2ESuite) TestCompleteInventoryWorkflow() {
	// 1. Create two items as the admin
	first := s.createItem("Noguchi Style Paper Lantern", "light", "240")
	second := s.createItem("Walnut Credenza", "furniture", "850")
	s.Require().NotEqual(first, second)

	// newest item sits at the top of the active section
	items := s.listItems()
	s.Require().Len(items, 2)
	s.Equal(second, items[0]["id"])

	// 2. Reorder them back
	resp := s.makeRequest(http.MethodPost, "/inventory/reorder", map[string]any{
		"ids": []string{first, second},
	}, true)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	items = s.listItems()
	s.Equal(first, items[0]["id"])

	// 3. Buyer opens a checkout for the first item (no admin token)
	resp = s.makeRequest(http.MethodPost, "/checkout", map[string]any{"itemId": first}, false)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var link map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&link))
	resp.Body.Close()
	s.Contains(link["url"], "square.link")

	// 4. Square reports the payment completed
	s.deliverWebhook(first, "Noguchi Style Paper Lantern", 24000)

	item := s.getItem(first)
	s.Equal(true, item["isSold"])

	// duplicate delivery is a no-op
	s.deliverWebhook(first, "Noguchi Style Paper Lantern", 24000)
	item = s.getItem(first)
	s.Equal(true, item["isSold"])

	// 5. A second checkout attempt for the sold item is rejected
	resp = s.makeRequest(http.MethodPost, "/checkout", map[string]any{"itemId": first}, false)
	s.Equal(http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// 6. Delete the remaining active item
	req, err := http.NewRequest(http.MethodDelete, s.baseURL+"/inventory/"+second, nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = s.client.Do(req)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	items = s.listItems()
	s.Require().Len(items, 1)
	s.Equal(first, items[0]["id"])
}

func (s *InventoryE2ESuite) TestAdminGateOnMutations() {
	resp := s.makeRequest(http.MethodPost, "/inventory", map[string]any{
		"title":    "Unauthorized Vase",
		"category": "ceramic",
		"price":    "120",
	}, false)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// reads stay public
	listResp, err := s.client.Get(s.baseURL + "/inventory")
	s.Require().NoError(err)
	s.Equal(http.StatusOK, listResp.StatusCode)
	listResp.Body.Close()
}

func (s *InventoryE2ESuite) TestForgedWebhookIsRejected() {
	body := []byte(`{"type":"payment.updated"}`)
	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/webhook", bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("X-Square-Hmacsha256-Signature", "forged")
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

// Helpers

func (s *InventoryE2ESuite) createItem(title, category, price string) string {
	resp := s.makeRequest(http.MethodPost, "/inventory", map[string]any{
		"title":    title,
		"category": category,
		"price":    price,
	}, true)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	var created map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&created))
	id, _ := created["id"].(string)
	s.Require().NotEmpty(id)
	return id
}

func (s *InventoryE2ESuite) listItems() []map[string]any {
	resp, err := s.client.Get(s.baseURL + "/inventory")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Items []map[string]any `json:"items"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	return body.Items
}

func (s *InventoryE2ESuite) getItem(id string) map[string]any {
	resp, err := s.client.Get(s.baseURL + "/inventory/" + id)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var item map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&item))
	return item
}

func (s *InventoryE2ESuite) deliverWebhook(itemID, title string, amountCents int64) {
	note := fmt.Sprintf("Object Lesson | %s (%s)", title, itemID)
	body, err := json.Marshal(map[string]any{
		"type": "payment.updated",
		"data": map[string]any{"object": map[string]any{"payment": map[string]any{
			"status":       "COMPLETED",
			"note":         note,
			"amount_money": map[string]int64{"amount": amountCents},
		}}},
	})
	s.Require().NoError(err)

	mac := hmac.New(sha256.New, []byte(signatureKey))
	mac.Write([]byte(s.webhookURL))
	mac.Write(body)
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/webhook", bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("X-Square-Hmacsha256-Signature", signature)

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *InventoryE2ESuite) makeRequest(method, path string, payload any, asAdmin bool) *http.Response {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	req, err := http.NewRequest(method, s.baseURL+path, bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if asAdmin {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

func TestInventoryE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}
	suite.Run(t, new(InventoryE2ESuite))
}
