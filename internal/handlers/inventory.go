// internal/handlers/inventory.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elikagan/objectlesson-api/internal/core/domain"
	"github.com/elikagan/objectlesson-api/internal/core/ports"
)

const maxImageUploadBytes = 10 << 20 // 10 MB

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	service ports.InventoryService
	images  ports.ImageStore
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, images ports.ImageStore, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		images:  images,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// GetInventory handles GET /api/v1/inventory
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	inv, err := h.service.GetInventory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load inventory",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load inventory")
		return
	}

	items := inv.Items
	if items == nil {
		items = []domain.Item{}
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// GetItem handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	inv, err := h.service.GetInventory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load inventory",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load inventory")
		return
	}

	item := inv.FindByID(id)
	if item == nil {
		h.respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/v1/inventory
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.CreateItem(ctx, req.ToDomain())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidItem) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to create item",
			slog.String("title", req.Title),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	h.respondJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated := req.ToDomain()
	updated.ID = id

	item, err := h.service.UpdateItem(ctx, updated)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			h.respondError(w, http.StatusNotFound, "Item not found")
		case errors.Is(err, domain.ErrInvalidItem):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.ErrorContext(ctx, "failed to update item",
				slog.String("id", id),
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Failed to update item")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.service.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete item",
			slog.String("id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Item deleted successfully",
		"id":      id,
	})
}

// Reorder handles POST /api/v1/inventory/reorder
func (h *InventoryHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		h.respondError(w, http.StatusBadRequest, "ids is required")
		return
	}

	if err := h.service.Reorder(ctx, req.IDs); err != nil {
		if errors.Is(err, domain.ErrReorderMismatch) {
			h.respondError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to reorder items",
			slog.Int("count", len(req.IDs)),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to reorder items")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Items reordered successfully",
		"count":   len(req.IDs),
	})
}

// MarkSold handles POST /api/v1/inventory/{id}/sold
func (h *InventoryHandler) MarkSold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	item, err := h.service.MarkSold(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to mark item sold",
			slog.String("id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to mark item sold")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// UploadImage handles POST /api/v1/inventory/images.
// Every upload gets a fresh key, so nothing is overwritten in place.
func (h *InventoryHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if !strings.HasPrefix(contentType, "image/") {
		h.respondError(w, http.StatusBadRequest, "Only image uploads are accepted")
		return
	}

	ext := path.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("products/%d/%s%s", time.Now().UTC().Year(), uuid.New().String(), ext)

	url, err := h.images.Upload(ctx, key, file, contentType)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to upload image",
			slog.String("key", key),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	h.logger.InfoContext(ctx, "image uploaded",
		slog.String("key", key),
		slog.Int64("size", header.Size))

	h.respondJSON(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": url,
	})
}

// Helper methods

func (h *InventoryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *InventoryHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// ItemRequest represents the request body for creating or updating an item
type ItemRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Size        string          `json:"size,omitempty"`
	Category    string          `json:"category"`
	Maker       string          `json:"maker,omitempty"`
	Condition   string          `json:"condition,omitempty"`
	DealerCode  string          `json:"dealerCode,omitempty"`
	IsNew       bool            `json:"isNew"`
	IsHold      bool            `json:"isHold"`
	IsSold      bool            `json:"isSold"`
	Images      []string        `json:"images"`
	HeroImage   string          `json:"heroImage,omitempty"`
}

// Validate validates the item request
func (r *ItemRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.Category == "" {
		return fmt.Errorf("category is required")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *ItemRequest) ToDomain() domain.Item {
	item := domain.Item{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Size:        r.Size,
		Category:    domain.ItemCategory(r.Category),
		Maker:       r.Maker,
		Condition:   domain.ItemCondition(r.Condition),
		DealerCode:  r.DealerCode,
		IsNew:       r.IsNew,
		IsHold:      r.IsHold,
		IsSold:      r.IsSold,
		Images:      r.Images,
		HeroImage:   r.HeroImage,
	}
	item.NormalizeFlags()
	return item
}

// ReorderRequest represents the request body for reordering items
type ReorderRequest struct {
	IDs []string `json:"ids"`
}
