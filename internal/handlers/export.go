// internal/handlers/export.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/elikagan/objectlesson-api/internal/core/domain"
	"github.com/elikagan/objectlesson-api/internal/core/ports"
)

// ExportHandler renders the inventory document as downloadable files
type ExportHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ports.InventoryService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/xlsx
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	inv, err := h.service.GetInventory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load inventory for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(inv.Items)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("inventory_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "excel export completed",
		slog.Int("total_rows", len(inv.Items)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	inv, err := h.service.GetInventory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load inventory for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	items := inv.Items
	if items == nil {
		items = []domain.Item{}
	}

	response := map[string]interface{}{
		"inventory": items,
		"metadata": map[string]interface{}{
			"export_date": time.Now().UTC(),
			"total_items": len(items),
		},
	}

	data, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal JSON export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response",
			slog.String("error", err.Error()))
		return
	}
}

// generateExcelFile creates an Excel file in memory from the document items
func (h *ExportHandler) generateExcelFile(items []domain.Item) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Inventory")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{
		"ID", "Title", "Description", "Price", "Size", "Category",
		"Maker", "Condition", "Dealer Code", "Status", "Images", "Created",
	}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for idx := range items {
		item := &items[idx]
		row := sheet.AddRow()
		row.AddCell().Value = domain.FormatID(item.ID)
		row.AddCell().Value = item.Title
		row.AddCell().Value = item.Description
		row.AddCell().SetFloat(item.Price.InexactFloat64())
		row.AddCell().Value = item.Size
		row.AddCell().Value = string(item.Category)
		row.AddCell().Value = item.Maker
		row.AddCell().Value = string(item.Condition)
		row.AddCell().Value = item.DealerCode
		row.AddCell().Value = itemStatus(item)
		row.AddCell().SetInt(len(item.Images))
		row.AddCell().Value = item.CreatedAt.Format("2006-01-02")
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func itemStatus(item *domain.Item) string {
	switch {
	case item.IsSold:
		return "sold"
	case item.IsHold:
		return "hold"
	case item.IsNew:
		return "new"
	default:
		return "active"
	}
}

func (h *ExportHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}
