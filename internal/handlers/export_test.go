// internal/handlers/export_test.go
package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/elikagan/objectlesson-api/internal/handlers"
	"github.com/elikagan/objectlesson-api/test/helpers"
	"github.com/elikagan/objectlesson-api/test/mocks"
)

func newExportHandler(t *testing.T) (*handlers.ExportHandler, *mocks.MockInventoryService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	service := mocks.NewMockInventoryService(ctrl)
	return handlers.NewExportHandler(service, helpers.TestLogger()), service
}

func TestExportHandler_ExportExcel(t *testing.T) {
	t.Run("serves a spreadsheet attachment", func(t *testing.T) {
		h, service := newExportHandler(t)
		service.EXPECT().GetInventory(gomock.Any()).
			Return(testInventory(helpers.CreateTestItems(3)...), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/export/xlsx", nil)
		rec := httptest.NewRecorder()
		h.ExportExcel(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
		assert.NotZero(t, rec.Body.Len())
	})

	t.Run("load failure is a 500", func(t *testing.T) {
		h, service := newExportHandler(t)
		service.EXPECT().GetInventory(gomock.Any()).Return(nil, assert.AnError)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/export/xlsx", nil)
		rec := httptest.NewRecorder()
		h.ExportExcel(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestExportHandler_ExportJSON(t *testing.T) {
	t.Run("includes export metadata", func(t *testing.T) {
		h, service := newExportHandler(t)
		service.EXPECT().GetInventory(gomock.Any()).
			Return(testInventory(helpers.CreateTestItems(2)...), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/export/json", nil)
		rec := httptest.NewRecorder()
		h.ExportJSON(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		metadata := body["metadata"].(map[string]interface{})
		assert.Equal(t, float64(2), metadata["total_items"])
		assert.Len(t, body["inventory"], 2)
	})

	t.Run("empty document exports an empty array", func(t *testing.T) {
		h, service := newExportHandler(t)
		service.EXPECT().GetInventory(gomock.Any()).Return(testInventory(), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/export/json", nil)
		rec := httptest.NewRecorder()
		h.ExportJSON(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"inventory":[]`)
	})
}
