// internal/handlers/suggest_test.go
package handlers_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/elikagan/objectlesson-api/internal/core/ports"
	"github.com/elikagan/objectlesson-api/internal/handlers"
	"github.com/elikagan/objectlesson-api/test/helpers"
	"github.com/elikagan/objectlesson-api/test/mocks"
)

func multipartImages(t *testing.T, count int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for i := 0; i < count; i++ {
		part, err := mw.CreateFormFile("images", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestSuggestHandler_Suggest(t *testing.T) {
	t.Run("returns partial fields from the photos", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		suggester := mocks.NewMockSuggester(ctrl)
		h := handlers.NewSuggestHandler(suggester, helpers.TestLogger())

		suggester.EXPECT().Suggest(gomock.Any(), gomock.Len(2)).
			Return(&ports.ListingSuggestion{
				Title:    "Sculptural Paper Lantern",
				Category: "light",
			}, nil)

		body, contentType := multipartImages(t, 2)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/suggest", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.Suggest(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Sculptural Paper Lantern")
	})

	t.Run("extra photos beyond the limit are dropped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		suggester := mocks.NewMockSuggester(ctrl)
		h := handlers.NewSuggestHandler(suggester, helpers.TestLogger())

		suggester.EXPECT().Suggest(gomock.Any(), gomock.Len(4)).
			Return(&ports.ListingSuggestion{}, nil)

		body, contentType := multipartImages(t, 6)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/suggest", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.Suggest(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no images is 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := handlers.NewSuggestHandler(mocks.NewMockSuggester(ctrl), helpers.TestLogger())

		body, contentType := multipartImages(t, 0)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/suggest", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.Suggest(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider failure is a 502", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		suggester := mocks.NewMockSuggester(ctrl)
		h := handlers.NewSuggestHandler(suggester, helpers.TestLogger())

		suggester.EXPECT().Suggest(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("model overloaded"))

		body, contentType := multipartImages(t, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/suggest", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.Suggest(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("unconfigured suggester is a 503", func(t *testing.T) {
		h := handlers.NewSuggestHandler(nil, helpers.TestLogger())

		body, contentType := multipartImages(t, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/suggest", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.Suggest(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
