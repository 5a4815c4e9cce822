// internal/handlers/suggest.go
package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/elikagan/objectlesson-api/internal/core/ports"
)

const (
	maxSuggestBytes  = 20 << 20 // total multipart budget
	maxSuggestImages = 4
)

// SuggestHandler handles AI-assisted listing suggestions from photos
type SuggestHandler struct {
	suggester ports.Suggester
	logger    *slog.Logger
}

// NewSuggestHandler creates a new suggest handler
func NewSuggestHandler(suggester ports.Suggester, logger *slog.Logger) *SuggestHandler {
	return &SuggestHandler{
		suggester: suggester,
		logger:    logger.With(slog.String("handler", "suggest")),
	}
}

// Suggest handles POST /api/v1/suggest. Accepts up to four product
// photos as multipart "images" parts and returns partial catalog fields.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.suggester == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Suggestions are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSuggestBytes)
	if err := r.ParseMultipartForm(maxSuggestBytes); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		h.respondError(w, http.StatusBadRequest, "at least one image is required")
		return
	}
	if len(files) > maxSuggestImages {
		files = files[:maxSuggestImages]
	}

	images := make([][]byte, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Failed to read image")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Failed to read image")
			return
		}
		images = append(images, data)
	}

	suggestion, err := h.suggester.Suggest(ctx, images)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate listing suggestion",
			slog.Int("images", len(images)),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusBadGateway, "Failed to generate suggestion")
		return
	}

	h.respondJSON(w, http.StatusOK, suggestion)
}

func (h *SuggestHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *SuggestHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
