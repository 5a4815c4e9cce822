// internal/handlers/checkout.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/elikagan/objectlesson-api/internal/adapters/payment"
	"github.com/elikagan/objectlesson-api/internal/core/domain"
	"github.com/elikagan/objectlesson-api/internal/core/services"
)

const maxWebhookBodyBytes = 1 << 20 // 1 MB

// CheckoutHandler handles buyer checkout and payment webhooks
type CheckoutHandler struct {
	service      *services.CheckoutService
	signatureKey string
	webhookURL   string
	logger       *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler. The signature key
// and notification URL come from the Square webhook subscription.
func NewCheckoutHandler(service *services.CheckoutService, signatureKey, webhookURL string, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:      service,
		signatureKey: signatureKey,
		webhookURL:   webhookURL,
		logger:       logger.With(slog.String("handler", "checkout")),
	}
}

// CreateCheckoutRequest represents the request body for creating a checkout
type CreateCheckoutRequest struct {
	ItemID string `json:"itemId"`
}

// CreateCheckout handles POST /api/v1/checkout
func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ItemID == "" {
		h.respondError(w, http.StatusBadRequest, "itemId is required")
		return
	}

	url, err := h.service.CreateCheckout(ctx, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			h.respondError(w, http.StatusNotFound, "Item not found")
		case errors.Is(err, domain.ErrItemSold):
			h.respondError(w, http.StatusConflict, "Item is already sold")
		default:
			h.logger.ErrorContext(ctx, "failed to create checkout",
				slog.String("item_id", req.ItemID),
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Failed to create checkout")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// HandleWebhook handles POST /api/v1/webhook. Square delivers events
// at-least-once; anything past signature verification is acknowledged
// with 200 so the provider does not retry events we chose to skip.
func (h *CheckoutHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	signature := r.Header.Get("X-Square-Hmacsha256-Signature")
	if !payment.VerifyWebhookSignature(h.signatureKey, h.webhookURL, body, signature) {
		h.logger.WarnContext(ctx, "webhook signature verification failed")
		h.respondError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	event, err := payment.ParseWebhookEvent(body)
	if err != nil {
		h.logger.WarnContext(ctx, "unparseable webhook event",
			slog.String("error", err.Error()))
		h.respondJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if !event.IsCompletedSale() {
		h.respondJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	h.logger.InfoContext(ctx, "payment completed event received",
		slog.String("item_id", event.ItemID()),
		slog.String("amount", event.AmountDollars()))

	h.service.HandlePaymentCompleted(ctx, event.ItemID(), event.ItemInfo(), event.AmountDollars())

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

func (h *CheckoutHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *CheckoutHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
