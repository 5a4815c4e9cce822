// internal/adapters/payment/square.go
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elikagan/objectlesson-api/internal/core/ports"
)

const (
	defaultBaseURL = "https://connect.squareup.com"
	squareVersion  = "2024-12-18"

	// notePrefix tags payments so the webhook can tell ours apart.
	notePrefix = "Object Lesson | "
)

// noteIDPattern extracts the item id from a payment note shaped
// "Object Lesson | Title (itemId)".
var noteIDPattern = regexp.MustCompile(`\(([^)]+)\)$`)

// Config holds Square client configuration
type Config struct {
	AccessToken  string
	LocationID   string
	RedirectBase string // storefront URL the buyer returns to
	BaseURL      string // overridable for tests
	Timeout      time.Duration
}

// SquareClient creates payment links via Square's Payment Links API
type SquareClient struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// Statically assert that *SquareClient implements the port.
var _ ports.PaymentLinker = (*SquareClient)(nil)

// NewSquareClient creates a new Square payment client
func NewSquareClient(cfg Config, logger *slog.Logger) *SquareClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SquareClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(slog.String("payment", "square")),
	}
}

type paymentLinkRequest struct {
	IdempotencyKey  string          `json:"idempotency_key"`
	QuickPay        quickPay        `json:"quick_pay"`
	CheckoutOptions checkoutOptions `json:"checkout_options"`
	PaymentNote     string          `json:"payment_note"`
}

type quickPay struct {
	Name       string     `json:"name"`
	PriceMoney priceMoney `json:"price_money"`
	LocationID string     `json:"location_id"`
}

type priceMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type checkoutOptions struct {
	RedirectURL           string `json:"redirect_url"`
	AskForShippingAddress bool   `json:"ask_for_shipping_address"`
}

type paymentLinkResponse struct {
	PaymentLink struct {
		URL string `json:"url"`
	} `json:"payment_link"`
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

// CreatePaymentLink creates a quick-pay checkout link for a single item
func (c *SquareClient) CreatePaymentLink(ctx context.Context, req ports.PaymentLinkRequest) (string, error) {
	amountCents := req.Price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	payload := paymentLinkRequest{
		IdempotencyKey: uuid.New().String(),
		QuickPay: quickPay{
			Name:       req.Title,
			PriceMoney: priceMoney{Amount: amountCents, Currency: "USD"},
			LocationID: c.cfg.LocationID,
		},
		CheckoutOptions: checkoutOptions{
			RedirectURL:           c.cfg.RedirectBase + "#" + req.ItemID,
			AskForShippingAddress: true,
		},
		PaymentNote: fmt.Sprintf("%s%s (%s)", notePrefix, req.Title, req.ItemID),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payment link request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v2/online-checkout/payment-links", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Square-Version", squareVersion)
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("square payment link request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read square response: %w", err)
	}

	var linkRes paymentLinkResponse
	if err := json.Unmarshal(resBody, &linkRes); err != nil {
		return "", fmt.Errorf("failed to decode square response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		detail := "checkout failed"
		if len(linkRes.Errors) > 0 && linkRes.Errors[0].Detail != "" {
			detail = linkRes.Errors[0].Detail
		}
		return "", fmt.Errorf("square payment link failed: status %d: %s", res.StatusCode, detail)
	}

	c.logger.InfoContext(ctx, "payment link created",
		slog.String("item_id", req.ItemID),
		slog.Int64("amount_cents", amountCents))

	return linkRes.PaymentLink.URL, nil
}

// WebhookEvent is the slice of a Square event the checkout flow needs.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			Payment struct {
				Status      string `json:"status"`
				Note        string `json:"note"`
				AmountMoney struct {
					Amount int64 `json:"amount"`
				} `json:"amount_money"`
			} `json:"payment"`
		} `json:"object"`
	} `json:"data"`
}

// ParseWebhookEvent decodes a webhook body
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to decode webhook event: %w", err)
	}
	return &event, nil
}

// IsCompletedSale reports whether the event is a completed payment for
// one of our tagged checkouts.
func (e *WebhookEvent) IsCompletedSale() bool {
	return e.Type == "payment.updated" &&
		e.Data.Object.Payment.Status == "COMPLETED" &&
		len(e.Data.Object.Payment.Note) > len(notePrefix) &&
		e.Data.Object.Payment.Note[:len(notePrefix)] == notePrefix
}

// ItemInfo returns the "Title (itemId)" portion of the payment note.
func (e *WebhookEvent) ItemInfo() string {
	return e.Data.Object.Payment.Note[len(notePrefix):]
}

// ItemID extracts the item id embedded in the payment note, or "".
func (e *WebhookEvent) ItemID() string {
	m := noteIDPattern.FindStringSubmatch(e.Data.Object.Payment.Note)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

// AmountDollars formats the payment amount in whole dollars and cents.
func (e *WebhookEvent) AmountDollars() string {
	return decimal.NewFromInt(e.Data.Object.Payment.AmountMoney.Amount).
		Div(decimal.NewFromInt(100)).StringFixed(2)
}

// VerifyWebhookSignature checks Square's HMAC-SHA256 notification
// signature: base64(HMAC(key, notificationURL + body)).
func VerifyWebhookSignature(signatureKey, notificationURL string, body []byte, signature string) bool {
	if signatureKey == "" {
		// verification disabled (development)
		return true
	}
	mac := hmac.New(sha256.New, []byte(signatureKey))
	mac.Write([]byte(notificationURL))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
