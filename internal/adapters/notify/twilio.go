// internal/adapters/notify/twilio.go
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elikagan/objectlesson-api/internal/core/ports"
)

const defaultBaseURL = "https://api.twilio.com"

// Config holds Twilio SMS configuration
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string // the alert number sale notifications go to
	BaseURL    string // overridable for tests
	Timeout    time.Duration
}

// TwilioSender sends SMS alerts through the Twilio Messages API
type TwilioSender struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// Statically assert that *TwilioSender implements the port.
var _ ports.SMSSender = (*TwilioSender)(nil)

// NewTwilioSender creates a new Twilio SMS sender
func NewTwilioSender(cfg Config, logger *slog.Logger) *TwilioSender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &TwilioSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(slog.String("notify", "twilio")),
	}
}

// Send delivers the message body to the configured alert number
func (t *TwilioSender) Send(ctx context.Context, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.cfg.BaseURL, t.cfg.AccountSID)

	form := url.Values{
		"To":   {t.cfg.ToNumber},
		"From": {t.cfg.FromNumber},
		"Body": {body},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		resBody, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("twilio send failed: status %d: %s", res.StatusCode, string(resBody))
	}

	t.logger.InfoContext(ctx, "sms delivered", slog.Int("length", len(body)))
	return nil
}
