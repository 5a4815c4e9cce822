// internal/workers/notification_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/elikagan/objectlesson-api/internal/core/ports"
)

// Task type names registered with the asynq mux.
const (
	TypeSendSMS       = "notify:sms"
	TypeCleanupImages = "cleanup:images"
)

// SMSPayload represents the payload for SMS notification tasks
type SMSPayload struct {
	Body string `json:"body"`
}

// NewSMSTask builds an SMS notification task
func NewSMSTask(body string) (*asynq.Task, error) {
	b, err := json.Marshal(SMSPayload{Body: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sms payload: %w", err)
	}
	return asynq.NewTask(TypeSendSMS, b), nil
}

// NotificationProcessor sends sale alerts over SMS
type NotificationProcessor struct {
	sender ports.SMSSender
	logger *slog.Logger
}

// NewNotificationProcessor creates a new notification processor
func NewNotificationProcessor(sender ports.SMSSender, logger *slog.Logger) *NotificationProcessor {
	return &NotificationProcessor{
		sender: sender,
		logger: logger.With(slog.String("processor", "notification")),
	}
}

// SendSMS delivers a queued SMS notification
func (p *NotificationProcessor) SendSMS(ctx context.Context, t *asynq.Task) error {
	var payload SMSPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := p.sender.Send(ctx, payload.Body); err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}

	p.logger.InfoContext(ctx, "sms sent", slog.Int("length", len(payload.Body)))
	return nil
}
