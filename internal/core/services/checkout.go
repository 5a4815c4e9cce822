// internal/core/services/checkout.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/elikagan/objectlesson-api/internal/core/domain"
	"github.com/elikagan/objectlesson-api/internal/core/ports"
	"github.com/elikagan/objectlesson-api/internal/workers"
)

// CheckoutService bridges the payment provider and the inventory
// document: it creates hosted payment links for active items and applies
// "payment completed" events as idempotent mark-sold mutations.
type CheckoutService struct {
	inventory ports.InventoryService
	payments  ports.PaymentLinker
	tasks     TaskEnqueuer
	logger    *slog.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(inventory ports.InventoryService, payments ports.PaymentLinker, tasks TaskEnqueuer, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		inventory: inventory,
		payments:  payments,
		tasks:     tasks,
		logger:    logger.With(slog.String("service", "checkout")),
	}
}

// CreateCheckout creates a payment link for the item. Sold items are
// rejected before any call to the provider.
func (s *CheckoutService) CreateCheckout(ctx context.Context, itemID string) (string, error) {
	inv, err := s.inventory.GetInventory(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load inventory: %w", err)
	}

	item := inv.FindByID(itemID)
	if item == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	if item.IsSold {
		return "", fmt.Errorf("%w: %s", domain.ErrItemSold, itemID)
	}

	url, err := s.payments.CreatePaymentLink(ctx, ports.PaymentLinkRequest{
		ItemID: item.ID,
		Title:  item.Title,
		Price:  item.Price,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create payment link: %w", err)
	}

	s.logger.InfoContext(ctx, "payment link created",
		slog.String("item_id", item.ID),
		slog.String("title", item.Title))

	return url, nil
}

// HandlePaymentCompleted applies a confirmed payment: mark the item sold
// (retry-once semantics live in the repository) and queue the sale SMS.
// The two effects are isolated: a failed mark-sold is logged and the SMS
// still goes out, and vice versa. Deliveries are at-least-once and may
// arrive out of order, so an already-sold item is a silent no-op.
func (s *CheckoutService) HandlePaymentCompleted(ctx context.Context, itemID, itemInfo string, amount string) {
	var item *domain.Item
	if itemID != "" {
		var err error
		item, err = s.inventory.MarkSold(ctx, itemID)
		if err != nil {
			// fire-and-forget: the notification below must still happen
			s.logger.ErrorContext(ctx, "failed to mark item sold from webhook",
				slog.String("item_id", itemID),
				slog.String("error", err.Error()))
		}
	}

	info := itemInfo
	if info == "" && item != nil {
		info = item.Title + " (" + domain.FormatID(item.ID) + ")"
	}
	s.enqueueSaleSMS(ctx, fmt.Sprintf("Sale: %s — $%s. Check Square for details.", info, amount))
}

func (s *CheckoutService) enqueueSaleSMS(ctx context.Context, body string) {
	if s.tasks == nil {
		return
	}
	task, err := workers.NewSMSTask(body)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build sms task",
			slog.String("error", err.Error()))
		return
	}
	if _, err := s.tasks.EnqueueContext(ctx, task, asynq.Queue("critical"), asynq.MaxRetry(3)); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue sale sms",
			slog.String("error", err.Error()))
	}
}
