// internal/core/ports/payments.go
package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentLinkRequest describes a single-item checkout.
type PaymentLinkRequest struct {
	ItemID string
	Title  string
	Price  decimal.Decimal
}

// PaymentLinker creates hosted checkout links with the payment provider.
type PaymentLinker interface {
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (string, error)
}

// SMSSender delivers a short notification message to the configured
// alert number. Failures are the caller's to isolate; a failed send must
// never roll back the mutation it follows.
type SMSSender interface {
	Send(ctx context.Context, body string) error
}
