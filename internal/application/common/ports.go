package common

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxManager runs a unit of work inside a database transaction. Repositories
// resolve the transaction from the context.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TargetCredit is a confirmed admission's contribution to its centre's
// sales target, applied asynchronously off the admission path.
type TargetCredit struct {
	TenantID uuid.UUID
	CentreID uuid.UUID
	Amount   decimal.Decimal
}

// TargetCreditQueue hands sales-target credits to the background worker.
// Enqueue must not block the caller.
type TargetCreditQueue interface {
	Enqueue(credit TargetCredit)
}

// ReceiptStorage archives rendered bill receipts.
type ReceiptStorage interface {
	Store(ctx context.Context, key string, contentType string, body []byte) (string, error)
	PresignedURL(ctx context.Context, key string) (string, error)
}
