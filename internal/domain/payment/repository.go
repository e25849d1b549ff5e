package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository persists Payment aggregates
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)
	// FindByAdmissionInstallment locates the mirror record for one
	// installment of one admission (the create-or-update key).
	FindByAdmissionInstallment(ctx context.Context, tenantID, admissionID uuid.UUID, installmentNumber int) (*Payment, error)
	FindByAdmissionMonth(ctx context.Context, tenantID, admissionID uuid.UUID, billingMonth string) (*Payment, error)
	FindByAdmission(ctx context.Context, tenantID, admissionID uuid.UUID) ([]Payment, error)
	Save(ctx context.Context, p *Payment) error
	// NextBillID allocates the next bill number for a centre's current
	// fiscal-year prefix. Implementations must serialize allocation
	// (row lock inside the surrounding transaction).
	NextBillID(ctx context.Context, tenantID uuid.UUID, centreCode string) (string, error)
	// SumCashCollected totals confirmed CASH receipts for a centre,
	// feeding the cash-on-hand computation.
	SumCashCollected(ctx context.Context, tenantID, centreID uuid.UUID) (decimal.Decimal, error)
}
