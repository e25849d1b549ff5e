package cashtransfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Repository persists CashTransfer aggregates
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CashTransfer, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CashTransfer, error)
	FindByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[CashTransfer], error)
	Save(ctx context.Context, ct *CashTransfer) error
	// NextTransferNumber allocates the next serial for the tenant's
	// current fiscal year. Implementations must serialize allocation.
	NextTransferNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	// SumOutgoing totals transfers debited from a centre (PENDING and
	// RECEIVED both count; the cash already left the drawer).
	SumOutgoing(ctx context.Context, tenantID, centreID uuid.UUID) (decimal.Decimal, error)
	// SumIncoming totals RECEIVED transfers credited to a centre.
	SumIncoming(ctx context.Context, tenantID, centreID uuid.UUID) (decimal.Decimal, error)
}
