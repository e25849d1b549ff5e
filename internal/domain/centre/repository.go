package centre

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists Centre aggregates
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Centre, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Centre, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Centre, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Centre, error)
	Save(ctx context.Context, c *Centre) error
}

// SalesTargetRepository persists SalesTarget aggregates
type SalesTargetRepository interface {
	// FindActive returns the target whose period covers the given date,
	// or shared.ErrNotFound when none does.
	FindActive(ctx context.Context, tenantID, centreID uuid.UUID, at time.Time) (*SalesTarget, error)
	Save(ctx context.Context, st *SalesTarget) error
	// SaveWithLock persists guarded by the optimistic version.
	SaveWithLock(ctx context.Context, st *SalesTarget, expectedVersion int) error
}
