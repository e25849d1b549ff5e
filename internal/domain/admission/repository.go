package admission

import (
	"context"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/shared"
)

// Repository persists Admission aggregates
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Admission, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Admission, error)
	FindByAdmissionNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Admission, error)
	FindByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]Admission, error)
	FindByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[Admission], error)
	Save(ctx context.Context, a *Admission) error
	// SaveWithLock persists the aggregate guarded by its optimistic
	// version; returns shared.ErrConcurrencyConflict on a stale write.
	SaveWithLock(ctx context.Context, a *Admission, expectedVersion int) error
	// GenerateAdmissionNumber allocates the next sequential admission
	// number for the tenant, e.g. "PathStd20260042". Implementations
	// must serialize allocation.
	GenerateAdmissionNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
