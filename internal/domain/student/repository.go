package student

import (
	"context"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/shared"
)

// Repository persists Student aggregates
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Student, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Student, error)
	FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*Student, error)
	FindByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[Student], error)
	Save(ctx context.Context, s *Student) error
}
