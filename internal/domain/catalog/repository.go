package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CourseRepository persists Course aggregates
type CourseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Course, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Course, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Course, error)
	Save(ctx context.Context, c *Course) error
}

// ExamTagRepository persists ExamTag aggregates
type ExamTagRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ExamTag, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]ExamTag, error)
	Save(ctx context.Context, tag *ExamTag) error
}
