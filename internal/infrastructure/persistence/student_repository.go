package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/domain/student"
	"github.com/pathshala/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStudentRepository implements student.Repository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID finds a student by its ID
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*student.Student, error) {
	var model models.StudentModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a student by ID within a tenant
func (r *GormStudentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*student.Student, error) {
	var model models.StudentModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPhone finds a student by phone number within a tenant
func (r *GormStudentRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*student.Student, error) {
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone cannot be empty")
	}
	var model models.StudentModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCentre finds students of a centre, paginated
func (r *GormStudentRepository) FindByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[student.Student], error) {
	base := func() *gorm.DB {
		q := conn(ctx, r.db).Model(&models.StudentModel{}).
			Where("tenant_id = ? AND centre_id = ?", tenantID, centreID)
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			q = q.Where("name ILIKE ? OR phone ILIKE ?", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	var studentModels []models.StudentModel
	if err := applyFilter(base(), filter).Find(&studentModels).Error; err != nil {
		return nil, err
	}

	students := make([]student.Student, len(studentModels))
	for i, model := range studentModels {
		students[i] = *model.ToDomain()
	}
	page := shared.NewPaginated(students, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a student
func (r *GormStudentRepository) Save(ctx context.Context, s *student.Student) error {
	var model models.StudentModel
	model.FromDomain(s)
	return conn(ctx, r.db).Save(&model).Error
}

// Ensure GormStudentRepository implements student.Repository
var _ student.Repository = (*GormStudentRepository)(nil)
