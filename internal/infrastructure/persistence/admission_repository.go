package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/admission"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const admissionNumberPrefix = "PathStd"

// GormAdmissionRepository implements admission.Repository using GORM
type GormAdmissionRepository struct {
	db *gorm.DB
}

// NewGormAdmissionRepository creates a new GormAdmissionRepository
func NewGormAdmissionRepository(db *gorm.DB) *GormAdmissionRepository {
	return &GormAdmissionRepository{db: db}
}

// FindByID finds an admission by its ID
func (r *GormAdmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*admission.Admission, error) {
	var model models.AdmissionModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds an admission by ID within a tenant
func (r *GormAdmissionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*admission.Admission, error) {
	var model models.AdmissionModel
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

// FindByAdmissionNumber finds the latest admission carrying a number within
// a tenant. A re-enrolling student shares one number across admissions.
func (r *GormAdmissionRepository) FindByAdmissionNumber(ctx context.Context, tenantID uuid.UUID, number string) (*admission.Admission, error) {
	var model models.AdmissionModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND admission_number = ?", tenantID, number).
		Order("admission_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStudent finds all admissions of a student within a tenant
func (r *GormAdmissionRepository) FindByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]admission.Admission, error) {
	var admissionModels []models.AdmissionModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND student_id = ?", tenantID, studentID).
		Order("admission_date DESC").
		Find(&admissionModels).Error; err != nil {
		return nil, err
	}

	admissions := make([]admission.Admission, len(admissionModels))
	for i, model := range admissionModels {
		admissions[i] = *model.ToDomain()
	}
	return admissions, nil
}

// FindByCentre finds admissions of a centre, paginated
func (r *GormAdmissionRepository) FindByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[admission.Admission], error) {
	base := func() *gorm.DB {
		q := conn(ctx, r.db).Model(&models.AdmissionModel{}).
			Where("tenant_id = ? AND centre_id = ?", tenantID, centreID)
		if filter.Search != "" {
			q = q.Where("admission_number ILIKE ?", "%"+filter.Search+"%")
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	var admissionModels []models.AdmissionModel
	if err := applyFilter(base(), filter).Find(&admissionModels).Error; err != nil {
		return nil, err
	}

	admissions := make([]admission.Admission, len(admissionModels))
	for i, model := range admissionModels {
		admissions[i] = *model.ToDomain()
	}
	page := shared.NewPaginated(admissions, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates an admission
func (r *GormAdmissionRepository) Save(ctx context.Context, a *admission.Admission) error {
	var model models.AdmissionModel
	model.FromDomain(a)
	return conn(ctx, r.db).Save(&model).Error
}

// SaveWithLock saves an admission guarded by its optimistic version.
// Returns shared.ErrConcurrencyConflict if the row moved underneath us.
func (r *GormAdmissionRepository) SaveWithLock(ctx context.Context, a *admission.Admission, expectedVersion int) error {
	var model models.AdmissionModel
	model.FromDomain(a)
	result := conn(ctx, r.db).
		Model(&models.AdmissionModel{}).
		Where("id = ? AND version = ?", a.ID, expectedVersion).
		Select("*").Omit("id", "created_at").
		Updates(&model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GenerateAdmissionNumber allocates the next sequential admission number
// for the tenant and calendar year, e.g. "PathStd20260042". The row lock
// on the current maximum serializes concurrent allocations inside the
// surrounding transaction.
func (r *GormAdmissionRepository) GenerateAdmissionNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("%s%d", admissionNumberPrefix, time.Now().Year())

	var numbers []string
	if err := conn(ctx, r.db).
		Model(&models.AdmissionModel{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND admission_number LIKE ?", tenantID, prefix+"%").
		Order("admission_number DESC").
		Limit(1).
		Pluck("admission_number", &numbers).Error; err != nil {
		return "", err
	}

	seq := 0
	if len(numbers) > 0 {
		suffix := strings.TrimPrefix(numbers[0], prefix)
		if n, err := strconv.Atoi(suffix); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

// Ensure GormAdmissionRepository implements admission.Repository
var _ admission.Repository = (*GormAdmissionRepository)(nil)
