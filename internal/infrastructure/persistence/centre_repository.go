package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/centre"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCentreRepository implements centre.Repository using GORM
type GormCentreRepository struct {
	db *gorm.DB
}

// NewGormCentreRepository creates a new GormCentreRepository
func NewGormCentreRepository(db *gorm.DB) *GormCentreRepository {
	return &GormCentreRepository{db: db}
}

// FindByID finds a centre by its ID
func (r *GormCentreRepository) FindByID(ctx context.Context, id uuid.UUID) (*centre.Centre, error) {
	var model models.CentreModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a centre by ID within a tenant
func (r *GormCentreRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*centre.Centre, error) {
	var model models.CentreModel
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

// FindByCode finds a centre by its short code within a tenant
func (r *GormCentreRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*centre.Centre, error) {
	var model models.CentreModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all centres of a tenant
func (r *GormCentreRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]centre.Centre, error) {
	var centreModels []models.CentreModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("code ASC").
		Find(&centreModels).Error; err != nil {
		return nil, err
	}

	centres := make([]centre.Centre, len(centreModels))
	for i, model := range centreModels {
		centres[i] = *model.ToDomain()
	}
	return centres, nil
}

// Save creates or updates a centre
func (r *GormCentreRepository) Save(ctx context.Context, c *centre.Centre) error {
	var model models.CentreModel
	model.FromDomain(c)
	return conn(ctx, r.db).Save(&model).Error
}

// Ensure GormCentreRepository implements centre.Repository
var _ centre.Repository = (*GormCentreRepository)(nil)

// GormSalesTargetRepository implements centre.SalesTargetRepository using GORM
type GormSalesTargetRepository struct {
	db *gorm.DB
}

// NewGormSalesTargetRepository creates a new GormSalesTargetRepository
func NewGormSalesTargetRepository(db *gorm.DB) *GormSalesTargetRepository {
	return &GormSalesTargetRepository{db: db}
}

// FindActive returns the target whose period covers the given date
func (r *GormSalesTargetRepository) FindActive(ctx context.Context, tenantID, centreID uuid.UUID, at time.Time) (*centre.SalesTarget, error) {
	var model models.SalesTargetModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND centre_id = ? AND period_start <= ? AND period_end > ?",
			tenantID, centreID, at, at).
		Order("period_start DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a sales target
func (r *GormSalesTargetRepository) Save(ctx context.Context, st *centre.SalesTarget) error {
	var model models.SalesTargetModel
	model.FromDomain(st)
	return conn(ctx, r.db).Save(&model).Error
}

// SaveWithLock saves a sales target guarded by the optimistic version
func (r *GormSalesTargetRepository) SaveWithLock(ctx context.Context, st *centre.SalesTarget, expectedVersion int) error {
	var model models.SalesTargetModel
	model.FromDomain(st)
	result := conn(ctx, r.db).
		Model(&models.SalesTargetModel{}).
		Where("id = ? AND version = ?", st.ID, expectedVersion).
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

// Ensure GormSalesTargetRepository implements centre.SalesTargetRepository
var _ centre.SalesTargetRepository = (*GormSalesTargetRepository)(nil)
