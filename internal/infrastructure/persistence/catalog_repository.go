package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/catalog"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCourseRepository implements catalog.CourseRepository using GORM
type GormCourseRepository struct {
	db *gorm.DB
}

// NewGormCourseRepository creates a new GormCourseRepository
func NewGormCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// FindByID finds a course by its ID
func (r *GormCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	var model models.CourseModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a course by ID within a tenant
func (r *GormCourseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Course, error) {
	var model models.CourseModel
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

// FindAll finds all courses of a tenant
func (r *GormCourseRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]catalog.Course, error) {
	var courseModels []models.CourseModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&courseModels).Error; err != nil {
		return nil, err
	}

	courses := make([]catalog.Course, len(courseModels))
	for i, model := range courseModels {
		courses[i] = *model.ToDomain()
	}
	return courses, nil
}

// Save creates or updates a course
func (r *GormCourseRepository) Save(ctx context.Context, c *catalog.Course) error {
	var model models.CourseModel
	model.FromDomain(c)
	return conn(ctx, r.db).Save(&model).Error
}

// Ensure GormCourseRepository implements catalog.CourseRepository
var _ catalog.CourseRepository = (*GormCourseRepository)(nil)

// GormExamTagRepository implements catalog.ExamTagRepository using GORM
type GormExamTagRepository struct {
	db *gorm.DB
}

// NewGormExamTagRepository creates a new GormExamTagRepository
func NewGormExamTagRepository(db *gorm.DB) *GormExamTagRepository {
	return &GormExamTagRepository{db: db}
}

// FindByIDForTenant finds an exam tag by ID within a tenant
func (r *GormExamTagRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ExamTag, error) {
	var model models.ExamTagModel
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

// FindAll finds all exam tags of a tenant
func (r *GormExamTagRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]catalog.ExamTag, error) {
	var tagModels []models.ExamTagModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&tagModels).Error; err != nil {
		return nil, err
	}

	tags := make([]catalog.ExamTag, len(tagModels))
	for i, model := range tagModels {
		tags[i] = *model.ToDomain()
	}
	return tags, nil
}

// Save creates or updates an exam tag
func (r *GormExamTagRepository) Save(ctx context.Context, tag *catalog.ExamTag) error {
	var model models.ExamTagModel
	model.FromDomain(tag)
	return conn(ctx, r.db).Save(&model).Error
}

// Ensure GormExamTagRepository implements catalog.ExamTagRepository
var _ catalog.ExamTagRepository = (*GormExamTagRepository)(nil)
