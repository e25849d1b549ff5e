package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service manages the course catalogue and exam tags.
type Service struct {
	courses  catalog.CourseRepository
	examTags catalog.ExamTagRepository
	logger   *zap.Logger
}

// NewService creates the catalog service
func NewService(courses catalog.CourseRepository, examTags catalog.ExamTagRepository, logger *zap.Logger) *Service {
	return &Service{courses: courses, examTags: examTags, logger: logger}
}

// CreateCourseCommand creates a course.
type CreateCourseCommand struct {
	TenantID       uuid.UUID
	Name           string
	Code           string
	BaseFees       decimal.Decimal
	DurationMonths int
	IsBoard        bool
	MonthlyFee     decimal.Decimal
	Subjects       []string
}

// CreateCourse registers a sellable course.
func (s *Service) CreateCourse(ctx context.Context, cmd CreateCourseCommand) (*catalog.Course, error) {
	c, err := catalog.NewCourse(cmd.TenantID, cmd.Name, cmd.Code, cmd.BaseFees, cmd.DurationMonths)
	if err != nil {
		return nil, err
	}
	c.IsBoard = cmd.IsBoard
	c.MonthlyFee = cmd.MonthlyFee
	c.Subjects = cmd.Subjects

	if err := s.courses.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("course created", zap.String("code", c.Code))
	return c, nil
}

// UpdateCourseFees changes the base fee for future admissions.
func (s *Service) UpdateCourseFees(ctx context.Context, tenantID, courseID uuid.UUID, baseFees decimal.Decimal) (*catalog.Course, error) {
	c, err := s.courses.FindByIDForTenant(ctx, tenantID, courseID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateFees(baseFees); err != nil {
		return nil, err
	}
	if err := s.courses.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCourses returns all courses of the tenant.
func (s *Service) ListCourses(ctx context.Context, tenantID uuid.UUID) ([]catalog.Course, error) {
	return s.courses.FindAll(ctx, tenantID)
}

// CreateExamTag registers an exam tag.
func (s *Service) CreateExamTag(ctx context.Context, tenantID uuid.UUID, name string) (*catalog.ExamTag, error) {
	tag, err := catalog.NewExamTag(tenantID, name)
	if err != nil {
		return nil, err
	}
	if err := s.examTags.Save(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// ListExamTags returns all exam tags of the tenant.
func (s *Service) ListExamTags(ctx context.Context, tenantID uuid.UUID) ([]catalog.ExamTag, error) {
	return s.examTags.FindAll(ctx, tenantID)
}
