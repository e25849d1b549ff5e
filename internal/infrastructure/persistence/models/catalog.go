package models

import (
	"github.com/pathshala/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CourseModel is the persistence model for the Course aggregate
type CourseModel struct {
	TenantAggregateModel
	Name           string           `gorm:"type:varchar(128);not null"`
	Code           string           `gorm:"type:varchar(32);not null;uniqueIndex:idx_courses_tenant_code,priority:2"`
	BaseFees       decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	DurationMonths int              `gorm:"not null"`
	IsBoard        bool             `gorm:"not null;default:false"`
	MonthlyFee     decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0"`
	Subjects       catalog.Subjects `gorm:"type:jsonb"`
	IsActive       bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for CourseModel
func (CourseModel) TableName() string {
	return "courses"
}

// ToDomain converts the model to the domain aggregate
func (m *CourseModel) ToDomain() *catalog.Course {
	c := &catalog.Course{
		Name:           m.Name,
		Code:           m.Code,
		BaseFees:       m.BaseFees,
		DurationMonths: m.DurationMonths,
		IsBoard:        m.IsBoard,
		MonthlyFee:     m.MonthlyFee,
		Subjects:       m.Subjects,
		IsActive:       m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the model from the domain aggregate
func (m *CourseModel) FromDomain(c *catalog.Course) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Code = c.Code
	m.BaseFees = c.BaseFees
	m.DurationMonths = c.DurationMonths
	m.IsBoard = c.IsBoard
	m.MonthlyFee = c.MonthlyFee
	m.Subjects = c.Subjects
	m.IsActive = c.IsActive
}

// ExamTagModel is the persistence model for the ExamTag aggregate
type ExamTagModel struct {
	TenantAggregateModel
	Name     string `gorm:"type:varchar(64);not null;uniqueIndex:idx_exam_tags_tenant_name,priority:2"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for ExamTagModel
func (ExamTagModel) TableName() string {
	return "exam_tags"
}

// ToDomain converts the model to the domain aggregate
func (m *ExamTagModel) ToDomain() *catalog.ExamTag {
	t := &catalog.ExamTag{
		Name:     m.Name,
		IsActive: m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// FromDomain populates the model from the domain aggregate
func (m *ExamTagModel) FromDomain(t *catalog.ExamTag) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Name = t.Name
	m.IsActive = t.IsActive
}
