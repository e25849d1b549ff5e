package catalog

import (
	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Course is a sellable programme. Its base fee is the taxable amount an
// admission is priced from; board courses are instead billed monthly per
// subject.
type Course struct {
	shared.TenantAggregateRoot
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	BaseFees       decimal.Decimal `json:"base_fees"`
	DurationMonths int             `json:"duration_months"`
	IsBoard        bool            `json:"is_board"`
	MonthlyFee     decimal.Decimal `json:"monthly_fee"` // per-subject, board courses only
	Subjects       Subjects        `json:"subjects"`
	IsActive       bool            `json:"is_active"`
}

// NewCourse creates a course
func NewCourse(tenantID uuid.UUID, name, code string, baseFees decimal.Decimal, durationMonths int) (*Course, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Course name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Course code cannot be empty")
	}
	if baseFees.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEES", "Course base fees cannot be negative")
	}
	if durationMonths < 1 {
		return nil, shared.NewDomainError("INVALID_DURATION", "Course duration must be at least 1 month")
	}
	return &Course{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Code:                code,
		BaseFees:            baseFees,
		DurationMonths:      durationMonths,
		IsActive:            true,
	}, nil
}

// UpdateFees changes the base fee for future admissions. Existing
// admissions keep the price they were admitted at.
func (c *Course) UpdateFees(baseFees decimal.Decimal) error {
	if baseFees.IsNegative() {
		return shared.NewDomainError("INVALID_FEES", "Course base fees cannot be negative")
	}
	c.BaseFees = baseFees
	c.Touch()
	c.IncrementVersion()
	return nil
}

// MonthlyFeeFor prices one month of a board course for a subject selection.
func (c *Course) MonthlyFeeFor(subjects []string) decimal.Decimal {
	return c.MonthlyFee.Mul(decimal.NewFromInt(int64(len(subjects))))
}

// ExamTag labels an admission with the examination it targets.
type ExamTag struct {
	shared.TenantAggregateRoot
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// NewExamTag creates an exam tag
func NewExamTag(tenantID uuid.UUID, name string) (*ExamTag, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Exam tag name cannot be empty")
	}
	return &ExamTag{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		IsActive:            true,
	}, nil
}
