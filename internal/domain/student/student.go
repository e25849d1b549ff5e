package student

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a student
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// IsValid checks if the status is a valid student Status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Student is a person enrolled at the institute. Financial state lives on
// admissions; the student carries identity, contact details and the
// carry-forward balance that rides into the next admission.
type Student struct {
	shared.TenantAggregateRoot
	Name                string          `json:"name"`
	Phone               string          `json:"phone"`
	Email               string          `json:"email,omitempty"`
	GuardianName        string          `json:"guardian_name,omitempty"`
	GuardianPhone       string          `json:"guardian_phone,omitempty"`
	Address             string          `json:"address,omitempty"`
	DateOfBirth         *time.Time      `json:"date_of_birth,omitempty"`
	CentreID            uuid.UUID       `json:"centre_id"`
	Status              Status          `json:"status"`
	CarryForwardBalance decimal.Decimal `json:"carry_forward_balance"`
	DeactivatedAt       *time.Time      `json:"deactivated_at,omitempty"`
}

// NewStudent creates a student
func NewStudent(tenantID, centreID uuid.UUID, name, phone string) (*Student, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Student name cannot be empty")
	}
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Student phone cannot be empty")
	}
	if centreID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CENTRE", "Centre ID cannot be empty")
	}
	return &Student{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Phone:               phone,
		CentreID:            centreID,
		Status:              StatusActive,
		CarryForwardBalance: decimal.Zero,
	}, nil
}

// Deactivate freezes the student. Their admissions freeze alongside; the
// timestamp anchors the due-date shift applied on reactivation.
func (s *Student) Deactivate(now time.Time) error {
	if s.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deactivate student in %s status", s.Status))
	}
	s.Status = StatusInactive
	s.DeactivatedAt = &now
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Reactivate unfreezes the student.
func (s *Student) Reactivate() error {
	if s.Status != StatusInactive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reactivate student in %s status", s.Status))
	}
	s.Status = StatusActive
	s.DeactivatedAt = nil
	s.Touch()
	s.IncrementVersion()
	return nil
}

// AddCarryForward accrues a balance (positive or negative) that the next
// admission picks up as its previous balance.
func (s *Student) AddCarryForward(amount decimal.Decimal, _ string) {
	s.CarryForwardBalance = s.CarryForwardBalance.Add(amount)
	s.Touch()
	s.IncrementVersion()
}

// ConsumeCarryForward zeroes the balance and returns what it was. Called
// when a new admission absorbs it as previous balance.
func (s *Student) ConsumeCarryForward() decimal.Decimal {
	balance := s.CarryForwardBalance
	s.CarryForwardBalance = decimal.Zero
	s.Touch()
	s.IncrementVersion()
	return balance
}
