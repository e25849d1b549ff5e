package centre

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Centre is a physical branch of the institute. Every admission, payment
// and cash movement is scoped to a centre; its short code scopes bill
// numbering.
type Centre struct {
	shared.TenantAggregateRoot
	Name                 string          `json:"name"`
	Code                 string          `json:"code"` // short upper-case code, e.g. "KOL01"
	Address              string          `json:"address,omitempty"`
	Phone                string          `json:"phone,omitempty"`
	IsActive             bool            `json:"is_active"`
	TransferPasswordHash string          `json:"-"` // bcrypt, gates outgoing cash transfers
	OpeningCashBalance   decimal.Decimal `json:"opening_cash_balance"`
}

var codePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// NewCentre creates a centre
func NewCentre(tenantID uuid.UUID, name, code string) (*Centre, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Centre name cannot be empty")
	}
	if !codePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", fmt.Sprintf("Centre code %q must be 2-10 upper-case letters or digits", code))
	}
	return &Centre{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Code:                code,
		IsActive:            true,
		OpeningCashBalance:  decimal.Zero,
	}, nil
}

// SetTransferPassword hashes and stores the password that authorizes
// outgoing cash transfers from this centre.
func (c *Centre) SetTransferPassword(plain string) error {
	if len(plain) < 6 {
		return shared.NewDomainError("WEAK_PASSWORD", "Transfer password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash transfer password: %w", err)
	}
	c.TransferPasswordHash = string(hash)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// VerifyTransferPassword checks the password gating outgoing transfers.
// A centre without a configured password refuses all transfers.
func (c *Centre) VerifyTransferPassword(plain string) error {
	if c.TransferPasswordHash == "" {
		return shared.NewDomainError("TRANSFER_PASSWORD_NOT_SET", "Centre has no transfer password configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.TransferPasswordHash), []byte(plain)); err != nil {
		return shared.ErrUnauthorized
	}
	return nil
}

// Deactivate takes the centre out of service.
func (c *Centre) Deactivate() {
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
}

// Activate returns the centre to service.
func (c *Centre) Activate() {
	c.IsActive = true
	c.Touch()
	c.IncrementVersion()
}

// SalesTarget is one centre's revenue target for a period. Achieved is
// bumped asynchronously as admissions are confirmed.
type SalesTarget struct {
	shared.TenantAggregateRoot
	CentreID       uuid.UUID       `json:"centre_id"`
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	AchievedAmount decimal.Decimal `json:"achieved_amount"`
}

// NewSalesTarget creates a sales target for a centre and period
func NewSalesTarget(tenantID, centreID uuid.UUID, start, end time.Time, target decimal.Decimal) (*SalesTarget, error) {
	if centreID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CENTRE", "Centre ID cannot be empty")
	}
	if !end.After(start) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Target period end must be after start")
	}
	if target.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TARGET", "Target amount cannot be negative")
	}
	return &SalesTarget{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CentreID:            centreID,
		PeriodStart:         start,
		PeriodEnd:           end,
		TargetAmount:        target,
		AchievedAmount:      decimal.Zero,
	}, nil
}

// RecordAchievement credits confirmed admission revenue against the target.
func (st *SalesTarget) RecordAchievement(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Achievement amount cannot be negative")
	}
	st.AchievedAmount = st.AchievedAmount.Add(amount)
	st.Touch()
	st.IncrementVersion()
	return nil
}

// Covers reports whether the target period contains the given date.
func (st *SalesTarget) Covers(t time.Time) bool {
	return !t.Before(st.PeriodStart) && t.Before(st.PeriodEnd)
}
