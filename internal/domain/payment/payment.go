package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the status of a payment record
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusPaid             Status = "PAID"
	StatusOverdue          Status = "OVERDUE"
	StatusPartial          Status = "PARTIAL"
	StatusPendingClearance Status = "PENDING_CLEARANCE"
	StatusRejected         Status = "REJECTED"
	StatusCancelled        Status = "CANCELLED"
)

// IsValid checks if the status is a valid payment Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusPartial,
		StatusPendingClearance, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if the payment can no longer change state
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusRejected || s == StatusCancelled
}

// Method represents how money was tendered
type Method string

const (
	MethodCash         Method = "CASH"
	MethodUPI          Method = "UPI"
	MethodCard         Method = "CARD"
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodCheque       Method = "CHEQUE"
)

// IsValid checks if the method is a known payment method
func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodUPI, MethodCard, MethodBankTransfer, MethodCheque:
		return true
	}
	return false
}

// String returns the string representation of Method
func (m Method) String() string {
	return string(m)
}

// IsDeferred returns true for methods whose funds are not confirmed at intake.
// Cheques settle later through the reconciliation engine.
func (m Method) IsDeferred() bool {
	return m == MethodCheque
}

// TaxRate is the per-leg GST rate. CGST and SGST are each 9%, computed and
// rounded independently; the combined 18% is never rounded as one figure.
var TaxRate = decimal.NewFromFloat(0.09)

// inclusiveDivisor backs out the taxable base from a tax-inclusive amount.
var inclusiveDivisor = decimal.NewFromFloat(1.18)

// TaxBreakdown is the GST split of one payment
type TaxBreakdown struct {
	CourseFee decimal.Decimal
	CGST      decimal.Decimal
	SGST      decimal.Decimal
}

// TaxFromTaxable computes the GST legs on a taxable (pre-tax) amount.
// Each leg is rounded to whole rupees independently.
func TaxFromTaxable(taxable decimal.Decimal) TaxBreakdown {
	cgst := taxable.Mul(TaxRate).Round(0)
	sgst := taxable.Mul(TaxRate).Round(0)
	return TaxBreakdown{CourseFee: taxable, CGST: cgst, SGST: sgst}
}

// TaxFromInclusive backs the GST split out of a tax-inclusive amount:
// base = amount / 1.18, each leg = base * 0.09 rounded to paise.
func TaxFromInclusive(inclusive decimal.Decimal) TaxBreakdown {
	base := inclusive.Div(inclusiveDivisor).Round(2)
	leg := base.Mul(TaxRate).Round(2)
	return TaxBreakdown{CourseFee: base, CGST: leg, SGST: leg}
}

// Payment is one money-movement attempt against an admission.
// InstallmentNumber 0 marks a down payment or a monthly board bill.
type Payment struct {
	shared.TenantAggregateRoot
	AdmissionID       uuid.UUID       `json:"admission_id"`
	AdmissionNumber   string          `json:"admission_number"`
	CentreID          uuid.UUID       `json:"centre_id"`
	InstallmentNumber int             `json:"installment_number"`
	BillingMonth      string          `json:"billing_month,omitempty"` // "2006-01", board bills only
	Amount            decimal.Decimal `json:"amount"`                  // scheduled/nominal
	PaidAmount        decimal.Decimal `json:"paid_amount"`             // actually recorded
	Status            Status          `json:"status"`
	Method            Method          `json:"method"`
	CourseFee         decimal.Decimal `json:"course_fee"`
	CGST              decimal.Decimal `json:"cgst"`
	SGST              decimal.Decimal `json:"sgst"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	BillID            *string         `json:"bill_id,omitempty"` // unique sparse; deferred for cheques
	TransactionID     string          `json:"transaction_id,omitempty"`
	ChequeNumber      string          `json:"cheque_number,omitempty"`
	ChequeDate        *time.Time      `json:"cheque_date,omitempty"`
	VarianceAmount    decimal.Decimal `json:"variance_amount"` // amount - paid_amount folded at intake
	IsCarryForward    bool            `json:"is_carry_forward"`
	PaidDate          *time.Time      `json:"paid_date,omitempty"`
	Remarks           string          `json:"remarks,omitempty"`
}

// NewPayment creates a payment record for a confirmed (non-deferred) receipt.
// The tax split is backed out of the inclusive paid amount.
func NewPayment(
	tenantID, admissionID, centreID uuid.UUID,
	admissionNumber string,
	installmentNumber int,
	amount, paidAmount decimal.Decimal,
	method Method,
) (*Payment, error) {
	if admissionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADMISSION", "Admission ID cannot be empty")
	}
	if installmentNumber < 0 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT", "Installment number cannot be negative")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}
	if paidAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}

	tax := TaxFromInclusive(paidAmount)
	p := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AdmissionID:         admissionID,
		AdmissionNumber:     admissionNumber,
		CentreID:            centreID,
		InstallmentNumber:   installmentNumber,
		Amount:              amount,
		PaidAmount:          paidAmount,
		Method:              method,
		CourseFee:           tax.CourseFee,
		CGST:                tax.CGST,
		SGST:                tax.SGST,
		TotalAmount:         paidAmount,
		VarianceAmount:      decimal.Zero,
		Status:              StatusPaid,
	}
	now := time.Now()
	p.PaidDate = &now
	if method.IsDeferred() {
		// Cheques wait for clearance; no bill, no paid date yet.
		p.Status = StatusPendingClearance
		p.PaidDate = nil
		p.VarianceAmount = amount.Sub(paidAmount)
	}
	return p, nil
}

// NewAdjustmentPayment logs a manual ledger correction as a payment row.
// The amount is the delta applied to the admission's paid total and may
// be negative. Adjustments carry no settlement method and no tax split,
// so drawer sums and GST reports ignore them.
func NewAdjustmentPayment(
	tenantID, admissionID, centreID uuid.UUID,
	admissionNumber string,
	diff decimal.Decimal,
	remarks string,
) (*Payment, error) {
	if admissionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADMISSION", "Admission ID cannot be empty")
	}
	if diff.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Adjustment delta cannot be zero")
	}
	now := time.Now()
	return &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AdmissionID:         admissionID,
		AdmissionNumber:     admissionNumber,
		CentreID:            centreID,
		InstallmentNumber:   0,
		Amount:              diff,
		PaidAmount:          diff,
		TotalAmount:         diff,
		Status:              StatusPaid,
		PaidDate:            &now,
		Remarks:             remarks,
	}, nil
}

// AssignBill stamps the bill number. Only confirmed money gets a bill.
func (p *Payment) AssignBill(billID string) error {
	if p.Status != StatusPaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot assign bill to payment in %s status", p.Status))
	}
	if billID == "" {
		return shared.NewDomainError("INVALID_BILL", "Bill ID cannot be empty")
	}
	p.BillID = &billID
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Clear marks a pending-clearance cheque as honored.
func (p *Payment) Clear(now time.Time) error {
	if p.Status != StatusPendingClearance {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot clear payment in %s status", p.Status))
	}
	p.Status = StatusPaid
	p.PaidDate = &now
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Reject marks a pending-clearance cheque as bounced.
func (p *Payment) Reject(reason string) error {
	return p.settleFailed(StatusRejected, reason)
}

// Cancel voids a pending-clearance cheque before the bank answered.
func (p *Payment) Cancel(reason string) error {
	return p.settleFailed(StatusCancelled, reason)
}

func (p *Payment) settleFailed(to Status, reason string) error {
	if p.Status != StatusPendingClearance {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move payment from %s to %s", p.Status, to))
	}
	p.Status = to
	p.PaidDate = nil
	if reason != "" {
		p.Remarks = reason
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// UpdateReceipt overwrites the recorded figures of a non-terminal payment.
// Used when an installment is paid again after a partial intake record.
func (p *Payment) UpdateReceipt(amount, paidAmount decimal.Decimal, method Method, now time.Time) error {
	if p.Status.IsTerminal() && p.Status != StatusPaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update payment in %s status", p.Status))
	}
	tax := TaxFromInclusive(paidAmount)
	p.Amount = amount
	p.PaidAmount = paidAmount
	p.Method = method
	p.CourseFee = tax.CourseFee
	p.CGST = tax.CGST
	p.SGST = tax.SGST
	p.TotalAmount = paidAmount
	p.Status = StatusPaid
	p.PaidDate = &now
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IsDownPayment reports whether this record tracks the admission's down
// payment rather than a scheduled installment or a monthly board bill.
func (p *Payment) IsDownPayment() bool {
	return p.InstallmentNumber == 0 && p.BillingMonth == ""
}
