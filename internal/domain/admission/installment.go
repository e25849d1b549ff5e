package admission

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// InstallmentStatus represents the state of one scheduled installment.
// There is no partial state at this level; a short payment leaves the
// installment PENDING with the received amount recorded.
type InstallmentStatus string

const (
	InstallmentPending          InstallmentStatus = "PENDING"
	InstallmentPaid             InstallmentStatus = "PAID"
	InstallmentOverdue          InstallmentStatus = "OVERDUE"
	InstallmentPendingClearance InstallmentStatus = "PENDING_CLEARANCE"
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentPending, InstallmentPaid, InstallmentOverdue, InstallmentPendingClearance:
		return true
	}
	return false
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// IsSettled returns true once money against the installment is paid or
// parked behind an uncleared cheque.
func (s InstallmentStatus) IsSettled() bool {
	return s == InstallmentPaid || s == InstallmentPendingClearance
}

// CanAcceptPayment returns true if a payment may be applied in this status.
// PENDING_CLEARANCE is owned by the reconciliation engine exclusively.
func (s InstallmentStatus) CanAcceptPayment() bool {
	return s == InstallmentPending || s == InstallmentOverdue
}

// Installment is one scheduled partial payment within an Admission.
// It is a value object inside the aggregate, stored as JSONB.
type Installment struct {
	InstallmentNumber int               `json:"installment_number"` // 1-based, dense, re-indexed on restructuring
	DueDate           time.Time         `json:"due_date"`
	Amount            decimal.Decimal   `json:"amount"`
	Status            InstallmentStatus `json:"status"`
	PaidAmount        decimal.Decimal   `json:"paid_amount"`
	PaidDate          *time.Time        `json:"paid_date,omitempty"`
	PaymentMethod     payment.Method    `json:"payment_method,omitempty"`
	TransactionID     string            `json:"transaction_id,omitempty"`
	Remarks           string            `json:"remarks,omitempty"`
}

// resetUnpaid returns the installment to an unpaid state appropriate for
// its due date relative to now.
func (i *Installment) resetUnpaid(now time.Time) {
	if i.DueDate.Before(now) {
		i.Status = InstallmentOverdue
	} else {
		i.Status = InstallmentPending
	}
	i.PaidAmount = decimal.Zero
	i.PaidDate = nil
	i.PaymentMethod = ""
	i.TransactionID = ""
}

// Installments is the ordered payment breakdown of an Admission.
// Implements GORM Scanner/Valuer for JSONB storage.
type Installments []Installment

// Value implements driver.Valuer for JSONB storage
func (ins Installments) Value() (driver.Value, error) {
	if ins == nil {
		return "[]", nil
	}
	return json.Marshal(ins)
}

// Scan implements sql.Scanner for JSONB retrieval
func (ins *Installments) Scan(value interface{}) error {
	if value == nil {
		*ins = Installments{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Installments: unsupported type")
	}

	if len(bytes) == 0 {
		*ins = Installments{}
		return nil
	}

	return json.Unmarshal(bytes, ins)
}

// Find returns the installment with the given number, or nil.
func (ins Installments) Find(number int) *Installment {
	for i := range ins {
		if ins[i].InstallmentNumber == number {
			return &ins[i]
		}
	}
	return nil
}

// SumPaid totals PaidAmount over installments whose status is PAID.
// This is the one summation rule; call sites must not re-derive it.
func (ins Installments) SumPaid() decimal.Decimal {
	total := decimal.Zero
	for i := range ins {
		if ins[i].Status == InstallmentPaid {
			total = total.Add(ins[i].PaidAmount)
		}
	}
	return total
}

// SumScheduled totals the scheduled amounts of all installments.
func (ins Installments) SumScheduled() decimal.Decimal {
	total := decimal.Zero
	for i := range ins {
		total = total.Add(ins[i].Amount)
	}
	return total
}

// reindex renumbers installments 1..N in ascending due-date order.
func (ins Installments) reindex() {
	for i := range ins {
		for j := i + 1; j < len(ins); j++ {
			if ins[j].DueDate.Before(ins[i].DueDate) {
				ins[i], ins[j] = ins[j], ins[i]
			}
		}
	}
	for i := range ins {
		ins[i].InstallmentNumber = i + 1
	}
}
