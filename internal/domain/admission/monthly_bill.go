package admission

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// billingMonthLayout is the canonical month key, e.g. "2026-07".
const billingMonthLayout = "2006-01"

// ParseBillingMonth validates and normalizes a month key.
func ParseBillingMonth(s string) (time.Time, error) {
	t, err := time.Parse(billingMonthLayout, s)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_MONTH", fmt.Sprintf("Billing month must be in YYYY-MM format, got %q", s))
	}
	return t, nil
}

// MonthlyBill is one month of a board admission's billing history.
type MonthlyBill struct {
	BillingMonth  string          `json:"billing_month"` // "2006-01"
	Subjects      []string        `json:"subjects"`
	BaseFees      decimal.Decimal `json:"base_fees"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	IsPaid        bool            `json:"is_paid"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	PaymentMethod payment.Method  `json:"payment_method,omitempty"`
}

// MonthlyBills is the month-keyed billing history of a board admission,
// stored as JSONB, kept sorted by month.
type MonthlyBills []MonthlyBill

// Value implements driver.Valuer for JSONB storage
func (mb MonthlyBills) Value() (driver.Value, error) {
	if mb == nil {
		return "[]", nil
	}
	return json.Marshal(mb)
}

// Scan implements sql.Scanner for JSONB retrieval
func (mb *MonthlyBills) Scan(value interface{}) error {
	if value == nil {
		*mb = MonthlyBills{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan MonthlyBills: unsupported type")
	}

	if len(bytes) == 0 {
		*mb = MonthlyBills{}
		return nil
	}

	return json.Unmarshal(bytes, mb)
}

// Find returns the bill for the given month key, or nil.
func (mb MonthlyBills) Find(month string) *MonthlyBill {
	for i := range mb {
		if mb[i].BillingMonth == month {
			return &mb[i]
		}
	}
	return nil
}

// SumPaid totals TotalAmount over paid months.
func (mb MonthlyBills) SumPaid() decimal.Decimal {
	total := decimal.Zero
	for i := range mb {
		if mb[i].IsPaid {
			total = total.Add(mb[i].TotalAmount)
		}
	}
	return total
}

func (mb MonthlyBills) sortByMonth() {
	sort.Slice(mb, func(i, j int) bool { return mb[i].BillingMonth < mb[j].BillingMonth })
}

// ApplyMonthlyBilling sets the subject selection and pricing for a board
// admission from the given month forward. The change propagates to every
// later month inside the course window that has not been paid yet; paid
// months are immutable history. Months are created on demand.
//
// The base fee is taxed per leg at whole rupees, same as regular pricing,
// and the admission's TotalFees becomes the sum of all billed months.
func (a *Admission) ApplyMonthlyBilling(fromMonth string, subjects []string, baseFees decimal.Decimal, now time.Time) error {
	if a.AdmissionType != TypeBoard {
		return shared.NewDomainError("NOT_BOARD_ADMISSION", "Monthly billing applies to board admissions only")
	}
	if err := a.mutable(); err != nil {
		return err
	}
	if baseFees.IsNegative() {
		return shared.NewDomainError("INVALID_FEES", "Base fees cannot be negative")
	}
	start, err := ParseBillingMonth(fromMonth)
	if err != nil {
		return err
	}

	windowEnd := time.Date(a.CourseStartDate.Year(), a.CourseStartDate.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, a.CourseDuration, 0)
	if !start.Before(windowEnd) {
		return shared.NewDomainError("MONTH_OUT_OF_RANGE", fmt.Sprintf("Billing month %s falls outside the course window", fromMonth))
	}

	tax := payment.TaxFromTaxable(baseFees)
	total := baseFees.Add(tax.CGST).Add(tax.SGST)

	for m := start; m.Before(windowEnd); m = m.AddDate(0, 1, 0) {
		key := m.Format(billingMonthLayout)
		bill := a.MonthlyBills.Find(key)
		if bill == nil {
			a.MonthlyBills = append(a.MonthlyBills, MonthlyBill{BillingMonth: key})
			bill = a.MonthlyBills.Find(key)
		}
		if bill.IsPaid {
			continue
		}
		bill.Subjects = append([]string(nil), subjects...)
		bill.BaseFees = baseFees
		bill.CGST = tax.CGST
		bill.SGST = tax.SGST
		bill.TotalAmount = total
	}
	a.MonthlyBills.sortByMonth()

	billed := decimal.Zero
	for i := range a.MonthlyBills {
		billed = billed.Add(a.MonthlyBills[i].TotalAmount)
	}
	a.TotalFees = billed

	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return nil
}

// PayMonthlyBill settles one month of a board admission. Confirmed methods
// mark the month paid on the spot; a cheque only parks its method on the
// month and the month stays unpaid until SettleMonthlyBill flips it after
// the bank honors.
func (a *Admission) PayMonthlyBill(month string, method payment.Method, now time.Time) (*MonthlyBill, error) {
	if a.AdmissionType != TypeBoard {
		return nil, shared.NewDomainError("NOT_BOARD_ADMISSION", "Monthly billing applies to board admissions only")
	}
	if err := a.mutable(); err != nil {
		return nil, err
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}
	bill := a.MonthlyBills.Find(month)
	if bill == nil {
		return nil, shared.NewDomainError("MONTH_NOT_BILLED", fmt.Sprintf("No bill exists for month %s", month))
	}
	if bill.IsPaid {
		return nil, shared.NewDomainError("ALREADY_PAID", fmt.Sprintf("Month %s is already paid", month))
	}
	if bill.PaymentMethod.IsDeferred() {
		return nil, shared.NewDomainError("PENDING_CLEARANCE", fmt.Sprintf("Month %s has a cheque awaiting clearance", month))
	}

	bill.PaymentMethod = method
	if !method.IsDeferred() {
		bill.IsPaid = true
		bill.PaidDate = &now
	}

	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return bill, nil
}

// SettleMonthlyBill flips a cheque-tendered month to paid once the bank
// honors the cheque.
func (a *Admission) SettleMonthlyBill(month string, now time.Time) error {
	bill := a.MonthlyBills.Find(month)
	if bill == nil {
		return shared.NewDomainError("MONTH_NOT_BILLED", fmt.Sprintf("No bill exists for month %s", month))
	}
	if bill.IsPaid {
		return shared.NewDomainError("ALREADY_PAID", fmt.Sprintf("Month %s is already paid", month))
	}
	if !bill.PaymentMethod.IsDeferred() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Month %s has no cheque awaiting clearance", month))
	}

	bill.IsPaid = true
	bill.PaidDate = &now
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return nil
}

// RevertMonthlyBill reopens a month whose cheque bounced or was voided, so
// it can be tendered again.
func (a *Admission) RevertMonthlyBill(month string, now time.Time) error {
	bill := a.MonthlyBills.Find(month)
	if bill == nil {
		return shared.NewDomainError("MONTH_NOT_BILLED", fmt.Sprintf("No bill exists for month %s", month))
	}
	if bill.IsPaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Month %s is already settled", month))
	}
	if !bill.PaymentMethod.IsDeferred() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Month %s has no cheque awaiting clearance", month))
	}

	bill.PaymentMethod = ""
	bill.PaidDate = nil
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return nil
}
