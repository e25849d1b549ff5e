package admission

import (
	"time"

	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FeeInput carries the raw figures an admission is priced from.
type FeeInput struct {
	BaseFees             decimal.Decimal
	FeeWaiver            decimal.Decimal
	PreviousBalance      decimal.Decimal // carry-forward from an earlier admission
	DownPayment          decimal.Decimal
	NumberOfInstallments int
	AdmissionDate        time.Time
}

// FeeBreakdown is the priced result of an admission: the GST split, the
// grand total and the generated installment schedule.
type FeeBreakdown struct {
	TaxableAmount     decimal.Decimal
	CGST              decimal.Decimal
	SGST              decimal.Decimal
	TotalFees         decimal.Decimal
	RemainingAmount   decimal.Decimal
	InstallmentAmount decimal.Decimal
	Schedule          Installments
}

// ComputeFees prices an admission. The waiver reduces the taxable base,
// clamped at zero. GST legs are computed on the taxable base and rounded
// to whole rupees each. The previous balance rides on top of the taxed
// total untaxed. The remainder after the down payment is spread over the
// requested installments.
func ComputeFees(in FeeInput) (*FeeBreakdown, error) {
	if in.BaseFees.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEES", "Base fees cannot be negative")
	}
	if in.FeeWaiver.IsNegative() {
		return nil, shared.NewDomainError("INVALID_WAIVER", "Fee waiver cannot be negative")
	}
	if in.DownPayment.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DOWN_PAYMENT", "Down payment cannot be negative")
	}
	if in.NumberOfInstallments < 1 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Number of installments must be at least 1")
	}

	taxable := in.BaseFees.Sub(in.FeeWaiver)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax := payment.TaxFromTaxable(taxable)
	total := taxable.Add(tax.CGST).Add(tax.SGST).Add(in.PreviousBalance)

	if in.DownPayment.GreaterThan(total) {
		return nil, shared.NewDomainError("DOWN_PAYMENT_EXCEEDS_TOTAL", "Down payment cannot exceed total fees")
	}

	remaining := total.Sub(in.DownPayment)
	per, schedule := GenerateSchedule(remaining, in.NumberOfInstallments, in.AdmissionDate)

	return &FeeBreakdown{
		TaxableAmount:     taxable,
		CGST:              tax.CGST,
		SGST:              tax.SGST,
		TotalFees:         total,
		RemainingAmount:   remaining,
		InstallmentAmount: per,
		Schedule:          schedule,
	}, nil
}

// GenerateSchedule spreads an amount over n monthly installments starting
// one month after the anchor date. Each installment is the ceiling of the
// even split; the last one absorbs the rounding difference so the schedule
// sums exactly to the amount.
func GenerateSchedule(amount decimal.Decimal, n int, anchor time.Time) (decimal.Decimal, Installments) {
	per := amount.Div(decimal.NewFromInt(int64(n))).Ceil()
	schedule := make(Installments, 0, n)
	for i := 0; i < n; i++ {
		amt := per
		if i == n-1 {
			amt = amount.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))
		}
		schedule = append(schedule, Installment{
			InstallmentNumber: i + 1,
			DueDate:           anchor.AddDate(0, i+1, 0),
			Amount:            amt,
			Status:            InstallmentPending,
			PaidAmount:        decimal.Zero,
		})
	}
	return per, schedule
}

// RedivideSchedule spreads an amount over n monthly installments starting
// one month after the anchor date. Unlike the initial schedule this floors
// the even split and lets the FIRST installment absorb the remainder, so
// the earliest due date carries the larger figure.
func RedivideSchedule(amount decimal.Decimal, n int, anchor time.Time) Installments {
	per := amount.Div(decimal.NewFromInt(int64(n))).Floor()
	schedule := make(Installments, 0, n)
	for i := 0; i < n; i++ {
		amt := per
		if i == 0 {
			amt = amount.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))
		}
		schedule = append(schedule, Installment{
			InstallmentNumber: i + 1,
			DueDate:           anchor.AddDate(0, i+1, 0),
			Amount:            amt,
			Status:            InstallmentPending,
			PaidAmount:        decimal.Zero,
		})
	}
	return schedule
}

// DerivePaymentStatus is the single source of truth for the admission-level
// payment status. It depends only on the compared totals: COMPLETED whenever
// paid covers total, which includes a fully waived zero-fee ledger.
func DerivePaymentStatus(paid, total decimal.Decimal) PaymentStatus {
	if paid.GreaterThanOrEqual(total) {
		return PaymentCompleted
	}
	if paid.IsPositive() {
		return PaymentPartial
	}
	return PaymentPending
}
