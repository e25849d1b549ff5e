package admission

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the admission-level rollup of how much has been paid.
// It is always derived from totals, never set directly.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPartial   PaymentStatus = "PARTIAL"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentCompleted:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Status is the lifecycle state of an admission
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// IsValid checks if the status is a valid admission Status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Type distinguishes regular course admissions from board admissions,
// which are billed month by month instead of on a fixed schedule.
type Type string

const (
	TypeRegular Type = "REGULAR"
	TypeBoard   Type = "BOARD"
)

// IsValid checks if the type is a known admission Type
func (t Type) IsValid() bool {
	return t == TypeRegular || t == TypeBoard
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Admission is the financial ledger of one student enrolled in one course.
// The installment schedule and the monthly billing history live inside the
// aggregate as JSONB sub-documents; every mutation ends with a whole-sum
// recompute of the paid and remaining totals.
type Admission struct {
	shared.TenantAggregateRoot
	AdmissionNumber   string          `json:"admission_number"`
	StudentID         uuid.UUID       `json:"student_id"`
	CourseID          uuid.UUID       `json:"course_id"`
	CentreID          uuid.UUID       `json:"centre_id"`
	ExamTagID         *uuid.UUID      `json:"exam_tag_id,omitempty"`
	AcademicSession   string          `json:"academic_session"`
	AdmissionType     Type            `json:"admission_type"`
	AdmissionDate     time.Time       `json:"admission_date"`
	CourseStartDate   time.Time       `json:"course_start_date"`
	CourseDuration    int             `json:"course_duration"` // months, board billing window
	BaseFees          decimal.Decimal `json:"base_fees"`
	FeeWaiver         decimal.Decimal `json:"fee_waiver"`
	TaxableAmount     decimal.Decimal `json:"taxable_amount"`
	CGST              decimal.Decimal `json:"cgst"`
	SGST              decimal.Decimal `json:"sgst"`
	PreviousBalance   decimal.Decimal `json:"previous_balance"`
	TotalFees         decimal.Decimal `json:"total_fees"`
	DownPayment       decimal.Decimal `json:"down_payment"`
	DownPaymentStatus InstallmentStatus `json:"down_payment_status"`
	TotalPaidAmount   decimal.Decimal `json:"total_paid_amount"`
	RemainingAmount   decimal.Decimal `json:"remaining_amount"`
	InstallmentCount  int             `json:"installment_count"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	PaymentBreakdown  Installments    `json:"payment_breakdown"`
	MonthlyBills      MonthlyBills    `json:"monthly_bills"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	Status            Status          `json:"status"`
	DeactivatedAt     *time.Time      `json:"deactivated_at,omitempty"`
	Remarks           string          `json:"remarks,omitempty"`
}

// NewAdmission creates an admission from a priced fee breakdown.
// The down payment status is PENDING_CLEARANCE when tendered by cheque,
// PAID for any other method with a positive amount.
func NewAdmission(
	tenantID, studentID, courseID, centreID uuid.UUID,
	admissionNumber, academicSession string,
	admissionType Type,
	admissionDate, courseStartDate time.Time,
	courseDuration int,
	in FeeInput,
	fees *FeeBreakdown,
	downPaymentMethod payment.Method,
) (*Admission, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if courseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COURSE", "Course ID cannot be empty")
	}
	if centreID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CENTRE", "Centre ID cannot be empty")
	}
	if admissionNumber == "" {
		return nil, shared.NewDomainError("INVALID_ADMISSION_NUMBER", "Admission number cannot be empty")
	}
	if !admissionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", fmt.Sprintf("Unknown admission type %q", admissionType))
	}
	if fees == nil {
		return nil, shared.NewDomainError("INVALID_FEES", "Fee breakdown is required")
	}

	a := &Admission{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AdmissionNumber:     admissionNumber,
		StudentID:           studentID,
		CourseID:            courseID,
		CentreID:            centreID,
		AcademicSession:     academicSession,
		AdmissionType:       admissionType,
		AdmissionDate:       admissionDate,
		CourseStartDate:     courseStartDate,
		CourseDuration:      courseDuration,
		BaseFees:            in.BaseFees,
		FeeWaiver:           in.FeeWaiver,
		TaxableAmount:       fees.TaxableAmount,
		CGST:                fees.CGST,
		SGST:                fees.SGST,
		PreviousBalance:     in.PreviousBalance,
		TotalFees:           fees.TotalFees,
		DownPayment:         in.DownPayment,
		DownPaymentStatus:   InstallmentPending,
		InstallmentCount:    in.NumberOfInstallments,
		InstallmentAmount:   fees.InstallmentAmount,
		PaymentBreakdown:    fees.Schedule,
		MonthlyBills:        MonthlyBills{},
		Status:              StatusActive,
	}
	if in.DownPayment.IsPositive() {
		if downPaymentMethod.IsDeferred() {
			a.DownPaymentStatus = InstallmentPendingClearance
		} else {
			a.DownPaymentStatus = InstallmentPaid
		}
	}
	a.RecomputeTotals()
	return a, nil
}

// RecomputeTotals re-derives TotalPaidAmount, RemainingAmount and
// PaymentStatus from scratch. Running it is always safe and always the
// last step of any mutation; incremental bookkeeping is never trusted.
func (a *Admission) RecomputeTotals() {
	paid := a.PaymentBreakdown.SumPaid()
	if a.DownPaymentStatus == InstallmentPaid {
		paid = paid.Add(a.DownPayment)
	}
	paid = paid.Add(a.MonthlyBills.SumPaid())

	a.TotalPaidAmount = paid
	remaining := a.TotalFees.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	a.RemainingAmount = remaining
	a.PaymentStatus = DerivePaymentStatus(paid, a.TotalFees)
}

// SweepOverdue flips PENDING installments whose due date has passed to
// OVERDUE. Runs opportunistically on every read-modify path.
func (a *Admission) SweepOverdue(now time.Time) {
	for i := range a.PaymentBreakdown {
		ins := &a.PaymentBreakdown[i]
		if ins.Status == InstallmentPending && ins.DueDate.Before(now) {
			ins.Status = InstallmentOverdue
		}
	}
}

// ApplyInstallmentPayment records a confirmed (non-cheque) payment against
// one installment. A short payment keeps the installment unpaid with the
// received amount on record; a full payment marks it PAID.
func (a *Admission) ApplyInstallmentPayment(
	number int,
	paidAmount decimal.Decimal,
	method payment.Method,
	transactionID, remarks string,
	now time.Time,
) (*Installment, error) {
	if err := a.mutable(); err != nil {
		return nil, err
	}
	if paidAmount.IsNegative() || paidAmount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}
	if method.IsDeferred() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Cheque payments go through clearance, not direct settlement")
	}

	ins := a.PaymentBreakdown.Find(number)
	if ins == nil {
		return nil, shared.NewDomainError("INSTALLMENT_NOT_FOUND", fmt.Sprintf("Installment %d does not exist", number))
	}
	if !ins.Status.CanAcceptPayment() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Installment %d is %s and cannot accept payment", number, ins.Status))
	}

	ins.PaidAmount = paidAmount
	ins.PaymentMethod = method
	ins.TransactionID = transactionID
	if remarks != "" {
		ins.Remarks = remarks
	}
	if paidAmount.GreaterThanOrEqual(ins.Amount) {
		ins.Status = InstallmentPaid
		ins.PaidDate = &now
	}

	a.SweepOverdue(now)
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return ins, nil
}

// MarkInstallmentPendingClearance records a cheque tendered against an
// installment. A shortfall against the scheduled amount is folded into the
// next installment so the schedule keeps summing to the outstanding total.
// The returned variance is the folded amount (zero when none, or when there
// is no later installment to fold into).
func (a *Admission) MarkInstallmentPendingClearance(
	number int,
	paidAmount decimal.Decimal,
	chequeNumber string,
	now time.Time,
) (variance decimal.Decimal, foldedIntoNext bool, err error) {
	if err := a.mutable(); err != nil {
		return decimal.Zero, false, err
	}
	if paidAmount.IsNegative() || paidAmount.IsZero() {
		return decimal.Zero, false, shared.NewDomainError("INVALID_AMOUNT", "Paid amount must be positive")
	}

	ins := a.PaymentBreakdown.Find(number)
	if ins == nil {
		return decimal.Zero, false, shared.NewDomainError("INSTALLMENT_NOT_FOUND", fmt.Sprintf("Installment %d does not exist", number))
	}
	if !ins.Status.CanAcceptPayment() {
		return decimal.Zero, false, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Installment %d is %s and cannot accept payment", number, ins.Status))
	}

	variance = ins.Amount.Sub(paidAmount)
	ins.PaidAmount = paidAmount
	ins.PaymentMethod = payment.MethodCheque
	ins.TransactionID = chequeNumber
	ins.Status = InstallmentPendingClearance

	if variance.IsPositive() {
		if next := a.PaymentBreakdown.Find(number + 1); next != nil && !next.Status.IsSettled() {
			next.Amount = next.Amount.Add(variance)
			next.Remarks = appendRemark(next.Remarks,
				fmt.Sprintf("Includes %s shortfall from installment %d", variance.StringFixed(2), number))
			foldedIntoNext = true
		}
	} else {
		variance = decimal.Zero
	}

	a.SweepOverdue(now)
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return variance, foldedIntoNext, nil
}

// ClearChequeInstallment settles a PENDING_CLEARANCE installment after the
// bank honored the cheque.
func (a *Admission) ClearChequeInstallment(number int, now time.Time) error {
	ins := a.PaymentBreakdown.Find(number)
	if ins == nil {
		return shared.NewDomainError("INSTALLMENT_NOT_FOUND", fmt.Sprintf("Installment %d does not exist", number))
	}
	if ins.Status != InstallmentPendingClearance {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Installment %d is %s, not pending clearance", number, ins.Status))
	}
	ins.Status = InstallmentPaid
	ins.PaidDate = &now
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return nil
}

// RevertChequeInstallment unwinds a PENDING_CLEARANCE installment after the
// cheque bounced or was cancelled. Any variance that was folded into the
// next installment at intake is backed out again; when the next installment
// has since been settled the fold is left in place and false is returned so
// the caller can flag the discrepancy.
func (a *Admission) RevertChequeInstallment(number int, foldedVariance decimal.Decimal, now time.Time) (bool, error) {
	ins := a.PaymentBreakdown.Find(number)
	if ins == nil {
		return false, shared.NewDomainError("INSTALLMENT_NOT_FOUND", fmt.Sprintf("Installment %d does not exist", number))
	}
	if ins.Status != InstallmentPendingClearance {
		return false, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Installment %d is %s, not pending clearance", number, ins.Status))
	}

	ins.resetUnpaid(now)

	reversed := true
	if foldedVariance.IsPositive() {
		next := a.PaymentBreakdown.Find(number + 1)
		if next != nil && !next.Status.IsSettled() {
			next.Amount = next.Amount.Sub(foldedVariance)
			next.Remarks = appendRemark(next.Remarks,
				fmt.Sprintf("Removed %s shortfall fold from installment %d", foldedVariance.StringFixed(2), number))
		} else {
			reversed = false
		}
	}

	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return reversed, nil
}

// MarkDownPaymentCleared settles a cheque down payment.
func (a *Admission) MarkDownPaymentCleared() error {
	if a.DownPaymentStatus != InstallmentPendingClearance {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Down payment is %s, not pending clearance", a.DownPaymentStatus))
	}
	a.DownPaymentStatus = InstallmentPaid
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return nil
}

// SettleDownPayment records a confirmed payment of the down payment after
// enrolment, typically re-collecting it once a down-payment cheque bounced.
// The down payment is all or nothing; partial amounts are refused.
func (a *Admission) SettleDownPayment(paidAmount decimal.Decimal, now time.Time) error {
	if err := a.mutable(); err != nil {
		return err
	}
	if !a.DownPayment.IsPositive() {
		return shared.NewDomainError("NO_DOWN_PAYMENT", "Admission has no down payment to settle")
	}
	switch a.DownPaymentStatus {
	case InstallmentPaid:
		return shared.NewDomainError("ALREADY_PAID", "Down payment is already settled")
	case InstallmentPendingClearance:
		return shared.NewDomainError("PENDING_CLEARANCE", "Down payment cheque awaits clearance")
	}
	if paidAmount.LessThan(a.DownPayment) {
		return shared.NewDomainError("INVALID_AMOUNT", "Down payment must be settled in full")
	}
	a.DownPaymentStatus = InstallmentPaid
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return nil
}

// TenderDownPaymentCheque parks an unpaid down payment behind a cheque.
func (a *Admission) TenderDownPaymentCheque(paidAmount decimal.Decimal) error {
	if err := a.mutable(); err != nil {
		return err
	}
	if !a.DownPayment.IsPositive() {
		return shared.NewDomainError("NO_DOWN_PAYMENT", "Admission has no down payment to settle")
	}
	switch a.DownPaymentStatus {
	case InstallmentPaid:
		return shared.NewDomainError("ALREADY_PAID", "Down payment is already settled")
	case InstallmentPendingClearance:
		return shared.NewDomainError("PENDING_CLEARANCE", "Down payment cheque awaits clearance")
	}
	if paidAmount.LessThan(a.DownPayment) {
		return shared.NewDomainError("INVALID_AMOUNT", "Down payment must be covered in full")
	}
	a.DownPaymentStatus = InstallmentPendingClearance
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return nil
}

// MarkDownPaymentRejected unwinds a cheque down payment that bounced.
func (a *Admission) MarkDownPaymentRejected() error {
	if a.DownPaymentStatus != InstallmentPendingClearance {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Down payment is %s, not pending clearance", a.DownPaymentStatus))
	}
	a.DownPaymentStatus = InstallmentPending
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return nil
}

// RescheduleRemaining replaces all unsettled installments with a fresh
// floor-divided schedule over the outstanding balance. Settled installments
// (PAID, PENDING_CLEARANCE) are kept verbatim; the merged schedule is
// renumbered densely by due date.
func (a *Admission) RescheduleRemaining(n int, now time.Time) error {
	if err := a.mutable(); err != nil {
		return err
	}
	if n < 1 {
		return shared.NewDomainError("INVALID_INSTALLMENTS", "Number of installments must be at least 1")
	}

	kept := make(Installments, 0, len(a.PaymentBreakdown))
	for _, ins := range a.PaymentBreakdown {
		if ins.Status.IsSettled() {
			kept = append(kept, ins)
		}
	}

	outstanding := a.RemainingAmount
	for i := range kept {
		if kept[i].Status == InstallmentPendingClearance {
			// Uncleared money is not paid yet but is already committed
			// against its installment; it does not get redivided.
			outstanding = outstanding.Sub(kept[i].Amount)
		}
	}
	if !outstanding.IsPositive() {
		return shared.NewDomainError("NOTHING_TO_DIVIDE", "No outstanding balance to redivide")
	}

	fresh := RedivideSchedule(outstanding, n, now)
	merged := append(kept, fresh...)
	merged.reindex()

	a.PaymentBreakdown = merged
	a.InstallmentCount = len(merged)
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return nil
}

// TransferCourse moves the admission to a different course, repricing it.
// Money already paid is folded into the down payment so it stays on the
// ledger; the new schedule covers the new total minus everything paid so
// far. Transfers are refused while any cheque awaits clearance because the
// uncleared installment could not survive the schedule replacement.
func (a *Admission) TransferCourse(newCourseID uuid.UUID, in FeeInput, fees *FeeBreakdown) error {
	if err := a.mutable(); err != nil {
		return err
	}
	if newCourseID == uuid.Nil {
		return shared.NewDomainError("INVALID_COURSE", "Course ID cannot be empty")
	}
	if newCourseID == a.CourseID {
		return shared.NewDomainError("SAME_COURSE", "Admission is already on this course")
	}
	if a.DownPaymentStatus == InstallmentPendingClearance {
		return shared.NewDomainError("PENDING_CLEARANCE", "Cannot transfer course while a cheque awaits clearance")
	}
	for _, ins := range a.PaymentBreakdown {
		if ins.Status == InstallmentPendingClearance {
			return shared.NewDomainError("PENDING_CLEARANCE", "Cannot transfer course while a cheque awaits clearance")
		}
	}

	alreadyPaid := a.TotalPaidAmount
	a.DownPayment = alreadyPaid
	if alreadyPaid.IsPositive() {
		a.DownPaymentStatus = InstallmentPaid
	} else {
		a.DownPaymentStatus = InstallmentPending
	}

	a.CourseID = newCourseID
	a.BaseFees = in.BaseFees
	a.FeeWaiver = in.FeeWaiver
	a.TaxableAmount = fees.TaxableAmount
	a.CGST = fees.CGST
	a.SGST = fees.SGST
	a.PreviousBalance = in.PreviousBalance
	a.TotalFees = fees.TotalFees
	a.InstallmentCount = in.NumberOfInstallments
	a.InstallmentAmount = fees.InstallmentAmount
	a.PaymentBreakdown = fees.Schedule
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return nil
}

// AdjustFees overwrites the authoritative totals directly. This is the
// manual correction backdoor; the derived status still follows the rule.
func (a *Admission) AdjustFees(totalFees, totalPaid decimal.Decimal, remarks string) error {
	if totalFees.IsNegative() || totalPaid.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Adjusted totals cannot be negative")
	}
	a.TotalFees = totalFees
	a.TotalPaidAmount = totalPaid
	remaining := totalFees.Sub(totalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	a.RemainingAmount = remaining
	a.PaymentStatus = DerivePaymentStatus(totalPaid, totalFees)
	if remarks != "" {
		a.Remarks = appendRemark(a.Remarks, remarks)
	}
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Deactivate freezes the admission. The deactivation timestamp anchors the
// due-date shift applied on reactivation.
func (a *Admission) Deactivate(now time.Time) error {
	if a.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deactivate admission in %s status", a.Status))
	}
	a.Status = StatusInactive
	a.DeactivatedAt = &now
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Reactivate unfreezes the admission and shifts every unsettled due date
// forward by the number of days the admission spent inactive. Installments
// that were OVERDUE but whose shifted due date lands in the future go back
// to PENDING.
func (a *Admission) Reactivate(now time.Time) error {
	if a.Status != StatusInactive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reactivate admission in %s status", a.Status))
	}

	if a.DeactivatedAt != nil {
		days := int(now.Sub(*a.DeactivatedAt).Hours() / 24)
		if days > 0 {
			for i := range a.PaymentBreakdown {
				ins := &a.PaymentBreakdown[i]
				if ins.Status.IsSettled() {
					continue
				}
				ins.DueDate = ins.DueDate.AddDate(0, 0, days)
				if ins.Status == InstallmentOverdue && !ins.DueDate.Before(now) {
					ins.Status = InstallmentPending
				}
			}
		}
	}

	a.Status = StatusActive
	a.DeactivatedAt = nil
	a.RecomputeTotals()
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Cancel terminates the admission. Paid money stays on record.
func (a *Admission) Cancel(reason string) error {
	if a.Status == StatusCancelled || a.Status == StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel admission in %s status", a.Status))
	}
	a.Status = StatusCancelled
	if reason != "" {
		a.Remarks = appendRemark(a.Remarks, reason)
	}
	a.Touch()
	a.IncrementVersion()
	return nil
}

// mutable guards money-movement operations against frozen admissions.
func (a *Admission) mutable() error {
	switch a.Status {
	case StatusInactive:
		return shared.ErrStudentDeactivated
	case StatusCancelled:
		return shared.NewDomainError("INVALID_STATE", "Admission is cancelled")
	}
	return nil
}

func appendRemark(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}
