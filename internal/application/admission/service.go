package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/application/common"
	"github.com/pathshala/backend/internal/domain/admission"
	"github.com/pathshala/backend/internal/domain/catalog"
	"github.com/pathshala/backend/internal/domain/centre"
	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/domain/student"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service drives the admission ledger: enrolment, installment payments,
// schedule restructuring, course transfers and board monthly billing.
type Service struct {
	admissions  admission.Repository
	payments    payment.Repository
	students    student.Repository
	courses     catalog.CourseRepository
	examTags    catalog.ExamTagRepository
	centres     centre.Repository
	tx          common.TxManager
	targetQueue common.TargetCreditQueue
	logger      *zap.Logger
}

// NewService creates the admission service
func NewService(
	admissions admission.Repository,
	payments payment.Repository,
	students student.Repository,
	courses catalog.CourseRepository,
	examTags catalog.ExamTagRepository,
	centres centre.Repository,
	tx common.TxManager,
	targetQueue common.TargetCreditQueue,
	logger *zap.Logger,
) *Service {
	return &Service{
		admissions:  admissions,
		payments:    payments,
		students:    students,
		courses:     courses,
		examTags:    examTags,
		centres:     centres,
		tx:          tx,
		targetQueue: targetQueue,
		logger:      logger,
	}
}

// CreateAdmissionCommand enrolls a student into a course.
type CreateAdmissionCommand struct {
	TenantID             uuid.UUID
	StudentID            uuid.UUID
	CourseID             uuid.UUID
	CentreID             uuid.UUID
	ExamTagID            *uuid.UUID
	AcademicSession      string
	FeeWaiver            decimal.Decimal
	DownPayment          decimal.Decimal
	DownPaymentMethod    payment.Method
	NumberOfInstallments int
	AdmissionDate        time.Time
	CourseStartDate      time.Time
}

// CreateAdmission enrolls a student: consumes any carry-forward balance as
// the previous balance, prices the course, generates the installment
// schedule and the admission number, and records the down payment with its
// bill. The centre sales target is credited asynchronously afterwards.
func (s *Service) CreateAdmission(ctx context.Context, cmd CreateAdmissionCommand) (*admission.Admission, error) {
	var created *admission.Admission

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stu, err := s.students.FindByIDForTenant(ctx, cmd.TenantID, cmd.StudentID)
		if err != nil {
			return err
		}
		if stu.Status != student.StatusActive {
			return shared.ErrStudentDeactivated
		}

		course, err := s.courses.FindByIDForTenant(ctx, cmd.TenantID, cmd.CourseID)
		if err != nil {
			return err
		}
		ctr, err := s.centres.FindByIDForTenant(ctx, cmd.TenantID, cmd.CentreID)
		if err != nil {
			return err
		}
		if !ctr.IsActive {
			return shared.NewDomainError("CENTRE_INACTIVE", "Centre is not accepting admissions")
		}
		if cmd.ExamTagID != nil {
			if _, err := s.examTags.FindByIDForTenant(ctx, cmd.TenantID, *cmd.ExamTagID); err != nil {
				return err
			}
		}

		admissionType := admission.TypeRegular
		if course.IsBoard {
			admissionType = admission.TypeBoard
		}

		previousBalance := stu.ConsumeCarryForward()

		in := admission.FeeInput{
			BaseFees:             course.BaseFees,
			FeeWaiver:            cmd.FeeWaiver,
			PreviousBalance:      previousBalance,
			DownPayment:          cmd.DownPayment,
			NumberOfInstallments: cmd.NumberOfInstallments,
			AdmissionDate:        cmd.AdmissionDate,
		}
		fees, err := admission.ComputeFees(in)
		if err != nil {
			return err
		}

		prior, err := s.admissions.FindByStudent(ctx, cmd.TenantID, cmd.StudentID)
		if err != nil {
			return err
		}
		var number string
		if len(prior) > 0 {
			// a re-enrolling student keeps the admission number issued
			// the first time around
			number = prior[0].AdmissionNumber
		} else {
			number, err = s.admissions.GenerateAdmissionNumber(ctx, cmd.TenantID)
			if err != nil {
				return fmt.Errorf("failed to generate admission number: %w", err)
			}
		}

		courseStart := cmd.CourseStartDate
		if courseStart.IsZero() {
			courseStart = cmd.AdmissionDate
		}
		a, err := admission.NewAdmission(
			cmd.TenantID, cmd.StudentID, cmd.CourseID, cmd.CentreID,
			number, cmd.AcademicSession, admissionType,
			cmd.AdmissionDate, courseStart, course.DurationMonths,
			in, fees, cmd.DownPaymentMethod,
		)
		if err != nil {
			return err
		}
		a.ExamTagID = cmd.ExamTagID

		if err := s.admissions.Save(ctx, a); err != nil {
			return err
		}
		if err := s.students.Save(ctx, stu); err != nil {
			return err
		}

		if cmd.DownPayment.IsPositive() {
			p, err := payment.NewPayment(
				cmd.TenantID, a.ID, cmd.CentreID, number,
				0, cmd.DownPayment, cmd.DownPayment, cmd.DownPaymentMethod,
			)
			if err != nil {
				return err
			}
			if p.Status == payment.StatusPaid {
				billID, err := s.payments.NextBillID(ctx, cmd.TenantID, ctr.Code)
				if err != nil {
					return fmt.Errorf("failed to allocate bill number: %w", err)
				}
				if err := p.AssignBill(billID); err != nil {
					return err
				}
			}
			if err := s.payments.Save(ctx, p); err != nil {
				return err
			}
		}

		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.targetQueue.Enqueue(common.TargetCredit{
		TenantID: cmd.TenantID,
		CentreID: cmd.CentreID,
		Amount:   created.TotalFees,
	})
	s.logger.Info("admission created",
		zap.String("admission_number", created.AdmissionNumber),
		zap.String("admission_id", created.ID.String()),
		zap.String("centre_id", cmd.CentreID.String()),
	)
	return created, nil
}

// RecordPaymentCommand records money against one installment.
type RecordPaymentCommand struct {
	TenantID          uuid.UUID
	AdmissionID       uuid.UUID
	InstallmentNumber int
	PaidAmount        decimal.Decimal
	Method            payment.Method
	TransactionID     string
	ChequeNumber      string
	ChequeDate        *time.Time
	Remarks           string
}

// RecordInstallmentPayment applies a payment to an installment; number 0
// addresses the down payment. Confirmed methods that settle the target get
// a bill; a short confirmed payment stays on the installment without a
// receipt. Cheques park the target in PENDING_CLEARANCE with any shortfall
// folded into the next installment, or carried forward on the student when
// there is none.
func (s *Service) RecordInstallmentPayment(ctx context.Context, cmd RecordPaymentCommand) (*payment.Payment, error) {
	var record *payment.Payment

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.admissions.FindByIDForTenant(ctx, cmd.TenantID, cmd.AdmissionID)
		if err != nil {
			return err
		}
		expectedVersion := a.Version
		now := time.Now()

		if cmd.Method.IsDeferred() {
			record, err = s.recordChequePayment(ctx, a, cmd, now)
		} else {
			record, err = s.recordConfirmedPayment(ctx, a, cmd, now)
		}
		if err != nil {
			return err
		}

		return s.admissions.SaveWithLock(ctx, a, expectedVersion)
	})
	if err != nil {
		return nil, err
	}

	status := payment.StatusPending.String()
	if record != nil {
		status = record.Status.String()
	}
	s.logger.Info("installment payment recorded",
		zap.String("admission_id", cmd.AdmissionID.String()),
		zap.Int("installment", cmd.InstallmentNumber),
		zap.String("method", cmd.Method.String()),
		zap.String("status", status),
	)
	return record, nil
}

// recordConfirmedPayment settles the target and mirrors it as a billed
// payment row. A short payment only updates the installment; no money is
// confirmed, so no receipt row and no bill exist until it settles in full.
func (s *Service) recordConfirmedPayment(ctx context.Context, a *admission.Admission, cmd RecordPaymentCommand, now time.Time) (*payment.Payment, error) {
	scheduled := a.DownPayment
	if cmd.InstallmentNumber == 0 {
		if err := a.SettleDownPayment(cmd.PaidAmount, now); err != nil {
			return nil, err
		}
	} else {
		ins, err := a.ApplyInstallmentPayment(cmd.InstallmentNumber, cmd.PaidAmount, cmd.Method, cmd.TransactionID, cmd.Remarks, now)
		if err != nil {
			return nil, err
		}
		if ins.Status != admission.InstallmentPaid {
			return nil, nil
		}
		scheduled = ins.Amount
	}

	p, err := s.payments.FindByAdmissionInstallment(ctx, a.TenantID, a.ID, cmd.InstallmentNumber)
	switch {
	case err == nil:
		if err := p.UpdateReceipt(scheduled, cmd.PaidAmount, cmd.Method, now); err != nil {
			return nil, err
		}
	case shared.IsNotFound(err):
		p, err = payment.NewPayment(a.TenantID, a.ID, a.CentreID, a.AdmissionNumber, cmd.InstallmentNumber, scheduled, cmd.PaidAmount, cmd.Method)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	p.TransactionID = cmd.TransactionID
	if cmd.Remarks != "" {
		p.Remarks = cmd.Remarks
	}

	if p.BillID == nil {
		ctr, err := s.centres.FindByIDForTenant(ctx, a.TenantID, a.CentreID)
		if err != nil {
			return nil, err
		}
		billID, err := s.payments.NextBillID(ctx, a.TenantID, ctr.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate bill number: %w", err)
		}
		if err := p.AssignBill(billID); err != nil {
			return nil, err
		}
	}

	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) recordChequePayment(ctx context.Context, a *admission.Admission, cmd RecordPaymentCommand, now time.Time) (*payment.Payment, error) {
	if cmd.InstallmentNumber == 0 {
		return s.recordDownPaymentCheque(ctx, a, cmd)
	}

	ins := a.PaymentBreakdown.Find(cmd.InstallmentNumber)
	if ins == nil {
		return nil, shared.NewDomainError("INSTALLMENT_NOT_FOUND", fmt.Sprintf("Installment %d does not exist", cmd.InstallmentNumber))
	}
	scheduled := ins.Amount

	variance, folded, err := a.MarkInstallmentPendingClearance(cmd.InstallmentNumber, cmd.PaidAmount, cmd.ChequeNumber, now)
	if err != nil {
		return nil, err
	}

	p, err := payment.NewPayment(a.TenantID, a.ID, a.CentreID, a.AdmissionNumber, cmd.InstallmentNumber, scheduled, cmd.PaidAmount, payment.MethodCheque)
	if err != nil {
		return nil, err
	}
	p.ChequeNumber = cmd.ChequeNumber
	p.ChequeDate = cmd.ChequeDate
	if cmd.Remarks != "" {
		p.Remarks = cmd.Remarks
	}

	if variance.IsPositive() && !folded {
		// last installment short: the shortfall has nowhere to fold,
		// so it rides on the student into the next admission
		p.IsCarryForward = true
		stu, err := s.students.FindByIDForTenant(ctx, a.TenantID, a.StudentID)
		if err != nil {
			return nil, err
		}
		stu.AddCarryForward(variance, fmt.Sprintf("cheque shortfall on admission %s", a.AdmissionNumber))
		if err := s.students.Save(ctx, stu); err != nil {
			return nil, err
		}
		s.logger.Warn("cheque shortfall carried forward",
			zap.String("admission_number", a.AdmissionNumber),
			zap.String("variance", variance.String()),
		)
	}

	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// recordDownPaymentCheque parks the down payment behind a cheque after
// enrolment, typically re-tendering after an earlier cheque bounced. The
// cheque must cover the down payment in full, so no variance arises.
func (s *Service) recordDownPaymentCheque(ctx context.Context, a *admission.Admission, cmd RecordPaymentCommand) (*payment.Payment, error) {
	if err := a.TenderDownPaymentCheque(cmd.PaidAmount); err != nil {
		return nil, err
	}

	p, err := payment.NewPayment(a.TenantID, a.ID, a.CentreID, a.AdmissionNumber, 0, a.DownPayment, cmd.PaidAmount, payment.MethodCheque)
	if err != nil {
		return nil, err
	}
	p.ChequeNumber = cmd.ChequeNumber
	p.ChequeDate = cmd.ChequeDate
	if cmd.Remarks != "" {
		p.Remarks = cmd.Remarks
	}

	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DivideRemainingInstallments redivides the outstanding balance over a new
// number of installments.
func (s *Service) DivideRemainingInstallments(ctx context.Context, tenantID, admissionID uuid.UUID, installments int) (*admission.Admission, error) {
	var result *admission.Admission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.admissions.FindByIDForTenant(ctx, tenantID, admissionID)
		if err != nil {
			return err
		}
		expectedVersion := a.Version
		if err := a.RescheduleRemaining(installments, time.Now()); err != nil {
			return err
		}
		result = a
		return s.admissions.SaveWithLock(ctx, a, expectedVersion)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("installments redivided",
		zap.String("admission_id", admissionID.String()),
		zap.Int("installments", installments),
	)
	return result, nil
}

// TransferCourseCommand moves an admission onto another course.
type TransferCourseCommand struct {
	TenantID             uuid.UUID
	AdmissionID          uuid.UUID
	NewCourseID          uuid.UUID
	FeeWaiver            decimal.Decimal
	NumberOfInstallments int
}

// TransferCourse reprices the admission against the new course. Money
// already paid counts against the new total; when it exceeds the new total
// the admission simply completes, the surplus is not refunded here.
func (s *Service) TransferCourse(ctx context.Context, cmd TransferCourseCommand) (*admission.Admission, error) {
	var result *admission.Admission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.admissions.FindByIDForTenant(ctx, cmd.TenantID, cmd.AdmissionID)
		if err != nil {
			return err
		}
		expectedVersion := a.Version

		course, err := s.courses.FindByIDForTenant(ctx, cmd.TenantID, cmd.NewCourseID)
		if err != nil {
			return err
		}

		in := admission.FeeInput{
			BaseFees:             course.BaseFees,
			FeeWaiver:            cmd.FeeWaiver,
			NumberOfInstallments: cmd.NumberOfInstallments,
			AdmissionDate:        time.Now(),
			DownPayment:          a.TotalPaidAmount,
		}
		fees, err := admission.ComputeFees(in)
		if err != nil && shared.HasCode(err, "DOWN_PAYMENT_EXCEEDS_TOTAL") {
			// paid more than the cheaper course costs: clamp so the
			// admission completes with a zero schedule
			probe := in
			probe.DownPayment = decimal.Zero
			base, perr := admission.ComputeFees(probe)
			if perr != nil {
				return perr
			}
			in.DownPayment = base.TotalFees
			fees, err = admission.ComputeFees(in)
			s.logger.Warn("course transfer overpayment clamped",
				zap.String("admission_id", cmd.AdmissionID.String()),
				zap.String("paid", a.TotalPaidAmount.String()),
				zap.String("new_total", base.TotalFees.String()),
			)
		}
		if err != nil {
			return err
		}

		if err := a.TransferCourse(cmd.NewCourseID, in, fees); err != nil {
			return err
		}
		result = a
		return s.admissions.SaveWithLock(ctx, a, expectedVersion)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("course transferred",
		zap.String("admission_id", cmd.AdmissionID.String()),
		zap.String("new_course_id", cmd.NewCourseID.String()),
	)
	return result, nil
}

// GenerateMonthlyBillCommand bills a board admission from a month forward.
type GenerateMonthlyBillCommand struct {
	TenantID    uuid.UUID
	AdmissionID uuid.UUID
	FromMonth   string // "2006-01"
	Subjects    []string
}

// GenerateMonthlyBill prices the subject selection against the course's
// per-subject monthly fee and propagates it to later unpaid months.
func (s *Service) GenerateMonthlyBill(ctx context.Context, cmd GenerateMonthlyBillCommand) (*admission.Admission, error) {
	var result *admission.Admission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.admissions.FindByIDForTenant(ctx, cmd.TenantID, cmd.AdmissionID)
		if err != nil {
			return err
		}
		expectedVersion := a.Version

		course, err := s.courses.FindByIDForTenant(ctx, cmd.TenantID, a.CourseID)
		if err != nil {
			return err
		}
		for _, sub := range cmd.Subjects {
			if len(course.Subjects) > 0 && !course.Subjects.Contains(sub) {
				return shared.NewDomainError("UNKNOWN_SUBJECT", fmt.Sprintf("Course does not offer subject %q", sub))
			}
		}

		baseFees := course.MonthlyFeeFor(cmd.Subjects)
		if err := a.ApplyMonthlyBilling(cmd.FromMonth, cmd.Subjects, baseFees, time.Now()); err != nil {
			return err
		}
		result = a
		return s.admissions.SaveWithLock(ctx, a, expectedVersion)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("monthly bill generated",
		zap.String("admission_id", cmd.AdmissionID.String()),
		zap.String("from_month", cmd.FromMonth),
	)
	return result, nil
}

// PayMonthlyBill settles one billed month of a board admission and issues
// the bill for it.
func (s *Service) PayMonthlyBill(ctx context.Context, tenantID, admissionID uuid.UUID, month string, method payment.Method) (*payment.Payment, error) {
	var record *payment.Payment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.admissions.FindByIDForTenant(ctx, tenantID, admissionID)
		if err != nil {
			return err
		}
		expectedVersion := a.Version
		now := time.Now()

		bill, err := a.PayMonthlyBill(month, method, now)
		if err != nil {
			return err
		}

		p, err := payment.NewPayment(tenantID, a.ID, a.CentreID, a.AdmissionNumber, 0, bill.TotalAmount, bill.TotalAmount, method)
		if err != nil {
			return err
		}
		p.BillingMonth = month
		if p.Status == payment.StatusPaid {
			ctr, err := s.centres.FindByIDForTenant(ctx, tenantID, a.CentreID)
			if err != nil {
				return err
			}
			billID, err := s.payments.NextBillID(ctx, tenantID, ctr.Code)
			if err != nil {
				return fmt.Errorf("failed to allocate bill number: %w", err)
			}
			if err := p.AssignBill(billID); err != nil {
				return err
			}
		}
		if err := s.payments.Save(ctx, p); err != nil {
			return err
		}

		record = p
		return s.admissions.SaveWithLock(ctx, a, expectedVersion)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// AdjustFeesCommand overrides an admission's authoritative totals. A
// positive NumberOfInstallments additionally redivides the adjusted
// outstanding balance over that many fresh installments.
type AdjustFeesCommand struct {
	TenantID             uuid.UUID
	AdmissionID          uuid.UUID
	TotalFees            decimal.Decimal
	TotalPaid            decimal.Decimal
	NumberOfInstallments int
	Remarks              string
}

// AdjustFees is the manual correction path for migrated or disputed
// ledgers. The override is logged with the pre-adjustment figures, and
// any change to the paid total leaves a synthetic payment row so the
// delta stays auditable.
func (s *Service) AdjustFees(ctx context.Context, cmd AdjustFeesCommand) (*admission.Admission, error) {
	var result *admission.Admission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.admissions.FindByIDForTenant(ctx, cmd.TenantID, cmd.AdmissionID)
		if err != nil {
			return err
		}
		expectedVersion := a.Version
		before := a.TotalFees
		paidDiff := cmd.TotalPaid.Sub(a.TotalPaidAmount)

		if err := a.AdjustFees(cmd.TotalFees, cmd.TotalPaid, cmd.Remarks); err != nil {
			return err
		}
		if cmd.NumberOfInstallments > 0 {
			if err := a.RescheduleRemaining(cmd.NumberOfInstallments, time.Now()); err != nil {
				return err
			}
			// rescheduling re-derives the totals from the schedule; the
			// manual override stays authoritative, so pin it back on top
			if err := a.AdjustFees(cmd.TotalFees, cmd.TotalPaid, ""); err != nil {
				return err
			}
		}
		s.logger.Warn("manual fee adjustment",
			zap.String("admission_id", cmd.AdmissionID.String()),
			zap.String("total_fees_before", before.String()),
			zap.String("total_fees_after", cmd.TotalFees.String()),
			zap.String("paid_delta", paidDiff.String()),
		)
		if !paidDiff.IsZero() {
			adj, err := payment.NewAdjustmentPayment(
				a.TenantID, a.ID, a.CentreID, a.AdmissionNumber, paidDiff, cmd.Remarks,
			)
			if err != nil {
				return err
			}
			if err := s.payments.Save(ctx, adj); err != nil {
				return err
			}
		}
		result = a
		return s.admissions.SaveWithLock(ctx, a, expectedVersion)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetAdmission loads one admission, sweeping overdue installments on read.
func (s *Service) GetAdmission(ctx context.Context, tenantID, admissionID uuid.UUID) (*admission.Admission, error) {
	a, err := s.admissions.FindByIDForTenant(ctx, tenantID, admissionID)
	if err != nil {
		return nil, err
	}
	a.SweepOverdue(time.Now())
	a.RecomputeTotals()
	return a, nil
}

// ListByCentre pages through a centre's admissions.
func (s *Service) ListByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[admission.Admission], error) {
	return s.admissions.FindByCentre(ctx, tenantID, centreID, filter)
}
