package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/application/common"
	"github.com/pathshala/backend/internal/domain/admission"
	"github.com/pathshala/backend/internal/domain/centre"
	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/student"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ChequeService settles deferred payments once the bank answers. Clearance
// turns parked money into confirmed money and issues the bill that was
// deferred at intake; rejection unwinds the intake including any variance
// that was folded into a later installment.
type ChequeService struct {
	payments   payment.Repository
	admissions admission.Repository
	students   student.Repository
	centres    centre.Repository
	tx         common.TxManager
	logger     *zap.Logger
}

// NewChequeService creates the cheque reconciliation service
func NewChequeService(
	payments payment.Repository,
	admissions admission.Repository,
	students student.Repository,
	centres centre.Repository,
	tx common.TxManager,
	logger *zap.Logger,
) *ChequeService {
	return &ChequeService{
		payments:   payments,
		admissions: admissions,
		students:   students,
		centres:    centres,
		tx:         tx,
		logger:     logger,
	}
}

// ClearCheque marks a cheque honored: the payment becomes PAID, the
// admission's installment, down payment or billed month settles, and the
// deferred bill number is issued now, under the fiscal year of the
// clearance date.
func (s *ChequeService) ClearCheque(ctx context.Context, tenantID, paymentID uuid.UUID) (*payment.Payment, error) {
	var record *payment.Payment

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.payments.FindByIDForTenant(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := p.Clear(now); err != nil {
			return err
		}

		a, err := s.admissions.FindByIDForTenant(ctx, tenantID, p.AdmissionID)
		if err != nil {
			return err
		}
		expectedVersion := a.Version
		switch {
		case p.BillingMonth != "":
			err = a.SettleMonthlyBill(p.BillingMonth, now)
		case p.IsDownPayment():
			err = a.MarkDownPaymentCleared()
		default:
			err = a.ClearChequeInstallment(p.InstallmentNumber, now)
		}
		if err != nil {
			return err
		}
		if err := s.admissions.SaveWithLock(ctx, a, expectedVersion); err != nil {
			return err
		}

		ctr, err := s.centres.FindByIDForTenant(ctx, tenantID, p.CentreID)
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

		record = p
		return s.payments.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cheque cleared",
		zap.String("payment_id", paymentID.String()),
		zap.Stringp("bill_id", record.BillID),
	)
	return record, nil
}

// RejectCheque marks a cheque bounced and unwinds the intake.
func (s *ChequeService) RejectCheque(ctx context.Context, tenantID, paymentID uuid.UUID, reason string) (*payment.Payment, error) {
	return s.unwind(ctx, tenantID, paymentID, reason, func(p *payment.Payment) error {
		return p.Reject(reason)
	})
}

// CancelCheque voids a cheque before the bank answered and unwinds the
// intake the same way a rejection does.
func (s *ChequeService) CancelCheque(ctx context.Context, tenantID, paymentID uuid.UUID, reason string) (*payment.Payment, error) {
	return s.unwind(ctx, tenantID, paymentID, reason, func(p *payment.Payment) error {
		return p.Cancel(reason)
	})
}

func (s *ChequeService) unwind(ctx context.Context, tenantID, paymentID uuid.UUID, reason string, transition func(*payment.Payment) error) (*payment.Payment, error) {
	var record *payment.Payment

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.payments.FindByIDForTenant(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		if err := transition(p); err != nil {
			return err
		}

		a, err := s.admissions.FindByIDForTenant(ctx, tenantID, p.AdmissionID)
		if err != nil {
			return err
		}
		expectedVersion := a.Version
		now := time.Now()

		switch {
		case p.BillingMonth != "":
			if err := a.RevertMonthlyBill(p.BillingMonth, now); err != nil {
				return err
			}
		case p.IsDownPayment():
			if err := a.MarkDownPaymentRejected(); err != nil {
				return err
			}
		case p.IsCarryForward:
			// the shortfall was parked on the student at intake, never
			// folded into the schedule; take the parked debt back along
			// with the reinstated installment
			if _, err := a.RevertChequeInstallment(p.InstallmentNumber, decimal.Zero, now); err != nil {
				return err
			}
			if p.VarianceAmount.IsPositive() {
				stu, serr := s.students.FindByIDForTenant(ctx, tenantID, a.StudentID)
				if serr != nil {
					return serr
				}
				stu.AddCarryForward(p.VarianceAmount.Neg(), fmt.Sprintf("reversed shortfall of bounced cheque %s", p.ChequeNumber))
				if serr := s.students.Save(ctx, stu); serr != nil {
					return serr
				}
			}
		default:
			reversed, err := a.RevertChequeInstallment(p.InstallmentNumber, p.VarianceAmount, now)
			if err != nil {
				return err
			}
			if !reversed {
				// the fold target settled with the variance inside it, so
				// the student already paid the shortfall there; with the
				// installment reinstated in full that money is a credit
				stu, serr := s.students.FindByIDForTenant(ctx, tenantID, a.StudentID)
				if serr != nil {
					return serr
				}
				stu.AddCarryForward(p.VarianceAmount.Neg(), fmt.Sprintf("credit for settled fold of bounced cheque %s", p.ChequeNumber))
				if serr := s.students.Save(ctx, stu); serr != nil {
					return serr
				}
				s.logger.Warn("variance fold already settled, credited to student",
					zap.String("payment_id", paymentID.String()),
					zap.String("variance", p.VarianceAmount.String()),
				)
			}
		}

		if err := s.admissions.SaveWithLock(ctx, a, expectedVersion); err != nil {
			return err
		}
		record = p
		return s.payments.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cheque unwound",
		zap.String("payment_id", paymentID.String()),
		zap.String("status", record.Status.String()),
		zap.String("reason", reason),
	)
	return record, nil
}
