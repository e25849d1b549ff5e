package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/application/common"
	"github.com/pathshala/backend/internal/domain/admission"
	"github.com/pathshala/backend/internal/domain/centre"
	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BillingService issues bill numbers and archives receipts. Its bill
// generation is self-healing: when the payment mirror for a paid
// installment is missing it is rebuilt from the admission ledger before
// the bill is issued, so a crash between the two writes never leaves an
// installment unbillable.
type BillingService struct {
	payments   payment.Repository
	admissions admission.Repository
	centres    centre.Repository
	receipts   common.ReceiptStorage
	tx         common.TxManager
	logger     *zap.Logger
}

// NewBillingService creates the billing service
func NewBillingService(
	payments payment.Repository,
	admissions admission.Repository,
	centres centre.Repository,
	receipts common.ReceiptStorage,
	tx common.TxManager,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		payments:   payments,
		admissions: admissions,
		centres:    centres,
		receipts:   receipts,
		tx:         tx,
		logger:     logger,
	}
}

// GenerateBill returns the bill for one installment's payment, issuing it
// if it was never assigned and rebuilding the payment record if it is
// missing entirely.
func (s *BillingService) GenerateBill(ctx context.Context, tenantID, admissionID uuid.UUID, installmentNumber int) (*payment.Payment, error) {
	var record *payment.Payment

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.admissions.FindByIDForTenant(ctx, tenantID, admissionID)
		if err != nil {
			return err
		}

		p, err := s.payments.FindByAdmissionInstallment(ctx, tenantID, admissionID, installmentNumber)
		if shared.IsNotFound(err) {
			p, err = s.rebuildFromLedger(a, installmentNumber)
		}
		if err != nil {
			return err
		}

		if p.BillID == nil {
			if p.Status != payment.StatusPaid {
				return shared.NewDomainError("BILL_NOT_AVAILABLE", fmt.Sprintf("No bill for payment in %s status", p.Status))
			}
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

		record = p
		return s.payments.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// rebuildFromLedger reconstructs the payment mirror of a settled
// installment from the admission's own breakdown.
func (s *BillingService) rebuildFromLedger(a *admission.Admission, installmentNumber int) (*payment.Payment, error) {
	var ins *admission.Installment
	if installmentNumber == 0 {
		if a.DownPaymentStatus != admission.InstallmentPaid {
			return nil, shared.NewDomainError("NOT_PAID", "Down payment has not been paid")
		}
	} else {
		ins = a.PaymentBreakdown.Find(installmentNumber)
		if ins == nil {
			return nil, shared.NewDomainError("INSTALLMENT_NOT_FOUND", fmt.Sprintf("Installment %d does not exist", installmentNumber))
		}
		if ins.Status != admission.InstallmentPaid {
			return nil, shared.NewDomainError("NOT_PAID", fmt.Sprintf("Installment %d is %s, cannot bill it", installmentNumber, ins.Status))
		}
	}

	amount := a.DownPayment
	paid := a.DownPayment
	method := payment.MethodCash
	if ins != nil {
		amount = ins.Amount
		paid = ins.PaidAmount
		method = ins.PaymentMethod
	}

	p, err := payment.NewPayment(a.TenantID, a.ID, a.CentreID, a.AdmissionNumber, installmentNumber, amount, paid, method)
	if err != nil {
		return nil, err
	}
	s.logger.Warn("rebuilt missing payment record from admission ledger",
		zap.String("admission_number", a.AdmissionNumber),
		zap.Int("installment", installmentNumber),
	)
	return p, nil
}

// ArchiveReceipt stores a rendered receipt and returns its access URL.
func (s *BillingService) ArchiveReceipt(ctx context.Context, tenantID uuid.UUID, billID string, pdf []byte) (string, error) {
	key := fmt.Sprintf("receipts/%s/%s/%s.pdf", tenantID, time.Now().Format("2006/01"), sanitizeBillKey(billID))
	if _, err := s.receipts.Store(ctx, key, "application/pdf", pdf); err != nil {
		return "", fmt.Errorf("failed to archive receipt: %w", err)
	}
	url, err := s.receipts.PresignedURL(ctx, key)
	if err != nil {
		return "", err
	}
	s.logger.Info("receipt archived", zap.String("bill_id", billID), zap.String("key", key))
	return url, nil
}

// ListPayments returns every payment recorded against an admission.
func (s *BillingService) ListPayments(ctx context.Context, tenantID, admissionID uuid.UUID) ([]payment.Payment, error) {
	return s.payments.FindByAdmission(ctx, tenantID, admissionID)
}

func sanitizeBillKey(billID string) string {
	out := make([]byte, 0, len(billID))
	for i := 0; i < len(billID); i++ {
		c := billID[i]
		if c == '/' {
			c = '-'
		}
		out = append(out, c)
	}
	return string(out)
}
