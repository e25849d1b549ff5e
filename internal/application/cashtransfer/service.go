package cashtransfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/application/common"
	"github.com/pathshala/backend/internal/domain/cashtransfer"
	"github.com/pathshala/backend/internal/domain/centre"
	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service moves physical cash between centres. Initiating a transfer is
// gated by the sending centre's transfer password and by its cash on hand;
// serials are allocated per fiscal year. Each transfer carries a one-time
// 6-digit password the receiving centre must present to confirm.
type Service struct {
	transfers cashtransfer.Repository
	centres   centre.Repository
	payments  payment.Repository
	receipts  common.ReceiptStorage
	tx        common.TxManager
	logger    *zap.Logger
}

// NewService creates the cash transfer service
func NewService(
	transfers cashtransfer.Repository,
	centres centre.Repository,
	payments payment.Repository,
	receipts common.ReceiptStorage,
	tx common.TxManager,
	logger *zap.Logger,
) *Service {
	return &Service{
		transfers: transfers,
		centres:   centres,
		payments:  payments,
		receipts:  receipts,
		tx:        tx,
		logger:    logger,
	}
}

// InitiateCommand dispatches cash from one centre to another.
type InitiateCommand struct {
	TenantID         uuid.UUID
	FromCentreID     uuid.UUID
	ToCentreID       uuid.UUID
	InitiatedBy      uuid.UUID
	Amount           decimal.Decimal
	TransferPassword string
	Remarks          string
}

// Initiate dispatches a transfer after verifying the sending centre's
// transfer password and that the amount does not exceed its cash on hand.
// The returned one-time password is shown to the initiator exactly once
// and is never serialized with the transfer again.
func (s *Service) Initiate(ctx context.Context, cmd InitiateCommand) (*cashtransfer.CashTransfer, string, error) {
	var created *cashtransfer.CashTransfer
	var oneTimePassword string

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		from, err := s.centres.FindByIDForTenant(ctx, cmd.TenantID, cmd.FromCentreID)
		if err != nil {
			return err
		}
		if err := from.VerifyTransferPassword(cmd.TransferPassword); err != nil {
			return err
		}
		if _, err := s.centres.FindByIDForTenant(ctx, cmd.TenantID, cmd.ToCentreID); err != nil {
			return err
		}

		onHand, err := s.cashOnHand(ctx, cmd.TenantID, from)
		if err != nil {
			return err
		}
		if cmd.Amount.GreaterThan(onHand) {
			return shared.NewDomainError("INSUFFICIENT_CASH", "Transfer amount exceeds the centre's cash on hand")
		}

		number, err := s.transfers.NextTransferNumber(ctx, cmd.TenantID)
		if err != nil {
			return err
		}
		password, err := cashtransfer.GeneratePassword()
		if err != nil {
			return err
		}
		ct, err := cashtransfer.NewCashTransfer(
			cmd.TenantID, cmd.FromCentreID, cmd.ToCentreID, cmd.InitiatedBy,
			number, password, cmd.Amount, cmd.Remarks, time.Now(),
		)
		if err != nil {
			return err
		}
		created = ct
		oneTimePassword = password
		return s.transfers.Save(ctx, ct)
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("cash transfer initiated",
		zap.String("transfer_number", created.TransferNumber),
		zap.String("from_centre", cmd.FromCentreID.String()),
		zap.String("to_centre", cmd.ToCentreID.String()),
		zap.String("amount", cmd.Amount.String()),
	)
	return created, oneTimePassword, nil
}

// ConfirmReceive acknowledges a transfer at the destination centre. The
// courier's password must match the one issued at dispatch.
func (s *Service) ConfirmReceive(ctx context.Context, tenantID, transferID, receivedBy uuid.UUID, password string) (*cashtransfer.CashTransfer, error) {
	var result *cashtransfer.CashTransfer
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ct, err := s.transfers.FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		if err := ct.Receive(receivedBy, password, time.Now()); err != nil {
			return err
		}
		result = ct
		return s.transfers.Save(ctx, ct)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("cash transfer received", zap.String("transfer_number", result.TransferNumber))
	return result, nil
}

// Reject refuses an in-transit transfer at the destination; the amount
// stays with the sender's cash on hand.
func (s *Service) Reject(ctx context.Context, tenantID, transferID uuid.UUID, reason string) (*cashtransfer.CashTransfer, error) {
	var result *cashtransfer.CashTransfer
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ct, err := s.transfers.FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		if err := ct.Reject(reason); err != nil {
			return err
		}
		result = ct
		return s.transfers.Save(ctx, ct)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Warn("cash transfer rejected",
		zap.String("transfer_number", result.TransferNumber),
		zap.String("reason", reason),
	)
	return result, nil
}

// AttachReceipt archives the scanned handoff receipt and records its
// storage key on the transfer. Returns a presigned URL for the upload.
func (s *Service) AttachReceipt(ctx context.Context, tenantID, transferID uuid.UUID, pdf []byte) (string, error) {
	var key string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ct, err := s.transfers.FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		key = fmt.Sprintf("transfers/%s/%s.pdf", tenantID, ct.TransferNumber)
		if _, err := s.receipts.Store(ctx, key, "application/pdf", pdf); err != nil {
			return fmt.Errorf("failed to archive transfer receipt: %w", err)
		}
		if err := ct.AttachReceipt(key); err != nil {
			return err
		}
		return s.transfers.Save(ctx, ct)
	})
	if err != nil {
		return "", err
	}
	url, err := s.receipts.PresignedURL(ctx, key)
	if err != nil {
		return "", err
	}
	s.logger.Info("transfer receipt archived", zap.String("key", key))
	return url, nil
}

// Cancel recalls an in-transit transfer; the cash returns to the sender.
func (s *Service) Cancel(ctx context.Context, tenantID, transferID uuid.UUID, reason string) (*cashtransfer.CashTransfer, error) {
	var result *cashtransfer.CashTransfer
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ct, err := s.transfers.FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		if err := ct.Cancel(reason); err != nil {
			return err
		}
		result = ct
		return s.transfers.Save(ctx, ct)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("cash transfer cancelled", zap.String("transfer_number", result.TransferNumber))
	return result, nil
}

// CashOnHand reports a centre's current drawer balance.
func (s *Service) CashOnHand(ctx context.Context, tenantID, centreID uuid.UUID) (decimal.Decimal, error) {
	ctr, err := s.centres.FindByIDForTenant(ctx, tenantID, centreID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.cashOnHand(ctx, tenantID, ctr)
}

// cashOnHand is the drawer equation: opening balance plus confirmed cash
// receipts plus received incoming transfers minus dispatched outgoing
// transfers. Cancelled outgoing transfers do not count as dispatched.
func (s *Service) cashOnHand(ctx context.Context, tenantID uuid.UUID, ctr *centre.Centre) (decimal.Decimal, error) {
	collected, err := s.payments.SumCashCollected(ctx, tenantID, ctr.ID)
	if err != nil {
		return decimal.Zero, err
	}
	outgoing, err := s.transfers.SumOutgoing(ctx, tenantID, ctr.ID)
	if err != nil {
		return decimal.Zero, err
	}
	incoming, err := s.transfers.SumIncoming(ctx, tenantID, ctr.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return ctr.OpeningCashBalance.Add(collected).Add(incoming).Sub(outgoing), nil
}

// ListByCentre pages through a centre's transfers, both directions.
func (s *Service) ListByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[cashtransfer.CashTransfer], error) {
	return s.transfers.FindByCentre(ctx, tenantID, centreID, filter)
}
