package centre

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/application/common"
	"github.com/pathshala/backend/internal/domain/centre"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service manages centres and their sales targets.
type Service struct {
	centres centre.Repository
	targets centre.SalesTargetRepository
	tx      common.TxManager
	logger  *zap.Logger
}

// NewService creates the centre service
func NewService(centres centre.Repository, targets centre.SalesTargetRepository, tx common.TxManager, logger *zap.Logger) *Service {
	return &Service{centres: centres, targets: targets, tx: tx, logger: logger}
}

// CreateCommand creates a centre.
type CreateCommand struct {
	TenantID           uuid.UUID
	Name               string
	Code               string
	Address            string
	Phone              string
	OpeningCashBalance decimal.Decimal
}

// Create registers a centre, refusing duplicate codes per tenant.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*centre.Centre, error) {
	existing, err := s.centres.FindByCode(ctx, cmd.TenantID, cmd.Code)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A centre with this code already exists")
	}

	c, err := centre.NewCentre(cmd.TenantID, cmd.Name, cmd.Code)
	if err != nil {
		return nil, err
	}
	c.Address = cmd.Address
	c.Phone = cmd.Phone
	if cmd.OpeningCashBalance.IsPositive() {
		c.OpeningCashBalance = cmd.OpeningCashBalance
	}

	if err := s.centres.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("centre created", zap.String("code", c.Code))
	return c, nil
}

// SetTransferPassword sets the password gating outgoing cash transfers.
func (s *Service) SetTransferPassword(ctx context.Context, tenantID, centreID uuid.UUID, password string) error {
	c, err := s.centres.FindByIDForTenant(ctx, tenantID, centreID)
	if err != nil {
		return err
	}
	if err := c.SetTransferPassword(password); err != nil {
		return err
	}
	if err := s.centres.Save(ctx, c); err != nil {
		return err
	}
	s.logger.Info("transfer password updated", zap.String("centre_id", centreID.String()))
	return nil
}

// SetSalesTarget creates a revenue target for a centre and period.
func (s *Service) SetSalesTarget(ctx context.Context, tenantID, centreID uuid.UUID, start, end time.Time, target decimal.Decimal) (*centre.SalesTarget, error) {
	if _, err := s.centres.FindByIDForTenant(ctx, tenantID, centreID); err != nil {
		return nil, err
	}
	st, err := centre.NewSalesTarget(tenantID, centreID, start, end, target)
	if err != nil {
		return nil, err
	}
	if err := s.targets.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// GetSalesTarget returns the target covering the given date.
func (s *Service) GetSalesTarget(ctx context.Context, tenantID, centreID uuid.UUID, at time.Time) (*centre.SalesTarget, error) {
	return s.targets.FindActive(ctx, tenantID, centreID, at)
}

// Get loads one centre.
func (s *Service) Get(ctx context.Context, tenantID, centreID uuid.UUID) (*centre.Centre, error) {
	return s.centres.FindByIDForTenant(ctx, tenantID, centreID)
}

// List returns all centres of the tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]centre.Centre, error) {
	return s.centres.FindAll(ctx, tenantID)
}
