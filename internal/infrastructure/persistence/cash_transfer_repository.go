package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/cashtransfer"
	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCashTransferRepository implements cashtransfer.Repository using GORM
type GormCashTransferRepository struct {
	db *gorm.DB
}

// NewGormCashTransferRepository creates a new GormCashTransferRepository
func NewGormCashTransferRepository(db *gorm.DB) *GormCashTransferRepository {
	return &GormCashTransferRepository{db: db}
}

// FindByID finds a cash transfer by its ID
func (r *GormCashTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashtransfer.CashTransfer, error) {
	var model models.CashTransferModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a cash transfer by ID within a tenant
func (r *GormCashTransferRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*cashtransfer.CashTransfer, error) {
	var model models.CashTransferModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCentre finds transfers touching a centre in either direction,
// paginated
func (r *GormCashTransferRepository) FindByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[cashtransfer.CashTransfer], error) {
	base := func() *gorm.DB {
		q := conn(ctx, r.db).Model(&models.CashTransferModel{}).
			Where("tenant_id = ? AND (from_centre_id = ? OR to_centre_id = ?)", tenantID, centreID, centreID)
		if filter.Search != "" {
			q = q.Where("transfer_number ILIKE ?", "%"+filter.Search+"%")
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	var transferModels []models.CashTransferModel
	if err := applyFilter(base(), filter).Find(&transferModels).Error; err != nil {
		return nil, err
	}

	transfers := make([]cashtransfer.CashTransfer, len(transferModels))
	for i, model := range transferModels {
		transfers[i] = *model.ToDomain()
	}
	page := shared.NewPaginated(transfers, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a cash transfer
func (r *GormCashTransferRepository) Save(ctx context.Context, ct *cashtransfer.CashTransfer) error {
	var model models.CashTransferModel
	model.FromDomain(ct)
	return conn(ctx, r.db).Save(&model).Error
}

// NextTransferNumber allocates the next serial for the tenant's current
// fiscal year, e.g. "CT-2026-27-000017". The highest issued row is locked
// to serialize concurrent allocations.
func (r *GormCashTransferRepository) NextTransferNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	fiscalYear := payment.FiscalYearLabel(time.Now())
	prefix := "CT-" + fiscalYear + "-"

	var numbers []string
	if err := conn(ctx, r.db).
		Model(&models.CashTransferModel{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND transfer_number LIKE ?", tenantID, prefix+"%").
		Order("transfer_number DESC").
		Limit(1).
		Pluck("transfer_number", &numbers).Error; err != nil {
		return "", err
	}

	seq := 0
	if len(numbers) > 0 {
		suffix := strings.TrimPrefix(numbers[0], prefix)
		if n, err := strconv.Atoi(suffix); err == nil {
			seq = n
		}
	}
	return cashtransfer.FormatTransferNumber(fiscalYear, seq+1), nil
}

// SumOutgoing totals transfers debited from a centre. PENDING counts
// alongside RECEIVED because the cash already left the drawer.
func (r *GormCashTransferRepository) SumOutgoing(ctx context.Context, tenantID, centreID uuid.UUID) (decimal.Decimal, error) {
	return r.sumTransfers(ctx, "from_centre_id", tenantID, centreID,
		[]string{cashtransfer.StatusPending.String(), cashtransfer.StatusReceived.String()})
}

// SumIncoming totals RECEIVED transfers credited to a centre
func (r *GormCashTransferRepository) SumIncoming(ctx context.Context, tenantID, centreID uuid.UUID) (decimal.Decimal, error) {
	return r.sumTransfers(ctx, "to_centre_id", tenantID, centreID,
		[]string{cashtransfer.StatusReceived.String()})
}

func (r *GormCashTransferRepository) sumTransfers(ctx context.Context, centreColumn string, tenantID, centreID uuid.UUID, statuses []string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := conn(ctx, r.db).
		Model(&models.CashTransferModel{}).
		Select("SUM(amount)").
		Where("tenant_id = ? AND "+centreColumn+" = ? AND status IN ?", tenantID, centreID, statuses).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Ensure GormCashTransferRepository implements cashtransfer.Repository
var _ cashtransfer.Repository = (*GormCashTransferRepository)(nil)
