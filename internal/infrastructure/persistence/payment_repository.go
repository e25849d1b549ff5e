package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a payment by ID within a tenant
func (r *GormPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payment.Payment, error) {
	var model models.PaymentModel
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

// FindByAdmissionInstallment locates the mirror record for one installment
// of one admission, number 0 being the down payment. Monthly board rows
// also sit at installment 0 but carry a billing month, so they are
// excluded. Terminal rejects and cancels are skipped so a retried payment
// creates a fresh record.
func (r *GormPaymentRepository) FindByAdmissionInstallment(ctx context.Context, tenantID, admissionID uuid.UUID, installmentNumber int) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND admission_id = ? AND installment_number = ? AND billing_month = '' AND status NOT IN ?",
			tenantID, admissionID, installmentNumber,
			[]string{payment.StatusRejected.String(), payment.StatusCancelled.String()}).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAdmissionMonth locates the payment record for one billing month of
// a board admission
func (r *GormPaymentRepository) FindByAdmissionMonth(ctx context.Context, tenantID, admissionID uuid.UUID, billingMonth string) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND admission_id = ? AND billing_month = ? AND status NOT IN ?",
			tenantID, admissionID, billingMonth,
			[]string{payment.StatusRejected.String(), payment.StatusCancelled.String()}).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAdmission finds all payments of an admission, oldest first
func (r *GormPaymentRepository) FindByAdmission(ctx context.Context, tenantID, admissionID uuid.UUID) ([]payment.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND admission_id = ?", tenantID, admissionID).
		Order("created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]payment.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	var model models.PaymentModel
	model.FromDomain(p)
	return conn(ctx, r.db).Save(&model).Error
}

// NextBillID allocates the next bill number under the centre's current
// fiscal-year prefix. The highest issued bill row is locked so concurrent
// issuance inside parallel transactions serializes instead of colliding.
// With no bill under the prefix yet the sequence starts at 1; a legacy
// global bill never matches a fiscal prefix, so legacy history does not
// leak into new sequences.
func (r *GormPaymentRepository) NextBillID(ctx context.Context, tenantID uuid.UUID, centreCode string) (string, error) {
	prefix := payment.BillPrefix(centreCode, time.Now())

	var billIDs []string
	if err := conn(ctx, r.db).
		Model(&models.PaymentModel{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND bill_id LIKE ?", tenantID, prefix+"%").
		Order("bill_id DESC").
		Limit(1).
		Pluck("bill_id", &billIDs).Error; err != nil {
		return "", err
	}

	last := ""
	if len(billIDs) > 0 {
		last = billIDs[0]
	}
	return payment.NextBillID(prefix, last), nil
}

// SumCashCollected totals confirmed cash receipts for a centre
func (r *GormPaymentRepository) SumCashCollected(ctx context.Context, tenantID, centreID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := conn(ctx, r.db).
		Model(&models.PaymentModel{}).
		Select("SUM(paid_amount)").
		Where("tenant_id = ? AND centre_id = ? AND method = ? AND status = ?",
			tenantID, centreID, payment.MethodCash, payment.StatusPaid).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Ensure GormPaymentRepository implements payment.Repository
var _ payment.Repository = (*GormPaymentRepository)(nil)
