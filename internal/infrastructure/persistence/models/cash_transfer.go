package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/cashtransfer"
	"github.com/shopspring/decimal"
)

// CashTransferModel is the persistence model for the CashTransfer aggregate
type CashTransferModel struct {
	TenantAggregateModel
	TransferNumber string          `gorm:"type:varchar(24);not null;uniqueIndex:idx_cash_transfers_tenant_number,priority:2"`
	FromCentreID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ToCentreID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status         string          `gorm:"type:varchar(16);not null;index"`
	UniquePassword string          `gorm:"type:varchar(12);not null"`
	ReceiptKey     string          `gorm:"type:text;not null;default:''"`
	InitiatedBy    uuid.UUID       `gorm:"type:uuid;not null"`
	ReceivedBy     *uuid.UUID      `gorm:"type:uuid"`
	InitiatedAt    time.Time       `gorm:"not null"`
	ReceivedAt     *time.Time
	Remarks        string `gorm:"type:text"`
}

// TableName returns the table name for CashTransferModel
func (CashTransferModel) TableName() string {
	return "cash_transfers"
}

// ToDomain converts the model to the domain aggregate
func (m *CashTransferModel) ToDomain() *cashtransfer.CashTransfer {
	ct := &cashtransfer.CashTransfer{
		TransferNumber: m.TransferNumber,
		FromCentreID:   m.FromCentreID,
		ToCentreID:     m.ToCentreID,
		Amount:         m.Amount,
		Status:         cashtransfer.Status(m.Status),
		UniquePassword: m.UniquePassword,
		ReceiptKey:     m.ReceiptKey,
		InitiatedBy:    m.InitiatedBy,
		ReceivedBy:     m.ReceivedBy,
		InitiatedAt:    m.InitiatedAt,
		ReceivedAt:     m.ReceivedAt,
		Remarks:        m.Remarks,
	}
	m.PopulateTenantAggregateRoot(&ct.TenantAggregateRoot)
	return ct
}

// FromDomain populates the model from the domain aggregate
func (m *CashTransferModel) FromDomain(ct *cashtransfer.CashTransfer) {
	m.FromDomainTenantAggregateRoot(ct.TenantAggregateRoot)
	m.TransferNumber = ct.TransferNumber
	m.FromCentreID = ct.FromCentreID
	m.ToCentreID = ct.ToCentreID
	m.Amount = ct.Amount
	m.Status = ct.Status.String()
	m.UniquePassword = ct.UniquePassword
	m.ReceiptKey = ct.ReceiptKey
	m.InitiatedBy = ct.InitiatedBy
	m.ReceivedBy = ct.ReceivedBy
	m.InitiatedAt = ct.InitiatedAt
	m.ReceivedAt = ct.ReceivedAt
	m.Remarks = ct.Remarks
}
