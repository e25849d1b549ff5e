package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate.
// BillID carries a sparse unique index: cheques have no bill until they
// clear, and two payments must never share one.
type PaymentModel struct {
	TenantAggregateModel
	AdmissionID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	AdmissionNumber   string          `gorm:"type:varchar(32);not null;index"`
	CentreID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	InstallmentNumber int             `gorm:"not null"`
	BillingMonth      string          `gorm:"type:varchar(7);not null;default:''"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status            string          `gorm:"type:varchar(24);not null;index"`
	Method            string          `gorm:"type:varchar(16);not null"`
	CourseFee         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CGST              decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SGST              decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	BillID            *string         `gorm:"type:varchar(40);uniqueIndex:idx_payments_bill_id,where:bill_id IS NOT NULL"`
	TransactionID     string          `gorm:"type:varchar(64)"`
	ChequeNumber      string          `gorm:"type:varchar(32)"`
	ChequeDate        *time.Time
	VarianceAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	IsCarryForward    bool            `gorm:"not null;default:false"`
	PaidDate          *time.Time
	Remarks           string `gorm:"type:text"`
}

// TableName returns the table name for PaymentModel
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to the domain aggregate
func (m *PaymentModel) ToDomain() *payment.Payment {
	p := &payment.Payment{
		AdmissionID:       m.AdmissionID,
		AdmissionNumber:   m.AdmissionNumber,
		CentreID:          m.CentreID,
		InstallmentNumber: m.InstallmentNumber,
		BillingMonth:      m.BillingMonth,
		Amount:            m.Amount,
		PaidAmount:        m.PaidAmount,
		Status:            payment.Status(m.Status),
		Method:            payment.Method(m.Method),
		CourseFee:         m.CourseFee,
		CGST:              m.CGST,
		SGST:              m.SGST,
		TotalAmount:       m.TotalAmount,
		BillID:            m.BillID,
		TransactionID:     m.TransactionID,
		ChequeNumber:      m.ChequeNumber,
		ChequeDate:        m.ChequeDate,
		VarianceAmount:    m.VarianceAmount,
		IsCarryForward:    m.IsCarryForward,
		PaidDate:          m.PaidDate,
		Remarks:           m.Remarks,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the model from the domain aggregate
func (m *PaymentModel) FromDomain(p *payment.Payment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.AdmissionID = p.AdmissionID
	m.AdmissionNumber = p.AdmissionNumber
	m.CentreID = p.CentreID
	m.InstallmentNumber = p.InstallmentNumber
	m.BillingMonth = p.BillingMonth
	m.Amount = p.Amount
	m.PaidAmount = p.PaidAmount
	m.Status = p.Status.String()
	m.Method = string(p.Method)
	m.CourseFee = p.CourseFee
	m.CGST = p.CGST
	m.SGST = p.SGST
	m.TotalAmount = p.TotalAmount
	m.BillID = p.BillID
	m.TransactionID = p.TransactionID
	m.ChequeNumber = p.ChequeNumber
	m.ChequeDate = p.ChequeDate
	m.VarianceAmount = p.VarianceAmount
	m.IsCarryForward = p.IsCarryForward
	m.PaidDate = p.PaidDate
	m.Remarks = p.Remarks
}
