package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/centre"
	"github.com/shopspring/decimal"
)

// CentreModel is the persistence model for the Centre aggregate
type CentreModel struct {
	TenantAggregateModel
	Name                 string          `gorm:"type:varchar(128);not null"`
	Code                 string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_centres_tenant_code,priority:2"`
	Address              string          `gorm:"type:text"`
	Phone                string          `gorm:"type:varchar(20)"`
	IsActive             bool            `gorm:"not null;default:true"`
	TransferPasswordHash string          `gorm:"type:varchar(80)"`
	OpeningCashBalance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
}

// TableName returns the table name for CentreModel
func (CentreModel) TableName() string {
	return "centres"
}

// ToDomain converts the model to the domain aggregate
func (m *CentreModel) ToDomain() *centre.Centre {
	c := &centre.Centre{
		Name:                 m.Name,
		Code:                 m.Code,
		Address:              m.Address,
		Phone:                m.Phone,
		IsActive:             m.IsActive,
		TransferPasswordHash: m.TransferPasswordHash,
		OpeningCashBalance:   m.OpeningCashBalance,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the model from the domain aggregate
func (m *CentreModel) FromDomain(c *centre.Centre) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Code = c.Code
	m.Address = c.Address
	m.Phone = c.Phone
	m.IsActive = c.IsActive
	m.TransferPasswordHash = c.TransferPasswordHash
	m.OpeningCashBalance = c.OpeningCashBalance
}

// SalesTargetModel is the persistence model for the SalesTarget aggregate
type SalesTargetModel struct {
	TenantAggregateModel
	CentreID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PeriodStart    time.Time       `gorm:"not null;index"`
	PeriodEnd      time.Time       `gorm:"not null;index"`
	TargetAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AchievedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
}

// TableName returns the table name for SalesTargetModel
func (SalesTargetModel) TableName() string {
	return "sales_targets"
}

// ToDomain converts the model to the domain aggregate
func (m *SalesTargetModel) ToDomain() *centre.SalesTarget {
	st := &centre.SalesTarget{
		CentreID:       m.CentreID,
		PeriodStart:    m.PeriodStart,
		PeriodEnd:      m.PeriodEnd,
		TargetAmount:   m.TargetAmount,
		AchievedAmount: m.AchievedAmount,
	}
	m.PopulateTenantAggregateRoot(&st.TenantAggregateRoot)
	return st
}

// FromDomain populates the model from the domain aggregate
func (m *SalesTargetModel) FromDomain(st *centre.SalesTarget) {
	m.FromDomainTenantAggregateRoot(st.TenantAggregateRoot)
	m.CentreID = st.CentreID
	m.PeriodStart = st.PeriodStart
	m.PeriodEnd = st.PeriodEnd
	m.TargetAmount = st.TargetAmount
	m.AchievedAmount = st.AchievedAmount
}
