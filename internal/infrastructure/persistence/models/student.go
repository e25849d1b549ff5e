package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/student"
	"github.com/shopspring/decimal"
)

// StudentModel is the persistence model for the Student aggregate
type StudentModel struct {
	TenantAggregateModel
	Name                string          `gorm:"type:varchar(128);not null"`
	Phone               string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_students_tenant_phone,priority:2"`
	Email               string          `gorm:"type:varchar(128)"`
	GuardianName        string          `gorm:"type:varchar(128)"`
	GuardianPhone       string          `gorm:"type:varchar(20)"`
	Address             string          `gorm:"type:text"`
	DateOfBirth         *time.Time
	CentreID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status              string          `gorm:"type:varchar(16);not null;index"`
	CarryForwardBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DeactivatedAt       *time.Time
}

// TableName returns the table name for StudentModel
func (StudentModel) TableName() string {
	return "students"
}

// ToDomain converts the model to the domain aggregate
func (m *StudentModel) ToDomain() *student.Student {
	s := &student.Student{
		Name:                m.Name,
		Phone:               m.Phone,
		Email:               m.Email,
		GuardianName:        m.GuardianName,
		GuardianPhone:       m.GuardianPhone,
		Address:             m.Address,
		DateOfBirth:         m.DateOfBirth,
		CentreID:            m.CentreID,
		Status:              student.Status(m.Status),
		CarryForwardBalance: m.CarryForwardBalance,
		DeactivatedAt:       m.DeactivatedAt,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// FromDomain populates the model from the domain aggregate
func (m *StudentModel) FromDomain(s *student.Student) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Name = s.Name
	m.Phone = s.Phone
	m.Email = s.Email
	m.GuardianName = s.GuardianName
	m.GuardianPhone = s.GuardianPhone
	m.Address = s.Address
	m.DateOfBirth = s.DateOfBirth
	m.CentreID = s.CentreID
	m.Status = s.Status.String()
	m.CarryForwardBalance = s.CarryForwardBalance
	m.DeactivatedAt = s.DeactivatedAt
}
