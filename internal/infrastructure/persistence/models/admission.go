package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/admission"
	"github.com/shopspring/decimal"
)

// AdmissionModel is the persistence model for the Admission aggregate.
// The installment schedule and the monthly billing history are JSONB
// sub-documents; everything money is decimal(15,2).
type AdmissionModel struct {
	TenantAggregateModel
	AdmissionNumber   string                 `gorm:"type:varchar(32);not null;index:idx_admissions_tenant_number,priority:2"`
	StudentID         uuid.UUID              `gorm:"type:uuid;not null;index"`
	CourseID          uuid.UUID              `gorm:"type:uuid;not null;index"`
	CentreID          uuid.UUID              `gorm:"type:uuid;not null;index"`
	ExamTagID         *uuid.UUID             `gorm:"type:uuid"`
	AcademicSession   string                 `gorm:"type:varchar(16)"`
	AdmissionType     string                 `gorm:"type:varchar(16);not null"`
	AdmissionDate     time.Time              `gorm:"not null"`
	CourseStartDate   time.Time              `gorm:"not null"`
	CourseDuration    int                    `gorm:"not null"`
	BaseFees          decimal.Decimal        `gorm:"type:decimal(15,2);not null"`
	FeeWaiver         decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	TaxableAmount     decimal.Decimal        `gorm:"type:decimal(15,2);not null"`
	CGST              decimal.Decimal        `gorm:"type:decimal(15,2);not null"`
	SGST              decimal.Decimal        `gorm:"type:decimal(15,2);not null"`
	PreviousBalance   decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	TotalFees         decimal.Decimal        `gorm:"type:decimal(15,2);not null"`
	DownPayment       decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	DownPaymentStatus string                 `gorm:"type:varchar(24);not null"`
	TotalPaidAmount   decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	RemainingAmount   decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	InstallmentCount  int                    `gorm:"not null"`
	InstallmentAmount decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	PaymentBreakdown  admission.Installments `gorm:"type:jsonb"`
	MonthlyBills      admission.MonthlyBills `gorm:"type:jsonb"`
	PaymentStatus     string                 `gorm:"type:varchar(16);not null;index"`
	Status            string                 `gorm:"type:varchar(16);not null;index"`
	DeactivatedAt     *time.Time
	Remarks           string `gorm:"type:text"`
}

// TableName returns the table name for AdmissionModel
func (AdmissionModel) TableName() string {
	return "admissions"
}

// ToDomain converts the model to the domain aggregate
func (m *AdmissionModel) ToDomain() *admission.Admission {
	a := &admission.Admission{
		AdmissionNumber:   m.AdmissionNumber,
		StudentID:         m.StudentID,
		CourseID:          m.CourseID,
		CentreID:          m.CentreID,
		ExamTagID:         m.ExamTagID,
		AcademicSession:   m.AcademicSession,
		AdmissionType:     admission.Type(m.AdmissionType),
		AdmissionDate:     m.AdmissionDate,
		CourseStartDate:   m.CourseStartDate,
		CourseDuration:    m.CourseDuration,
		BaseFees:          m.BaseFees,
		FeeWaiver:         m.FeeWaiver,
		TaxableAmount:     m.TaxableAmount,
		CGST:              m.CGST,
		SGST:              m.SGST,
		PreviousBalance:   m.PreviousBalance,
		TotalFees:         m.TotalFees,
		DownPayment:       m.DownPayment,
		DownPaymentStatus: admission.InstallmentStatus(m.DownPaymentStatus),
		TotalPaidAmount:   m.TotalPaidAmount,
		RemainingAmount:   m.RemainingAmount,
		InstallmentCount:  m.InstallmentCount,
		InstallmentAmount: m.InstallmentAmount,
		PaymentBreakdown:  m.PaymentBreakdown,
		MonthlyBills:      m.MonthlyBills,
		PaymentStatus:     admission.PaymentStatus(m.PaymentStatus),
		Status:            admission.Status(m.Status),
		DeactivatedAt:     m.DeactivatedAt,
		Remarks:           m.Remarks,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the model from the domain aggregate
func (m *AdmissionModel) FromDomain(a *admission.Admission) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.AdmissionNumber = a.AdmissionNumber
	m.StudentID = a.StudentID
	m.CourseID = a.CourseID
	m.CentreID = a.CentreID
	m.ExamTagID = a.ExamTagID
	m.AcademicSession = a.AcademicSession
	m.AdmissionType = a.AdmissionType.String()
	m.AdmissionDate = a.AdmissionDate
	m.CourseStartDate = a.CourseStartDate
	m.CourseDuration = a.CourseDuration
	m.BaseFees = a.BaseFees
	m.FeeWaiver = a.FeeWaiver
	m.TaxableAmount = a.TaxableAmount
	m.CGST = a.CGST
	m.SGST = a.SGST
	m.PreviousBalance = a.PreviousBalance
	m.TotalFees = a.TotalFees
	m.DownPayment = a.DownPayment
	m.DownPaymentStatus = a.DownPaymentStatus.String()
	m.TotalPaidAmount = a.TotalPaidAmount
	m.RemainingAmount = a.RemainingAmount
	m.InstallmentCount = a.InstallmentCount
	m.InstallmentAmount = a.InstallmentAmount
	m.PaymentBreakdown = a.PaymentBreakdown
	m.MonthlyBills = a.MonthlyBills
	m.PaymentStatus = a.PaymentStatus.String()
	m.Status = a.Status.String()
	m.DeactivatedAt = a.DeactivatedAt
	m.Remarks = a.Remarks
}
