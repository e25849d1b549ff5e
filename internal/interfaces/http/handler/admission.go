package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	admissionapp "github.com/pathshala/backend/internal/application/admission"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// AdmissionHandler exposes the admission ledger over HTTP
type AdmissionHandler struct {
	BaseHandler
	admissions *admissionapp.Service
}

// NewAdmissionHandler creates an admission handler
func NewAdmissionHandler(admissions *admissionapp.Service, logger *zap.Logger) *AdmissionHandler {
	return &AdmissionHandler{
		BaseHandler: NewBaseHandler(logger),
		admissions:  admissions,
	}
}

// Create handles POST /admissions
func (h *AdmissionHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req dto.CreateAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	cmd := admissionapp.CreateAdmissionCommand{
		TenantID:             tenantID,
		StudentID:            uuid.MustParse(req.StudentID),
		CourseID:             uuid.MustParse(req.CourseID),
		CentreID:             uuid.MustParse(req.CentreID),
		AcademicSession:      req.AcademicSession,
		NumberOfInstallments: req.NumberOfInstallments,
	}
	if req.ExamTagID != "" {
		id := uuid.MustParse(req.ExamTagID)
		cmd.ExamTagID = &id
	}

	var err error
	if cmd.FeeWaiver, err = parseAmount(req.FeeWaiver); err != nil {
		h.HandleError(c, err)
		return
	}
	if cmd.DownPayment, err = parseAmount(req.DownPayment); err != nil {
		h.HandleError(c, err)
		return
	}
	if cmd.DownPaymentMethod, err = parseMethod(req.DownPaymentMethod); err != nil {
		h.HandleError(c, err)
		return
	}
	if cmd.AdmissionDate, err = parseDate(req.AdmissionDate); err != nil {
		h.HandleError(c, err)
		return
	}
	if cmd.AdmissionDate.IsZero() {
		cmd.AdmissionDate = time.Now()
	}
	if cmd.CourseStartDate, err = parseDate(req.CourseStartDate); err != nil {
		h.HandleError(c, err)
		return
	}

	a, err := h.admissions.CreateAdmission(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, a)
}

// Get handles GET /admissions/:id
func (h *AdmissionHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	a, err := h.admissions.GetAdmission(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// ListByCentre handles GET /centres/:id/admissions
func (h *AdmissionHandler) ListByCentre(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	centreID, ok := h.pathID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.admissions.ListByCentre(c.Request.Context(), tenantID, centreID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// RecordPayment handles PUT /admissions/:id/installments/:number/payment.
// Installment number 0 addresses the down payment.
func (h *AdmissionHandler) RecordPayment(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	admissionID, ok := h.pathID(c)
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 0 {
		h.HandleError(c, shared.NewDomainError("INVALID_INSTALLMENT", "Installment number must be a non-negative integer"))
		return
	}
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	cmd := admissionapp.RecordPaymentCommand{
		TenantID:          tenantID,
		AdmissionID:       admissionID,
		InstallmentNumber: number,
		TransactionID:     req.TransactionID,
		ChequeNumber:      req.ChequeNumber,
		Remarks:           req.Remarks,
	}
	if cmd.PaidAmount, err = parseAmount(req.PaidAmount); err != nil {
		h.HandleError(c, err)
		return
	}
	if cmd.Method, err = parseMethod(req.Method); err != nil {
		h.HandleError(c, err)
		return
	}
	if req.ChequeDate != "" {
		d, err := parseDate(req.ChequeDate)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		cmd.ChequeDate = &d
	}

	p, err := h.admissions.RecordInstallmentPayment(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if p == nil {
		// short payment: recorded on the installment, no receipt issued
		h.Success(c, gin.H{"payment": nil})
		return
	}
	h.Created(c, p)
}

// DivideInstallments handles PUT /admissions/:id/divide-installments
func (h *AdmissionHandler) DivideInstallments(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	admissionID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.DivideInstallmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	a, err := h.admissions.DivideRemainingInstallments(c.Request.Context(), tenantID, admissionID, req.NumberOfInstallments)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// TransferCourse handles POST /admissions/:id/transfer
func (h *AdmissionHandler) TransferCourse(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	admissionID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.TransferCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	cmd := admissionapp.TransferCourseCommand{
		TenantID:             tenantID,
		AdmissionID:          admissionID,
		NewCourseID:          uuid.MustParse(req.NewCourseID),
		NumberOfInstallments: req.NumberOfInstallments,
	}
	var err error
	if cmd.FeeWaiver, err = parseAmount(req.FeeWaiver); err != nil {
		h.HandleError(c, err)
		return
	}
	a, err := h.admissions.TransferCourse(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// GenerateMonthlyBill handles POST /admissions/:id/monthly-bill
func (h *AdmissionHandler) GenerateMonthlyBill(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	admissionID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.GenerateMonthlyBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	a, err := h.admissions.GenerateMonthlyBill(c.Request.Context(), admissionapp.GenerateMonthlyBillCommand{
		TenantID:    tenantID,
		AdmissionID: admissionID,
		FromMonth:   req.FromMonth,
		Subjects:    req.Subjects,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// PayMonthlyBill handles POST /admissions/:id/monthly-bill/pay
func (h *AdmissionHandler) PayMonthlyBill(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	admissionID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.PayMonthlyBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	method, err := parseMethod(req.Method)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, err := h.admissions.PayMonthlyBill(c.Request.Context(), tenantID, admissionID, req.Month, method)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// AdjustFees handles POST /admissions/:id/adjust-fees
func (h *AdmissionHandler) AdjustFees(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	admissionID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.AdjustFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	cmd := admissionapp.AdjustFeesCommand{
		TenantID:             tenantID,
		AdmissionID:          admissionID,
		NumberOfInstallments: req.NumberOfInstallments,
		Remarks:              req.Remarks,
	}
	var err error
	if cmd.TotalFees, err = parseAmount(req.TotalFees); err != nil {
		h.HandleError(c, err)
		return
	}
	if cmd.TotalPaid, err = parseAmount(req.TotalPaid); err != nil {
		h.HandleError(c, err)
		return
	}
	a, err := h.admissions.AdjustFees(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}
