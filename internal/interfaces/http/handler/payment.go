package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	paymentapp "github.com/pathshala/backend/internal/application/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// maxReceiptSize bounds uploaded receipt PDFs to 5 MiB
const maxReceiptSize = 5 << 20

// PaymentHandler exposes bills and receipts over HTTP
type PaymentHandler struct {
	BaseHandler
	billing *paymentapp.BillingService
}

// NewPaymentHandler creates a payment handler
func NewPaymentHandler(billing *paymentapp.BillingService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: NewBaseHandler(logger),
		billing:     billing,
	}
}

// List handles GET /admissions/:id/payments
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	admissionID, ok := h.pathID(c)
	if !ok {
		return
	}
	payments, err := h.billing.ListPayments(c.Request.Context(), tenantID, admissionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// GenerateBill handles POST /payments/:id/installments/:number/bill
func (h *PaymentHandler) GenerateBill(c *gin.Context) {
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
	p, err := h.billing.GenerateBill(c.Request.Context(), tenantID, admissionID, number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// ArchiveReceipt handles PUT /bills/:billId/receipt. The request body is
// the rendered PDF; the response carries a presigned URL for it.
func (h *PaymentHandler) ArchiveReceipt(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	billID := c.Param("billId")
	if billID == "" {
		h.HandleError(c, shared.NewDomainError("INVALID_BILL_ID", "Bill ID is required"))
		return
	}

	pdf, err := io.ReadAll(io.LimitReader(c.Request.Body, maxReceiptSize+1))
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	if len(pdf) == 0 {
		h.HandleError(c, shared.NewDomainError("INVALID_RECEIPT", "Receipt body is empty"))
		return
	}
	if len(pdf) > maxReceiptSize {
		h.HandleError(c, shared.NewDomainError("INVALID_RECEIPT", "Receipt exceeds the maximum allowed size"))
		return
	}

	url, err := h.billing.ArchiveReceipt(c.Request.Context(), tenantID, billID, pdf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"bill_id": billID, "url": url})
}
