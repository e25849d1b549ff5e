package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cashtransferapp "github.com/pathshala/backend/internal/application/cashtransfer"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// CashTransferHandler exposes inter-centre cash movement over HTTP
type CashTransferHandler struct {
	BaseHandler
	transfers *cashtransferapp.Service
}

// NewCashTransferHandler creates a cash transfer handler
func NewCashTransferHandler(transfers *cashtransferapp.Service, logger *zap.Logger) *CashTransferHandler {
	return &CashTransferHandler{
		BaseHandler: NewBaseHandler(logger),
		transfers:   transfers,
	}
}

// Initiate handles POST /cash-transfers
func (h *CashTransferHandler) Initiate(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req dto.InitiateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	cmd := cashtransferapp.InitiateCommand{
		TenantID:         tenantID,
		FromCentreID:     uuid.MustParse(req.FromCentreID),
		ToCentreID:       uuid.MustParse(req.ToCentreID),
		InitiatedBy:      userID,
		TransferPassword: req.TransferPassword,
		Remarks:          req.Remarks,
	}
	var err error
	if cmd.Amount, err = parseAmount(req.Amount); err != nil {
		h.HandleError(c, err)
		return
	}
	ct, password, err := h.transfers.Initiate(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	// The one-time password is shown here and never again.
	h.Created(c, gin.H{"transfer": ct, "unique_password": password})
}

// ConfirmReceive handles POST /cash-transfers/:id/confirm-receive
func (h *CashTransferHandler) ConfirmReceive(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	transferID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.ConfirmReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	ct, err := h.transfers.ConfirmReceive(c.Request.Context(), tenantID, transferID, userID, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ct)
}

// Reject handles POST /cash-transfers/:id/reject
func (h *CashTransferHandler) Reject(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	transferID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.CancelTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	ct, err := h.transfers.Reject(c.Request.Context(), tenantID, transferID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ct)
}

// Cancel handles POST /cash-transfers/:id/cancel
func (h *CashTransferHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	transferID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.CancelTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	ct, err := h.transfers.Cancel(c.Request.Context(), tenantID, transferID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ct)
}

// UploadReceipt handles PUT /cash-transfers/:id/receipt. The request body
// is the scanned handoff receipt PDF.
func (h *CashTransferHandler) UploadReceipt(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	transferID, ok := h.pathID(c)
	if !ok {
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

	url, err := h.transfers.AttachReceipt(c.Request.Context(), tenantID, transferID, pdf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"transfer_id": transferID, "url": url})
}

// ListByCentre handles GET /centres/:id/cash-transfers
func (h *CashTransferHandler) ListByCentre(c *gin.Context) {
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
	page, err := h.transfers.ListByCentre(c.Request.Context(), tenantID, centreID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// CashOnHand handles GET /centres/:id/cash-on-hand
func (h *CashTransferHandler) CashOnHand(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	centreID, ok := h.pathID(c)
	if !ok {
		return
	}
	amount, err := h.transfers.CashOnHand(c.Request.Context(), tenantID, centreID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"centre_id": centreID, "cash_on_hand": amount})
}
