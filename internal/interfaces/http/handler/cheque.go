package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pathshala/backend/internal/application/reconciliation"
	"github.com/pathshala/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ChequeHandler exposes cheque reconciliation over HTTP
type ChequeHandler struct {
	BaseHandler
	cheques *reconciliation.ChequeService
}

// NewChequeHandler creates a cheque handler
func NewChequeHandler(cheques *reconciliation.ChequeService, logger *zap.Logger) *ChequeHandler {
	return &ChequeHandler{
		BaseHandler: NewBaseHandler(logger),
		cheques:     cheques,
	}
}

// Clear handles POST /cheques/:id/clear
func (h *ChequeHandler) Clear(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	paymentID, ok := h.pathID(c)
	if !ok {
		return
	}
	p, err := h.cheques.ClearCheque(c.Request.Context(), tenantID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Reject handles POST /cheques/:id/reject
func (h *ChequeHandler) Reject(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	paymentID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.RejectChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	p, err := h.cheques.RejectCheque(c.Request.Context(), tenantID, paymentID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Cancel handles POST /cheques/:id/cancel
func (h *ChequeHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	paymentID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.RejectChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	p, err := h.cheques.CancelCheque(c.Request.Context(), tenantID, paymentID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}
