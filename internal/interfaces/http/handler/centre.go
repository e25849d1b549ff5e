package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	centreapp "github.com/pathshala/backend/internal/application/centre"
	"github.com/pathshala/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// CentreHandler exposes centre administration over HTTP
type CentreHandler struct {
	BaseHandler
	centres *centreapp.Service
}

// NewCentreHandler creates a centre handler
func NewCentreHandler(centres *centreapp.Service, logger *zap.Logger) *CentreHandler {
	return &CentreHandler{
		BaseHandler: NewBaseHandler(logger),
		centres:     centres,
	}
}

// Create handles POST /centres
func (h *CentreHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req dto.CreateCentreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	cmd := centreapp.CreateCommand{
		TenantID: tenantID,
		Name:     req.Name,
		Code:     req.Code,
		Address:  req.Address,
		Phone:    req.Phone,
	}
	var err error
	if cmd.OpeningCashBalance, err = parseAmount(req.OpeningCashBalance); err != nil {
		h.HandleError(c, err)
		return
	}
	ctr, err := h.centres.Create(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ctr)
}

// Get handles GET /centres/:id
func (h *CentreHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ctr, err := h.centres.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ctr)
}

// List handles GET /centres
func (h *CentreHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	centres, err := h.centres.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, centres)
}

// SetTransferPassword handles PUT /centres/:id/transfer-password
func (h *CentreHandler) SetTransferPassword(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.SetTransferPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	if err := h.centres.SetTransferPassword(c.Request.Context(), tenantID, id, req.Password); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"centre_id": id})
}

// SetSalesTarget handles POST /centres/:id/sales-targets
func (h *CentreHandler) SetSalesTarget(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.SetSalesTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	start, err := parseDate(req.PeriodStart)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	st, err := h.centres.SetSalesTarget(c.Request.Context(), tenantID, id, start, end, target)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, st)
}

// GetSalesTarget handles GET /centres/:id/sales-targets/current
func (h *CentreHandler) GetSalesTarget(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	at := time.Now()
	if q := c.Query("at"); q != "" {
		parsed, err := parseDate(q)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		at = parsed
	}
	st, err := h.centres.GetSalesTarget(c.Request.Context(), tenantID, id, at)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, st)
}
