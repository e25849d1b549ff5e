package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	studentapp "github.com/pathshala/backend/internal/application/student"
	"github.com/pathshala/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// StudentHandler exposes student management over HTTP
type StudentHandler struct {
	BaseHandler
	students *studentapp.Service
}

// NewStudentHandler creates a student handler
func NewStudentHandler(students *studentapp.Service, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		students:    students,
	}
}

// Register handles POST /students
func (h *StudentHandler) Register(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	stu, err := h.students.Register(c.Request.Context(), studentapp.RegisterCommand{
		TenantID:      tenantID,
		CentreID:      uuid.MustParse(req.CentreID),
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
		Address:       req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, stu)
}

// Get handles GET /students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	stu, err := h.students.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stu)
}

// Deactivate handles POST /students/:id/deactivate
func (h *StudentHandler) Deactivate(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.students.Deactivate(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"student_id": id, "status": "INACTIVE"})
}

// Reactivate handles POST /students/:id/reactivate
func (h *StudentHandler) Reactivate(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.students.Reactivate(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"student_id": id, "status": "ACTIVE"})
}

// ListByCentre handles GET /centres/:id/students
func (h *StudentHandler) ListByCentre(c *gin.Context) {
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
	page, err := h.students.ListByCentre(c.Request.Context(), tenantID, centreID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}
