package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/pathshala/backend/internal/application/catalog"
	"github.com/pathshala/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// CatalogHandler exposes courses and exam tags over HTTP
type CatalogHandler struct {
	BaseHandler
	catalog *catalogapp.Service
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(catalog *catalogapp.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalog,
	}
}

// CreateCourse handles POST /courses
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	cmd := catalogapp.CreateCourseCommand{
		TenantID:       tenantID,
		Name:           req.Name,
		Code:           req.Code,
		DurationMonths: req.DurationMonths,
		IsBoard:        req.IsBoard,
		Subjects:       req.Subjects,
	}
	var err error
	if cmd.BaseFees, err = parseAmount(req.BaseFees); err != nil {
		h.HandleError(c, err)
		return
	}
	if cmd.MonthlyFee, err = parseAmount(req.MonthlyFee); err != nil {
		h.HandleError(c, err)
		return
	}
	course, err := h.catalog.CreateCourse(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, course)
}

// UpdateCourseFees handles PUT /courses/:id/fees
func (h *CatalogHandler) UpdateCourseFees(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateCourseFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	baseFees, err := parseAmount(req.BaseFees)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	course, err := h.catalog.UpdateCourseFees(c.Request.Context(), tenantID, id, baseFees)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}

// ListCourses handles GET /courses
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	courses, err := h.catalog.ListCourses(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, courses)
}

// CreateExamTag handles POST /exam-tags
func (h *CatalogHandler) CreateExamTag(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req dto.CreateExamTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	tag, err := h.catalog.CreateExamTag(c.Request.Context(), tenantID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tag)
}

// ListExamTags handles GET /exam-tags
func (h *CatalogHandler) ListExamTags(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	tags, err := h.catalog.ListExamTags(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tags)
}
