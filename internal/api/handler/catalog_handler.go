package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"stylio/backend/internal/dto"
	"stylio/backend/internal/service"
	"stylio/backend/pkg/response"
)

// CatalogHandler 服务项目与员工 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
	staffSvc   service.StaffService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService, staffSvc service.StaffService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc, staffSvc: staffSvc}
}

// ────────────────────── 服务项目 ──────────────────────

// ListServices GET /api/v1/salons/:id/services
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalogSvc.ListServices(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": services})
}

// AddService POST /api/v1/owner/salons/:id/services
func (h *CatalogHandler) AddService(c *gin.Context) {
	var req dto.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	svc, err := h.catalogSvc.AddService(c.Request.Context(), ownerID, c.Param("id"), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.Created(c, svc)
}

// DeleteService DELETE /api/v1/owner/salons/:id/services/:service_id
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.catalogSvc.DeleteService(c.Request.Context(), ownerID, c.Param("id"), c.Param("service_id")); err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 员工 ──────────────────────

// ListStaff GET /api/v1/salons/:id/staff
func (h *CatalogHandler) ListStaff(c *gin.Context) {
	staff, err := h.staffSvc.ListStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": staff})
}

// AddStaff POST /api/v1/owner/salons/:id/staff
func (h *CatalogHandler) AddStaff(c *gin.Context) {
	var req dto.StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	staff, err := h.staffSvc.AddStaff(c.Request.Context(), ownerID, c.Param("id"), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.Created(c, staff)
}

// DeleteStaff DELETE /api/v1/owner/salons/:id/staff/:staff_id
func (h *CatalogHandler) DeleteStaff(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.staffSvc.DeleteStaff(c.Request.Context(), ownerID, c.Param("id"), c.Param("staff_id")); err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

// SetStaffSkills 整体替换员工可提供的服务
// PUT /api/v1/owner/salons/:id/staff/:staff_id/skills
func (h *CatalogHandler) SetStaffSkills(c *gin.Context) {
	var req dto.StaffSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	staff, err := h.staffSvc.SetStaffSkills(c.Request.Context(), ownerID, c.Param("id"), c.Param("staff_id"), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, staff)
}

// UploadStaffPhoto 上传员工照片（multipart 字段 photo）
// POST /api/v1/owner/salons/:id/staff/:staff_id/photo
func (h *CatalogHandler) UploadStaffPhoto(c *gin.Context) {
	fh, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, codeInvalidParams, "请选择要上传的图片")
		return
	}
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, codeInvalidParams, "读取上传文件失败")
		return
	}
	defer file.Close()

	staff, err := h.staffSvc.UploadStaffPhoto(c.Request.Context(), ownerID, c.Param("id"), c.Param("staff_id"), fh.Filename, file)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, staff)
}

// DeleteStaffPhoto DELETE /api/v1/owner/salons/:id/staff/:staff_id/photo
func (h *CatalogHandler) DeleteStaffPhoto(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	staff, err := h.staffSvc.DeleteStaffPhoto(c.Request.Context(), ownerID, c.Param("id"), c.Param("staff_id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, staff)
}

// handleCatalogError 统一处理服务项目与员工模块业务错误
func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSkillNotInSalon):
		response.BadRequest(c, codeSkillNotInSalon, "服务项目不属于该沙龙")
	case errors.Is(err, service.ErrStaffPhotoMissing):
		response.NotFound(c, codeStaffPhotoMissing, "员工没有上传照片")
	default:
		handleCommonError(c, err)
	}
}
