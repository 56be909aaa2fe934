package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"stylio/backend/internal/dto"
	"stylio/backend/internal/service"
	"stylio/backend/pkg/response"
)

// SalonHandler 沙龙模块 HTTP 处理器
type SalonHandler struct {
	salonSvc service.SalonService
}

// NewSalonHandler 创建 SalonHandler
func NewSalonHandler(salonSvc service.SalonService) *SalonHandler {
	return &SalonHandler{salonSvc: salonSvc}
}

// ListSalons 首页沙龙列表
// GET /api/v1/salons
func (h *SalonHandler) ListSalons(c *gin.Context) {
	salons, err := h.salonSvc.ListSalons(c.Request.Context())
	if err != nil {
		h.handleSalonError(c, err)
		return
	}

	response.OK(c, gin.H{"list": salons})
}

// GetSalon 沙龙详情
// GET /api/v1/salons/:id
func (h *SalonHandler) GetSalon(c *gin.Context) {
	detail, err := h.salonSvc.GetSalon(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSalonError(c, err)
		return
	}

	response.OK(c, detail)
}

// ListMySalons 当前店主的沙龙
// GET /api/v1/owner/salons
func (h *SalonHandler) ListMySalons(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	salons, err := h.salonSvc.ListMySalons(c.Request.Context(), ownerID)
	if err != nil {
		h.handleSalonError(c, err)
		return
	}

	response.OK(c, gin.H{"list": salons})
}

// CreateSalon 创建沙龙
// POST /api/v1/owner/salons
func (h *SalonHandler) CreateSalon(c *gin.Context) {
	var req dto.SalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	detail, err := h.salonSvc.CreateSalon(c.Request.Context(), ownerID, &req)
	if err != nil {
		h.handleSalonError(c, err)
		return
	}

	response.Created(c, detail)
}

// UpdateSalon 更新沙龙
// PUT /api/v1/owner/salons/:id
func (h *SalonHandler) UpdateSalon(c *gin.Context) {
	var req dto.SalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	detail, err := h.salonSvc.UpdateSalon(c.Request.Context(), ownerID, c.Param("id"), &req)
	if err != nil {
		h.handleSalonError(c, err)
		return
	}

	response.OK(c, detail)
}

// DeleteSalon 删除沙龙及其全部数据
// DELETE /api/v1/owner/salons/:id
func (h *SalonHandler) DeleteSalon(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.salonSvc.DeleteSalon(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		h.handleSalonError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSalonError 统一处理沙龙模块业务错误
func (h *SalonHandler) handleSalonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMapLink):
		response.BadRequest(c, codeInvalidMapLink, "地图链接必须是 Google Maps 链接")
	default:
		handleCommonError(c, err)
	}
}
