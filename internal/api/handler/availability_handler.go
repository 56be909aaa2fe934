package handler

import (
	"github.com/gin-gonic/gin"

	"stylio/backend/internal/dto"
	"stylio/backend/internal/service"
	"stylio/backend/pkg/response"
)

// AvailabilityHandler 员工不可用时间 HTTP 处理器
type AvailabilityHandler struct {
	availSvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availSvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availSvc: availSvc}
}

// SetUnavailability 整体替换员工当天的不可用时间，times 为空表示全天
// PUT /api/v1/owner/salons/:id/staff/:staff_id/unavailability/:date
func (h *AvailabilityHandler) SetUnavailability(c *gin.Context) {
	var req dto.UnavailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.availSvc.SetUnavailability(c.Request.Context(), ownerID, c.Param("id"), c.Param("staff_id"), c.Param("date"), req.Times)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, result)
}

// ClearUnavailability DELETE /api/v1/owner/salons/:id/staff/:staff_id/unavailability/:date
func (h *AvailabilityHandler) ClearUnavailability(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.availSvc.ClearUnavailability(c.Request.Context(), ownerID, c.Param("id"), c.Param("staff_id"), c.Param("date")); err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, nil)
}

// GetUnavailability GET /api/v1/owner/salons/:id/staff/:staff_id/unavailability/:date
func (h *AvailabilityHandler) GetUnavailability(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.availSvc.GetUnavailability(c.Request.Context(), ownerID, c.Param("id"), c.Param("staff_id"), c.Param("date"))
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, result)
}
