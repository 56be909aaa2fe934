package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"stylio/backend/internal/dto"
	"stylio/backend/internal/service"
	"stylio/backend/pkg/response"
)

// HoursHandler 营业时间 HTTP 处理器
type HoursHandler struct {
	hoursSvc service.HoursService
}

// NewHoursHandler 创建 HoursHandler
func NewHoursHandler(hoursSvc service.HoursService) *HoursHandler {
	return &HoursHandler{hoursSvc: hoursSvc}
}

// ────────────────────── 每周营业时间 ──────────────────────

// ListWeeklyHours GET /api/v1/salons/:id/hours/weekly
func (h *HoursHandler) ListWeeklyHours(c *gin.Context) {
	list, err := h.hoursSvc.ListWeeklyHours(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleHoursError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// SetWeeklyHours PUT /api/v1/owner/salons/:id/hours/weekly/:weekday
func (h *HoursHandler) SetWeeklyHours(c *gin.Context) {
	weekday, ok := parseWeekday(c)
	if !ok {
		return
	}
	var req dto.HoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.hoursSvc.SetWeeklyHours(c.Request.Context(), ownerID, c.Param("id"), weekday, &req)
	if err != nil {
		h.handleHoursError(c, err)
		return
	}
	response.OK(c, entry)
}

// DeleteWeeklyHours 删除后恢复默认营业时间
// DELETE /api/v1/owner/salons/:id/hours/weekly/:weekday
func (h *HoursHandler) DeleteWeeklyHours(c *gin.Context) {
	weekday, ok := parseWeekday(c)
	if !ok {
		return
	}
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.hoursSvc.DeleteWeeklyHours(c.Request.Context(), ownerID, c.Param("id"), weekday); err != nil {
		h.handleHoursError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 特殊日期 ──────────────────────

// ListSpecialDays GET /api/v1/salons/:id/hours/special?from=YYYY-MM-DD
func (h *HoursHandler) ListSpecialDays(c *gin.Context) {
	var q dto.SpecialDayListRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		handleBindError(c, err)
		return
	}

	list, err := h.hoursSvc.ListSpecialDays(c.Request.Context(), c.Param("id"), q.From)
	if err != nil {
		h.handleHoursError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// SetSpecialDay PUT /api/v1/owner/salons/:id/hours/special/:date
func (h *HoursHandler) SetSpecialDay(c *gin.Context) {
	var req dto.HoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	day, err := h.hoursSvc.SetSpecialDay(c.Request.Context(), ownerID, c.Param("id"), c.Param("date"), &req)
	if err != nil {
		h.handleHoursError(c, err)
		return
	}
	response.OK(c, day)
}

// DeleteSpecialDay DELETE /api/v1/owner/salons/:id/hours/special/:date
func (h *HoursHandler) DeleteSpecialDay(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.hoursSvc.DeleteSpecialDay(c.Request.Context(), ownerID, c.Param("id"), c.Param("date")); err != nil {
		h.handleHoursError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 查询 ──────────────────────

// GetResolvedHours 某天实际生效的营业时间
// GET /api/v1/salons/:id/hours?date=YYYY-MM-DD
func (h *HoursHandler) GetResolvedHours(c *gin.Context) {
	var q dto.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handleBindError(c, err)
		return
	}

	resolved, err := h.hoursSvc.GetResolvedHours(c.Request.Context(), c.Param("id"), q.Date)
	if err != nil {
		h.handleHoursError(c, err)
		return
	}
	response.OK(c, resolved)
}

// GetHoursSummary GET /api/v1/salons/:id/hours/summary
func (h *HoursHandler) GetHoursSummary(c *gin.Context) {
	summary, err := h.hoursSvc.GetHoursSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleHoursError(c, err)
		return
	}
	response.OK(c, summary)
}

// parseWeekday 路径参数 weekday 必须是整数，范围由 service 校验
func parseWeekday(c *gin.Context) (int, bool) {
	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil {
		response.BadRequest(c, codeInvalidWeekday, "星期必须在 0-6 之间")
		return 0, false
	}
	return weekday, true
}

func (h *HoursHandler) handleHoursError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWeeklyEntryNotFound):
		response.NotFound(c, codeWeeklyNotFound, "该星期未设置营业时间")
	case errors.Is(err, service.ErrSpecialDayNotFound):
		response.NotFound(c, codeSpecialDayNotFound, "该日期未设置特殊营业时间")
	default:
		handleCommonError(c, err)
	}
}
