package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"stylio/backend/internal/dto"
	"stylio/backend/internal/service"
	"stylio/backend/pkg/response"
)

// BookingHandler 预约 HTTP 处理器（只做校验与记录，不落库）
type BookingHandler struct {
	bookingSvc service.BookingService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

// GetBookingOptions GET /api/v1/salons/:id/booking/options
func (h *BookingHandler) GetBookingOptions(c *gin.Context) {
	options, err := h.bookingSvc.GetBookingOptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	response.OK(c, options)
}

// CheckSlot GET /api/v1/salons/:id/booking/slots?date=&time=&staff_id=
func (h *BookingHandler) CheckSlot(c *gin.Context) {
	var q dto.SlotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handleBindError(c, err)
		return
	}

	result, err := h.bookingSvc.CheckSlot(c.Request.Context(), c.Param("id"), &q)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	response.OK(c, result)
}

// SubmitBooking POST /api/v1/salons/:id/bookings
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.bookingSvc.SubmitBooking(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	response.Created(c, result)
}

func (h *BookingHandler) handleBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStaffUnavailable):
		response.Unprocessable(c, codeStaffUnavailable, "该员工此时段不可预约", slotDetails(err))
	case errors.Is(err, service.ErrStaffNoSkill):
		response.Unprocessable(c, codeStaffNoSkill, "该员工不提供此服务", "")
	default:
		handleCommonError(c, err)
	}
}
