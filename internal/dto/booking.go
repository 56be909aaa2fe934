package dto

import "stylio/backend/internal/availability"

// ── 预约模块 DTO ──

// BookingOptionsResponse 预约页可选项
type BookingOptionsResponse struct {
	Services      []ServiceResponse   `json:"services"`
	Staff         []StaffResponse     `json:"staff"`
	StaffServices map[string][]string `json:"staff_services"` // staff_id → service_ids
}

// SlotQuery 时段可用性查询
type SlotQuery struct {
	Date    string `form:"date"     binding:"required,isodate"`
	Time    string `form:"time"     binding:"omitempty,hhmm"`
	StaffID string `form:"staff_id" binding:"omitempty,uuid"`
}

// 不可预约原因
const (
	ReasonClosed           = "closed"
	ReasonOutsideHours     = "outside_hours"
	ReasonInvalidSlot      = "invalid_slot"
	ReasonStaffUnavailable = "staff_unavailable"
)

// SlotCheckResponse 时段可用性结果
// 未指定 time 时 Slots 列出当天可预约的全部时段
type SlotCheckResponse struct {
	Date     string             `json:"date"`
	Hours    availability.Hours `json:"hours"`
	Time     string             `json:"time,omitempty"`
	Bookable bool               `json:"bookable"`
	Reason   string             `json:"reason,omitempty"`
	Slots    []string           `json:"slots,omitempty"`
}

// BookingRequest 预约请求（只校验与记录，不落库）
type BookingRequest struct {
	ServiceID     string `json:"service_id"     binding:"required,uuid"`
	StaffID       string `json:"staff_id"       binding:"omitempty,uuid"`
	Date          string `json:"date"           binding:"required,isodate"`
	Time          string `json:"time"           binding:"required,hhmm"`
	CustomerName  string `json:"customer_name"  binding:"required,max=120"`
	CustomerPhone string `json:"customer_phone" binding:"required,max=40"`
	Note          string `json:"note"           binding:"max=500"`
}

// BookingResponse 预约受理结果
type BookingResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
