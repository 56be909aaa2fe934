package dto

import "stylio/backend/internal/availability"

// ── 营业时间模块 DTO ──

// HoursRequest 每周 / 特殊日期营业时间请求
// closed=true 时忽略 start_time / end_time
type HoursRequest struct {
	Closed    bool    `json:"closed"`
	StartTime *string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime   *string `json:"end_time"   binding:"omitempty,hhmm"`
}

// WeeklyHoursResponse 每周营业时间（含默认值补全后的结果）
type WeeklyHoursResponse struct {
	Weekday    int                `json:"weekday"`
	Day        string             `json:"day"`
	Configured bool               `json:"configured"` // false 表示使用默认营业时间
	Hours      availability.Hours `json:"hours"`
}

// SpecialDayResponse 特殊日期
type SpecialDayResponse struct {
	Date  string             `json:"date"`
	Hours availability.Hours `json:"hours"`
	Label string             `json:"label"`
}

// SpecialDayListRequest 特殊日期查询参数
type SpecialDayListRequest struct {
	From string `form:"from" binding:"omitempty,isodate"`
}

// DateQuery 日期查询参数
type DateQuery struct {
	Date string `form:"date" binding:"required,isodate"`
}

// ResolvedHoursResponse 某天的最终营业时间
type ResolvedHoursResponse struct {
	Date    string             `json:"date"`
	Weekday int                `json:"weekday"`
	Day     string             `json:"day"`
	Hours   availability.Hours `json:"hours"`
	Label   string             `json:"label"`
}

// HoursSummaryResponse 营业时间展示：合并后的每周时间 + 近期特殊日期
type HoursSummaryResponse struct {
	WeeklyHours         []string                      `json:"weekly_hours"`
	UpcomingSpecialDays []availability.SpecialDayLine `json:"upcoming_special_days"`
}

// ── 员工不可用时间 ──

// UnavailabilityRequest 设置员工某天不可用时段；times 为空表示全天不可用
type UnavailabilityRequest struct {
	Times []string `json:"times" binding:"omitempty,max=48,dive,hhmm"`
}

// UnavailabilityResponse 员工某天不可用情况
type UnavailabilityResponse struct {
	StaffID string   `json:"staff_id"`
	Date    string   `json:"date"`
	AllDay  bool     `json:"all_day"`
	Times   []string `json:"times"`
}
