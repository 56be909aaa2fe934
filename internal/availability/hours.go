package availability

import (
	"fmt"

	"stylio/backend/internal/model"
)

// ── 营业时间解析 ──────────────────────────────────────────────
//
// 优先级（高 → 低）：
//   1. 特殊日期覆盖：原样返回；营业但缺少某个时间字段时退回默认值
//   2. 当天星期的每周设置：休息 → 休息；营业 → 其时间，缺失字段退回默认值
//   3. 没有任何设置：默认营业时间（09:00–19:00），不是休息
//
// 展示与校验都只调用 ResolveHours，不自行推导营业时间。
// ─────────────────────────────────────────────────────────────

// Policy 营业时间默认值与可预约时段
type Policy struct {
	DefaultOpen   string
	DefaultClose  string
	Slots         []string // 升序的可预约时段标签
	UpcomingLimit int
}

// DefaultPolicy 09:00–19:00 默认营业，08:00–22:00 整点时段，展示 3 个近期特殊日期
func DefaultPolicy() Policy {
	slots, _ := BuildSlots("08:00", "22:00", 60)
	return Policy{
		DefaultOpen:   "09:00",
		DefaultClose:  "19:00",
		Slots:         slots,
		UpcomingLimit: 3,
	}
}

// NewPolicy 根据配置构造 Policy
func NewPolicy(defaultOpen, defaultClose, slotFirst, slotLast string, stepMinutes, upcoming int) (Policy, error) {
	if err := ValidateWindow(false, &defaultOpen, &defaultClose); err != nil {
		return Policy{}, fmt.Errorf("默认营业时间无效: %w", err)
	}
	slots, err := BuildSlots(slotFirst, slotLast, stepMinutes)
	if err != nil {
		return Policy{}, err
	}
	if upcoming < 0 {
		upcoming = 0
	}
	return Policy{
		DefaultOpen:   defaultOpen,
		DefaultClose:  defaultClose,
		Slots:         slots,
		UpcomingLimit: upcoming,
	}, nil
}

// Hours 某一天最终的营业状态
type Hours struct {
	Closed bool   `json:"closed"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// ResolveHours 按优先级解析某天的营业时间。
// weekly 为该日期星期对应的每周设置，override 为该日期的特殊设置，均可为 nil。
func (p Policy) ResolveHours(weekly *model.WeeklySchedule, override *model.SpecialDay) Hours {
	if override != nil {
		if override.Closed {
			return Hours{Closed: true}
		}
		return p.openHours(override.StartTime, override.EndTime)
	}
	if weekly == nil {
		return Hours{Start: p.DefaultOpen, End: p.DefaultClose}
	}
	if weekly.Closed {
		return Hours{Closed: true}
	}
	return p.openHours(weekly.StartTime, weekly.EndTime)
}

func (p Policy) openHours(start, end *string) Hours {
	h := Hours{Start: p.DefaultOpen, End: p.DefaultClose}
	if start != nil && *start != "" {
		h.Start = *start
	}
	if end != nil && *end != "" {
		h.End = *end
	}
	return h
}

// Contains 判断 t 是否落在 [Start, End) 内；休息日恒为 false
func (h Hours) Contains(t string) bool {
	if h.Closed {
		return false
	}
	tm, err := ParseClock(t)
	if err != nil {
		return false
	}
	start, err := ParseClock(h.Start)
	if err != nil {
		return false
	}
	end, err := ParseClock(h.End)
	if err != nil {
		return false
	}
	return tm >= start && tm < end
}

// ValidateWindow 写入侧校验：营业时必须同时给出开始与结束，且开始早于结束
func ValidateWindow(closed bool, start, end *string) error {
	if closed {
		return nil
	}
	if start == nil || end == nil || *start == "" || *end == "" {
		return ErrInvalidHours
	}
	s, err := ParseClock(*start)
	if err != nil {
		return &SlotError{Err: ErrInvalidHours, Time: *start}
	}
	e, err := ParseClock(*end)
	if err != nil {
		return &SlotError{Err: ErrInvalidHours, Time: *end}
	}
	if s >= e {
		return ErrInvalidHours
	}
	return nil
}

// ValidateWeekday 校验星期索引 0-6
func ValidateWeekday(weekday int) error {
	if weekday < 0 || weekday > 6 {
		return ErrInvalidWeekday
	}
	return nil
}

// ParseClock 解析严格的 "HH:MM" 为当天分钟数
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("时间格式应为 HH:MM: %q", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("时间格式应为 HH:MM: %q", s)
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	if hh > 23 || mm > 59 {
		return 0, fmt.Errorf("时间超出范围: %q", s)
	}
	return hh*60 + mm, nil
}

// FormatClock 将分钟数格式化为 "HH:MM"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
