package availability

import (
	"time"

	"stylio/backend/internal/model"
)

// WeekdayIndex 返回 0=周一 … 6=周日
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DateWeekday 返回日期对应的星期索引
func DateWeekday(d model.Date) int {
	return WeekdayIndex(d.Time(time.UTC))
}

// ParseDate 解析 YYYY-MM-DD，失败返回 ErrInvalidDate
func ParseDate(s string) (model.Date, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return "", &SlotError{Err: ErrInvalidDate, Time: s}
	}
	return d, nil
}

// Clock 提供"今天"
type Clock interface {
	Today() model.Date
}

// SystemClock 按指定时区取系统当前日期
type SystemClock struct {
	Location *time.Location
}

// Today 实现 Clock
func (c SystemClock) Today() model.Date {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return model.DateOf(time.Now().In(loc))
}

// FixedClock 固定日期，用于测试
type FixedClock model.Date

// Today 实现 Clock
func (c FixedClock) Today() model.Date { return model.Date(c) }
