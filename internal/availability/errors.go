package availability

import (
	"errors"
	"fmt"
)

// ── 可用性校验错误 ──

var (
	ErrDayClosed           = errors.New("当天不营业")
	ErrOutsideWorkingHours = errors.New("时间不在营业时间内")
	ErrInvalidTimeSlot     = errors.New("无效的时段")
	ErrInvalidDate         = errors.New("无效的日期")
	ErrInvalidHours        = errors.New("无效的营业时间")
	ErrInvalidWeekday      = errors.New("无效的星期")
)

// SlotError 携带出错的具体时间值，errors.Is 可匹配其哨兵错误
type SlotError struct {
	Err  error
	Time string
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Time)
}

func (e *SlotError) Unwrap() error { return e.Err }
