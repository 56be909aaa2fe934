package availability

import (
	"fmt"
	"sort"
)

// BuildSlots 生成 [first, last] 之间按 step 分钟递增的时段标签（含两端）
func BuildSlots(first, last string, stepMinutes int) ([]string, error) {
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("时段步长必须大于 0")
	}
	from, err := ParseClock(first)
	if err != nil {
		return nil, err
	}
	to, err := ParseClock(last)
	if err != nil {
		return nil, err
	}
	if from > to {
		return nil, fmt.Errorf("首个时段 %s 晚于最后时段 %s", first, last)
	}
	slots := make([]string, 0, (to-from)/stepMinutes+1)
	for m := from; m <= to; m += stepMinutes {
		slots = append(slots, FormatClock(m))
	}
	return slots, nil
}

// IsSlot 判断是否为可预约时段标签
func (p Policy) IsSlot(t string) bool {
	i := sort.SearchStrings(p.Slots, t)
	return i < len(p.Slots) && p.Slots[i] == t
}

// ValidateBlockedTimes 校验员工不可用时段，返回去重升序后的时间列表。
// 任何一项不合法都返回错误，调用方据此放弃整个写入。
func (p Policy) ValidateBlockedTimes(h Hours, times []string) ([]string, error) {
	if h.Closed {
		return nil, ErrDayClosed
	}
	normalized := uniqueSorted(times)
	for _, t := range normalized {
		if !p.IsSlot(t) {
			return nil, &SlotError{Err: ErrInvalidTimeSlot, Time: t}
		}
		if !h.Contains(t) {
			return nil, &SlotError{Err: ErrOutsideWorkingHours, Time: t}
		}
	}
	return normalized, nil
}

// OpenSlots 返回营业时间内的全部时段
func (p Policy) OpenSlots(h Hours) []string {
	if h.Closed {
		return []string{}
	}
	result := make([]string, 0, len(p.Slots))
	for _, s := range p.Slots {
		if h.Contains(s) {
			result = append(result, s)
		}
	}
	return result
}

// BookableSlots 营业时段去掉员工被屏蔽的时段；allDay 为真时返回空
func (p Policy) BookableSlots(h Hours, allDay bool, blocked []string) []string {
	if allDay {
		return []string{}
	}
	blockedSet := make(map[string]struct{}, len(blocked))
	for _, b := range blocked {
		blockedSet[b] = struct{}{}
	}
	open := p.OpenSlots(h)
	result := make([]string, 0, len(open))
	for _, s := range open {
		if _, ok := blockedSet[s]; !ok {
			result = append(result, s)
		}
	}
	return result
}

func uniqueSorted(times []string) []string {
	seen := make(map[string]struct{}, len(times))
	out := make([]string, 0, len(times))
	for _, t := range times {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
