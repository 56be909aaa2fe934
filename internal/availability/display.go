package availability

import (
	"sort"
	"strings"

	"stylio/backend/internal/model"
)

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayName 返回星期缩写，0=Mon
func DayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return dayNames[weekday]
}

// NormalizeWeek 将每周设置展开为 7 天的营业时间，缺失的星期按默认值
func (p Policy) NormalizeWeek(entries []model.WeeklySchedule) [7]Hours {
	byDay := make([]*model.WeeklySchedule, 7)
	for i := range entries {
		if ValidateWeekday(entries[i].Weekday) == nil {
			byDay[entries[i].Weekday] = &entries[i]
		}
	}
	var week [7]Hours
	for d := 0; d < 7; d++ {
		week[d] = p.ResolveHours(byDay[d], nil)
	}
	return week
}

// FormatHours 渲染单日营业时间："Closed" 或 "09:00–19:00"
func FormatHours(h Hours) string {
	if h.Closed {
		return "Closed"
	}
	return h.Start + "–" + h.End
}

type dayGroup struct {
	hours Hours
	days  []int
}

// CompressWeek 合并相同营业时间的星期，输出如 "Mon–Fri 09:00–19:00"、"Sat–Sun Closed"。
// 营业组在前、休息组在后，同类按最早星期排序；结果只依赖输入。
func CompressWeek(week [7]Hours) []string {
	groups := make([]*dayGroup, 0, 7)
	for d := 0; d < 7; d++ {
		h := week[d]
		if h.Closed {
			h = Hours{Closed: true}
		}
		var g *dayGroup
		for _, existing := range groups {
			if existing.hours == h {
				g = existing
				break
			}
		}
		if g == nil {
			g = &dayGroup{hours: h}
			groups = append(groups, g)
		}
		g.days = append(g.days, d)
	}

	// groups 已按首个星期升序生成，稳定排序只需把休息组移到后面
	sort.SliceStable(groups, func(i, j int) bool {
		return !groups[i].hours.Closed && groups[j].hours.Closed
	})

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, dayRanges(g.days)+" "+FormatHours(g.hours))
	}
	return lines
}

// dayRanges 将升序星期索引折叠为连续区间
func dayRanges(days []int) string {
	parts := make([]string, 0, len(days))
	for i := 0; i < len(days); {
		j := i
		for j+1 < len(days) && days[j+1] == days[j]+1 {
			j++
		}
		if i == j {
			parts = append(parts, dayNames[days[i]])
		} else {
			parts = append(parts, dayNames[days[i]]+"–"+dayNames[days[j]])
		}
		i = j + 1
	}
	return strings.Join(parts, ", ")
}

// SpecialDayLine 近期特殊日期展示行
type SpecialDayLine struct {
	Date  model.Date `json:"date"`
	Hours Hours      `json:"hours"`
	Label string     `json:"label"`
}

// UpcomingSpecialDays 取今天及以后最近的 N 个特殊日期，按日期升序，不做合并
func (p Policy) UpcomingSpecialDays(overrides []model.SpecialDay, today model.Date) []SpecialDayLine {
	upcoming := make([]model.SpecialDay, 0, len(overrides))
	for _, o := range overrides {
		if o.Date >= today {
			upcoming = append(upcoming, o)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date < upcoming[j].Date })
	if len(upcoming) > p.UpcomingLimit {
		upcoming = upcoming[:p.UpcomingLimit]
	}

	lines := make([]SpecialDayLine, 0, len(upcoming))
	for i := range upcoming {
		h := p.ResolveHours(nil, &upcoming[i])
		lines = append(lines, SpecialDayLine{
			Date:  upcoming[i].Date,
			Hours: h,
			Label: upcoming[i].Date.String() + " " + FormatHours(h),
		})
	}
	return lines
}
