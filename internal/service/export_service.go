package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stylio/backend/internal/availability"
	"stylio/backend/internal/model"
	"stylio/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// 导出 Sheet 名称
const (
	sheetWeeklyHours    = "Weekly Hours"
	sheetSpecialDays    = "Special Days"
	sheetUnavailability = "Staff Unavailability"
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 营业时间导出为 Excel (.xlsx)，供店主离线查看与打印
//   - 特殊日期导出为 iCalendar，可被日历应用订阅
//   - 导出以内存 buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSchedule 导出每周营业时间、特殊日期与今天起的员工不可用时间
	ExportSchedule(ctx context.Context, ownerID, salonID string) (*bytes.Buffer, string, error)
	// ExportSpecialDaysICS 每个特殊日期一个全天事件
	ExportSpecialDaysICS(ctx context.Context, salonID string) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	policy availability.Policy
	clock  availability.Clock
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, policy availability.Policy, clock availability.Clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, policy: policy, clock: clock, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSchedule — 导出营业时间为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Weekly Hours"：7 行解析后的营业时间 + 合并后的展示行
//   - Sheet "Special Days"：全部特殊日期，按日期升序
//   - Sheet "Staff Unavailability"：今天起的员工不可用记录
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportSchedule(ctx context.Context, ownerID, salonID string) (*bytes.Buffer, string, error) {
	salon, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID)
	if err != nil {
		return nil, "", err
	}

	// 1. 查询数据
	entries, err := s.repo.WeeklySchedule.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("查询每周营业时间失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, "", err
	}
	days, err := s.repo.SpecialDay.ListBySalon(ctx, salonID, nil)
	if err != nil {
		s.logger.Error("查询特殊营业时间失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, "", err
	}
	staff, err := s.repo.Staff.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("列出员工失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, "", err
	}
	rows, err := s.repo.Unavailability.ListBySalonFrom(ctx, salonID, s.clock.Today())
	if err != nil {
		s.logger.Error("查询员工不可用时间失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, "", err
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(sheetWeeklyHours)
	f.SetActiveSheet(idx)
	f.NewSheet(sheetSpecialDays)
	f.NewSheet(sheetUnavailability)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	writeHeader := func(sheet string, titles ...string) {
		for i, title := range titles {
			f.SetCellValue(sheet, cell(colName(i), 1), title)
		}
		f.SetCellStyle(sheet, "A1", cell(colName(len(titles)-1), 1), headerStyle)
	}

	// Weekly Hours
	configured := make(map[int]bool, len(entries))
	for _, e := range entries {
		configured[e.Weekday] = true
	}
	week := s.policy.NormalizeWeek(entries)
	writeHeader(sheetWeeklyHours, "Day", "Status", "Start", "End", "Source")
	f.SetColWidth(sheetWeeklyHours, "A", "E", 14)
	for d := 0; d < 7; d++ {
		row := d + 2
		source := sourceDefault
		if configured[d] {
			source = sourceWeekly
		}
		f.SetCellValue(sheetWeeklyHours, cell("A", row), availability.DayName(d))
		f.SetCellValue(sheetWeeklyHours, cell("B", row), statusText(week[d]))
		f.SetCellValue(sheetWeeklyHours, cell("C", row), week[d].Start)
		f.SetCellValue(sheetWeeklyHours, cell("D", row), week[d].End)
		f.SetCellValue(sheetWeeklyHours, cell("E", row), source)
	}
	f.SetCellValue(sheetWeeklyHours, "A10", "Summary")
	f.SetCellStyle(sheetWeeklyHours, "A10", "A10", headerStyle)
	for i, line := range availability.CompressWeek(week) {
		f.SetCellValue(sheetWeeklyHours, cell("A", 11+i), line)
	}

	// Special Days
	writeHeader(sheetSpecialDays, "Date", "Day", "Status", "Start", "End", "Label")
	f.SetColWidth(sheetSpecialDays, "A", "F", 14)
	f.SetColWidth(sheetSpecialDays, "F", "F", 26)
	for i := range days {
		row := i + 2
		h := s.policy.ResolveHours(nil, &days[i])
		f.SetCellValue(sheetSpecialDays, cell("A", row), days[i].Date.String())
		f.SetCellValue(sheetSpecialDays, cell("B", row), availability.DayName(availability.DateWeekday(days[i].Date)))
		f.SetCellValue(sheetSpecialDays, cell("C", row), statusText(h))
		f.SetCellValue(sheetSpecialDays, cell("D", row), h.Start)
		f.SetCellValue(sheetSpecialDays, cell("E", row), h.End)
		f.SetCellValue(sheetSpecialDays, cell("F", row), days[i].Date.String()+" "+availability.FormatHours(h))
	}

	// Staff Unavailability：按 (日期, 员工) 合并为一行
	staffNames := make(map[string]string, len(staff))
	for _, st := range staff {
		staffNames[st.StaffID] = st.Name
	}
	writeHeader(sheetUnavailability, "Date", "Staff", "Blocked")
	f.SetColWidth(sheetUnavailability, "A", "B", 16)
	f.SetColWidth(sheetUnavailability, "C", "C", 40)
	row := 2
	for _, g := range groupUnavailability(rows) {
		blocked := "All day"
		if !g.allDay {
			blocked = strings.Join(g.times, ", ")
		}
		f.SetCellValue(sheetUnavailability, cell("A", row), g.date.String())
		f.SetCellValue(sheetUnavailability, cell("B", row), staffNames[g.staffID])
		f.SetCellValue(sheetUnavailability, cell("C", row), blocked)
		row++
	}

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("schedule_%s.xlsx", fileSafe(salon.Name))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportSpecialDaysICS — 导出特殊日期为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportSpecialDaysICS(ctx context.Context, salonID string) ([]byte, string, error) {
	salon, err := s.repo.Salon.GetByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSalonNotFound
		}
		s.logger.Error("查询沙龙失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, "", err
	}
	days, err := s.repo.SpecialDay.ListBySalon(ctx, salonID, nil)
	if err != nil {
		s.logger.Error("查询特殊营业时间失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Stylio//Special Days//EN")
	cal.SetXWRCalName(salon.Name + " special days")

	stamp := time.Now().UTC()
	for i := range days {
		h := s.policy.ResolveHours(nil, &days[i])
		start := days[i].Date.Time(time.UTC)

		event := cal.AddEvent(fmt.Sprintf("%s-%s@stylio", salonID, days[i].Date))
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s: %s", salon.Name, availability.FormatHours(h)))
		if salon.Location != "" {
			event.SetLocation(salon.Location)
		}
	}

	filename := fmt.Sprintf("special_days_%s.ics", fileSafe(salon.Name))
	return []byte(cal.Serialize()), filename, nil
}

// ── 辅助函数 ──

type unavailabilityGroup struct {
	date    model.Date
	staffID string
	allDay  bool
	times   []string
}

// groupUnavailability rows 已按 (date, staff_id, time) 排序
func groupUnavailability(rows []model.StaffUnavailability) []unavailabilityGroup {
	var groups []unavailabilityGroup
	for _, r := range rows {
		n := len(groups)
		if n == 0 || groups[n-1].date != r.Date || groups[n-1].staffID != r.StaffID {
			groups = append(groups, unavailabilityGroup{date: r.Date, staffID: r.StaffID})
			n++
		}
		if r.Time == nil {
			groups[n-1].allDay = true
		} else {
			groups[n-1].times = append(groups[n-1].times, *r.Time)
		}
	}
	return groups
}

func statusText(h availability.Hours) string {
	if h.Closed {
		return "Closed"
	}
	return "Open"
}

// fileSafe 文件名只保留字母数字，其余替换为下划线
func fileSafe(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "salon"
	}
	return b.String()
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
