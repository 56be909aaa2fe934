package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"stylio/backend/internal/availability"
	"stylio/backend/internal/model"
)

func setupTestExportService() (ExportService, *mocks) {
	repo, m := newMockRepository()
	m.seedSalon()
	svc := NewExportService(repo, availability.DefaultPolicy(), availability.FixedClock("2026-10-16"), zap.NewNop())
	return svc, m
}

func TestExportSchedule(t *testing.T) {
	svc, m := setupTestExportService()
	ctx := context.Background()
	m.weekly.entries[weeklyKey("salon-1", 6)] = &model.WeeklySchedule{SalonID: "salon-1", Weekday: 6, Closed: true}
	m.specialDays.days["salon-1/2026-12-25"] = &model.SpecialDay{SalonID: "salon-1", Date: "2026-12-25", Closed: true}
	// 过去的记录不导出
	_ = m.unavailability.ReplaceForDay(ctx, "staff-1", "2026-10-01", nil)
	_ = m.unavailability.ReplaceForDay(ctx, "staff-1", testMonday, []string{"10:00", "12:00"})

	buf, filename, err := svc.ExportSchedule(ctx, "owner-1", "salon-1")
	if err != nil {
		t.Fatalf("ExportSchedule 失败: %v", err)
	}
	if filename != "schedule_glow_studio.xlsx" {
		t.Errorf("文件名不正确: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法解析导出的 Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != "Weekly Hours" {
		t.Fatalf("Sheet 列表不正确: %v", sheets)
	}

	if v, _ := f.GetCellValue("Weekly Hours", "B8"); v != "Closed" {
		t.Errorf("Sun 应为 Closed，实际 %q", v)
	}
	if v, _ := f.GetCellValue("Weekly Hours", "E2"); v != "default" {
		t.Errorf("Mon 来源应为 default，实际 %q", v)
	}
	if v, _ := f.GetCellValue("Weekly Hours", "A11"); v != "Mon–Sat 09:00–19:00" {
		t.Errorf("合并行不正确: %q", v)
	}
	if v, _ := f.GetCellValue("Special Days", "F2"); v != "2026-12-25 Closed" {
		t.Errorf("特殊日期行不正确: %q", v)
	}

	rows, _ := f.GetRows("Staff Unavailability")
	if len(rows) != 2 {
		t.Fatalf("期望表头 + 1 行，实际 %d 行", len(rows))
	}
	if rows[1][1] != "Nino" || rows[1][2] != "10:00, 12:00" {
		t.Errorf("不可用行不正确: %v", rows[1])
	}
}

func TestExportSchedule_NotOwner(t *testing.T) {
	svc, _ := setupTestExportService()

	if _, _, err := svc.ExportSchedule(context.Background(), "owner-2", "salon-1"); !errors.Is(err, ErrSalonNotOwner) {
		t.Errorf("期望 ErrSalonNotOwner，实际 %v", err)
	}
}

func TestExportSpecialDaysICS(t *testing.T) {
	svc, m := setupTestExportService()
	m.specialDays.days["salon-1/2026-12-25"] = &model.SpecialDay{SalonID: "salon-1", Date: "2026-12-25", Closed: true}
	m.specialDays.days["salon-1/2026-12-31"] = &model.SpecialDay{
		SalonID: "salon-1", Date: "2026-12-31", StartTime: strPtr("10:00"), EndTime: strPtr("14:00"),
	}

	data, filename, err := svc.ExportSpecialDaysICS(context.Background(), "salon-1")
	if err != nil {
		t.Fatalf("ExportSpecialDaysICS 失败: %v", err)
	}
	if filename != "special_days_glow_studio.ics" {
		t.Errorf("文件名不正确: %s", filename)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("无法解析导出的日历: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("期望 2 个事件，实际 %d", len(events))
	}
	summary := events[1].GetProperty(ics.ComponentPropertySummary)
	if summary == nil || summary.Value != "Glow Studio: 10:00–14:00" {
		t.Errorf("事件标题不正确: %+v", summary)
	}
	if !strings.Contains(string(data), "DTSTART;VALUE=DATE:20261225") {
		t.Error("应为全天事件")
	}
}

func TestGroupUnavailability(t *testing.T) {
	rows := []model.StaffUnavailability{
		{StaffID: "a", Date: "2026-10-19", Time: strPtr("10:00")},
		{StaffID: "a", Date: "2026-10-19", Time: strPtr("11:00")},
		{StaffID: "b", Date: "2026-10-19"},
		{StaffID: "a", Date: "2026-10-20"},
	}
	groups := groupUnavailability(rows)
	if len(groups) != 3 {
		t.Fatalf("期望 3 组，实际 %d", len(groups))
	}
	if len(groups[0].times) != 2 || groups[0].allDay {
		t.Errorf("第一组不正确: %+v", groups[0])
	}
	if !groups[1].allDay || !groups[2].allDay {
		t.Error("NULL 时间应视为全天")
	}
}
