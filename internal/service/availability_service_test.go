package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"stylio/backend/internal/availability"
	"stylio/backend/internal/model"
)

// 2026-10-19 为周一，2026-10-25 为周日
const (
	testMonday = "2026-10-19"
	testSunday = "2026-10-25"
)

func setupTestAvailabilityService() (AvailabilityService, *mocks) {
	repo, m := newMockRepository()
	m.seedSalon()
	return NewAvailabilityService(repo, availability.DefaultPolicy(), zap.NewNop()), m
}

// ── 写入 ──

func TestSetUnavailability_DefaultHours(t *testing.T) {
	svc, _ := setupTestAvailabilityService()

	resp, err := svc.SetUnavailability(context.Background(), "owner-1", "salon-1", "staff-1", testMonday, []string{"14:00", "10:00", "14:00"})
	if err != nil {
		t.Fatalf("默认营业时间内写入应成功: %v", err)
	}
	if resp.AllDay {
		t.Error("指定时段时不应为全天")
	}
	if !reflect.DeepEqual(resp.Times, []string{"10:00", "14:00"}) {
		t.Errorf("期望去重升序 [10:00 14:00]，实际 %v", resp.Times)
	}
}

func TestSetUnavailability_EmptyMeansAllDay(t *testing.T) {
	svc, m := setupTestAvailabilityService()
	ctx := context.Background()

	if _, err := svc.SetUnavailability(ctx, "owner-1", "salon-1", "staff-1", testMonday, []string{"10:00"}); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	resp, err := svc.SetUnavailability(ctx, "owner-1", "salon-1", "staff-1", testMonday, nil)
	if err != nil {
		t.Fatalf("全天写入应成功: %v", err)
	}
	if !resp.AllDay || len(resp.Times) != 0 {
		t.Errorf("期望全天不可用，实际 %+v", resp)
	}

	rows, _ := m.unavailability.ListByStaffAndDate(ctx, "staff-1", model.Date(testMonday))
	if len(rows) != 1 || rows[0].Time != nil {
		t.Errorf("期望仅一条全天记录，实际 %d 条", len(rows))
	}
}

func TestSetUnavailability_ClosedDay(t *testing.T) {
	svc, m := setupTestAvailabilityService()
	m.weekly.entries[weeklyKey("salon-1", 6)] = &model.WeeklySchedule{SalonID: "salon-1", Weekday: 6, Closed: true}

	// 休息日优先于时段格式错误
	_, err := svc.SetUnavailability(context.Background(), "owner-1", "salon-1", "staff-1", testSunday, []string{"bogus"})
	if !errors.Is(err, availability.ErrDayClosed) {
		t.Errorf("期望 ErrDayClosed，实际 %v", err)
	}
	if m.unavailability.writes != 0 {
		t.Error("校验失败时不应写入")
	}
}

func TestSetUnavailability_ClosedDayRejectsAllDay(t *testing.T) {
	svc, m := setupTestAvailabilityService()
	m.specialDays.days["salon-1/"+testMonday] = &model.SpecialDay{SalonID: "salon-1", Date: testMonday, Closed: true}

	_, err := svc.SetUnavailability(context.Background(), "owner-1", "salon-1", "staff-1", testMonday, nil)
	if !errors.Is(err, availability.ErrDayClosed) {
		t.Errorf("休息日写入全天也应返回 ErrDayClosed，实际 %v", err)
	}
}

func TestSetUnavailability_InvalidSlot(t *testing.T) {
	svc, _ := setupTestAvailabilityService()

	_, err := svc.SetUnavailability(context.Background(), "owner-1", "salon-1", "staff-1", testMonday, []string{"10:00", "09:30"})
	if !errors.Is(err, availability.ErrInvalidTimeSlot) {
		t.Fatalf("期望 ErrInvalidTimeSlot，实际 %v", err)
	}
	var slotErr *availability.SlotError
	if !errors.As(err, &slotErr) || slotErr.Time != "09:30" {
		t.Errorf("错误应携带 09:30，实际 %v", err)
	}
}

func TestSetUnavailability_OutsideWorkingHours(t *testing.T) {
	tests := []struct {
		name string
		time string
	}{
		{"营业前", "08:00"},
		{"结束时刻不含", "19:00"},
		{"营业后", "21:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := setupTestAvailabilityService()
			_, err := svc.SetUnavailability(context.Background(), "owner-1", "salon-1", "staff-1", testMonday, []string{"10:00", tt.time})
			if !errors.Is(err, availability.ErrOutsideWorkingHours) {
				t.Fatalf("期望 ErrOutsideWorkingHours，实际 %v", err)
			}
			var slotErr *availability.SlotError
			if !errors.As(err, &slotErr) || slotErr.Time != tt.time {
				t.Errorf("错误应携带 %s，实际 %v", tt.time, err)
			}
			if m.unavailability.writes != 0 {
				t.Error("部分合法时也不应写入任何记录")
			}
		})
	}
}

func TestSetUnavailability_RejectKeepsPreviousRows(t *testing.T) {
	svc, m := setupTestAvailabilityService()
	ctx := context.Background()

	if _, err := svc.SetUnavailability(ctx, "owner-1", "salon-1", "staff-1", testMonday, []string{"11:00"}); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	if _, err := svc.SetUnavailability(ctx, "owner-1", "salon-1", "staff-1", testMonday, []string{"12:00", "20:00"}); err == nil {
		t.Fatal("20:00 超出营业时间，应失败")
	}

	rows, _ := m.unavailability.ListByStaffAndDate(ctx, "staff-1", model.Date(testMonday))
	if len(rows) != 1 || *rows[0].Time != "11:00" {
		t.Errorf("失败的写入不应改变已有记录，实际 %d 条", len(rows))
	}
}

func TestSetUnavailability_OverrideWins(t *testing.T) {
	svc, m := setupTestAvailabilityService()
	// 周一每周设置为休息，但特殊日期营业到 22:00
	m.weekly.entries[weeklyKey("salon-1", 0)] = &model.WeeklySchedule{SalonID: "salon-1", Weekday: 0, Closed: true}
	m.specialDays.days["salon-1/"+testMonday] = &model.SpecialDay{
		SalonID: "salon-1", Date: testMonday, StartTime: strPtr("12:00"), EndTime: strPtr("22:00"),
	}

	resp, err := svc.SetUnavailability(context.Background(), "owner-1", "salon-1", "staff-1", testMonday, []string{"21:00"})
	if err != nil {
		t.Fatalf("特殊日期应覆盖每周设置: %v", err)
	}
	if !reflect.DeepEqual(resp.Times, []string{"21:00"}) {
		t.Errorf("期望 [21:00]，实际 %v", resp.Times)
	}

	_, err = svc.SetUnavailability(context.Background(), "owner-1", "salon-1", "staff-1", testMonday, []string{"10:00"})
	if !errors.Is(err, availability.ErrOutsideWorkingHours) {
		t.Errorf("10:00 早于特殊日期开门时间，期望 ErrOutsideWorkingHours，实际 %v", err)
	}
}

func TestSetUnavailability_WeeklyEntry(t *testing.T) {
	svc, m := setupTestAvailabilityService()
	m.weekly.entries[weeklyKey("salon-1", 0)] = &model.WeeklySchedule{
		SalonID: "salon-1", Weekday: 0, StartTime: strPtr("10:00"), EndTime: strPtr("14:00"),
	}

	if _, err := svc.SetUnavailability(context.Background(), "owner-1", "salon-1", "staff-1", testMonday, []string{"13:00"}); err != nil {
		t.Errorf("13:00 在每周设置内，应成功: %v", err)
	}
	_, err := svc.SetUnavailability(context.Background(), "owner-1", "salon-1", "staff-1", testMonday, []string{"14:00"})
	if !errors.Is(err, availability.ErrOutsideWorkingHours) {
		t.Errorf("14:00 为关门时刻，期望 ErrOutsideWorkingHours，实际 %v", err)
	}
}

func TestSetUnavailability_Ownership(t *testing.T) {
	svc, m := setupTestAvailabilityService()
	m.staff.staff["staff-x"] = &model.Staff{StaffID: "staff-x", SalonID: "salon-other", Name: "Other"}

	tests := []struct {
		name    string
		owner   string
		salon   string
		staff   string
		date    string
		wantErr error
	}{
		{"非店主", "owner-2", "salon-1", "staff-1", testMonday, ErrSalonNotOwner},
		{"沙龙不存在", "owner-1", "salon-404", "staff-1", testMonday, ErrSalonNotFound},
		{"员工不属于沙龙", "owner-1", "salon-1", "staff-x", testMonday, ErrStaffNotFound},
		{"员工不存在", "owner-1", "salon-1", "staff-404", testMonday, ErrStaffNotFound},
		{"日期无效", "owner-1", "salon-1", "staff-1", "2026-02-30", availability.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetUnavailability(context.Background(), tt.owner, tt.salon, tt.staff, tt.date, []string{"10:00"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际 %v", tt.wantErr, err)
			}
		})
	}
}

// ── 清除与读取 ──

func TestClearUnavailability_Idempotent(t *testing.T) {
	svc, m := setupTestAvailabilityService()
	ctx := context.Background()

	if _, err := svc.SetUnavailability(ctx, "owner-1", "salon-1", "staff-1", testMonday, []string{"10:00"}); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.ClearUnavailability(ctx, "owner-1", "salon-1", "staff-1", testMonday); err != nil {
			t.Fatalf("第 %d 次清除应成功: %v", i+1, err)
		}
	}
	if len(m.unavailability.rows) != 0 {
		t.Errorf("清除后不应有记录，实际 %d 条", len(m.unavailability.rows))
	}
}

func TestGetUnavailability_RoundTrip(t *testing.T) {
	svc, _ := setupTestAvailabilityService()
	ctx := context.Background()

	cases := [][]string{
		{"18:00", "09:00", "12:00"},
		{},
	}
	for _, times := range cases {
		set, err := svc.SetUnavailability(ctx, "owner-1", "salon-1", "staff-1", testMonday, times)
		if err != nil {
			t.Fatalf("写入失败: %v", err)
		}
		got, err := svc.GetUnavailability(ctx, "owner-1", "salon-1", "staff-1", testMonday)
		if err != nil {
			t.Fatalf("读取失败: %v", err)
		}
		if got.AllDay != set.AllDay || !reflect.DeepEqual(got.Times, set.Times) {
			t.Errorf("读回结果 %+v 与写入结果 %+v 不一致", got, set)
		}
	}
}

func TestGetUnavailability_NoRows(t *testing.T) {
	svc, _ := setupTestAvailabilityService()

	got, err := svc.GetUnavailability(context.Background(), "owner-1", "salon-1", "staff-1", testMonday)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if got.AllDay || len(got.Times) != 0 {
		t.Errorf("无记录时期望可用，实际 %+v", got)
	}
}
