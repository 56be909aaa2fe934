package availability

import (
	"reflect"
	"testing"

	"stylio/backend/internal/model"
)

func TestCompressWeek_WeekdaysOpenWeekendClosed(t *testing.T) {
	p := DefaultPolicy()
	entries := []model.WeeklySchedule{
		{Weekday: 5, Closed: true},
		{Weekday: 6, Closed: true},
	}
	for d := 0; d < 5; d++ {
		entries = append(entries, model.WeeklySchedule{Weekday: d, StartTime: strPtr("09:00"), EndTime: strPtr("19:00")})
	}

	got := CompressWeek(p.NormalizeWeek(entries))
	want := []string{"Mon–Fri 09:00–19:00", "Sat–Sun Closed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("期望 %q，实际 %q", want, got)
	}
}

func TestCompressWeek_NoEntries(t *testing.T) {
	p := DefaultPolicy()
	got := CompressWeek(p.NormalizeWeek(nil))
	want := []string{"Mon–Sun 09:00–19:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("期望 %q，实际 %q", want, got)
	}
}

func TestCompressWeek_SplitRunsAndOrdering(t *testing.T) {
	week := [7]Hours{
		{Closed: true},                 // Mon
		{Start: "10:00", End: "18:00"}, // Tue
		{Start: "10:00", End: "18:00"}, // Wed
		{Start: "12:00", End: "20:00"}, // Thu
		{Start: "10:00", End: "18:00"}, // Fri
		{Start: "10:00", End: "16:00"}, // Sat
		{Closed: true},                 // Sun
	}

	got := CompressWeek(week)
	want := []string{
		"Tue–Wed, Fri 10:00–18:00",
		"Thu 12:00–20:00",
		"Sat 10:00–16:00",
		"Mon, Sun Closed",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("期望 %q，实际 %q", want, got)
	}
}

func TestCompressWeek_Deterministic(t *testing.T) {
	p := DefaultPolicy()
	entries := []model.WeeklySchedule{
		{Weekday: 3, Closed: true},
		{Weekday: 1, StartTime: strPtr("11:00"), EndTime: strPtr("15:00")},
		{Weekday: 0, Closed: true},
	}
	reversed := []model.WeeklySchedule{entries[2], entries[1], entries[0]}

	first := CompressWeek(p.NormalizeWeek(entries))
	for i := 0; i < 20; i++ {
		if got := CompressWeek(p.NormalizeWeek(reversed)); !reflect.DeepEqual(got, first) {
			t.Fatalf("输出应与输入顺序无关: %q vs %q", got, first)
		}
	}
}

func TestUpcomingSpecialDays(t *testing.T) {
	p := DefaultPolicy()
	overrides := []model.SpecialDay{
		{Date: "2026-12-25", Closed: true},
		{Date: "2026-10-01", Closed: true},
		{Date: "2026-10-16", StartTime: strPtr("10:00"), EndTime: strPtr("14:00")},
		{Date: "2026-11-02", Closed: true},
		{Date: "2026-10-20", StartTime: strPtr("12:00"), EndTime: strPtr("16:00")},
	}

	got := p.UpcomingSpecialDays(overrides, "2026-10-16")
	if len(got) != 3 {
		t.Fatalf("期望 3 条，实际 %d", len(got))
	}
	labels := []string{got[0].Label, got[1].Label, got[2].Label}
	want := []string{
		"2026-10-16 10:00–14:00",
		"2026-10-20 12:00–16:00",
		"2026-11-02 Closed",
	}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("期望 %q，实际 %q", want, labels)
	}
}
