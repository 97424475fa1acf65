package workflow

import (
	"testing"
	"time"
)

func TestWeekdayTable(t *testing.T) {
	if len(Weekdays) != 7 {
		t.Fatalf("table has %d days", len(Weekdays))
	}
	if Weekdays[0].Key != "lunes" || Weekdays[6].Key != "domingo" {
		t.Errorf("table must run Monday to Sunday, got %s..%s", Weekdays[0].Key, Weekdays[6].Key)
	}
	for i, d := range Weekdays {
		if d.Number != i+1 {
			t.Errorf("%s number = %d, want %d", d.Key, d.Number, i+1)
		}
	}

	if _, ok := WeekdayByKey("miercoles"); !ok {
		t.Error("miercoles not found")
	}
	if _, ok := WeekdayByKey("monday"); ok {
		t.Error("english key accepted")
	}
	if _, ok := WeekdayByNumber(0); ok {
		t.Error("number 0 accepted")
	}
	if _, ok := WeekdayByNumber(8); ok {
		t.Error("number 8 accepted")
	}
}

func TestWeekRange(t *testing.T) {
	cases := []struct {
		name       string
		now        time.Time
		start, end string
	}{
		{"wednesday", time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC), "2026-08-24", "2026-08-30"},
		{"monday", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), "2026-08-24", "2026-08-30"},
		{"sunday", time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC), "2026-08-24", "2026-08-30"},
		{"year boundary", time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), "2025-12-29", "2026-01-04"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := WeekRange(tc.now)
			if start != tc.start || end != tc.end {
				t.Errorf("WeekRange = %s..%s, want %s..%s", start, end, tc.start, tc.end)
			}
		})
	}
}

func TestWeekRangeStringsSortChronologically(t *testing.T) {
	earlier, _ := WeekRange(time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC))
	later, _ := WeekRange(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	if !(earlier < later) {
		t.Errorf("%s not lexicographically before %s", earlier, later)
	}
}
