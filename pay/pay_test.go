package pay

import (
	"testing"
	"time"

	"fieldsheet/config"
	"fieldsheet/timesheet"
)

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCompute(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	weekday := utcDate(2026, time.August, 24)
	saturday := utcDate(2026, time.August, 29)
	sunday := utcDate(2026, time.August, 30)

	tests := []struct {
		name   string
		worker string
		date   time.Time
		hours  float64
		want   float64
	}{
		{name: "weekday base rate", worker: "Jose", date: weekday, hours: 8, want: 200},
		{name: "saturday premium", worker: "Chris", date: saturday, hours: 8, want: 360},
		{name: "sunday premium", worker: "Chris", date: sunday, hours: 8, want: 360},
		{name: "weekend without premium", worker: "Myer", date: saturday, hours: 8, want: 160},
		{name: "fractional hours round to cents", worker: "Jose", date: weekday, hours: 5.25, want: 131.25},
		{name: "unknown worker", worker: "Nadia", date: weekday, hours: 8, want: 0},
		{name: "zero hours", worker: "Jose", date: saturday, hours: 0, want: 0},
		{name: "unknown date is not weekend", worker: "Jose", date: time.Time{}, hours: 4, want: 100},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Compute(tc.worker, tc.date, tc.hours, cfg)
			if got != tc.want {
				t.Fatalf("Compute(%s, %s, %v) = %v, want %v",
					tc.worker, tc.date.Format("2006-01-02"), tc.hours, got, tc.want)
			}
		})
	}
}

func TestCompute_Idempotent(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	date := utcDate(2026, time.August, 29)

	first := Compute("Chris", date, 6.5, cfg)
	for i := 0; i < 5; i++ {
		if again := Compute("Chris", date, 6.5, cfg); again != first {
			t.Fatalf("recompute drifted: %v then %v", first, again)
		}
	}
}

func TestRows(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	entry := timesheet.New()
	entry.Worker = "Marco"
	entry.Date = utcDate(2026, time.August, 24)
	entry.TotalHours = 7.5

	unknown := timesheet.New()
	unknown.Worker = "Nadia"
	unknown.Date = entry.Date
	unknown.TotalHours = 8

	rows := Rows([]timesheet.Entry{entry, unknown}, cfg)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Pay != 165 {
		t.Fatalf("Marco pay: want 165, got %v", rows[0].Pay)
	}
	if rows[1].Pay != 0 {
		t.Fatalf("unknown worker pay: want 0, got %v", rows[1].Pay)
	}
	if rows[0].Worker != "Marco" || rows[0].TotalHours != 7.5 {
		t.Fatalf("entry fields not carried onto the pay row: %+v", rows[0])
	}
}
