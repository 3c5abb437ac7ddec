package parser

import (
	"testing"
	"time"
)

var testRoster = []string{"Jose", "Chris", "Myer", "Marco"}

// 2026-08-28 is a Friday.
var testToday = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	return NewClassifier(testRoster, testToday)
}

func TestClassify_WorkerMatch(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)

	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "with colon", line: "Jose: fixed the sink", want: "Jose"},
		{name: "case insensitive", line: "CHRIS did the roof", want: "Chris"},
		{name: "word boundary holds", line: "Joseph came by", want: ""},
		{name: "no worker", line: "fixed the sink", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := classifier.Classify(tc.line).Worker; got != tc.want {
				t.Fatalf("worker for %q: want %q, got %q", tc.line, tc.want, got)
			}
		})
	}
}

func TestClassify_TimeRanges(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)

	tests := []struct {
		name      string
		line      string
		wantStart int
		wantEnd   int
	}{
		{name: "am pm dash", line: "9:00 AM - 5:30 PM", wantStart: 540, wantEnd: 1050},
		{name: "to separator", line: "8:00 to 12:00", wantStart: 480, wantEnd: 720},
		{name: "en dash", line: "7:30 – 3:30", wantStart: 450, wantEnd: 930},
		{name: "hours prefix", line: "hours: 9 - 5", wantStart: 540, wantEnd: 1020},
		{name: "started stopped", line: "started at 8:15 and stopped at 4:45", wantStart: 495, wantEnd: 1005},
		{name: "meridiem free afternoon end", line: "9:00 - 5:30", wantStart: 540, wantEnd: 1050},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			facts := classifier.Classify(tc.line)
			if facts.Start != tc.wantStart || facts.End != tc.wantEnd {
				t.Fatalf("range for %q: want %d-%d, got %d-%d",
					tc.line, tc.wantStart, tc.wantEnd, facts.Start, facts.End)
			}
		})
	}
}

func TestClassify_Dates(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)

	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "slash full year", line: "worked 8/26/2026", want: "2026-08-26"},
		{name: "slash short year", line: "worked 8/26/26", want: "2026-08-26"},
		{name: "slash no year", line: "worked 8/26 all day", want: "2026-08-26"},
		{name: "month name", line: "August 26 repairs", want: "2026-08-26"},
		{name: "month name with year", line: "August 26, 2026 repairs", want: "2026-08-26"},
		{name: "weekday resolves backwards", line: "Saturday", want: "2026-08-22"},
		{name: "same weekday is today", line: "Friday", want: "2026-08-28"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			facts := classifier.Classify(tc.line)
			if facts.Date.IsZero() {
				t.Fatalf("expected a date for %q", tc.line)
			}
			if got := facts.Date.Format("2006-01-02"); got != tc.want {
				t.Fatalf("date for %q: want %s, got %s", tc.line, tc.want, got)
			}
		})
	}
}

func TestClassify_WeekdayNeverResolvesToFuture(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)

	for _, line := range []string{"Sunday", "Monday", "Saturday", "Thursday"} {
		facts := classifier.Classify(line)
		if facts.Date.After(testToday) {
			t.Fatalf("weekday %q resolved to future date %v", line, facts.Date)
		}
	}
}

func TestClassify_Money(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)

	tests := []struct {
		name      string
		line      string
		wantMoney float64
		wantHas   bool
	}{
		{name: "dollar prefixed", line: "bought parts $42.50", wantMoney: 42.50, wantHas: true},
		{name: "keyword scoped", line: "gas 30", wantMoney: 30, wantHas: true},
		{name: "materials keyword", line: "materials were 125.99", wantMoney: 125.99, wantHas: true},
		{name: "clock token rejected", line: "gas 9:30", wantHas: false},
		{name: "dollar wins over keyword", line: "paid 99 but receipt says $15", wantMoney: 15, wantHas: true},
		{name: "no amount", line: "checked the boiler", wantHas: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			facts := classifier.Classify(tc.line)
			if facts.HasMoney != tc.wantHas {
				t.Fatalf("HasMoney for %q: want %t, got %t", tc.line, tc.wantHas, facts.HasMoney)
			}
			if tc.wantHas && facts.Money != tc.wantMoney {
				t.Fatalf("money for %q: want %v, got %v", tc.line, tc.wantMoney, facts.Money)
			}
		})
	}
}

func TestClassify_HelperHours(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)

	facts := classifier.Classify("helper 3 hrs on site")
	if !facts.HasHelper || facts.HelperHours != 3 {
		t.Fatalf("expected helper 3 hrs, got has=%t hours=%v", facts.HasHelper, facts.HelperHours)
	}
	if facts.HasMoney {
		t.Fatalf("helper hours must not be read as money")
	}
}

func TestClassify_StatedHours(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)

	facts := classifier.Classify("8 hrs at the warehouse")
	if facts.StatedHours != 8 {
		t.Fatalf("expected 8 stated hours, got %v", facts.StatedHours)
	}

	quantized := classifier.Classify("7.4 hours total")
	if quantized.StatedHours != 7.5 {
		t.Fatalf("expected quarter-quantized 7.5, got %v", quantized.StatedHours)
	}
}

func TestClassify_Addresses(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)

	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "number and street name", line: "1513 Lafayette checked pressure", want: "1513 Lafayette"},
		{name: "number with street type", line: "231 Main St new faucet", want: "231 Main St"},
		{name: "street keyword only", line: "over at Ocean Ave all morning", want: "Ocean Ave"},
		{name: "phone shaped token", line: "call 555-867-5309 about access", want: "555-867-5309"},
		{name: "bare am is not an address", line: "AM", want: ""},
		{name: "lone clock is not an address", line: "9:30", want: ""},
		{name: "plain prose", line: "waiting on parts", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := classifier.Classify(tc.line).Address; got != tc.want {
				t.Fatalf("address for %q: want %q, got %q", tc.line, tc.want, got)
			}
		})
	}
}

func TestClassify_Unit(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)

	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "apt number", line: "140 Prospect Apt 4B leak", want: "4B"},
		{name: "unit word", line: "unit 12 boiler swap", want: "12"},
		{name: "hash form", line: "1513 Lafayette #3 painting", want: "3"},
		{name: "none", line: "1513 Lafayette painting", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := classifier.Classify(tc.line).Unit; got != tc.want {
				t.Fatalf("unit for %q: want %q, got %q", tc.line, tc.want, got)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)
	line := "Jose: 1513 Lafayette 9:00 AM - 5:30 PM Checked water pressure $10"

	first := classifier.Classify(line)
	second := classifier.Classify(line)
	if first != second {
		t.Fatalf("classification is not deterministic: %+v vs %+v", first, second)
	}
}
