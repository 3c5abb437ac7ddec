package timesheet

import (
	"strconv"
	"time"

	"fieldsheet/internal/timeutil"
)

// NoTime marks an absent start or end time on an Entry.
const NoTime = -1

// Entry is one candidate timesheet row extracted from raw text. It is
// mutable while the parser and allocator work on it; once pay has been
// computed the row is treated as final.
type Entry struct {
	Worker     string
	Date       time.Time // zero value means unknown
	Address    string
	Unit       string
	Start      int // minutes from midnight, NoTime when unset
	End        int // minutes from midnight, NoTime when unset
	TotalHours float64 // decimal hours in 0.25 steps, 0 means unset
	Materials  float64
	Notes      string
}

// New returns an Entry with both times marked absent.
func New() Entry {
	return Entry{Start: NoTime, End: NoTime}
}

// HasTimes reports whether both start and end are set.
func (e Entry) HasTimes() bool {
	return e.Start >= 0 && e.End >= 0
}

// HasDate reports whether the calendar date is known.
func (e Entry) HasDate() bool {
	return !e.Date.IsZero()
}

// DateString formats the date as ISO (YYYY-MM-DD), or "" when unknown.
func (e Entry) DateString() string {
	if e.Date.IsZero() {
		return ""
	}
	return e.Date.Format("2006-01-02")
}

// StartClock formats the start time as HH:MM, or "" when unset.
func (e Entry) StartClock() string {
	return clock(e.Start)
}

// EndClock formats the end time as HH:MM, or "" when unset.
func (e Entry) EndClock() string {
	return clock(e.End)
}

// GroupKey identifies the allocation group an entry belongs to.
// Entries sharing the same worker and date are allocated together.
func (e Entry) GroupKey() string {
	return e.Worker + "|" + e.DateString()
}

func clock(minutes int) string {
	if minutes < 0 {
		return ""
	}
	return timeutil.Clock(minutes)
}

// PayRow is a finalized Entry plus its computed pay. Derived, never
// stored independently of the Entry it came from.
type PayRow struct {
	Entry
	Pay float64
}

// FormatHours renders decimal hours without trailing zeros, e.g. "8.5".
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
