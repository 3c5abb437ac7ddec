package parser

import (
	"strings"
	"time"

	"fieldsheet/internal/timeutil"
	"fieldsheet/timesheet"
)

// Normalize post-processes segmented entries in place: dates are
// backfilled from weekday mentions, durations are derived from time
// pairs, and materials hiding in the notes are pulled out. No entry is
// ever dropped; whatever stays unknown is left for the reviewer.
func Normalize(entries []timesheet.Entry, today time.Time) []timesheet.Entry {
	for i := range entries {
		normalizeEntry(&entries[i], today)
	}
	return entries
}

func normalizeEntry(entry *timesheet.Entry, today time.Time) {
	if entry.Date.IsZero() {
		if date, ok := weekdayFromNotes(entry.Notes, today); ok {
			entry.Date = date
		}
	}
	if entry.Date.IsZero() && entry.HasTimes() {
		entry.Date = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	}

	if entry.Materials == 0 {
		if amount, _, ok := findMoney(entry.Notes); ok {
			entry.Materials = amount
		}
	}

	if entry.TotalHours == 0 && entry.HasTimes() {
		span := timeutil.SpanMinutes(entry.Start, entry.End)
		entry.TotalHours = float64(timeutil.RoundQuarterMinutes(span)) / 60
	}
}

func weekdayFromNotes(notes string, today time.Time) (time.Time, bool) {
	m := weekdayRe.FindStringSubmatch(notes)
	if m == nil {
		return time.Time{}, false
	}
	weekday := weekdaysByName[strings.ToLower(m[1])]
	resolved := timeutil.MostRecentWeekday(today, weekday)
	return time.Date(resolved.Year(), resolved.Month(), resolved.Day(), 0, 0, 0, 0, time.UTC), true
}
