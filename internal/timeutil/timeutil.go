package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

// RoundQuarterMinutes snaps a minute count to the nearest 15-minute unit.
func RoundQuarterMinutes(minutes int) int {
	return int(math.Round(float64(minutes)/15.0)) * 15
}

// RoundQuarterHours snaps decimal hours to the nearest 0.25 step.
func RoundQuarterHours(hours float64) float64 {
	return math.Round(hours*4) / 4
}

// SpanMinutes returns the minutes between two times of day, wrapping
// past midnight when end precedes start.
func SpanMinutes(start, end int) int {
	span := end - start
	if span < 0 {
		span += minutesPerDay
	}
	return span
}

// Clock formats minutes from midnight as HH:MM.
func Clock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock parses an HH:MM string into minutes from midnight.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock value %q out of range", value)
	}
	return hour*60 + minute, nil
}

// MostRecentWeekday returns the most recent occurrence of the given
// weekday on or before today, never a future date.
func MostRecentWeekday(today time.Time, weekday time.Weekday) time.Time {
	day := StartOfDay(today)
	offset := (int(day.Weekday()) - int(weekday) + 7) % 7
	return day.AddDate(0, 0, -offset)
}
