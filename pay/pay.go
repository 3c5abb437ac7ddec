package pay

import (
	"math"
	"time"

	"fieldsheet/config"
	"fieldsheet/timesheet"
)

const weekendMultiplier = 1.5

// Compute resolves a row's pay from the configured rate table. Unknown
// workers pay 0. Saturday or Sunday in the configured time zone earns
// the weekend multiplier, but only for premium-eligible workers.
// Pure: same inputs always yield the same pay.
func Compute(worker string, date time.Time, hours float64, cfg config.Config) float64 {
	rate := cfg.RateFor(worker)
	amount := hours * rate
	if isWeekend(date, cfg.Location()) && cfg.PremiumEligible(worker) {
		amount *= weekendMultiplier
	}
	return roundCents(amount)
}

// Rows derives PayRows for a finalized entry sequence.
func Rows(entries []timesheet.Entry, cfg config.Config) []timesheet.PayRow {
	rows := make([]timesheet.PayRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, timesheet.PayRow{
			Entry: entry,
			Pay:   Compute(entry.Worker, entry.Date, entry.TotalHours, cfg),
		})
	}
	return rows
}

func isWeekend(date time.Time, loc *time.Location) bool {
	if date.IsZero() {
		return false
	}
	// The calendar date is zone-free; re-anchor it in the caller's
	// zone before asking for the weekday.
	weekday := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc).Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// roundCents applies round-half-up on cents.
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
