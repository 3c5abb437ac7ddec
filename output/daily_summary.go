package output

import (
	"fmt"
	"sort"

	"fieldsheet/internal/timeutil"
	"fieldsheet/timesheet"
)

// DailySummary rolls one worker's day up across its stops. Start and
// End cover the earliest and latest clocked stop; rows without times
// still count toward hours, pay, and materials.
type DailySummary struct {
	Date      string
	Worker    string
	Stops     int
	Start     string
	End       string
	Hours     float64
	Pay       float64
	Materials float64
}

// BuildDailySummaries groups finalized pay rows by worker and date.
// Summaries come out sorted by date, then worker name.
func BuildDailySummaries(rows []timesheet.PayRow) []DailySummary {
	if len(rows) == 0 {
		return []DailySummary{}
	}

	byGroup := make(map[string][]timesheet.PayRow)
	for _, row := range rows {
		key := row.GroupKey()
		byGroup[key] = append(byGroup[key], row)
	}

	keys := make([]string, 0, len(byGroup))
	for key := range byGroup {
		keys = append(keys, key)
	}

	summaries := make([]DailySummary, 0, len(keys))
	for _, key := range keys {
		summaries = append(summaries, summarizeDay(byGroup[key]))
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Date != summaries[j].Date {
			return summaries[i].Date < summaries[j].Date
		}
		return summaries[i].Worker < summaries[j].Worker
	})
	return summaries
}

func summarizeDay(rows []timesheet.PayRow) DailySummary {
	summary := DailySummary{
		Date:   rows[0].DateString(),
		Worker: rows[0].Worker,
		Stops:  len(rows),
	}

	earliest, latest := timesheet.NoTime, timesheet.NoTime
	for _, row := range rows {
		summary.Hours += row.TotalHours
		summary.Pay += row.Pay
		summary.Materials += row.Materials
		if !row.HasTimes() {
			continue
		}
		if earliest < 0 || row.Start < earliest {
			earliest = row.Start
		}
		// A stop wrapping midnight has End < Start; compare clock-outs
		// on the unwrapped scale so the wrap never looks earlier.
		end := row.Start + timeutil.SpanMinutes(row.Start, row.End)
		if end > latest {
			latest = end
		}
	}

	if earliest >= 0 {
		span := timesheet.Entry{Start: earliest, End: latest}
		summary.Start = span.StartClock()
		summary.End = span.EndClock()
	}
	return summary
}

func WriteDailySummaries(path, format string, summaries []DailySummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeDailySummariesCSV(path, summaries)
	case "excel", "xlsx":
		return writeDailySummariesExcel(path, summaries)
	default:
		return fmt.Errorf("unsupported output format for daily summaries: %s", format)
	}
}

var summaryHeaders = []string{"Date", "Worker", "Stops", "Start", "End", "Hours", "Pay", "Materials"}

func summaryValues(summary DailySummary) []string {
	return []string{
		summary.Date,
		summary.Worker,
		fmt.Sprintf("%d", summary.Stops),
		summary.Start,
		summary.End,
		timesheet.FormatHours(summary.Hours),
		fmt.Sprintf("%.2f", summary.Pay),
		fmt.Sprintf("%.2f", summary.Materials),
	}
}
