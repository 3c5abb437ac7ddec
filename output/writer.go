package output

import (
	"fmt"
	"strings"
	"time"

	"fieldsheet/timesheet"
)

type Writer interface {
	Write(path string, rows []timesheet.PayRow) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

// Filter narrows rows to one worker and/or a date window. Empty worker
// and zero bounds mean no restriction; rows without a date only pass
// an unbounded window.
func Filter(rows []timesheet.PayRow, worker string, from, to time.Time) []timesheet.PayRow {
	filtered := make([]timesheet.PayRow, 0, len(rows))
	for _, row := range rows {
		if worker != "" && !strings.EqualFold(row.Worker, worker) {
			continue
		}
		if !from.IsZero() || !to.IsZero() {
			if row.Date.IsZero() {
				continue
			}
			if !from.IsZero() && row.Date.Before(from) {
				continue
			}
			if !to.IsZero() && row.Date.After(to) {
				continue
			}
		}
		filtered = append(filtered, row)
	}
	return filtered
}

var headers = []string{"Date", "Worker", "Address", "Unit", "Start", "End", "TotalHours", "Pay", "Materials", "Notes"}

func rowValues(row timesheet.PayRow) []string {
	return []string{
		row.DateString(),
		row.Worker,
		row.Address,
		row.Unit,
		row.StartClock(),
		row.EndClock(),
		timesheet.FormatHours(row.TotalHours),
		fmt.Sprintf("%.2f", row.Pay),
		fmt.Sprintf("%.2f", row.Materials),
		row.Notes,
	}
}
