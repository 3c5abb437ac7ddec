package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"fieldsheet/timesheet"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, rows []timesheet.PayRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(rowValues(row)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
