package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fieldsheet/output"
	"fieldsheet/storage"
)

var (
	exportWorker  string
	exportFrom    string
	exportTo      string
	exportFormat  string
	exportOutput  string
	exportDBPath  string
	exportSummary bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved draft rows to CSV/Excel",
	Long: `Export draft rows from the local SQLite database, optionally filtered
by worker and an inclusive date window.

Output format can be selected explicitly via --format or inferred from
the --output extension.`,
	Example: `
  # Export everything to CSV
  fieldsheet export --db ./fieldsheet.db --output ./rows.csv

  # One worker's week to Excel
  fieldsheet export --worker Jose --from 2026-08-24 --to 2026-08-30 --output ./jose.xlsx

  # Force Excel format independent of extension
  fieldsheet export --format excel --output ./rows.out

  # One rollup line per worker and day
  fieldsheet export --summary --output ./days.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseWindowBound(exportFrom, "--from")
		if err != nil {
			return err
		}
		to, err := parseWindowBound(exportTo, "--to")
		if err != nil {
			return err
		}

		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectOutputFormat(exportOutput)
		}

		store, err := storage.OpenSQLite(exportDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.ListRows()
		if err != nil {
			return err
		}
		rows := output.Filter(all, exportWorker, from, to)

		if exportSummary {
			summaries := output.BuildDailySummaries(rows)
			if err := output.WriteDailySummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Days: %d, Format: %s, File: %s\n", len(summaries), format, exportOutput)
			return nil
		}

		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}
		if err := writer.Write(exportOutput, rows); err != nil {
			return err
		}

		fmt.Printf("Export completed. Rows: %d, Format: %s, File: %s\n", len(rows), format, exportOutput)
		return nil
	},
}

func parseWindowBound(value, flag string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	bound, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q (expected YYYY-MM-DD): %w", flag, value, err)
	}
	return bound, nil
}

func detectOutputFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportWorker, "worker", "", "Only export rows for this worker")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Window start date (YYYY-MM-DD, inclusive)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Window end date (YYYY-MM-DD, inclusive)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "./fieldsheet-export.csv", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "./fieldsheet.db", "Path to local SQLite database")
	exportCmd.Flags().BoolVar(&exportSummary, "summary", false, "Write one rollup row per worker and day instead of individual stops")
}
