package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fieldsheet/allocate"
	"fieldsheet/config"
	"fieldsheet/internal/logging"
	"fieldsheet/output"
	"fieldsheet/parser"
	"fieldsheet/pay"
	"fieldsheet/storage"
	"fieldsheet/timesheet"
	"fieldsheet/travel"
)

var (
	parseInput   string
	parseDate    string
	parseSave    bool
	parseDBPath  string
	parseOutput  string
	parseFormat  string
	parseTimeout int
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse freeform field notes into draft timesheet rows",
	Long: `Read raw text (OCR output or hand-typed notes), segment it into
candidate timesheet entries, allocate time across multi-stop days, and
compute pay per row.

Dates given as bare weekday names resolve to the most recent occurrence
on or before the processing date (--date, default today). When the
travel provider credential is configured, stop-to-stop travel time is
looked up; otherwise a flat buffer is assumed between stops.`,
	Example: `
  # Parse a text file and print the rows
  fieldsheet parse -i notes.txt

  # Parse from stdin
  cat notes.txt | fieldsheet parse -i -

  # Pin the processing date for reproducible weekday resolution
  fieldsheet parse -i notes.txt --date 2026-08-28

  # Save drafts for later export
  fieldsheet parse -i notes.txt --save --db ./fieldsheet.db

  # Write rows straight to CSV or Excel
  fieldsheet parse -i notes.txt --output ./rows.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		today, err := resolveProcessingDate(parseDate)
		if err != nil {
			return err
		}

		text, sourceName, err := readParseInput(parseInput)
		if err != nil {
			return err
		}

		logger := logging.Must(logging.New())
		defer func() { _ = logger.Sync() }()

		entries, err := parser.New(*cfg, today, logging.Named(logger, "parser")).Parse(text)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(parseTimeout)*time.Second)
		defer cancel()

		engine := allocate.New(*cfg, travel.ForConfig(*cfg), logging.Named(logger, "allocate"))
		rows := pay.Rows(engine.Allocate(ctx, entries), *cfg)

		printRows(rows)

		if parseSave {
			store, err := storage.OpenSQLite(parseDBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			inserted, err := store.InsertRows(rows, sourceName)
			if err != nil {
				return err
			}
			fmt.Printf("Saved %d of %d rows to %s\n", inserted, len(rows), parseDBPath)
		}

		if parseOutput != "" {
			format := parseFormat
			if strings.TrimSpace(format) == "" {
				format = detectOutputFormat(parseOutput)
			}
			writer, err := output.WriterForFormat(format)
			if err != nil {
				return err
			}
			if err := writer.Write(parseOutput, rows); err != nil {
				return err
			}
			fmt.Printf("Wrote %d rows to %s\n", len(rows), parseOutput)
		}

		return nil
	},
}

func resolveProcessingDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Now(), nil
	}
	date, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD): %w", value, err)
	}
	return date, nil
}

func readParseInput(input string) (string, string, error) {
	if input == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return "", "", fmt.Errorf("read input %s: %w", input, err)
	}
	return string(data), input, nil
}

func printRows(rows []timesheet.PayRow) {
	fmt.Printf("%-10s %-8s %-24s %-5s %-5s %-5s %6s %8s %9s  %s\n",
		"Date", "Worker", "Address", "Unit", "Start", "End", "Hours", "Pay", "Materials", "Notes")
	for _, row := range rows {
		fmt.Printf("%-10s %-8s %-24s %-5s %-5s %-5s %6s %8.2f %9.2f  %s\n",
			orDash(row.DateString()),
			orDash(row.Worker),
			orDash(row.Address),
			orDash(row.Unit),
			orDash(row.StartClock()),
			orDash(row.EndClock()),
			timesheet.FormatHours(row.TotalHours),
			row.Pay,
			row.Materials,
			row.Notes,
		)
	}
	fmt.Printf("Rows: %d\n", len(rows))
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseInput, "input", "i", "", "Input text file, or - for stdin")
	parseCmd.Flags().StringVar(&parseDate, "date", "", "Processing date (YYYY-MM-DD, default today)")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Persist parsed rows to the local SQLite database")
	parseCmd.Flags().StringVar(&parseDBPath, "db", "./fieldsheet.db", "Path to local SQLite database")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "Write rows to this file (csv or xlsx)")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "Output format: csv|excel (inferred from extension when omitted)")
	parseCmd.Flags().IntVar(&parseTimeout, "timeout", 20, "Overall travel-lookup timeout in seconds")

	_ = parseCmd.MarkFlagRequired("input")
}
