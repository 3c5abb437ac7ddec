package storage

import (
	"path/filepath"
	"testing"
	"time"

	"fieldsheet/timesheet"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "fieldsheet_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func draftRow(worker, date string, start, end int, hours, pay float64) timesheet.PayRow {
	entry := timesheet.New()
	entry.Worker = worker
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.UTC)
		if err != nil {
			panic(err)
		}
		entry.Date = parsed
	}
	entry.Address = "1513 Lafayette"
	entry.Start = start
	entry.End = end
	entry.TotalHours = hours
	return timesheet.PayRow{Entry: entry, Pay: pay}
}

func TestSQLiteStore_InsertAndListRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	row := draftRow("Jose", "2026-08-24", 540, 1050, 8.5, 212.50)
	row.Unit = "2B"
	row.Materials = 10
	row.Notes = "Checked water pressure"

	inserted, err := store.InsertRows([]timesheet.PayRow{row}, "notes.txt")
	if err != nil {
		t.Fatalf("insert rows: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("expected 1 inserted row, got %d", inserted)
	}

	listed, err := store.ListRows()
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(listed))
	}

	got := listed[0]
	if got.Worker != "Jose" || got.DateString() != "2026-08-24" {
		t.Fatalf("identity fields lost: %+v", got)
	}
	if got.Start != 540 || got.End != 1050 {
		t.Fatalf("times lost: %d-%d", got.Start, got.End)
	}
	if got.TotalHours != 8.5 || got.Pay != 212.50 || got.Materials != 10 {
		t.Fatalf("numeric fields lost: %+v", got)
	}
	if got.Unit != "2B" || got.Address != "1513 Lafayette" || got.Notes != "Checked water pressure" {
		t.Fatalf("text fields lost: %+v", got)
	}
}

func TestSQLiteStore_SkipsExactDuplicates(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	row := draftRow("Jose", "2026-08-24", 540, 1050, 8.5, 212.50)

	if inserted, err := store.InsertRows([]timesheet.PayRow{row}, "notes.txt"); err != nil || inserted != 1 {
		t.Fatalf("first insert: inserted=%d err=%v", inserted, err)
	}
	if inserted, err := store.InsertRows([]timesheet.PayRow{row}, "notes.txt"); err != nil || inserted != 0 {
		t.Fatalf("duplicate insert: inserted=%d err=%v", inserted, err)
	}

	listed, err := store.ListRows()
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(listed))
	}
}

func TestSQLiteStore_SameRowFromDifferentSourcesKept(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	row := draftRow("Jose", "2026-08-24", 540, 1050, 8.5, 212.50)

	if _, err := store.InsertRows([]timesheet.PayRow{row}, "monday.txt"); err != nil {
		t.Fatalf("insert from first source: %v", err)
	}
	if _, err := store.InsertRows([]timesheet.PayRow{row}, "monday_rescan.txt"); err != nil {
		t.Fatalf("insert from second source: %v", err)
	}

	listed, err := store.ListRows()
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(listed))
	}
}

func TestSQLiteStore_ListOrdersByDateThenWorker(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	rows := []timesheet.PayRow{
		draftRow("Myer", "2026-08-25", 480, 960, 8, 160),
		draftRow("Jose", "2026-08-24", 480, 960, 8, 200),
		draftRow("Chris", "2026-08-25", 480, 960, 8, 240),
	}

	if _, err := store.InsertRows(rows, "week.txt"); err != nil {
		t.Fatalf("insert rows: %v", err)
	}

	listed, err := store.ListRows()
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}

	if len(listed) != 3 {
		t.Fatalf("expected 3 stored rows, got %d", len(listed))
	}

	var order []string
	for _, row := range listed {
		order = append(order, row.DateString()+"/"+row.Worker)
	}
	want := []string{"2026-08-24/Jose", "2026-08-25/Chris", "2026-08-25/Myer"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order: want %v, got %v", want, order)
		}
	}
}

func TestSQLiteStore_RowWithoutTimesOrDate(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	row := draftRow("Jose", "", timesheet.NoTime, timesheet.NoTime, 2, 50)

	if inserted, err := store.InsertRows([]timesheet.PayRow{row}, "notes.txt"); err != nil || inserted != 1 {
		t.Fatalf("insert: inserted=%d err=%v", inserted, err)
	}

	listed, err := store.ListRows()
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	got := listed[0]
	if got.HasDate() {
		t.Fatalf("expected unknown date, got %s", got.DateString())
	}
	if got.HasTimes() {
		t.Fatalf("expected absent times, got %d-%d", got.Start, got.End)
	}
}
