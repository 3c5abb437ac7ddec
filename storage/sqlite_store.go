package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"fieldsheet/internal/timeutil"
	"fieldsheet/timesheet"
)

// SQLiteStore persists parsed draft rows so a reviewer can inspect and
// export them after the parse run. The parsing pipeline itself stays
// stateless; only the CLI writes here.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS draft_rows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	worker TEXT NOT NULL,
	work_date TEXT NOT NULL,
	address TEXT NOT NULL,
	unit TEXT NOT NULL,
	start_clock TEXT NOT NULL,
	end_clock TEXT NOT NULL,
	total_hours REAL NOT NULL CHECK(total_hours >= 0),
	materials REAL NOT NULL CHECK(materials >= 0),
	pay REAL NOT NULL CHECK(pay >= 0),
	notes TEXT NOT NULL,
	source_file TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(worker, work_date, address, start_clock, end_clock, total_hours, source_file)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertRows persists draft rows, skipping exact duplicates, and
// returns how many were actually inserted.
func (s *SQLiteStore) InsertRows(rows []timesheet.PayRow, sourceFile string) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const insertStmt = `
INSERT OR IGNORE INTO draft_rows (
	worker,
	work_date,
	address,
	unit,
	start_clock,
	end_clock,
	total_hours,
	materials,
	pay,
	notes,
	source_file
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, row := range rows {
		res, err := stmt.Exec(
			row.Worker,
			row.DateString(),
			row.Address,
			row.Unit,
			row.StartClock(),
			row.EndClock(),
			row.TotalHours,
			row.Materials,
			row.Pay,
			row.Notes,
			sourceFile,
		)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert draft row: %w", err)
		}

		affected, err := res.RowsAffected()
		if err == nil && affected > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

// ListRows returns every stored draft row ordered by date then worker.
func (s *SQLiteStore) ListRows() ([]timesheet.PayRow, error) {
	return s.queryRows(`
SELECT worker, work_date, address, unit, start_clock, end_clock, total_hours, materials, pay, notes
FROM draft_rows
ORDER BY work_date, worker, id;`)
}

func (s *SQLiteStore) queryRows(query string, args ...any) ([]timesheet.PayRow, error) {
	result, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query draft rows: %w", err)
	}
	defer result.Close()

	rows := make([]timesheet.PayRow, 0, 64)
	for result.Next() {
		var (
			row        timesheet.PayRow
			workDate   string
			startClock string
			endClock   string
		)
		row.Start = timesheet.NoTime
		row.End = timesheet.NoTime

		if err := result.Scan(
			&row.Worker,
			&workDate,
			&row.Address,
			&row.Unit,
			&startClock,
			&endClock,
			&row.TotalHours,
			&row.Materials,
			&row.Pay,
			&row.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan draft row: %w", err)
		}

		if workDate != "" {
			date, err := time.ParseInLocation("2006-01-02", workDate, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("parse stored date %q: %w", workDate, err)
			}
			row.Date = date
		}
		if startClock != "" {
			if row.Start, err = timeutil.ParseClock(startClock); err != nil {
				return nil, fmt.Errorf("parse stored start %q: %w", startClock, err)
			}
		}
		if endClock != "" {
			if row.End, err = timeutil.ParseClock(endClock); err != nil {
				return nil, fmt.Errorf("parse stored end %q: %w", endClock, err)
			}
		}

		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("iterate draft rows: %w", err)
	}

	return rows, nil
}
