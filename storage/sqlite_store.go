package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/linkian209/travel-time-anaylsis/history"

	_ "modernc.org/sqlite"
)

// timestampLayout keeps a fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the run-history database at path, creating it and
// applying pending migrations as needed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := runMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordRun stores a run and its month totals in one transaction and returns
// the new run ID.
func (s *SQLiteStore) RecordRun(run history.Run) (int64, error) {
	if run.Year <= 0 {
		return 0, fmt.Errorf("run year must be > 0")
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	res, err := tx.Exec(
		`INSERT INTO runs (year, timesheet_file, results_file, created_at) VALUES (?, ?, ?, ?);`,
		run.Year,
		run.TimesheetFile,
		run.ResultsFile,
		createdAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("read inserted run id: %w", err)
	}

	const insertMonth = `
INSERT INTO month_totals (
	run_id,
	position,
	month,
	total_hours,
	total_days,
	days_worked
) VALUES (?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertMonth)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare month insert: %w", err)
	}
	defer stmt.Close()

	for position, month := range run.Months {
		if _, err := stmt.Exec(
			id,
			position,
			month.Month,
			month.TotalHours,
			month.TotalDays,
			encodeDays(month.DaysWorked),
		); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert month %s: %w", month.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// ListRuns returns runs for year, or all runs when year is 0, newest first.
func (s *SQLiteStore) ListRuns(year int) ([]history.Run, error) {
	query := `SELECT id, year, timesheet_file, results_file, created_at FROM runs`
	args := []any{}
	if year != 0 {
		query += ` WHERE year = ?`
		args = append(args, year)
	}
	query += ` ORDER BY created_at DESC, id DESC;`

	return s.queryRuns(query, args...)
}

// LatestRuns returns the newest run of every recorded year, ordered by year.
func (s *SQLiteStore) LatestRuns() ([]history.Run, error) {
	const query = `
SELECT id, year, timesheet_file, results_file, created_at
FROM runs r
WHERE id = (
	SELECT id FROM runs
	WHERE year = r.year
	ORDER BY created_at DESC, id DESC
	LIMIT 1
)
ORDER BY year;`

	return s.queryRuns(query)
}

func (s *SQLiteStore) queryRuns(query string, args ...any) ([]history.Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	runs := make([]history.Run, 0, 16)
	for rows.Next() {
		var (
			run        history.Run
			createdRaw string
		)
		if err := rows.Scan(&run.ID, &run.Year, &run.TimesheetFile, &run.ResultsFile, &createdRaw); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt, err = time.Parse(timestampLayout, createdRaw)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("parse run timestamp %q: %w", createdRaw, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	_ = rows.Close()

	for i := range runs {
		months, err := s.monthTotals(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Months = months
	}
	return runs, nil
}

func (s *SQLiteStore) monthTotals(runID int64) ([]history.MonthTotal, error) {
	const query = `
SELECT month, total_hours, total_days, days_worked
FROM month_totals
WHERE run_id = ?
ORDER BY position;`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("query month totals of run %d: %w", runID, err)
	}
	defer rows.Close()

	months := make([]history.MonthTotal, 0, 12)
	for rows.Next() {
		var (
			month   history.MonthTotal
			daysRaw string
		)
		if err := rows.Scan(&month.Month, &month.TotalHours, &month.TotalDays, &daysRaw); err != nil {
			return nil, fmt.Errorf("scan month total: %w", err)
		}
		month.DaysWorked, err = decodeDays(daysRaw)
		if err != nil {
			return nil, fmt.Errorf("decode days of %s in run %d: %w", month.Month, runID, err)
		}
		months = append(months, month)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month totals: %w", err)
	}

	history.SortMonths(months)
	return months, nil
}

// DeleteAllRuns removes every recorded run and returns how many were deleted.
func (s *SQLiteStore) DeleteAllRuns() (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM month_totals;`); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete month totals: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM runs;`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return deleted, nil
}

func encodeDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, strconv.Itoa(day))
	}
	return strings.Join(parts, ",")
}

func decodeDays(raw string) ([]int, error) {
	days := []int{}
	if strings.TrimSpace(raw) == "" {
		return days, nil
	}
	for _, part := range strings.Split(raw, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}
