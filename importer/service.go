package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/linkian209/travel-time-anaylsis/timesheet"
	"golang.org/x/sync/errgroup"
)

// ErrYearNotFound means the year could not be read from the year sheet.
var ErrYearNotFound = errors.New("timesheet year not found")

type Result struct {
	Year          int
	Months        map[string]timesheet.MonthAggregate
	Order         []string
	SheetsSkipped int
}

// Aggregates returns the month aggregates in sheet order.
func (r *Result) Aggregates() []timesheet.MonthAggregate {
	out := make([]timesheet.MonthAggregate, 0, len(r.Order))
	for _, name := range r.Order {
		out = append(out, r.Months[name])
	}
	return out
}

type RunOptions struct {
	// Parallel scans month sheets concurrently; rows within a sheet stay ordered.
	Parallel bool
	Workers  int
	// Out receives the per-month console summary. Nil disables it.
	Out io.Writer
}

// Run reads the year and scans every month sheet of wb. No partial result is
// returned: the first failing sheet aborts the run.
func Run(wb Workbook, layout timesheet.Layout, options RunOptions) (*Result, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	year, err := ReadYear(wb, layout)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Year:   year,
		Months: make(map[string]timesheet.MonthAggregate),
	}

	sheets := make([]timesheet.Sheet, 0, 13)
	for _, name := range wb.SheetNames() {
		if name == layout.TotalsSheet {
			result.SheetsSkipped++
			continue
		}
		sheet, err := wb.Sheet(name)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}

	aggregates, err := scanSheets(sheets, layout, options)
	if err != nil {
		return nil, err
	}
	for i, sheet := range sheets {
		result.Order = append(result.Order, sheet.Name())
		result.Months[sheet.Name()] = aggregates[i]
	}

	if options.Out != nil {
		Report(options.Out, result)
	}
	return result, nil
}

func scanSheets(sheets []timesheet.Sheet, layout timesheet.Layout, options RunOptions) ([]timesheet.MonthAggregate, error) {
	aggregates := make([]timesheet.MonthAggregate, len(sheets))
	if !options.Parallel {
		for i, sheet := range sheets {
			aggregate, err := timesheet.ScanMonth(sheet, layout)
			if err != nil {
				return nil, err
			}
			aggregates[i] = aggregate
		}
		return aggregates, nil
	}

	group, ctx := errgroup.WithContext(context.Background())
	workers := options.Workers
	if workers <= 0 {
		workers = len(sheets)
	}
	group.SetLimit(workers)

	for i, sheet := range sheets {
		i, sheet := i, sheet
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			aggregate, err := timesheet.ScanMonth(sheet, layout)
			if err != nil {
				return err
			}
			aggregates[i] = aggregate
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return aggregates, nil
}

// ReadYear reads the year value from layout.YearCell on layout.YearSheet.
func ReadYear(wb Workbook, layout timesheet.Layout) (int, error) {
	if !containsSheet(wb.SheetNames(), layout.YearSheet) {
		return 0, fmt.Errorf("%w: no %q sheet in timesheet", ErrYearNotFound, layout.YearSheet)
	}

	sheet, err := wb.Sheet(layout.YearSheet)
	if err != nil {
		return 0, err
	}
	row, col, err := layout.YearCoordinates()
	if err != nil {
		return 0, err
	}
	cell, err := sheet.Cell(row, col)
	if err != nil {
		return 0, fmt.Errorf("read year cell %s: %w", layout.YearCell, err)
	}
	if cell.IsBlank() {
		return 0, fmt.Errorf("%w: cell %s on sheet %q is empty", ErrYearNotFound, layout.YearCell, layout.YearSheet)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(cell.Value), 64)
	if err != nil || value != math.Trunc(value) || value < 1 {
		return 0, fmt.Errorf("%w: cell %s on sheet %q holds %q", ErrYearNotFound, layout.YearCell, layout.YearSheet, cell.Value)
	}
	return int(value), nil
}

// Report prints the per-month summary of a run.
func Report(out io.Writer, result *Result) {
	for _, name := range result.Order {
		month := result.Months[name]
		fmt.Fprintf(out, "%s %d\n", name, result.Year)
		fmt.Fprintln(out, "==================================")
		for _, row := range month.Rows {
			fmt.Fprintf(out, "%s: Total Hours:%d Total Days:%d\n", row.Label, row.TotalHours, row.TotalDays)
		}
		if !month.HasHours() {
			fmt.Fprintln(out, "No out of town hours this month.")
		} else {
			fmt.Fprintf(out, "Month total: Hours:%d Days:%d %v\n", month.TotalHours, month.TotalDays, month.DaysWorked)
		}
		fmt.Fprintln(out)
	}
}
