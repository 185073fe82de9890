package timesheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/linkian209/travel-time-anaylsis/internal/classify"
	"github.com/xuri/excelize/v2"
)

// ScanMonth walks the PO column of one month sheet from layout.StartRow until
// a sentinel label and sums the out-of-town hours and days.
func ScanMonth(sheet Sheet, layout Layout) (MonthAggregate, error) {
	rules := layout.Rules()
	aggregate := NewMonthAggregate(sheet.Name())
	lastRow := sheet.MaxRow()

	for row := layout.StartRow; ; row++ {
		if row > lastRow {
			return MonthAggregate{}, &ScanError{
				Sheet:  sheet.Name(),
				Row:    row,
				Column: layout.POColumn,
				Err:    fmt.Errorf("%w after last populated row %d", ErrSentinelNotFound, lastRow),
			}
		}

		po, err := sheet.Cell(row, layout.POColumn)
		if err != nil {
			return MonthAggregate{}, &ScanError{Sheet: sheet.Name(), Row: row, Column: layout.POColumn, Err: err}
		}

		switch rules.Classify(po.Value, po.FormulaText()) {
		case classify.Sentinel:
			aggregate.finalize()
			return aggregate, nil
		case classify.OutOfTown:
			if err := scanRow(sheet, layout, row, po.Label(), &aggregate); err != nil {
				return MonthAggregate{}, err
			}
		}
	}
}

func scanRow(sheet Sheet, layout Layout, row int, label string, aggregate *MonthAggregate) error {
	rowHours := 0
	days := make([]int, 0, layout.DayEndColumn-layout.DayStartColumn+1)

	for col := layout.DayStartColumn; col <= layout.DayEndColumn; col++ {
		cell, err := sheet.Cell(row, col)
		if err != nil {
			return &ScanError{Sheet: sheet.Name(), Row: row, Column: col, Err: err}
		}
		if cell.IsBlank() {
			continue
		}

		hours, err := parseHours(cell.Value)
		if err != nil {
			return &ScanError{Sheet: sheet.Name(), Row: row, Column: col, Err: err}
		}
		rowHours += hours

		header, err := sheet.Cell(layout.DayNumberRow, col)
		if err != nil {
			return &ScanError{Sheet: sheet.Name(), Row: layout.DayNumberRow, Column: col, Err: err}
		}
		day, err := parseDayNumber(header.Value)
		if err != nil {
			return &ScanError{Sheet: sheet.Name(), Row: layout.DayNumberRow, Column: col, Err: err}
		}
		days = append(days, day)
	}

	aggregate.TotalHours += rowHours
	aggregate.AddDays(days...)
	aggregate.Rows = append(aggregate.Rows, RowTotal{
		Row:        row,
		Label:      label,
		Hours:      rowHours,
		TotalHours: aggregate.TotalHours,
		TotalDays:  len(aggregate.DaysWorked),
	})
	return nil
}

// parseHours coerces an hour cell to whole hours; fractions are truncated.
func parseHours(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNonNumericHours, raw)
	}
	return int(value), nil
}

// parseDayNumber accepts a plain day of month or an Excel date serial.
func parseDayNumber(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(value, 0) || value != math.Trunc(value) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDayNumber, raw)
	}

	switch {
	case value >= 1 && value <= 31:
		return int(value), nil
	case value > 31:
		date, err := excelize.ExcelDateToTime(value, false)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidDayNumber, raw, err)
		}
		return date.Day(), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDayNumber, raw)
	}
}
