package timesheet

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrSentinelNotFound means a sheet ran out of rows before its end-of-data label.
	ErrSentinelNotFound = errors.New("sentinel row not found")
	// ErrNonNumericHours means an out-of-town row holds a non-numeric hour cell.
	ErrNonNumericHours = errors.New("hours value is not numeric")
	// ErrInvalidDayNumber means the day-number header of a used column is not a day of month.
	ErrInvalidDayNumber = errors.New("invalid day number")
)

// ScanError locates a failure inside one month sheet.
type ScanError struct {
	Sheet  string
	Row    int
	Column int
	Err    error
}

func (e *ScanError) Error() string {
	cell, err := excelize.CoordinatesToCellName(e.Column, e.Row)
	if err != nil {
		cell = fmt.Sprintf("row %d column %d", e.Row, e.Column)
	}
	return fmt.Sprintf("scan sheet %q at %s: %v", e.Sheet, cell, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
