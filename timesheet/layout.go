package timesheet

import (
	"fmt"
	"strings"

	"github.com/linkian209/travel-time-anaylsis/internal/classify"
	"github.com/xuri/excelize/v2"
)

// Layout fixes where a timesheet keeps its data. Rows and columns are 1-based.
type Layout struct {
	TotalsSheet    string
	YearSheet      string
	YearCell       string
	POColumn       int
	StartRow       int
	DayStartColumn int
	DayEndColumn   int
	DayOfWeekRow   int
	DayNumberRow   int
	Sentinels      []string
	Markers        []string
}

func DefaultLayout() Layout {
	return Layout{
		TotalsSheet:    "Totals",
		YearSheet:      "January",
		YearCell:       "AF1",
		POColumn:       1,
		StartRow:       4,
		DayStartColumn: 3,
		DayEndColumn:   33,
		DayOfWeekRow:   2,
		DayNumberRow:   3,
		Sentinels:      []string{"CTI Holiday", "=January!$A$64", "=January!$A$36"},
		Markers:        []string{"(5)", "(6)"},
	}
}

func (l Layout) Rules() classify.Rules {
	return classify.Rules{
		Sentinels: append([]string(nil), l.Sentinels...),
		Markers:   append([]string(nil), l.Markers...),
	}
}

// YearCoordinates resolves YearCell into (row, column).
func (l Layout) YearCoordinates() (int, int, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.TrimSpace(l.YearCell))
	if err != nil {
		return 0, 0, fmt.Errorf("parse year cell %q: %w", l.YearCell, err)
	}
	return row, col, nil
}

func (l Layout) Validate() error {
	if l.POColumn < 1 {
		return fmt.Errorf("layout: po column must be >= 1")
	}
	if l.StartRow < 1 {
		return fmt.Errorf("layout: start row must be >= 1")
	}
	if l.DayStartColumn < 1 || l.DayEndColumn < l.DayStartColumn {
		return fmt.Errorf("layout: invalid day column range %d..%d", l.DayStartColumn, l.DayEndColumn)
	}
	if l.DayStartColumn <= l.POColumn && l.POColumn <= l.DayEndColumn {
		return fmt.Errorf("layout: po column %d overlaps day columns %d..%d", l.POColumn, l.DayStartColumn, l.DayEndColumn)
	}
	if l.DayNumberRow < 1 || l.DayNumberRow >= l.StartRow {
		return fmt.Errorf("layout: day number row %d must be above start row %d", l.DayNumberRow, l.StartRow)
	}
	if strings.TrimSpace(l.YearSheet) == "" {
		return fmt.Errorf("layout: year sheet is required")
	}
	if _, _, err := l.YearCoordinates(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if len(l.Sentinels) == 0 {
		return fmt.Errorf("layout: at least one sentinel label is required")
	}
	if len(l.Markers) == 0 {
		return fmt.Errorf("layout: at least one out-of-town marker is required")
	}
	for i, marker := range l.Markers {
		if strings.TrimSpace(marker) == "" {
			return fmt.Errorf("layout: markers[%d] is empty", i)
		}
	}
	return nil
}
