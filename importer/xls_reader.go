package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/linkian209/travel-time-anaylsis/timesheet"
	"github.com/xuri/excelize/v2"
)

// ErrTruncatedXLSDate means an .xls cell uses a built-in date format, which
// the BIFF reader renders as year.month only, so the underlying number is lost.
var ErrTruncatedXLSDate = errors.New("xls cell with a built-in date format reads as year.month only; format it as a number or save the timesheet as .xlsx")

// Built-in date formats come back from extrame/xls as "2006.01".
var truncatedXLSDate = regexp.MustCompile(`^\d{4}\.\d{2}$`)

// Serial zero of the 1900 date system, as used by the BIFF reader.
var xlsEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// XLSWorkbook holds a legacy .xls timesheet fully in memory. BIFF files carry
// only cached formula results, so formula cells read as their values.
type XLSWorkbook struct {
	names  []string
	sheets map[string]*xlsSheet
}

func OpenXLS(path string) (*XLSWorkbook, error) {
	book, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls file %s: %w", path, err)
	}

	workbook := &XLSWorkbook{sheets: make(map[string]*xlsSheet)}
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}
		workbook.names = append(workbook.names, sheet.Name)
		workbook.sheets[sheet.Name] = newXLSSheet(sheet.Name, readXLSRows(sheet))
	}
	if len(workbook.names) == 0 {
		return nil, fmt.Errorf("xls file has no sheets: %s", path)
	}

	return workbook, nil
}

// readXLSRows returns the cells as extrame/xls renders them.
func readXLSRows(sheet *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := sheet.Row(r)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		values := make([]string, row.LastCol()+1)
		for c := range values {
			values[c] = row.Col(c)
		}
		rows = append(rows, values)
	}
	return rows
}

// xlsSheet is a GridSheet of normalised .xls renderings. Cells whose number
// was lost to a built-in date format fail only when read.
type xlsSheet struct {
	*timesheet.GridSheet
	truncated map[[2]int]string
}

func newXLSSheet(name string, rendered [][]string) *xlsSheet {
	sheet := &xlsSheet{truncated: make(map[[2]int]string)}
	rows := make([][]string, len(rendered))
	for r, row := range rendered {
		rows[r] = make([]string, len(row))
		for c, raw := range row {
			value, ok := normalizeXLSValue(raw)
			if !ok {
				sheet.truncated[[2]int{r + 1, c + 1}] = raw
				continue
			}
			rows[r][c] = value
		}
	}
	sheet.GridSheet = timesheet.NewGridSheet(name, rows)
	return sheet
}

func (s *xlsSheet) Cell(row, col int) (timesheet.Cell, error) {
	if raw, ok := s.truncated[[2]int{row, col}]; ok {
		name, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			name = fmt.Sprintf("row %d column %d", row, col)
		}
		return timesheet.Cell{}, fmt.Errorf("%w: %s holds %q", ErrTruncatedXLSDate, name, raw)
	}
	return s.GridSheet.Cell(row, col)
}

// normalizeXLSValue turns the reader's RFC3339 rendering of custom-formatted
// numbers back into a 1900-system serial. It reports false for the lossy
// year.month rendering.
func normalizeXLSValue(raw string) (string, bool) {
	cleaned := strings.TrimSpace(raw)
	if truncatedXLSDate.MatchString(cleaned) {
		return "", false
	}
	if !strings.Contains(cleaned, "T") {
		return raw, true
	}
	parsed, err := time.Parse(time.RFC3339, cleaned)
	if err != nil {
		return raw, true
	}
	serial := parsed.Sub(xlsEpoch).Seconds() / (24 * 60 * 60)
	return strconv.FormatFloat(serial, 'f', -1, 64), true
}

func (w *XLSWorkbook) SheetNames() []string {
	return append([]string(nil), w.names...)
}

func (w *XLSWorkbook) Sheet(name string) (timesheet.Sheet, error) {
	sheet, ok := w.sheets[name]
	if !ok {
		return nil, fmt.Errorf("sheet %s not found", name)
	}
	return sheet, nil
}

func (w *XLSWorkbook) Close() error {
	return nil
}
