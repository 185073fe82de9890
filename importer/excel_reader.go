package importer

import (
	"fmt"

	"github.com/linkian209/travel-time-anaylsis/timesheet"
	"github.com/xuri/excelize/v2"
)

// ExcelWorkbook reads .xlsx/.xlsm timesheets through excelize.
type ExcelWorkbook struct {
	file *excelize.File
	path string
}

func OpenExcel(path string) (*ExcelWorkbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	if len(file.GetSheetList()) == 0 {
		_ = file.Close()
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}
	return &ExcelWorkbook{file: file, path: path}, nil
}

func (w *ExcelWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *ExcelWorkbook) Sheet(name string) (timesheet.Sheet, error) {
	index, err := w.file.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("look up sheet %s: %w", name, err)
	}
	if index == -1 {
		return nil, fmt.Errorf("sheet %s not found in %s", name, w.path)
	}

	maxRow, err := w.lastRow(name)
	if err != nil {
		return nil, err
	}
	return &excelSheet{file: w.file, name: name, maxRow: maxRow}, nil
}

func (w *ExcelWorkbook) Close() error {
	return w.file.Close()
}

// lastRow counts through the row iterator so rows holding only formulas
// without cached values still count.
func (w *ExcelWorkbook) lastRow(name string) (int, error) {
	rows, err := w.file.Rows(name)
	if err != nil {
		return 0, fmt.Errorf("read rows from sheet %s: %w", name, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Error(); err != nil {
		return 0, fmt.Errorf("iterate rows of sheet %s: %w", name, err)
	}
	return count, nil
}

type excelSheet struct {
	file   *excelize.File
	name   string
	maxRow int
}

func (s *excelSheet) Name() string {
	return s.name
}

func (s *excelSheet) MaxRow() int {
	return s.maxRow
}

func (s *excelSheet) Cell(row, col int) (timesheet.Cell, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return timesheet.Cell{}, fmt.Errorf("cell name for row %d column %d: %w", row, col, err)
	}

	value, err := s.file.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return timesheet.Cell{}, fmt.Errorf("read excel value %s: %w", cell, err)
	}
	formula, err := s.file.GetCellFormula(s.name, cell)
	if err != nil {
		return timesheet.Cell{}, fmt.Errorf("read excel formula %s: %w", cell, err)
	}

	return timesheet.Cell{Value: value, Formula: formula}, nil
}
