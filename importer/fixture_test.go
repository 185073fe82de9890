package importer

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// timesheetFixture builds month sheets in the default layout: day numbers
// 1..31 in row 3 from column C, PO labels in column A from row 4.
type timesheetFixture struct {
	t     *testing.T
	file  *excelize.File
	first bool
}

func newTimesheetFixture(t *testing.T) *timesheetFixture {
	t.Helper()
	file := excelize.NewFile()
	t.Cleanup(func() { _ = file.Close() })
	return &timesheetFixture{t: t, file: file, first: true}
}

func (f *timesheetFixture) addSheet(name string) *timesheetFixture {
	f.t.Helper()
	if f.first {
		if err := f.file.SetSheetName("Sheet1", name); err != nil {
			f.t.Fatalf("rename first sheet: %v", err)
		}
		f.first = false
	} else if _, err := f.file.NewSheet(name); err != nil {
		f.t.Fatalf("add sheet %s: %v", name, err)
	}
	return f
}

func (f *timesheetFixture) addMonth(name string) *timesheetFixture {
	f.t.Helper()
	f.addSheet(name)
	for day := 1; day <= 31; day++ {
		f.set(name, 2+day, 3, day)
	}
	return f
}

func (f *timesheetFixture) set(sheet string, col, row int, value any) *timesheetFixture {
	f.t.Helper()
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		f.t.Fatalf("cell name: %v", err)
	}
	if err := f.file.SetCellValue(sheet, cell, value); err != nil {
		f.t.Fatalf("set %s!%s: %v", sheet, cell, err)
	}
	return f
}

func (f *timesheetFixture) label(sheet string, row int, label string) *timesheetFixture {
	return f.set(sheet, 1, row, label)
}

func (f *timesheetFixture) hours(sheet string, row, day int, hours any) *timesheetFixture {
	return f.set(sheet, 2+day, row, hours)
}

func (f *timesheetFixture) formula(sheet string, row int, formula string) *timesheetFixture {
	f.t.Helper()
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.file.SetCellFormula(sheet, cell, formula); err != nil {
		f.t.Fatalf("set formula %s!%s: %v", sheet, cell, err)
	}
	return f
}

func (f *timesheetFixture) year(year int) *timesheetFixture {
	f.t.Helper()
	if err := f.file.SetCellValue("January", "AF1", year); err != nil {
		f.t.Fatalf("set year: %v", err)
	}
	return f
}

func (f *timesheetFixture) save() string {
	f.t.Helper()
	path := filepath.Join(f.t.TempDir(), "timesheet.xlsx")
	if err := f.file.SaveAs(path); err != nil {
		f.t.Fatalf("save fixture: %v", err)
	}
	return path
}

func openFixture(t *testing.T, path string) Workbook {
	t.Helper()
	wb, err := OpenWorkbook(path, "")
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}
