package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/linkian209/travel-time-anaylsis/history"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, runs []history.Run) error {
	return writeExcel(path, "History", monthlyHeaders, monthlyRows(runs))
}

func writeExcel(path, sheetName string, headers []string, rows [][]string) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("name excel sheet %s: %w", sheetName, err)
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range rows {
		row := i + 2
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}
	return nil
}
