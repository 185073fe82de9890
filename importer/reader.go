package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/linkian209/travel-time-anaylsis/timesheet"
)

// Workbook is a loaded timesheet: named month sheets in document order.
type Workbook interface {
	SheetNames() []string
	Sheet(name string) (timesheet.Sheet, error)
	Close() error
}

// OpenWorkbook opens a timesheet, choosing the backend from format or, when
// format is empty, from the file extension.
func OpenWorkbook(path, format string) (Workbook, error) {
	sourceFormat, err := inferFormat(path, format)
	if err != nil {
		return nil, err
	}

	switch sourceFormat {
	case "excel":
		return OpenExcel(path)
	case "xls":
		return OpenXLS(path)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return normalizeFormat(format)
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "xlsx", "xlsm":
		return "excel", nil
	case "xls":
		return "xls", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

func normalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "excel", "xlsx", "xlsm":
		return "excel", nil
	case "xls":
		return "xls", nil
	default:
		return "", fmt.Errorf("unsupported input format: %s", format)
	}
}

func containsSheet(names []string, name string) bool {
	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}
	return false
}
