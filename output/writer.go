package output

import (
	"fmt"
	"strings"

	"github.com/linkian209/travel-time-anaylsis/history"
	"github.com/linkian209/travel-time-anaylsis/internal/timeutil"
	"github.com/linkian209/travel-time-anaylsis/timesheet"
)

// ReportWriter is the results sink the aggregated months are written to.
type ReportWriter interface {
	HasYearPage(year int) bool
	CreateYearPage(year int) error
	WriteMonth(year int, month string, hours, days int) error
}

// WriteReport writes all months of one year. Every month name is checked
// before anything is written; an existing year page is reused.
func WriteReport(w ReportWriter, year int, months []timesheet.MonthAggregate) error {
	for _, month := range months {
		if _, _, ok := timeutil.CanonicalMonth(month.Month); !ok {
			return fmt.Errorf("%w: sheet %q is not a month", ErrUnknownMonth, month.Month)
		}
	}

	if !w.HasYearPage(year) {
		if err := w.CreateYearPage(year); err != nil {
			return err
		}
	}

	for _, month := range months {
		if err := w.WriteMonth(year, month.Month, month.TotalHours, month.TotalDays); err != nil {
			return err
		}
	}
	return nil
}

// Writer exports recorded run history.
type Writer interface {
	Write(path string, runs []history.Run) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

var monthlyHeaders = []string{"RunID", "Year", "Month", "TotalHours", "TotalDays", "DaysWorked", "RecordedAt", "TimesheetFile", "ResultsFile"}

// monthlyRows flattens runs into one row per recorded month.
func monthlyRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs)*12)
	for _, run := range runs {
		for _, month := range run.Months {
			days := make([]string, 0, len(month.DaysWorked))
			for _, day := range month.DaysWorked {
				days = append(days, fmt.Sprintf("%d", day))
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", run.ID),
				fmt.Sprintf("%d", run.Year),
				month.Month,
				fmt.Sprintf("%d", month.TotalHours),
				fmt.Sprintf("%d", month.TotalDays),
				strings.Join(days, " "),
				run.CreatedAt.Format("2006-01-02 15:04:05"),
				run.TimesheetFile,
				run.ResultsFile,
			})
		}
	}
	return rows
}
