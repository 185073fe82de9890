package output

import (
	"fmt"
	"math"
	"sort"

	"github.com/linkian209/travel-time-anaylsis/history"
)

// BuildYearSummaries rolls the given runs up per year, using the newest run
// of each year. Percentages use the same ratios as the year page.
func BuildYearSummaries(runs []history.Run, options ResultsOptions) []history.YearSummary {
	options = options.withDefaults()

	latest := make(map[int]history.Run)
	for _, run := range runs {
		current, ok := latest[run.Year]
		if !ok || run.CreatedAt.After(current.CreatedAt) ||
			(run.CreatedAt.Equal(current.CreatedAt) && run.ID > current.ID) {
			latest[run.Year] = run
		}
	}

	years := make([]int, 0, len(latest))
	for year := range latest {
		years = append(years, year)
	}
	sort.Ints(years)

	summaries := make([]history.YearSummary, 0, len(years))
	for _, year := range years {
		run := latest[year]
		hours := run.TotalHours()
		days := run.TotalDays()
		summaries = append(summaries, history.YearSummary{
			Year:          year,
			TotalHours:    hours,
			TotalDays:     days,
			DaysPercent:   percentOf(days, options.DaysInYear),
			HoursPercent:  percentOf(hours, options.HoursInYear),
			RecordedAt:    run.CreatedAt,
			ResultsFile:   run.ResultsFile,
			MonthsScanned: len(run.Months),
		})
	}
	return summaries
}

func percentOf(value, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(math.Abs(float64(value)/float64(whole))*10000) / 100
}

var yearlyHeaders = []string{"Year", "TotalHours", "TotalDays", "PercentDays", "PercentHours", "MonthsScanned", "RecordedAt", "ResultsFile"}

func WriteYearSummaries(path, format string, summaries []history.YearSummary) error {
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", summary.Year),
			fmt.Sprintf("%d", summary.TotalHours),
			fmt.Sprintf("%d", summary.TotalDays),
			fmt.Sprintf("%.2f", summary.DaysPercent),
			fmt.Sprintf("%.2f", summary.HoursPercent),
			fmt.Sprintf("%d", summary.MonthsScanned),
			summary.RecordedAt.Format("2006-01-02 15:04:05"),
			summary.ResultsFile,
		})
	}

	switch normalizeFormat(format) {
	case "csv":
		return writeCSV(path, yearlyHeaders, rows)
	case "excel", "xlsx":
		return writeExcel(path, "Years", yearlyHeaders, rows)
	default:
		return fmt.Errorf("unsupported output format for year summaries: %s", format)
	}
}
