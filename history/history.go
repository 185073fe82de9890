package history

import (
	"sort"
	"time"

	"github.com/linkian209/travel-time-anaylsis/internal/timeutil"
	"github.com/linkian209/travel-time-anaylsis/timesheet"
)

// Run is one recorded aggregation of a timesheet into a results file.
type Run struct {
	ID            int64
	Year          int
	TimesheetFile string
	ResultsFile   string
	CreatedAt     time.Time
	Months        []MonthTotal
}

// MonthTotal is the persisted form of a month aggregate.
type MonthTotal struct {
	Month      string
	TotalHours int
	TotalDays  int
	DaysWorked []int
}

// NewRun captures the month aggregates of a finished scan.
func NewRun(year int, timesheetFile, resultsFile string, months []timesheet.MonthAggregate) Run {
	run := Run{
		Year:          year,
		TimesheetFile: timesheetFile,
		ResultsFile:   resultsFile,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		Months:        make([]MonthTotal, 0, len(months)),
	}
	for _, month := range months {
		days := append([]int(nil), month.DaysWorked...)
		run.Months = append(run.Months, MonthTotal{
			Month:      month.Month,
			TotalHours: month.TotalHours,
			TotalDays:  month.TotalDays,
			DaysWorked: days,
		})
	}
	SortMonths(run.Months)
	return run
}

// TotalHours sums the hours of all months in the run.
func (r Run) TotalHours() int {
	total := 0
	for _, month := range r.Months {
		total += month.TotalHours
	}
	return total
}

// TotalDays sums the day counts of all months in the run.
func (r Run) TotalDays() int {
	total := 0
	for _, month := range r.Months {
		total += month.TotalDays
	}
	return total
}

// SortMonths orders months by calendar position. Unknown names go last,
// in their original order.
func SortMonths(months []MonthTotal) {
	sort.SliceStable(months, func(i, j int) bool {
		return monthKey(months[i].Month) < monthKey(months[j].Month)
	})
}

func monthKey(name string) int {
	number := timeutil.MonthNumber(name)
	if number == 0 {
		return 13
	}
	return number
}

// YearSummary is the yearly roll-up written by the yearly export.
type YearSummary struct {
	Year          int
	TotalHours    int
	TotalDays     int
	DaysPercent   float64
	HoursPercent  float64
	RecordedAt    time.Time
	ResultsFile   string
	MonthsScanned int
}
