package timesheet

import "sort"

// MonthAggregate is the out-of-town summary of one month sheet.
type MonthAggregate struct {
	Month      string
	TotalHours int
	// DaysWorked holds distinct day numbers in ascending order.
	DaysWorked []int
	TotalDays  int
	Rows       []RowTotal
}

// RowTotal records the running totals after one out-of-town row was scanned.
type RowTotal struct {
	Row        int
	Label      string
	Hours      int
	TotalHours int
	TotalDays  int
}

func NewMonthAggregate(month string) MonthAggregate {
	return MonthAggregate{
		Month:      month,
		DaysWorked: []int{},
		Rows:       []RowTotal{},
	}
}

// AddDays inserts a batch of day numbers, skipping ones already present, and
// restores ascending order if anything was inserted. It reports whether the
// set changed.
func (m *MonthAggregate) AddDays(days ...int) bool {
	inserted := false
	for _, day := range days {
		if m.HasDay(day) {
			continue
		}
		m.DaysWorked = append(m.DaysWorked, day)
		inserted = true
	}
	if inserted {
		sort.Ints(m.DaysWorked)
	}
	return inserted
}

func (m MonthAggregate) HasDay(day int) bool {
	for _, existing := range m.DaysWorked {
		if existing == day {
			return true
		}
	}
	return false
}

func (m MonthAggregate) HasHours() bool {
	return m.TotalHours != 0
}

func (m *MonthAggregate) finalize() {
	if m.DaysWorked == nil {
		m.DaysWorked = []int{}
	}
	m.TotalDays = len(m.DaysWorked)
}
