package timeutil

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalMonth maps a sheet name such as "JANUARY" or " january " to the
// English month name and number.
func CanonicalMonth(name string) (string, time.Month, bool) {
	title := cases.Title(language.English).String(strings.TrimSpace(name))
	for month := time.January; month <= time.December; month++ {
		if month.String() == title {
			return title, month, true
		}
	}
	return "", 0, false
}

// MonthNumber returns the calendar number of a month name, or 0 when the name
// is not a month.
func MonthNumber(name string) int {
	_, month, ok := CanonicalMonth(name)
	if !ok {
		return 0
	}
	return int(month)
}

func MonthNames() []string {
	names := make([]string, 0, 12)
	for month := time.January; month <= time.December; month++ {
		names = append(names, month.String())
	}
	return names
}
