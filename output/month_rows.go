package output

import (
	"errors"
	"fmt"

	"github.com/linkian209/travel-time-anaylsis/internal/timeutil"
)

// ErrUnknownMonth is returned for names that are not calendar months.
var ErrUnknownMonth = errors.New("unknown month")

const (
	firstMonthRow = 3
	lastMonthRow  = 14
	totalRow      = 15
)

// MonthRow returns the year page row of a month: January is row 3 and
// December row 14. Names are matched case-insensitively.
func MonthRow(month string) (int, error) {
	number := timeutil.MonthNumber(month)
	if number == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, month)
	}
	return firstMonthRow + number - 1, nil
}
