package classify

import "strings"

// Kind is the role a timesheet row plays during a month scan.
type Kind int

const (
	Blank Kind = iota
	Sentinel
	OutOfTown
	Ignored
)

func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Sentinel:
		return "sentinel"
	case OutOfTown:
		return "out-of-town"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Rules decides row relevance from the PO label alone.
type Rules struct {
	// Sentinels are the exact renderings that end a sheet's data rows.
	Sentinels []string
	// Markers flag a PO label as out-of-town work when contained in it.
	Markers []string
}

// Classify returns the row kind for one PO label. The label candidates are
// every rendering of the same cell (displayed value, formula text); a row is a
// sentinel if any rendering matches.
func (r Rules) Classify(renderings ...string) Kind {
	label := ""
	for _, candidate := range renderings {
		if r.IsSentinel(candidate) {
			return Sentinel
		}
		if label == "" && strings.TrimSpace(candidate) != "" {
			label = candidate
		}
	}
	if label == "" {
		return Blank
	}
	if HasMarker(label, r.Markers) {
		return OutOfTown
	}
	return Ignored
}

func (r Rules) IsSentinel(label string) bool {
	if label == "" {
		return false
	}
	for _, sentinel := range r.Sentinels {
		if label == sentinel {
			return true
		}
	}
	return false
}

// HasMarker reports whether label contains any of the out-of-town markers.
func HasMarker(label string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(label, marker) {
			return true
		}
	}
	return false
}
