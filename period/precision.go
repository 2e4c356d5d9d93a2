package period

import "strings"

// Precision is the unit used to compute interval boundaries and children.
type Precision string

const (
	PrecisionMonth Precision = "month" // Whole calendar months
	PrecisionDay   Precision = "day"   // Day-aligned, month-long windows
)

var precisions = []Precision{PrecisionMonth, PrecisionDay}

// Precisions returns the valid precision values.
func Precisions() []Precision {
	out := make([]Precision, len(precisions))
	copy(out, precisions)
	return out
}

// Valid reports whether p is one of the enumerated precisions.
func (p Precision) Valid() bool {
	for _, v := range precisions {
		if p == v {
			return true
		}
	}
	return false
}

func (p Precision) String() string { return string(p) }

// ParsePrecision parses a precision name, ignoring case and surrounding space.
func ParsePrecision(s string) (Precision, error) {
	p := Precision(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", &InvalidPrecisionError{Value: s}
	}
	return p, nil
}
