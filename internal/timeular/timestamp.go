package timeular

import (
	"strings"
	"time"
)

const (
	layoutSeconds = "2006-01-02T15:04:05"
	layoutMillis  = "2006-01-02T15:04:05.000"
)

// PadFraction pads a fractional-seconds component to exactly 3 digits. The
// API emits fractions of variable width; the millisecond layout needs a
// fixed one. A timestamp without a fraction passes through unchanged.
func PadFraction(ts string) string {
	head, frac, ok := strings.Cut(ts, ".")
	if !ok {
		return ts
	}
	for len(frac) < 3 {
		frac += "0"
	}
	return head + "." + frac
}

// ParseTimestamp parses an API timestamp, tolerating a trailing zone marker
// and a variable-width (or absent) fractional-seconds component.
func ParseTimestamp(ts string) (time.Time, error) {
	ts = PadFraction(strings.TrimSuffix(ts, "Z"))
	layout := layoutSeconds
	if strings.Contains(ts, ".") {
		layout = layoutMillis
	}
	return time.Parse(layout, ts)
}
