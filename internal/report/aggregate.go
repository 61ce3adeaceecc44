// Package report turns a day's raw time entries into the per-activity
// summary the renderer and the run ledger consume.
package report

import (
	"errors"
	"fmt"
	"time"

	"timeglance/internal/timeular"
)

var ErrUnknownActivity = errors.New("time entry references unknown activity")

// Summary carries parallel per-activity sequences, aligned by first-seen
// order of the activity id in the raw entry list. That order drives the
// vertical stacking in the rendered columns.
type Summary struct {
	Labels       []string
	Colors       []string
	Durations    []float64 // minutes
	TotalMinutes float64
}

// Aggregate groups entries by activity id and sums elapsed minutes. Elapsed
// time is truncated to whole seconds before the minute conversion, matching
// the precision of the upstream timestamps.
func Aggregate(catalog map[string]timeular.Activity, entries []timeular.TimeEntry) (Summary, error) {
	var s Summary
	index := make(map[string]int)
	for _, e := range entries {
		seconds := e.StoppedAt.Sub(e.StartedAt) / time.Second
		minutes := float64(seconds) / 60
		i, seen := index[e.ActivityID]
		if !seen {
			a, ok := catalog[e.ActivityID]
			if !ok {
				return Summary{}, fmt.Errorf("%w: %s", ErrUnknownActivity, e.ActivityID)
			}
			i = len(s.Labels)
			index[e.ActivityID] = i
			s.Labels = append(s.Labels, a.Name)
			s.Colors = append(s.Colors, a.Color)
			s.Durations = append(s.Durations, 0)
		}
		s.Durations[i] += minutes
		s.TotalMinutes += minutes
	}
	return s, nil
}

// FormatMinutes renders fractional minutes as "{H}h {M}m" with integer
// truncation, e.g. 55.5 -> "0h 55m".
func FormatMinutes(minutes float64) string {
	whole := int(minutes)
	return fmt.Sprintf("%dh %dm", whole/60, whole%60)
}
