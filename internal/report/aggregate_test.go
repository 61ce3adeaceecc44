package report_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"timeglance/internal/report"
	"timeglance/internal/timeular"
)

func entry(id string, start, stop time.Time) timeular.TimeEntry {
	return timeular.TimeEntry{ActivityID: id, StartedAt: start, StoppedAt: stop}
}

func at(h, m, s int) time.Time {
	return time.Date(2024, 3, 1, h, m, s, 0, time.UTC)
}

func TestAggregateEndToEndFixture(t *testing.T) {
	catalog := map[string]timeular.Activity{
		"a1": {ID: "a1", Name: "Writing", Color: "#ff0000"},
		"a2": {ID: "a2", Name: "Reading", Color: "#00ff00"},
	}
	entries := []timeular.TimeEntry{
		entry("a1", at(9, 0, 0), at(9, 30, 0)),
		entry("a2", at(10, 0, 0), at(10, 15, 0)),
		entry("a1", at(11, 0, 0), at(11, 10, 0)),
	}
	s, err := report.Aggregate(catalog, entries)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(s.Labels) != 2 || s.Labels[0] != "Writing" || s.Labels[1] != "Reading" {
		t.Fatalf("labels = %v", s.Labels)
	}
	if s.Colors[0] != "#ff0000" || s.Colors[1] != "#00ff00" {
		t.Fatalf("colors = %v", s.Colors)
	}
	if s.Durations[0] != 40.0 || s.Durations[1] != 15.0 {
		t.Fatalf("durations = %v", s.Durations)
	}
	if got := report.FormatMinutes(s.TotalMinutes); got != "0h 55m" {
		t.Fatalf("total = %q, want 0h 55m", got)
	}
}

func TestAggregateConservation(t *testing.T) {
	catalog := map[string]timeular.Activity{
		"a": {ID: "a", Name: "A", Color: "#111111"},
		"b": {ID: "b", Name: "B", Color: "#222222"},
	}
	entries := []timeular.TimeEntry{
		entry("a", at(9, 0, 0), at(9, 12, 30)),
		entry("b", at(10, 0, 0), at(10, 7, 45)),
		entry("a", at(11, 0, 0), at(11, 3, 15)),
	}
	s, err := report.Aggregate(catalog, entries)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	var perEntry float64
	for _, e := range entries {
		perEntry += float64(e.StoppedAt.Sub(e.StartedAt)/time.Second) / 60
	}
	var perActivity float64
	for _, d := range s.Durations {
		perActivity += d
	}
	if math.Abs(perActivity-perEntry) > 1e-9 || math.Abs(s.TotalMinutes-perEntry) > 1e-9 {
		t.Fatalf("sum mismatch: entries=%v activities=%v total=%v", perEntry, perActivity, s.TotalMinutes)
	}
}

func TestAggregateFirstSeenOrder(t *testing.T) {
	catalog := map[string]timeular.Activity{
		"a": {ID: "a", Name: "A", Color: "#111111"},
		"b": {ID: "b", Name: "B", Color: "#222222"},
	}
	entries := []timeular.TimeEntry{
		entry("b", at(9, 0, 0), at(9, 10, 0)),
		entry("a", at(10, 0, 0), at(10, 10, 0)),
		entry("b", at(11, 0, 0), at(11, 10, 0)),
	}
	s, err := report.Aggregate(catalog, entries)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(s.Labels) != 2 || s.Labels[0] != "B" || s.Labels[1] != "A" {
		t.Fatalf("labels = %v, want [B A]", s.Labels)
	}
	if s.Durations[0] != 20.0 {
		t.Fatalf("B duration = %v, want 20", s.Durations[0])
	}
}

func TestAggregateEmpty(t *testing.T) {
	s, err := report.Aggregate(map[string]timeular.Activity{}, nil)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(s.Labels) != 0 || len(s.Durations) != 0 || s.TotalMinutes != 0 {
		t.Fatalf("expected empty summary, got %+v", s)
	}
}

func TestAggregateUnknownActivity(t *testing.T) {
	catalog := map[string]timeular.Activity{
		"a": {ID: "a", Name: "A", Color: "#111111"},
	}
	entries := []timeular.TimeEntry{
		entry("ghost", at(9, 0, 0), at(9, 10, 0)),
	}
	_, err := report.Aggregate(catalog, entries)
	if !errors.Is(err, report.ErrUnknownActivity) {
		t.Fatalf("err = %v, want ErrUnknownActivity", err)
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		minutes float64
		want    string
	}{
		{0, "0h 0m"},
		{55.5, "0h 55m"},
		{60, "1h 0m"},
		{125.7, "2h 5m"},
		{599.99, "9h 59m"},
	}
	for _, c := range cases {
		if got := report.FormatMinutes(c.minutes); got != c.want {
			t.Errorf("FormatMinutes(%v) = %q, want %q", c.minutes, got, c.want)
		}
	}
}
