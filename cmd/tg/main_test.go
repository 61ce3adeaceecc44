package main

import (
	"log/slog"
	"testing"
	"time"
)

func TestResolveDateDefaultsToYesterday(t *testing.T) {
	now := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	got, err := resolveDate("", now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "2024-03-01" {
		t.Fatalf("date = %q, want 2024-03-01", got)
	}
}

func TestResolveDateStrictFormat(t *testing.T) {
	now := time.Now()
	for _, valid := range []string{"2024-03-01", "2023-12-31"} {
		if _, err := resolveDate(valid, now); err != nil {
			t.Errorf("resolveDate(%q) rejected: %v", valid, err)
		}
	}
	for _, invalid := range []string{"2024-3-1", "24-03-01", "2024/03/01", "yesterday", "2024-13-40"} {
		if _, err := resolveDate(invalid, now); err == nil {
			t.Errorf("resolveDate(%q) accepted", invalid)
		}
	}
}

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := logLevel(in)
		if err != nil || got != want {
			t.Errorf("logLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := logLevel("loud"); err == nil {
		t.Error("logLevel(loud) accepted")
	}
}
