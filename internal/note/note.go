// Package note inserts the report image link into the daily note for a
// date, once.
package note

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"timeglance/internal/config"
)

var (
	ErrNoteNotFound    = errors.New("daily note not found")
	ErrHeadingNotFound = errors.New("heading not found in note")
)

// Status is the terminal state of one note update.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusSkipped Status = "skipped"
)

// ImageLink is the Obsidian embed line for a date's report image.
func ImageLink(date string) string {
	return fmt.Sprintf("![[%s]]", config.ImageFileName(date))
}

// InsertImageLink splices the image link for date into lines, immediately
// after the first line whose trimmed text equals heading. If the exact link
// line is already present anywhere, lines are returned unchanged with
// inserted=false. Pure; no I/O.
func InsertImageLink(lines []string, heading, date string) ([]string, bool, error) {
	link := ImageLink(date)
	for _, line := range lines {
		if line == link {
			return lines, false, nil
		}
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == heading {
			out := make([]string, 0, len(lines)+1)
			out = append(out, lines[:i+1]...)
			out = append(out, link)
			out = append(out, lines[i+1:]...)
			return out, true, nil
		}
	}
	return nil, false, fmt.Errorf("%w: %q", ErrHeadingNotFound, heading)
}

// Resolve finds the note file for date: {vault}/{date}.md, falling back to
// the archived {vault}/{dailyDir}/{date}.md.
func Resolve(vaultRoot, dailyDir, date string) (string, error) {
	primary := filepath.Join(vaultRoot, date+".md")
	if fileExists(primary) {
		return primary, nil
	}
	archived := filepath.Join(vaultRoot, dailyDir, date+".md")
	if fileExists(archived) {
		return archived, nil
	}
	return "", fmt.Errorf("%w: neither %s nor %s exists", ErrNoteNotFound, primary, archived)
}

// Update resolves the note for date and inserts the image link under the
// configured heading. The file is rewritten only when something was
// inserted, so a second run for the same date is a no-op.
func Update(cfg *config.Config, date string) (Status, error) {
	path, err := Resolve(cfg.VaultRoot, cfg.Note.DailyDir, date)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	lines := strings.Split(string(data), "\n")
	out, inserted, err := InsertImageLink(lines, cfg.Note.Heading, date)
	if err != nil {
		return "", err
	}
	if !inserted {
		return StatusSkipped, nil
	}
	if err := os.WriteFile(path, []byte(strings.Join(out, "\n")), 0o644); err != nil {
		return "", err
	}
	return StatusUpdated, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
