package note_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"timeglance/internal/config"
	"timeglance/internal/note"
)

const sampleNote = `# 2024-03-01

Some journaling.

# Timeular

# Tasks
- [ ] something
`

func writeNote(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestInsertImageLink(t *testing.T) {
	lines := strings.Split(sampleNote, "\n")
	out, inserted, err := note.InsertImageLink(lines, "# Timeular", "2024-03-01")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !inserted {
		t.Fatal("expected an insertion")
	}
	joined := strings.Join(out, "\n")
	if !strings.Contains(joined, "# Timeular\n![[2024-03-01-timeular.png]]\n") {
		t.Fatalf("link not inserted after heading:\n%s", joined)
	}
	if len(out) != len(lines)+1 {
		t.Fatalf("line count = %d, want %d", len(out), len(lines)+1)
	}
}

func TestInsertImageLinkAlreadyPresent(t *testing.T) {
	lines := []string{"# Timeular", "![[2024-03-01-timeular.png]]", ""}
	out, inserted, err := note.InsertImageLink(lines, "# Timeular", "2024-03-01")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if inserted {
		t.Fatal("expected no insertion for a duplicate link")
	}
	if len(out) != len(lines) {
		t.Fatalf("lines changed: %v", out)
	}
}

func TestInsertImageLinkMissingHeading(t *testing.T) {
	_, _, err := note.InsertImageLink([]string{"# Journal", "text"}, "# Timeular", "2024-03-01")
	if !errors.Is(err, note.ErrHeadingNotFound) {
		t.Fatalf("err = %v, want ErrHeadingNotFound", err)
	}
}

func TestUpdateIdempotent(t *testing.T) {
	vault := t.TempDir()
	cfg := config.Default(vault)
	path := filepath.Join(vault, "2024-03-01.md")
	writeNote(t, path, sampleNote)

	status, err := note.Update(cfg, "2024-03-01")
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if status != note.StatusUpdated {
		t.Fatalf("first status = %q, want updated", status)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	status, err = note.Update(cfg, "2024-03-01")
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if status != note.StatusSkipped {
		t.Fatalf("second status = %q, want skipped", status)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatal("second run modified the note")
	}
}

func TestUpdateFallbackPath(t *testing.T) {
	vault := t.TempDir()
	cfg := config.Default(vault)
	archived := filepath.Join(vault, "Daily Notes", "2024-03-01.md")
	writeNote(t, archived, sampleNote)

	status, err := note.Update(cfg, "2024-03-01")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if status != note.StatusUpdated {
		t.Fatalf("status = %q, want updated", status)
	}
	data, err := os.ReadFile(archived)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), note.ImageLink("2024-03-01")) {
		t.Fatal("archived note not updated")
	}
}

func TestUpdateNoteNotFound(t *testing.T) {
	cfg := config.Default(t.TempDir())
	_, err := note.Update(cfg, "2024-03-01")
	if !errors.Is(err, note.ErrNoteNotFound) {
		t.Fatalf("err = %v, want ErrNoteNotFound", err)
	}
}

func TestUpdateMissingHeadingLeavesFile(t *testing.T) {
	vault := t.TempDir()
	cfg := config.Default(vault)
	path := filepath.Join(vault, "2024-03-01.md")
	original := "# Journal\n\nno timeular section\n"
	writeNote(t, path, original)

	_, err := note.Update(cfg, "2024-03-01")
	if !errors.Is(err, note.ErrHeadingNotFound) {
		t.Fatalf("err = %v, want ErrHeadingNotFound", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Fatal("file was modified despite the heading error")
	}
}
