// Package ledger records one row per generated report so past runs can be
// inspected with `tg history`.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repo struct {
	DB  *sql.DB
	Now func() time.Time
}

// Run is one recorded report generation.
type Run struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Activities   int     `json:"activities"`
	TotalMinutes float64 `json:"total_minutes"`
	ImagePath    string  `json:"image_path"`
	NoteStatus   string  `json:"note_status"`
	CreatedAt    string  `json:"created_at" format:"date-time"`
}

// RecordRun inserts a run, assigning its id and timestamp.
func (r Repo) RecordRun(ctx context.Context, run Run) (Run, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	run.ID = uuid.NewString()
	run.CreatedAt = now().UTC().Format(time.RFC3339)
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO reports(id,report_date,activities,total_minutes,image_path,note_status,created_at) VALUES (?,?,?,?,?,?,?)`,
		run.ID, run.Date, run.Activities, run.TotalMinutes, run.ImagePath, run.NoteStatus, run.CreatedAt)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (r Repo) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,report_date,activities,total_minutes,image_path,note_status,created_at FROM reports ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Date, &run.Activities, &run.TotalMinutes, &run.ImagePath, &run.NoteStatus, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
