// Package app wires the pipeline for one report run: sign-in, fetch,
// aggregate, render, note update, ledger record.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"timeglance/internal/config"
	"timeglance/internal/ledger"
	"timeglance/internal/note"
	"timeglance/internal/render"
	"timeglance/internal/report"
	"timeglance/internal/timeular"
)

type Runner struct {
	Config *config.Config
	Client *timeular.Client
	Ledger *ledger.Repo
	Log    *slog.Logger
}

type ReportOptions struct {
	Date      string // YYYY-MM-DD, already validated
	FaceColor string
	SkipNote  bool
}

type ReportResult struct {
	Summary    report.Summary
	ImagePath  string
	NoteStatus note.Status
}

// Report runs the whole pipeline for one date. Every stage is blocking and
// any failure aborts the run; only the note update is idempotent.
func (r Runner) Report(ctx context.Context, opts ReportOptions) (ReportResult, error) {
	log := r.logger()

	token, err := r.Client.SignIn(ctx)
	if err != nil {
		return ReportResult{}, err
	}
	log.Info("signed in")

	catalog, err := r.Client.Activities(ctx, token)
	if err != nil {
		return ReportResult{}, err
	}
	log.Info("fetched activity catalog", "activities", len(catalog))

	entries, err := r.Client.TimeEntries(ctx, token, opts.Date)
	if err != nil {
		return ReportResult{}, err
	}
	log.Info("fetched time entries", "date", opts.Date, "entries", len(entries))

	summary, err := report.Aggregate(catalog, entries)
	if err != nil {
		return ReportResult{}, err
	}
	log.Debug("aggregated", "labels", summary.Labels, "total_minutes", summary.TotalMinutes)

	imagePath := r.Config.ImagePath(opts.Date)
	if err := render.Daily(summary, opts.FaceColor, imagePath); err != nil {
		return ReportResult{}, fmt.Errorf("render: %w", err)
	}
	log.Info("wrote report image", "path", imagePath)

	status := note.StatusSkipped
	if !opts.SkipNote {
		status, err = note.Update(r.Config, opts.Date)
		if err != nil {
			return ReportResult{}, err
		}
		log.Info("daily note", "status", status)
	} else {
		log.Info("note update skipped by flag")
	}

	if r.Ledger != nil {
		run := ledger.Run{
			Date:         opts.Date,
			Activities:   len(summary.Labels),
			TotalMinutes: summary.TotalMinutes,
			ImagePath:    imagePath,
			NoteStatus:   string(status),
		}
		if _, err := r.Ledger.RecordRun(ctx, run); err != nil {
			return ReportResult{}, err
		}
	}

	return ReportResult{Summary: summary, ImagePath: imagePath, NoteStatus: status}, nil
}

func (r Runner) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}
