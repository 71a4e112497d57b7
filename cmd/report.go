package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tunegrid/tunegrid/internal/formatter"
	"github.com/tunegrid/tunegrid/internal/models"
	"github.com/tunegrid/tunegrid/internal/reports"
	"github.com/tunegrid/tunegrid/internal/shared"
	"github.com/urfave/cli/v3"
)

// ReportUsers exports the account summary as CSV.
func (r *Runner) ReportUsers(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	data, err := formatter.UsersSummaryCSV(store.UserSummaries())
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	return r.emit(cmd.String("output"), data)
}

// ReportTop exports the most liked or most viewed songs as CSV. The
// file_exists column checks the configured songs directory.
func (r *Runner) ReportTop(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	limit := int(cmd.Int("limit"))

	var entries []models.Engagement
	switch by := cmd.String("by"); by {
	case "likes":
		entries = store.TopByLikes(limit)
	case "views":
		entries = store.TopByViews(limit)
	default:
		return fmt.Errorf("%w: --by must be likes or views", shared.ErrInvalidFlag)
	}

	songsDir := r.config.Catalog.SongsDir
	fileExists := func(songID int) bool {
		if songsDir == "" {
			return false
		}
		_, err := os.Stat(filepath.Join(songsDir, fmt.Sprintf("%d.mp3", songID)))
		return err == nil
	}

	data, err := formatter.TopSongsCSV(entries, fileExists)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	return r.emit(cmd.String("output"), data)
}

// ReportExport bulk-exports user playlist reports with a worker pool. With
// no usernames it exports every account.
func (r *Runner) ReportExport(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	usernames := cmd.Args().Slice()
	if len(usernames) == 0 {
		for _, summary := range store.UserSummaries() {
			usernames = append(usernames, summary.Username)
		}
	}
	if len(usernames) == 0 {
		return r.writePlain("no accounts to export\n")
	}

	opts := reports.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	}

	r.logger.Info("starting playlist export", "users", len(usernames), "workers", opts.NumWorkers)

	prog := make(chan reports.ProgressUpdate)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			if update.Err != nil {
				r.writePlain("✗ [%d/%d] %s: %v\n", update.Completed, update.Total, update.Username, update.Err)
			} else {
				r.writePlain("✓ [%d/%d] %s\n", update.Completed, update.Total, update.Username)
			}
		}
	}()

	engine := reports.NewEngine(store)
	result, err := engine.ExportUsers(ctx, prog, usernames, opts)
	close(prog)
	<-done
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("exported %d of %d users to %s (%d failed)",
		result.Exported, result.TotalUsers, result.OutputDirectory, result.Failed)
	return nil
}

// emit writes data to path, or to the runner's output when path is empty.
func (r *Runner) emit(path string, data []byte) error {
	if path == "" {
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	r.logger.Info("report written", "path", path, "bytes", len(data))
	return nil
}
