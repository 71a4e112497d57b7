// Package reports exports catalog reports to disk: per-user playlist
// documents plus a manifest summarizing the run.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tunegrid/tunegrid/internal/catalog"
	"github.com/tunegrid/tunegrid/internal/formatter"
	"golang.org/x/time/rate"
)

// ExportOpts configures a bulk user-report export.
type ExportOpts struct {
	Format     string  // "markdown" or "txt"
	OutputDir  string  // default: tunegrid_report_{epoch}
	NumWorkers int     // concurrent workers (default: 5)
	RateLimit  float64 // user exports per second (default: 10)
}

// ProgressUpdate reports per-user export progress on the progress channel.
type ProgressUpdate struct {
	Username  string
	Completed int
	Total     int
	Err       error
}

// ExportResult summarizes a bulk export run.
type ExportResult struct {
	TotalUsers      int       `json:"totalUsers"`
	Exported        int       `json:"exported"`
	Failed          int       `json:"failed"`
	OutputDirectory string    `json:"outputDirectory"`
	StartedAt       time.Time `json:"startedAt"`
	FinishedAt      time.Time `json:"finishedAt"`
	Errors          []string  `json:"errors,omitempty"`
}

// Engine exports reports from a catalog store.
type Engine struct {
	store *catalog.Store
}

// NewEngine creates an Engine over store.
func NewEngine(store *catalog.Store) *Engine {
	return &Engine{store: store}
}

// ExportUsers writes one report file per user with a worker pool, honoring
// the configured rate limit, and finishes with a manifest.json. Partial
// failures don't abort the run; they are collected in the result.
func (e *Engine) ExportUsers(ctx context.Context, prog chan<- ProgressUpdate, usernames []string, opts ExportOpts) (*ExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tunegrid_report_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10.0
	}
	if opts.Format == "" {
		opts.Format = "markdown"
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		TotalUsers:      len(usernames),
		OutputDirectory: opts.OutputDir,
		StartedAt:       time.Now(),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan string)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)

	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for username := range jobs {
				err := limiter.Wait(ctx)
				if err == nil {
					err = e.exportUser(username, opts)
				}

				mu.Lock()
				completed++
				if err != nil {
					result.Failed++
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", username, err))
				} else {
					result.Exported++
				}
				done := completed
				mu.Unlock()

				if prog != nil {
					prog <- ProgressUpdate{Username: username, Completed: done, Total: len(usernames), Err: err}
				}
			}
		}()
	}

	for _, username := range usernames {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return result, ctx.Err()
		case jobs <- username:
		}
	}
	close(jobs)
	wg.Wait()

	result.FinishedAt = time.Now()
	if err := e.writeManifest(result); err != nil {
		return result, err
	}
	return result, nil
}

func (e *Engine) exportUser(username string, opts ExportOpts) error {
	playlists, err := e.store.PlaylistsOf(username)
	if err != nil {
		return err
	}

	var (
		content []byte
		ext     string
	)
	for _, playlist := range playlists {
		switch opts.Format {
		case "txt":
			content = append(content, formatter.PlaylistToText(username, playlist, e.store.FindSong)...)
			ext = "txt"
		default:
			content = append(content, formatter.PlaylistToMarkdown(username, playlist, e.store.FindSong)...)
			ext = "md"
		}
		content = append(content, '\n')
	}

	if len(playlists) == 0 {
		content = []byte(fmt.Sprintf("No playlists for %s\n", username))
		ext = "txt"
		if opts.Format != "txt" {
			ext = "md"
		}
	}

	path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.%s", username, ext))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (e *Engine) writeManifest(result *ExportResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(result.OutputDirectory, "manifest.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
