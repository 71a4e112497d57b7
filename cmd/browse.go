package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunegrid/tunegrid/internal/shared"
	"github.com/tunegrid/tunegrid/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive terminal browser over the snapshot.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tunegrid-browse.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(store)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
