package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tunegrid/tunegrid/internal/catalog"
	"github.com/tunegrid/tunegrid/internal/persist"
	"github.com/tunegrid/tunegrid/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when a command redirects
// logging away from the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, adminCommand, reportCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// reloadConfig replaces the runner's config when the command names a
// readable config file. Missing files fall back to the existing config.
func (r *Runner) reloadConfig(cmd *cli.Command) {
	configPath := cmd.String("config")
	if configPath == "" {
		return
	}
	if _, err := os.Stat(configPath); err != nil {
		return
	}
	config, err := shared.LoadConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, keeping current settings", "path", configPath, "error", err)
		return
	}
	r.config = config
}

// openSnapshotter builds the snapshot backend the config selects.
func (r *Runner) openSnapshotter() (persist.Snapshotter, error) {
	switch r.config.Snapshot.Backend {
	case "", "file":
		return persist.NewFileStore(r.config.Snapshot.Path), nil
	case "sqlite":
		return persist.NewSQLiteStore(r.config.Snapshot.Path, r.config.Snapshot.MaxOpenConns, r.config.Snapshot.MaxIdleConns)
	default:
		return nil, fmt.Errorf("%w: unknown snapshot backend %q", shared.ErrInvalidConfig, r.config.Snapshot.Backend)
	}
}

// openStore loads the durable snapshot into a fresh catalog store. The
// returned snapshotter stays open so the caller can write state back.
func (r *Runner) openStore(cmd *cli.Command) (*catalog.Store, persist.Snapshotter, error) {
	r.reloadConfig(cmd)

	snapshots, err := r.openSnapshotter()
	if err != nil {
		return nil, nil, err
	}

	snap, err := snapshots.Load()
	if err != nil {
		snapshots.Close()
		return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	store := catalog.NewStore()
	store.Restore(snap)
	return store, snapshots, nil
}

// persistStore writes the store's current state through the snapshotter.
func (r *Runner) persistStore(store *catalog.Store, snapshots persist.Snapshotter) error {
	if err := snapshots.Save(store.Export()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
