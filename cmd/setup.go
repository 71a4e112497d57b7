package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tunegrid/tunegrid/internal/shared"
	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the snapshot store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// Setup creates the config file when missing and initializes the snapshot
// backend so the first serve run starts from a loadable state.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	r.config = config

	if config.Catalog.SongsDir != "" {
		if err := os.MkdirAll(config.Catalog.SongsDir, 0755); err != nil {
			return fmt.Errorf("failed to create songs directory: %w", err)
		}
	}

	switch config.Snapshot.Backend {
	case "sqlite":
		r.logger.Info("initializing database", "path", config.Snapshot.Path)

		db, err := shared.NewDatabase(config.Snapshot.Path)
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		defer db.Close()

		shared.ConfigureDatabase(db, config.Snapshot.MaxOpenConns, config.Snapshot.MaxIdleConns)

		r.logger.Info("running database migrations")
		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	case "", "file":
		// The file backend treats a missing snapshot as an empty catalog,
		// nothing to initialize.
	default:
		return fmt.Errorf("%w: unknown snapshot backend %q", shared.ErrInvalidConfig, config.Snapshot.Backend)
	}

	r.logger.Infof("setup complete for snapshot store: %v", config.Snapshot.Path)
	return nil
}
