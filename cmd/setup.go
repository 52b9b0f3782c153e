package main

import (
	"context"
	"fmt"
	"os"

	"github.com/SupeeerMario/LowKey/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when missing and
// initializes the session database for the database store variant.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("✓ Config created at %s, fill in your Spotify credentials\n", configPath)
	}

	config := r.loadConfig(configPath)

	if config.Sessions.Store != shared.SessionStoreDatabase {
		r.writePlain("✓ Setup complete (cookie session store needs no database)\n")
		return nil
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.writePlain("✓ Setup complete for database: %s\n", config.Database.Path)
	return nil
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config and initialize the session database",
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
