package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the config file when missing, then the database and its tables.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); os.IsNotExist(err) {
			r.logger.Info("config file not found, creating from template", "path", r.configPath)
			if err := shared.CreateConfigFile(r.configPath); err != nil {
				r.logger.Warn("failed to create config file, using defaults", "error", err)
			} else {
				r.logger.Info("config file created", "path", r.configPath)
			}
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	if err := r.openDatabase(ctx); err != nil {
		return err
	}

	for _, table := range []string{"users", "movies"} {
		exists, err := shared.TableExists(ctx, r.db, table)
		if err != nil {
			return fmt.Errorf("failed to verify schema: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: table %s missing after setup", shared.ErrInvalidConfig, table)
		}
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
	if r.configErr != nil {
		r.writePlainln("Next step: set omdb.api_key in %s or export %s", r.configPath, shared.EnvAPIKey)
	}
	return nil
}

// SetupConfig writes the default configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if r.configPath == "" {
		return fmt.Errorf("%w: --config path is empty", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	r.writePlain("✓ Configuration written to %s\n", r.configPath)
	return nil
}
