package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/mooreolith/todo-docker/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = defaultConfigPath
	}

	_, err := os.Stat(path)
	switch {
	case err == nil && !cmd.Bool("force"):
		return fmt.Errorf("%w: %s already exists (use --force to overwrite)", shared.ErrInvalidArgument, path)
	case err == nil:
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to replace config file: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Wrote %s\n", path)
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	return r.withDatabase(func(db *sql.DB, d shared.Dialect) error {
		r.logger.Info("running database migrations", "driver", d.Driver)
		if err := shared.RunMigrations(db, d); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return r.writePlain("✓ Database ready (%s)\n", d.Driver)
	})
}

// SetupRollback rolls back the newest applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	return r.withDatabase(func(db *sql.DB, d shared.Dialect) error {
		r.logger.Info("rolling back newest migration", "driver", d.Driver)
		if err := shared.RollbackMigration(db, d); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return r.writePlain("✓ Rolled back newest migration\n")
	})
}

// withDatabase opens the configured database for the duration of fn.
func (r *Runner) withDatabase(fn func(db *sql.DB, d shared.Dialect) error) error {
	d, err := shared.DialectFor(r.config.Database.Driver)
	if err != nil {
		return err
	}

	db, err := shared.NewDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return fn(db, d)
}
