package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/desertthunder/rentx/internal/repositories"
	"github.com/desertthunder/rentx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the configuration template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		if !cmd.Bool("force") {
			return fmt.Errorf("%w: %s already exists (use --force to overwrite)", shared.ErrInvalidArgument, configPath)
		}
		if err := os.Remove(configPath); err != nil {
			return fmt.Errorf("failed to remove existing config: %w", err)
		}
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", configPath)

	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set catalog.base_url to your rental API\n")
	r.writePlain("2. Run 'rentx movies' to check the connection\n")
	return nil
}

// SetupDatabase initializes the database, runs migrations, and optionally seeds demo data.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	r.logger.Info("initializing database", "path", path)

	db, err := r.openDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return err
	}

	r.writePlainHeader("Database ready")
	r.writePlain("Path:           %s\n", path)
	r.writePlain("Schema version: %d\n", version)

	if cmd.Bool("seed") {
		result, err := repositories.Seed(db)
		if err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		r.writePlain("Seeded:         %d movies, %d customers, %d search candidates\n", result.Movies, result.Customers, result.Candidates)
	}

	r.logger.Infof("setup complete for database: %v", path)
	return nil
}

// openDatabase opens path with the configured pool settings and applies pending migrations.
func (r *Runner) openDatabase(path string) (*sql.DB, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	if path != ":memory:" {
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
