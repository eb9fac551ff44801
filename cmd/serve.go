package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/rentx/internal/repositories"
	"github.com/desertthunder/rentx/internal/server"
	"github.com/desertthunder/rentx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the development catalog API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	listen := r.config.Server
	if host := cmd.String("host"); host != "" {
		listen.Host = host
	}
	if port := int(cmd.Int("port")); port != 0 {
		listen.Port = port
	}
	dbPath := r.config.Database.Path
	if path := cmd.String("database"); path != "" {
		dbPath = path
	}

	db, err := r.openDatabase(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("seed") {
		result, err := repositories.Seed(db)
		if err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		r.logger.Info("seeded database", "movies", result.Movies, "candidates", result.Candidates, "customers", result.Customers)
	}

	router := server.NewCatalogRouter(db, server.Options{
		Logger:    shared.WithLogger(r.logger, "component", "server"),
		RateLimit: r.config.Server.RateLimit,
		Clock:     r.clock,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(listen.Addr(), router, r.logger).Run(ctx)
}
