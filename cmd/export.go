package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/rentx/internal/formatter"
	"github.com/desertthunder/rentx/internal/services"
	"github.com/desertthunder/rentx/internal/shared"
	"github.com/desertthunder/rentx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes movies, customers and rentals to a directory with a manifest.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	resources := []services.Resource{services.Movies, services.Customers, services.Rentals}
	if only := cmd.StringSlice("only"); len(only) > 0 {
		resources = resources[:0]
		for _, name := range only {
			res := services.Resource(name)
			switch res {
			case services.Movies, services.Customers, services.Rentals:
				resources = append(resources, res)
			default:
				return fmt.Errorf("%w: unknown resource %q (movies, customers, rentals)", shared.ErrInvalidArgument, name)
			}
		}
	}

	opts := tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate-limit"),
		Clock:      r.clock,
	}

	progress := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug("export progress", "phase", update.Phase, "step", update.Step, "total", update.Total)
			r.writePlain("%s\n", update.Message)
		}
	}()

	engine := tasks.NewExportEngine(r.catalog)
	result, err := engine.Export(ctx, progress, resources, opts)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainHeader("Export complete")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported:  %d/%d\n", result.SuccessfulExports, result.TotalResources)
	r.writePlain("Manifest:  %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		return fmt.Errorf("%w: %d of %d collections failed to export", shared.ErrAPIRequest, result.FailedExports, result.TotalResources)
	}
	r.logger.Info("export complete", "dir", result.OutputDirectory, "format", result.Format)
	return nil
}
