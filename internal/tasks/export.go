package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/rentx/internal/formatter"
	"github.com/desertthunder/rentx/internal/services"
	"github.com/desertthunder/rentx/internal/shared"
	"golang.org/x/time/rate"
)

const manifestName = "export_manifest.json"

// ExportOpts contains configuration for catalog exports.
type ExportOpts struct {
	Format     formatter.Format // Output format for every collection
	OutputDir  string           // Base output directory (default: rentx_export_{epoch})
	NumWorkers int              // Concurrent writers (default: 3)
	RateLimit  float64          // Catalog requests per second (default: 5)
	Clock      func() time.Time // Reference time for rental status; defaults to time.Now
}

// ResourceExportResult describes the export of a single collection.
type ResourceExportResult struct {
	Resource services.Resource `json:"resource"`
	Count    int               `json:"count"`
	File     string            `json:"file,omitempty"`
	Success  bool              `json:"success"`
	Error    error             `json:"-"`
	Message  string            `json:"error,omitempty"`
}

// ExportResult summarizes an export and doubles as the manifest written next to the files.
type ExportResult struct {
	Format            formatter.Format       `json:"format"`
	ExportedAt        time.Time              `json:"exported_at"`
	OutputDirectory   string                 `json:"output_directory"`
	TotalResources    int                    `json:"total_resources"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	Results           []ResourceExportResult `json:"results"`
	ManifestPath      string                 `json:"-"`
}

// exportJob carries a fetched collection from the producer to a worker.
type exportJob struct {
	resource services.Resource
	count    int
	data     []byte
}

// ExportEngine writes catalog collections to disk.
type ExportEngine struct {
	catalog services.Catalog
}

// NewExportEngine creates an engine reading from catalog.
func NewExportEngine(catalog services.Catalog) *ExportEngine {
	return &ExportEngine{catalog: catalog}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Export fetches each resource and writes it in opts.Format, then writes a manifest.
//
// Fetches are rate limited and run in order; rendering and writing happen on a worker pool.
// Individual failures are recorded in the result. An error is returned only when the export
// cannot start or the manifest cannot be written.
func (e *ExportEngine) Export(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	resources []services.Resource,
	opts ExportOpts,
) (*ExportResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog client not initialized", shared.ErrServiceUnavailable)
	}
	if len(resources) == 0 {
		return nil, fmt.Errorf("%w: no resources to export", shared.ErrMissingArgument)
	}

	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Format == "" {
		opts.Format = formatter.JSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("rentx_export_%d", opts.Clock().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > len(resources) {
		opts.NumWorkers = len(resources)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &ExportResult{
		Format:          opts.Format,
		ExportedAt:      opts.Clock().UTC(),
		OutputDirectory: opts.OutputDir,
		TotalResources:  len(resources),
		Results:         make([]ResourceExportResult, 0, len(resources)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(resources))
	results := make(chan ResourceExportResult, len(resources))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, r := range resources {
			if err := limiter.Wait(ctx); err != nil {
				results <- failed(r, err)
				continue
			}

			e.sendProgress(prog, fetchingResourceUpdate(i+1, len(resources), r))
			job, err := e.fetch(ctx, r, opts)
			if err != nil {
				results <- failed(r, err)
				continue
			}
			jobs <- job
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(resources), res))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(resources), res))
		}
	}

	slices.SortStableFunc(result.Results, func(a, b ResourceExportResult) int {
		return slices.Index(resources, a.Resource) - slices.Index(resources, b.Resource)
	})

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	e.sendProgress(prog, manifestUpdate(manifestPath))

	manifest, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := formatter.WriteFile(manifestPath, append(manifest, '\n')); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// fetch loads one collection and renders it.
func (e *ExportEngine) fetch(ctx context.Context, r services.Resource, opts ExportOpts) (exportJob, error) {
	job := exportJob{resource: r}

	var err error
	switch r {
	case services.Movies:
		movies, ferr := e.catalog.ListMovies(ctx)
		if ferr != nil {
			return job, ferr
		}
		job.count = len(movies)
		job.data, err = formatter.FormatMovies(movies, opts.Format)
	case services.Customers:
		customers, ferr := e.catalog.ListCustomers(ctx)
		if ferr != nil {
			return job, ferr
		}
		job.count = len(customers)
		job.data, err = formatter.FormatCustomers(customers, opts.Format)
	case services.Rentals:
		rentals, ferr := e.catalog.ListRentals(ctx)
		if ferr != nil {
			return job, ferr
		}
		job.count = len(rentals)
		job.data, err = formatter.FormatRentals(rentals, opts.Clock(), opts.Format)
	default:
		return job, fmt.Errorf("%w: unknown resource %q", shared.ErrInvalidArgument, r)
	}
	return job, err
}

// exportWorker writes rendered collections from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- ResourceExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if err := ctx.Err(); err != nil {
			results <- failed(job.resource, err)
			continue
		}

		path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.%s", job.resource, opts.Format.Extension()))
		if err := formatter.WriteFile(path, job.data); err != nil {
			results <- failed(job.resource, err)
			continue
		}
		results <- ResourceExportResult{Resource: job.resource, Count: job.count, File: path, Success: true}
	}
}

func failed(r services.Resource, err error) ResourceExportResult {
	return ResourceExportResult{Resource: r, Error: err, Message: err.Error()}
}
