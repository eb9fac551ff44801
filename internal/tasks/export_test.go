package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/rentx/internal/formatter"
	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/services"
	"github.com/desertthunder/rentx/internal/shared"
	tu "github.com/desertthunder/rentx/internal/testing"
)

var exportNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var allResources = []services.Resource{services.Movies, services.Customers, services.Rentals}

func newCatalog() *tu.FakeCatalog {
	return &tu.FakeCatalog{
		Movies: []models.Movie{
			{ID: "1", ExternalID: "m1", Title: "Dune"},
			{ID: "2", ExternalID: "m2", Title: "Alien"},
		},
		Customers: []models.Customer{{ID: "c1", Name: "Ada"}},
		Rentals: []models.Rental{{
			MovieID: "2", CustomerID: "c1", Title: "Alien", Name: "Ada",
			DueDate: models.Timestamp{Time: exportNow.AddDate(0, 0, -1)},
		}},
	}
}

// drain collects every progress update until the channel is closed.
func drain(ch <-chan ProgressUpdate) <-chan []ProgressUpdate {
	out := make(chan []ProgressUpdate, 1)
	go func() {
		var updates []ProgressUpdate
		for u := range ch {
			updates = append(updates, u)
		}
		out <- updates
	}()
	return out
}

func TestExport_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format formatter.Format
		check  func(t *testing.T, dir string)
	}{
		{
			name:   "json export",
			format: formatter.JSON,
			check: func(t *testing.T, dir string) {
				var movies []models.Movie
				if err := json.Unmarshal([]byte(tu.MustReadFile(t, filepath.Join(dir, "movies.json"))), &movies); err != nil {
					t.Fatalf("movies.json is not valid JSON: %v", err)
				}
				if len(movies) != 2 {
					t.Errorf("expected 2 movies, got %d", len(movies))
				}
			},
		},
		{
			name:   "csv export",
			format: formatter.CSV,
			check: func(t *testing.T, dir string) {
				content := tu.MustReadFile(t, filepath.Join(dir, "rentals.csv"))
				if !strings.Contains(content, "overdue") {
					t.Errorf("expected rental status to use the export clock:\n%s", content)
				}
			},
		},
		{
			name:   "markdown export",
			format: formatter.Markdown,
			check: func(t *testing.T, dir string) {
				tu.AssertFileExists(t, filepath.Join(dir, "customers.md"))
			},
		},
		{
			name:   "text export",
			format: formatter.Text,
			check: func(t *testing.T, dir string) {
				content := tu.MustReadFile(t, filepath.Join(dir, "movies.txt"))
				if !strings.Contains(content, "Dune") {
					t.Errorf("expected Dune in text export:\n%s", content)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			engine := NewExportEngine(newCatalog())

			progress := make(chan ProgressUpdate, 100)
			updates := drain(progress)

			result, err := engine.Export(context.Background(), progress, allResources, ExportOpts{
				Format:     tt.format,
				OutputDir:  dir,
				NumWorkers: 2,
				RateLimit:  100,
				Clock:      func() time.Time { return exportNow },
			})
			close(progress)

			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if result.SuccessfulExports != 3 || result.FailedExports != 0 {
				t.Errorf("got %d successful, %d failed; want 3, 0", result.SuccessfulExports, result.FailedExports)
			}

			for i, res := range result.Results {
				if res.Resource != allResources[i] {
					t.Errorf("result %d is %s, want %s", i, res.Resource, allResources[i])
				}
				tu.AssertFileExists(t, res.File)
			}

			if got := len(<-updates); got < 7 {
				t.Errorf("expected at least 7 progress updates, got %d", got)
			}

			tt.check(t, dir)
		})
	}
}

func TestExport_Manifest(t *testing.T) {
	dir := t.TempDir()
	catalog := newCatalog()
	catalog.CustomersErr = errors.New("network down")

	result, err := NewExportEngine(catalog).Export(context.Background(), nil, allResources, ExportOpts{
		Format:    formatter.CSV,
		OutputDir: dir,
		RateLimit: 100,
		Clock:     func() time.Time { return exportNow },
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if result.ManifestPath != filepath.Join(dir, "export_manifest.json") {
		t.Errorf("ManifestPath = %s", result.ManifestPath)
	}
	if result.SuccessfulExports != 2 || result.FailedExports != 1 {
		t.Errorf("got %d successful, %d failed; want 2, 1", result.SuccessfulExports, result.FailedExports)
	}

	var manifest ExportResult
	if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
		t.Fatalf("failed to parse manifest: %v", err)
	}

	if manifest.Format != formatter.CSV {
		t.Errorf("manifest format = %s, want csv", manifest.Format)
	}
	if !manifest.ExportedAt.Equal(exportNow) {
		t.Errorf("manifest exported_at = %v, want %v", manifest.ExportedAt, exportNow)
	}
	if manifest.TotalResources != 3 {
		t.Errorf("manifest total = %d, want 3", manifest.TotalResources)
	}

	customers := manifest.Results[1]
	if customers.Resource != services.Customers || customers.Success || customers.Message != "network down" {
		t.Errorf("unexpected customers entry: %+v", customers)
	}
	if _, err := os.Stat(filepath.Join(dir, "customers.csv")); !os.IsNotExist(err) {
		t.Error("failed resource should not produce a file")
	}
}

func TestExport_Errors(t *testing.T) {
	t.Run("nil catalog", func(t *testing.T) {
		_, err := NewExportEngine(nil).Export(context.Background(), nil, allResources, ExportOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("no resources", func(t *testing.T) {
		_, err := NewExportEngine(newCatalog()).Export(context.Background(), nil, nil, ExportOpts{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("unknown resource is recorded", func(t *testing.T) {
		result, err := NewExportEngine(newCatalog()).Export(context.Background(), nil,
			[]services.Resource{"tapes"}, ExportOpts{OutputDir: t.TempDir(), RateLimit: 100})
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if result.FailedExports != 1 || !errors.Is(result.Results[0].Error, shared.ErrInvalidArgument) {
			t.Errorf("expected recorded ErrInvalidArgument, got %+v", result.Results)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := NewExportEngine(newCatalog()).Export(ctx, nil, allResources,
			ExportOpts{OutputDir: t.TempDir(), RateLimit: 100})
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if result.FailedExports != 3 {
			t.Errorf("expected every resource to fail, got %d failures", result.FailedExports)
		}
	})

	t.Run("manifest write failure", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(file, nil, 0644); err != nil {
			t.Fatal(err)
		}

		_, err := NewExportEngine(newCatalog()).Export(context.Background(), nil, allResources,
			ExportOpts{OutputDir: filepath.Join(file, "out"), RateLimit: 100})
		if err == nil || !strings.Contains(err.Error(), "failed to write manifest") {
			t.Errorf("expected manifest error, got %v", err)
		}
	})
}

func TestExport_DefaultOutputDir(t *testing.T) {
	wd, _ := os.Getwd()
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	result, err := NewExportEngine(newCatalog()).Export(context.Background(), nil,
		[]services.Resource{services.Movies}, ExportOpts{Clock: func() time.Time { return exportNow }})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if result.OutputDirectory != "rentx_export_1709294400" {
		t.Errorf("OutputDirectory = %s", result.OutputDirectory)
	}
	if result.Format != formatter.JSON {
		t.Errorf("default format = %s, want json", result.Format)
	}
	tu.AssertFileExists(t, filepath.Join(dir, result.OutputDirectory, "movies.json"))
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{
		FetchResource: "fetch_resource",
		WriteResource: "write_resource",
		WriteManifest: "write_manifest",
		Phase(99):     "",
	} {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}
