package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rentx/internal/formatter"
	"github.com/desertthunder/rentx/internal/services"
	"github.com/desertthunder/rentx/internal/shared"
	"github.com/desertthunder/rentx/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	catalog services.Catalog
	api     *services.APIService
	logger  *log.Logger
	output  io.Writer
	clock   func() time.Time

	// catalog and api were injected and must survive configuration
	injected bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog services.Catalog
	API     *services.APIService
	Logger  *log.Logger
	Output  io.Writer
	Clock   func() time.Time
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
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	r := &Runner{
		config:   opts.Config,
		catalog:  opts.Catalog,
		api:      opts.API,
		logger:   opts.Logger,
		output:   opts.Output,
		clock:    opts.Clock,
		injected: opts.Catalog != nil,
	}
	if r.catalog == nil {
		r.connect()
	}
	return r
}

// connect builds the catalog client from the current configuration.
func (r *Runner) connect() {
	client := http.DefaultClient
	if t := r.config.Catalog.Timeout.Duration; t > 0 {
		client = &http.Client{Timeout: t}
	}
	r.api = services.NewAPIService(r.config.Catalog.BaseURL, client)
	r.catalog = services.NewCatalogServiceWithAPI(r.api)
}

// SetLogger replaces the logger used by the runner and every store it creates.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Configure loads the configuration file, applies flag overrides, and resolves the catalog endpoint once.
//
// Installed as the root command's Before hook.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.logger.Debug("loaded config", "path", path)
	}

	if baseURL := cmd.String("base-url"); baseURL != "" {
		r.config.Catalog.BaseURL = baseURL
	}
	if level := cmd.String("log-level"); level != "" {
		r.config.Log.Level = level
	}
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	level, err := shared.ParseLogLevel(r.config.Log.Level)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, level)

	if !r.injected {
		r.connect()
	}
	return ctx, nil
}

// newStore creates a store over the runner's catalog.
func (r *Runner) newStore() *store.Store {
	return store.New(store.Options{Catalog: r.catalog, Logger: r.logger, Clock: r.clock})
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		tuiCommand, moviesCommand, customersCommand, rentalsCommand, checkoutCommand, returnCommand,
		exportCommand, serveCommand, setupCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// report prints the store's notification, if any.
func (r *Runner) report(snap store.Snapshot) {
	n := snap.Notification
	if n == nil {
		return
	}
	if n.IsError() {
		r.writePlain("✗ %s\n", n.Message)
		return
	}
	r.writePlain("✓ %s\n", n.Message)
}

// outputFormat resolves --json, --csv and --format into a single [formatter.Format].
func outputFormat(cmd *cli.Command) (formatter.Format, error) {
	switch {
	case cmd.Bool("json") && cmd.Bool("csv"):
		return "", fmt.Errorf("%w: --json and --csv are mutually exclusive", shared.ErrInvalidArgument)
	case cmd.Bool("json"):
		return formatter.JSON, nil
	case cmd.Bool("csv"):
		return formatter.CSV, nil
	default:
		return formatter.ParseFormat(cmd.String("format"))
	}
}

// emit writes rendered output to --output when set, otherwise to the runner's output.
func (r *Runner) emit(cmd *cli.Command, data []byte) error {
	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteFile(path, data); err != nil {
			return err
		}
		r.logger.Info("wrote output", "path", path, "bytes", len(data))
		return nil
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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
