// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// App returns the root command with global flags and all subcommands.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:    "rentx",
		Usage:   "Rent movies from a video-rental catalog",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Catalog API base URL (overrides catalog.base_url)",
				Sources: cli.EnvVars("RENTX_BASE_URL"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Before:   r.Configure,
		Commands: r.register(),
	}
}

// outputFlags are shared by every command that prints a collection.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, csv, json, markdown",
			Value:   "text",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output JSON (shorthand for --format json)",
		},
		&cli.BoolFlag{
			Name:  "csv",
			Usage: "Output CSV (shorthand for --format csv)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to a file instead of stdout",
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive rental desk.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive rental desk",
		Action:  r.TUI,
	}
}

// moviesCommand lists, searches and adds library movies
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "movies",
		Usage: "List movies in the rental library",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "filter",
				Usage: "Fuzzy-match library titles",
			},
			&cli.StringFlag{
				Name:  "search",
				Usage: "Search the external movie catalog instead of the library",
			},
		}, outputFlags()...),
		Action: r.Movies,
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a movie to the rental library",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "external-id",
						Usage:    "Provider identifier of the movie",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Movie title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "overview",
						Usage: "Short synopsis",
					},
					&cli.StringFlag{
						Name:  "release-date",
						Usage: "Release date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "image-url",
						Usage: "Poster image URL",
					},
				},
				Action: r.MoviesAdd,
			},
		},
	}
}

// customersCommand lists customers
func customersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "customers",
		Usage:  "List customers",
		Flags:  outputFlags(),
		Action: r.Customers,
	}
}

// rentalsCommand lists rentals
func rentalsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "rentals",
		Usage: "List rentals",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "overdue",
				Usage: "Only show checked-out rentals past their due date",
			},
		}, outputFlags()...),
		Action: r.Rentals,
	}
}

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "movie",
			Aliases:  []string{"m"},
			Usage:    "External identifier of the movie",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "customer",
			Aliases:  []string{"u"},
			Usage:    "Customer identifier",
			Required: true,
		},
	}
}

// checkoutCommand rents a movie to a customer
func checkoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "checkout",
		Aliases: []string{"rent"},
		Usage:   "Check out a movie to a customer, due tomorrow",
		Flags:   selectionFlags(),
		Action:  r.Checkout,
	}
}

// returnCommand returns a rented movie
func returnCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "return",
		Usage:  "Return a movie rented by a customer",
		Flags:  selectionFlags(),
		Action: r.Return,
	}
}

// exportCommand snapshots the catalog to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export movies, customers and rentals to a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, csv, json, markdown",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Output directory (default: rentx_export_{epoch})",
			},
			&cli.StringSliceFlag{
				Name:  "only",
				Usage: "Export only these collections (movies, customers, rentals)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent writers",
				Value: 3,
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Catalog requests per second",
				Value: 5,
			},
		},
		Action: r.Export,
	}
}

// serveCommand runs the development backend
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the sqlite-backed development catalog API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides server.port)",
			},
			&cli.StringFlag{
				Name:  "database",
				Usage: "SQLite database path (overrides database.path)",
			},
			&cli.BoolFlag{
				Name:  "seed",
				Usage: "Insert demo movies and customers before serving",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a configuration file from the template",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing configuration file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "seed",
						Usage: "Insert demo movies and customers",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// apiCommand handles direct catalog API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the catalog API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the catalog, prints the response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
