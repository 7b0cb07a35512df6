// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const (
	EnvUser   = "MOVIEHUB_USER"
	EnvConfig = "MOVIEHUB_CONFIG"
)

// App returns the root command with global flags and every subcommand registered.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:    "moviehub",
		Usage:   "Keep per-user movie catalogs enriched with OMDb metadata",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars(EnvConfig),
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Name of the user whose catalog to use",
				Sources: cli.EnvVars(EnvUser),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Load,
		After:    r.Close,
		Commands: r.register(),
	}
}

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the database and tables if they do not exist",
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a config.toml populated with defaults",
				Action: r.SetupConfig,
			},
		},
	}
}

// usersCommand handles user management
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "users",
		Usage:  "Manage users",
		Before: r.OpenCatalog,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all users",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.UsersList,
			},
			{
				Name:      "add",
				Usage:     "Create a user",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.UsersAdd,
			},
		},
	}
}

// moviesCommand handles catalog operations for the --user catalog
func moviesCommand(r *Runner) *cli.Command {
	jsonFlags := []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
	}

	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Manage the movie catalog of --user",
		Before:  r.OpenCatalog,
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List movies",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Order by title, rating, year (newest first) or year-asc",
						Value: "title",
					},
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Only titles containing this text"},
					&cli.FloatFlag{Name: "min-rating", Usage: "Minimum rating"},
					&cli.IntFlag{Name: "start-year", Usage: "Earliest year"},
					&cli.IntFlag{Name: "end-year", Usage: "Latest year"},
				}, jsonFlags...),
				Action: r.MoviesList,
			},
			{
				Name:      "add",
				Usage:     "Look up a title on OMDb and add it",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Action:    r.MoviesAdd,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Action:    r.MoviesDelete,
			},
			{
				Name:      "update",
				Usage:     "Set the year and rating of a movie",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "year", Usage: "Release year", Required: true},
					&cli.FloatFlag{Name: "rating", Usage: "Rating from 0 to 10", Required: true},
				},
				Action: r.MoviesUpdate,
			},
			{
				Name:   "stats",
				Usage:  "Show average, median, best and worst ratings",
				Flags:  jsonFlags,
				Action: r.MoviesStats,
			},
			{
				Name:   "random",
				Usage:  "Pick a random movie",
				Action: r.MoviesRandom,
			},
			{
				Name:      "search",
				Usage:     "Find movies by part of the title",
				Arguments: []cli.Argument{&cli.StringArg{Name: "term"}},
				Action:    r.MoviesSearch,
			},
			{
				Name:  "histogram",
				Usage: "Show the distribution of ratings",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "bins", Usage: "Number of buckets over 0-10", Value: 10},
				},
				Action: r.MoviesHistogram,
			},
		},
	}
}

// exportCommand writes the --user catalog to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "export",
		Usage:  "Export the catalog of --user (or every user with --all) as csv, md, txt or json",
		Before: r.OpenCatalog,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, md, txt or json", Value: "csv"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path, or directory with --all (default: {user}_movies.{format})"},
			&cli.BoolFlag{Name: "all", Usage: "Export every user's catalog"},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent exports with --all (max 8)", Value: 4},
			&cli.BoolFlag{Name: "site", Usage: "Also render each catalog page with --all"},
		},
		Action: r.Export,
	}
}

// siteCommand generates the static catalog page
func siteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "site",
		Usage:  "Generate the HTML catalog page for --user",
		Before: r.OpenCatalog,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "Output directory (default: site.static_dir)"},
			&cli.BoolFlag{Name: "open", Usage: "Open the generated page in the default browser"},
		},
		Action: r.Site,
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the catalog over a JSON HTTP API",
		Before: r.OpenCatalog,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default: server.host:server.port)"},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive catalog management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for the --user catalog",
		Before:  r.OpenCatalog,
		Action:  r.TUI,
	}
}
