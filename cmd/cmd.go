// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// inputFlags are shared by commands that resolve an identifier list.
func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Path to a CSV or plain-text file of ISRC codes",
		},
		&cli.StringFlag{
			Name:  "column",
			Usage: "CSV column holding the ISRC codes",
			Value: "ISRC",
		},
		&cli.IntFlag{
			Name:  "header-row",
			Usage: "Zero-based row index of the CSV header",
			Value: 0,
		},
		&cli.StringSliceFlag{
			Name:  "isrc",
			Usage: "ISRC code to look up (repeatable, bypasses --input)",
		},
		&cli.IntFlag{
			Name:    "delay",
			Aliases: []string{"d"},
			Usage:   "Milliseconds to wait between API calls (overrides config)",
			Value:   -1,
		},
	}
}

// matchCommand runs a batch of ISRC lookups and reports the results
func matchCommand(r *Runner) *cli.Command {
	flags := inputFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Report format: csv, json, or markdown",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Base path for report files (no report files when empty)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the full report as JSON instead of a table",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "Save the run to the history database",
		},
	)

	return &cli.Command{
		Name:    "match",
		Aliases: []string{"m"},
		Usage:   "Look up a batch of ISRC codes on Spotify",
		Flags:   flags,
		Action:  r.Match,
	}
}

// historyCommand inspects saved runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect saved match runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one run's results, optionally re-exporting the report",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Run ID to show",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Report format: csv, json, or markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Base path for report files (no report files when empty)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryShow,
			},
		},
	}
}

// setupCommand initializes configuration and database state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config file from the bundled template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the history database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand launches the interactive batch UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Run a batch interactively and browse the results",
		Flags:  inputFlags(),
		Action: r.TUI,
	}
}
