// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/mooreolith/todo-docker/internal/formatter"
	"github.com/urfave/cli/v3"
)

// serveCommand runs the HTTP service.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the todo HTTP service and browser client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (default from config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (default from config)",
				Sources: cli.EnvVars("TODO_PORT"),
			},
			&cli.StringFlag{
				Name:  "static",
				Usage: "Serve client assets from this directory instead of the embedded copy",
			},
			&cli.BoolFlag{
				Name:  "skip-migrations",
				Usage: "Do not apply pending migrations on startup",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles configuration and database setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the todos table and its procedures",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the newest migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// listCommand prints every todo.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List todos",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: " + strings.Join(formatter.Formats, ", "),
				Value:   formatter.Text,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
		},
		Action: r.List,
	}
}

// addCommand adds one todo; all arguments are joined into its text.
func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a todo",
		ArgsUsage: "<item>",
		Action:    r.Add,
	}
}

// doneCommand marks a todo done, keeping its text.
func doneCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Mark a todo as done",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "undo",
				Usage: "Mark the todo as not done instead",
			},
		},
		Action: r.Done,
	}
}

// updateCommand replaces item and done together.
func updateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Replace a todo's text and done flag",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:     "id",
				Usage:    "Todo id",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "item",
				Usage:    "New text",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "done",
				Usage: "Completion flag",
			},
		},
		Action: r.Update,
	}
}

// removeCommand deletes todos by id.
func removeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Remove todos",
		ArgsUsage: "<id> [id...]",
		Action:    r.Remove,
	}
}

// importCommand bulk-adds items from a file.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Add one todo per line of a file (- for stdin)",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent requests",
				Value:   4,
			},
			&cli.Float64Flag{
				Name:  "rate",
				Usage: "Requests per second (negative for unlimited)",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "List once afterwards and report how many todos are stored",
			},
		},
		Action: r.Import,
	}
}

// tuiCommand launches the terminal client.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive terminal client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the UI is running",
				Value: "./tmp/todo-tui.log",
			},
		},
		Action: r.TUI,
	}
}
