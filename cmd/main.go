package main

import (
	"context"
	"os"

	"github.com/mooreolith/todo-docker/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// newApp builds the root command. Root flags are inherited by every subcommand.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "todo",
		Usage:   "Todo list service, browser client, and command line client",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Server address used by client commands",
				Sources: cli.EnvVars("TODO_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "Database connection string, overrides host and credentials",
				Sources: cli.EnvVars("TODO_DATABASE_DSN"),
			},
			&cli.StringFlag{
				Name:    "db-password",
				Usage:   "Database password",
				Sources: cli.EnvVars("TODO_DATABASE_PASSWORD"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}
