package main

import (
	"context"
	"fmt"

	"github.com/mooreolith/todo-docker/internal/shared"
	"github.com/mooreolith/todo-docker/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal client against the configured server.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	if err := ui.Run(ctx, r.todoClient(), r.logger); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
