package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mooreolith/todo-docker/internal/shared"
	"github.com/mooreolith/todo-docker/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Import adds one todo per line of the named file, or of stdin for "-".
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("%w: file to import", shared.ErrMissingArgument)
	}

	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()
		in = f
	}

	items, err := tasks.ParseItems(in)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return r.writePlain("Nothing to import.\n")
	}

	r.logger.Info("starting import", "file", path, "items", len(items))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ReadItems:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.AddItems:
				r.writePlain("   %s\n", update.Message)
			case tasks.Verify:
				r.writePlain("\n🔍 %s\n", update.Message)
			}
		}
	}()

	result, err := tasks.NewImporter(r.todoClient()).Import(ctx, progressCh, items, tasks.ImportOpts{
		Workers:   cmd.Int("workers"),
		RateLimit: cmd.Float64("rate"),
		Verify:    cmd.Bool("verify"),
	})
	close(progressCh)
	<-printed

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Import Complete")
		r.writePlain("Added: %d/%d\n", result.Added, result.Total)
		if result.Failed > 0 {
			r.writePlain("\nFailed to add %d items:\n", result.Failed)
			for _, res := range result.Results {
				if res.Err != nil {
					r.writePlain("  - %s: %v\n", res.Item, res.Err)
				}
			}
			if result.Retryable > 0 {
				r.writePlain("%d of them were turned away while the server was busy; import them again later.\n", result.Retryable)
			}
		}
		if result.Skipped > 0 {
			r.writePlain("Skipped: %d\n", result.Skipped)
		}
		if result.Stored >= 0 {
			r.writePlain("Server now holds %d todos\n", result.Stored)
		}
	}

	return err
}
