package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mooreolith/todo-docker/internal/formatter"
	"github.com/mooreolith/todo-docker/internal/models"
	"github.com/mooreolith/todo-docker/internal/shared"
	"github.com/urfave/cli/v3"
)

// List prints every todo in the requested format, or writes them to --output.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")

	todos, err := r.todoClient().List(ctx)
	if err != nil {
		return describeError("list", err)
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(todos, format, path); err != nil {
			return err
		}
		r.logger.Info("exported todos", "count", len(todos), "format", format, "path", path)
		return r.writePlain("✓ Wrote %d todos to %s\n", len(todos), path)
	}

	data, err := formatter.Format(todos, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Add adds one todo made of all arguments joined by spaces.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	item := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if item == "" {
		return fmt.Errorf("%w: item text", shared.ErrMissingArgument)
	}

	if err := r.todoClient().Add(ctx, item); err != nil {
		return describeError("add", err)
	}
	return r.writePlain("✓ Added %q\n", item)
}

// Done sets the done flag of one todo, resubmitting its current text.
func (r *Runner) Done(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.Args().First())
	if err != nil {
		return err
	}
	done := !cmd.Bool("undo")

	todo, err := r.findTodo(ctx, id)
	if err != nil {
		return err
	}

	if err := r.todoClient().Update(ctx, todo.ID, todo.Item, done); err != nil {
		return describeError("update", err)
	}

	if done {
		return r.writePlain("✓ Done: %s\n", todo.Item)
	}
	return r.writePlain("✓ Not done: %s\n", todo.Item)
}

// Update replaces item and done of a todo.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int64("id")
	item := cmd.String("item")
	done := cmd.Bool("done")

	if err := r.todoClient().Update(ctx, id, item, done); err != nil {
		return describeError("update", err)
	}
	return r.writePlain("✓ Updated #%d\n", id)
}

// Remove deletes each id in turn and stops at the first failure.
func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: todo id", shared.ErrMissingArgument)
	}

	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		if err := r.todoClient().Remove(ctx, id); err != nil {
			return describeError("remove", err)
		}
		r.writePlain("✓ Removed #%d\n", id)
	}
	return nil
}

// findTodo lists and returns the todo with id.
func (r *Runner) findTodo(ctx context.Context, id int64) (models.Todo, error) {
	todos, err := r.todoClient().List(ctx)
	if err != nil {
		return models.Todo{}, describeError("list", err)
	}

	for _, todo := range todos {
		if todo.ID == id {
			return todo, nil
		}
	}
	return models.Todo{}, fmt.Errorf("%w: no todo with id %d", shared.ErrInvalidArgument, id)
}

func parseID(arg string) (int64, error) {
	if arg == "" {
		return 0, fmt.Errorf("%w: todo id", shared.ErrMissingArgument)
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a todo id", shared.ErrInvalidArgument, arg)
	}
	return id, nil
}
