package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mooreolith/todo-docker/internal/pool"
	"github.com/mooreolith/todo-docker/internal/repositories"
	"github.com/mooreolith/todo-docker/internal/server"
	"github.com/mooreolith/todo-docker/internal/shared"
	"github.com/mooreolith/todo-docker/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve opens the database, applies migrations, and serves until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := *r.config
	if cmd.IsSet("host") {
		cfg.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("static") {
		cfg.Server.StaticDir = cmd.String("static")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	handler, closeFn, err := r.newService(&cfg, !cmd.Bool("skip-migrations"))
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			r.logger.Warn("failed to close database", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg.Server.Addr(), handler, r.logger).ListenAndServe(ctx)
}

// newService wires database, pool, repository and router. The returned func closes the pool.
func (r *Runner) newService(cfg *shared.Config, migrate bool) (http.Handler, func() error, error) {
	dialect, err := shared.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, nil, err
	}

	r.logger.Info("opening database", "driver", dialect.Driver, "pool_size", cfg.Database.PoolSize)
	db, err := shared.NewDatabase(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if migrate {
		if err := shared.RunMigrations(db, dialect); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	p := pool.New(db, pool.Options{
		Capacity:       cfg.Database.PoolSize,
		AcquireTimeout: cfg.Database.AcquireTimeout(),
	})

	router := server.NewTodoRouter(server.Options{
		Repo:      repositories.NewTodoRepository(p, dialect),
		Pool:      p,
		Static:    web.Handler(cfg.Server.StaticDir),
		Logger:    r.logger,
		RateLimit: cfg.Server.RateLimit,
		Burst:     cfg.Server.Burst,
	})

	return router, p.Close, nil
}
