package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mooreolith/todo-docker/internal/models"
)

// Options collects the dependencies of the todo router.
type Options struct {
	Repo      models.TodoRepository
	Pool      PoolObserver // optional; adds pool gauges to /metrics
	Static    http.Handler // optional; served at / for every unmatched path
	Logger    *log.Logger
	RateLimit float64
	Burst     int
}

// NewTodoRouter builds the full route table: hello, the todo routes, metrics and static assets.
func NewTodoRouter(opts Options) *BasicRouter {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	metrics := NewMetrics(opts.Pool)

	router := NewBasicRouter()
	router.Use(RequestID(opts.Logger), Logging, Recover, metrics.Middleware, RateLimit(opts.RateLimit, opts.Burst))

	router.HandleFunc(http.MethodGet, "/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Hello World!"))
	})

	NewTodoHandler(opts.Repo).Register(router)

	router.Handle(http.MethodGet, "/metrics", metrics.Handler())

	if opts.Static != nil {
		router.Mount("/", opts.Static)
	}

	return router
}
