package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mooreolith/todo-docker/internal/server"
	"github.com/mooreolith/todo-docker/internal/services"
	"github.com/mooreolith/todo-docker/internal/shared"
	tu "github.com/mooreolith/todo-docker/internal/testing"
)

// setupRunner returns a runner whose client talks to an in-memory server.
func setupRunner(t *testing.T) (*Runner, *bytes.Buffer, *tu.MockRepository) {
	t.Helper()

	repo := tu.NewMockRepository()
	ts := httptest.NewServer(server.NewTodoRouter(server.Options{Repo: repo, Logger: log.New(io.Discard)}))
	t.Cleanup(ts.Close)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Output: output,
		Logger: log.New(io.Discard),
		Client: services.NewTodoService(ts.URL, nil),
	})
	return runner, output, repo
}

func run(r *Runner, args ...string) error {
	return newApp(r).Run(context.Background(), append([]string{"todo"}, args...))
}

// writeSQLiteConfig writes a config file pointing at a fresh SQLite database.
func writeSQLiteConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	tu.MustWriteFile(t, path, fmt.Sprintf(`
[database]
driver = "sqlite3"
path = %q
pool_size = 4
acquire_timeout_seconds = 2

[server]
host = "127.0.0.1"
port = 0
`, filepath.Join(dir, "todo.db")))
	return path
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			client := services.NewTodoService("http://example.com", httpClient)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Client:     client,
				HTTPClient: httpClient,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.todoClient() != client {
				t.Error("expected injected client to be used")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient == nil || runner.httpClient.Timeout == 0 {
				t.Error("expected an http client with a timeout")
			}
		})

		t.Run("builds client from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Client.BaseURL = "http://todo.internal:8080"
			runner := NewRunner(RunnerOpts{Config: config})

			svc, ok := runner.todoClient().(*services.TodoService)
			if !ok {
				t.Fatalf("expected *services.TodoService, got %T", runner.todoClient())
			}
			if svc.BaseURL() != "http://todo.internal:8080" {
				t.Errorf("unexpected base URL %s", svc.BaseURL())
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", output.String())
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != `{"key":"value"}`+"\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.NewLimitedWriter(1, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"serve", "setup", "list", "add", "done", "update", "remove", "import", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestDescribeError(t *testing.T) {
	tt := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "server error",
			err:  &services.APIError{StatusCode: 500, Payload: "boom"},
			want: "add rejected by server (status 500): boom",
		},
		{
			name: "busy server",
			err:  &services.APIError{StatusCode: 503, Payload: "connection pool exhausted"},
			want: "add rejected by busy server (status 503), try again later: connection pool exhausted",
		},
		{
			name: "rate limited",
			err:  &services.APIError{StatusCode: 429, Payload: "rate limit exceeded"},
			want: "add rejected by busy server (status 429), try again later: rate limit exceeded",
		},
		{
			name: "transport error",
			err:  errors.New("request failed: connection refused"),
			want: "add: request failed: connection refused",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := describeError("add", tc.err)
			if err.Error() != tc.want {
				t.Errorf("expected %q, got %q", tc.want, err.Error())
			}
			if !errors.Is(err, tc.err) {
				t.Error("expected the original error to stay in the chain")
			}
		})
	}
}

func TestBefore(t *testing.T) {
	t.Run("loads config file", func(t *testing.T) {
		path := writeSQLiteConfig(t)
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: log.New(io.Discard)})

		// update fails before reaching a server, but Before has already run
		_ = run(runner, "--config", path, "update")

		if runner.config.Database.PoolSize != 4 {
			t.Errorf("expected pool_size from file, got %d", runner.config.Database.PoolSize)
		}
		if runner.configPath != path {
			t.Errorf("expected configPath %s, got %s", path, runner.configPath)
		}
	})

	t.Run("missing explicit config", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: log.New(io.Discard)})

		err := run(runner, "--config", filepath.Join(t.TempDir(), "nope.toml"), "list")
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		repo := tu.NewMockRepository()
		repo.Seed("from env")
		ts := httptest.NewServer(server.NewTodoRouter(server.Options{Repo: repo, Logger: log.New(io.Discard)}))
		defer ts.Close()

		t.Setenv("TODO_BASE_URL", ts.URL)
		t.Setenv("TODO_DATABASE_PASSWORD", "s3cret")

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: log.New(io.Discard)})

		if err := run(runner, "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "from env") {
			t.Errorf("expected list from env-configured server, got %q", output.String())
		}
		if runner.config.Database.Password != "s3cret" {
			t.Errorf("expected password override, got %q", runner.config.Database.Password)
		}
	})
}

func TestTodoCommands(t *testing.T) {
	t.Run("add and list", func(t *testing.T) {
		runner, output, _ := setupRunner(t)

		if err := run(runner, "add", "buy", "milk"); err != nil {
			t.Fatalf("add: %v", err)
		}
		if !strings.Contains(output.String(), `✓ Added "buy milk"`) {
			t.Errorf("unexpected add output %q", output.String())
		}

		output.Reset()
		if err := run(runner, "list"); err != nil {
			t.Fatalf("list: %v", err)
		}
		if !strings.Contains(output.String(), "1. [ ] buy milk") {
			t.Errorf("unexpected list output %q", output.String())
		}

		output.Reset()
		if err := run(runner, "list", "--format", "json"); err != nil {
			t.Fatalf("list json: %v", err)
		}
		if !strings.Contains(output.String(), `"item": "buy milk"`) {
			t.Errorf("unexpected json output %q", output.String())
		}
	})

	t.Run("list to file", func(t *testing.T) {
		runner, _, repo := setupRunner(t)
		repo.Seed("a", "b")
		path := filepath.Join(t.TempDir(), "todos.md")

		if err := run(runner, "list", "-f", "markdown", "-o", path); err != nil {
			t.Fatalf("list: %v", err)
		}
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "- [ ] b (#2)") {
			t.Errorf("unexpected export %q", content)
		}
	})

	t.Run("list with unknown format", func(t *testing.T) {
		runner, _, _ := setupRunner(t)

		if err := run(runner, "list", "--format", "yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("done keeps item", func(t *testing.T) {
		runner, output, repo := setupRunner(t)
		repo.Seed("walk dog")

		if err := run(runner, "done", "1"); err != nil {
			t.Fatalf("done: %v", err)
		}
		todos, _ := repo.List(context.Background())
		if !todos[0].Done || todos[0].Item != "walk dog" {
			t.Errorf("unexpected todo %+v", todos[0])
		}
		if !strings.Contains(output.String(), "✓ Done: walk dog") {
			t.Errorf("unexpected output %q", output.String())
		}

		if err := run(runner, "done", "--undo", "#1"); err != nil {
			t.Fatalf("done --undo: %v", err)
		}
		todos, _ = repo.List(context.Background())
		if todos[0].Done {
			t.Error("expected --undo to clear done")
		}
	})

	t.Run("done unknown id", func(t *testing.T) {
		runner, _, _ := setupRunner(t)

		if err := run(runner, "done", "42"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		runner, _, repo := setupRunner(t)
		repo.Seed("walk dog")

		if err := run(runner, "update", "--id", "1", "--item", "walk cat", "--done"); err != nil {
			t.Fatalf("update: %v", err)
		}
		todos, _ := repo.List(context.Background())
		if todos[0].Item != "walk cat" || !todos[0].Done {
			t.Errorf("unexpected todo %+v", todos[0])
		}
	})

	t.Run("remove", func(t *testing.T) {
		runner, output, repo := setupRunner(t)
		repo.Seed("a", "b", "c")

		if err := run(runner, "rm", "1", "3"); err != nil {
			t.Fatalf("remove: %v", err)
		}
		todos, _ := repo.List(context.Background())
		if len(todos) != 1 || todos[0].Item != "b" {
			t.Errorf("unexpected todos %+v", todos)
		}
		if strings.Count(output.String(), "✓ Removed") != 2 {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("argument errors", func(t *testing.T) {
		tt := []struct {
			args []string
			want error
		}{
			{args: []string{"add"}, want: shared.ErrMissingArgument},
			{args: []string{"add", "  "}, want: shared.ErrMissingArgument},
			{args: []string{"remove"}, want: shared.ErrMissingArgument},
			{args: []string{"remove", "abc"}, want: shared.ErrInvalidArgument},
			{args: []string{"done"}, want: shared.ErrMissingArgument},
			{args: []string{"import"}, want: shared.ErrMissingArgument},
		}

		for _, tc := range tt {
			t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
				runner, _, _ := setupRunner(t)
				if err := run(runner, tc.args...); !errors.Is(err, tc.want) {
					t.Errorf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})

	t.Run("server failure", func(t *testing.T) {
		runner, _, repo := setupRunner(t)
		repo.Err = errors.New("Column 'item' cannot be null")

		err := run(runner, "add", "x")
		if err == nil || !strings.Contains(err.Error(), "rejected by server (status 500)") {
			t.Errorf("expected server rejection, got %v", err)
		}

		var apiErr *services.APIError
		if !errors.As(err, &apiErr) {
			t.Error("expected APIError to stay in the chain")
		}
	})
}

func TestImport(t *testing.T) {
	t.Run("imports file", func(t *testing.T) {
		runner, output, repo := setupRunner(t)
		path := filepath.Join(t.TempDir(), "items.txt")
		tu.MustWriteFile(t, path, "buy milk\n# skip me\n\nwalk dog\nfile taxes\n")

		if err := run(runner, "import", "--rate", "-1", "--verify", path); err != nil {
			t.Fatalf("import: %v", err)
		}

		todos, _ := repo.List(context.Background())
		if len(todos) != 3 {
			t.Errorf("expected 3 todos, got %d", len(todos))
		}
		for _, want := range []string{"Import Complete", "Added: 3/3", "Server now holds 3 todos"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output.String())
			}
		}
	})

	t.Run("missing file", func(t *testing.T) {
		runner, _, _ := setupRunner(t)

		err := run(runner, "import", filepath.Join(t.TempDir(), "nope.txt"))
		if err == nil || !strings.Contains(err.Error(), "failed to open import file") {
			t.Errorf("expected open error, got %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		runner, output, repo := setupRunner(t)
		path := filepath.Join(t.TempDir(), "items.txt")
		tu.MustWriteFile(t, path, "\n# nothing\n")

		if err := run(runner, "import", path); err != nil {
			t.Fatalf("import: %v", err)
		}
		if !strings.Contains(output.String(), "Nothing to import.") {
			t.Errorf("unexpected output %q", output.String())
		}
		if repo.Calls["add"] != 0 {
			t.Error("expected no adds")
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		path := filepath.Join(dir, defaultConfigPath)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: log.New(io.Discard)})

		if err := run(runner, "setup", "config"); err != nil {
			t.Fatalf("setup config: %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "[database]") {
			t.Error("expected example config to be written")
		}

		if err := run(runner, "setup", "config"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected refusal to overwrite, got %v", err)
		}
		if err := run(runner, "--config", path, "setup", "config", "--force"); err != nil {
			t.Errorf("expected --force to overwrite, got %v", err)
		}
	})

	t.Run("database and rollback", func(t *testing.T) {
		path := writeSQLiteConfig(t)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: log.New(io.Discard)})

		if err := run(runner, "--config", path, "setup", "database"); err != nil {
			t.Fatalf("setup database: %v", err)
		}
		if !strings.Contains(output.String(), "Database ready (sqlite3)") {
			t.Errorf("unexpected output %q", output.String())
		}

		if err := run(runner, "--config", path, "setup", "rollback"); err != nil {
			t.Fatalf("setup rollback: %v", err)
		}
		if !strings.Contains(output.String(), "Rolled back newest migration") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestServe(t *testing.T) {
	t.Run("newService", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Driver = shared.DriverSQLite
		config.Database.Path = filepath.Join(t.TempDir(), "todo.db")
		runner := NewRunner(RunnerOpts{Logger: log.New(io.Discard)})

		handler, closeFn, err := runner.newService(config, true)
		if err != nil {
			t.Fatalf("newService: %v", err)
		}
		defer closeFn()

		ts := httptest.NewServer(handler)
		defer ts.Close()

		svc := services.NewTodoService(ts.URL, nil)
		if err := svc.Add(context.Background(), "buy milk"); err != nil {
			t.Fatalf("add: %v", err)
		}
		todos, err := svc.List(context.Background())
		if err != nil || len(todos) != 1 || todos[0].ID != 1 {
			t.Fatalf("list: got %+v, %v", todos, err)
		}

		resp, err := http.Get(ts.URL + "/")
		if err != nil {
			t.Fatalf("GET /: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if !strings.Contains(string(body), "index.js") {
			t.Error("expected embedded client at /")
		}

		resp, err = http.Get(ts.URL + "/metrics")
		if err != nil {
			t.Fatalf("GET /metrics: %v", err)
		}
		body, _ = io.ReadAll(resp.Body)
		resp.Body.Close()
		if !strings.Contains(string(body), "todo_pool_capacity 100") {
			t.Error("expected pool gauges for the configured pool size")
		}
	})

	t.Run("unsupported driver", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Driver = "oracle"
		runner := NewRunner(RunnerOpts{Logger: log.New(io.Discard)})

		if _, _, err := runner.newService(config, true); !errors.Is(err, shared.ErrUnsupportedDriver) {
			t.Errorf("expected ErrUnsupportedDriver, got %v", err)
		}
	})

	t.Run("stops when context is done", func(t *testing.T) {
		path := writeSQLiteConfig(t)
		runner := NewRunner(RunnerOpts{Logger: log.New(io.Discard)})

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		err := newApp(runner).Run(ctx, []string{"todo", "--config", path, "serve", "--port", "0"})
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	})
}
