// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/mooreolith/todo-docker/internal/models"
)

var _ models.TodoRepository = (*MockRepository)(nil)

// MockRepository is an in-memory test double for [models.TodoRepository].
//
// Setting Err makes every call fail with it. Calls counts invocations per operation.
type MockRepository struct {
	mu     sync.Mutex
	todos  []models.Todo
	nextID int64
	Err    error
	Calls  map[string]int
}

// NewMockRepository creates an empty [MockRepository].
func NewMockRepository() *MockRepository {
	return &MockRepository{nextID: 1, Calls: map[string]int{}}
}

func (m *MockRepository) record(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[op]++
	return m.Err
}

func (m *MockRepository) Add(ctx context.Context, item *string) error {
	if err := m.record("add"); err != nil {
		return err
	}
	if item == nil {
		return errors.New("item cannot be null")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.todos = append(m.todos, models.Todo{ID: m.nextID, Item: *item})
	m.nextID++
	return nil
}

func (m *MockRepository) List(ctx context.Context) ([]models.Todo, error) {
	if err := m.record("list"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Todo, len(m.todos))
	copy(out, m.todos)
	return out, nil
}

func (m *MockRepository) Update(ctx context.Context, id int64, item *string, done bool) error {
	if err := m.record("update"); err != nil {
		return err
	}
	if item == nil {
		return errors.New("item cannot be null")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.todos {
		if m.todos[i].ID == id {
			m.todos[i].Item = *item
			m.todos[i].Done = done
		}
	}
	return nil
}

func (m *MockRepository) Remove(ctx context.Context, id int64) error {
	if err := m.record("remove"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.todos[:0]
	for _, todo := range m.todos {
		if todo.ID != id {
			kept = append(kept, todo)
		}
	}
	m.todos = kept
	return nil
}

// Seed appends todos directly, assigning ids.
func (m *MockRepository) Seed(items ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		m.todos = append(m.todos, models.Todo{ID: m.nextID, Item: item})
		m.nextID++
	}
}

// PanicRepository panics on every call.
type PanicRepository struct{}

func (PanicRepository) Add(context.Context, *string) error { panic("add exploded") }
func (PanicRepository) List(context.Context) ([]models.Todo, error) {
	panic("list exploded")
}
func (PanicRepository) Update(context.Context, int64, *string, bool) error {
	panic("update exploded")
}
func (PanicRepository) Remove(context.Context, int64) error { panic("remove exploded") }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails once maxWrites writes have gone through
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
