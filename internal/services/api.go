// HTTP client for the todo service
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mooreolith/todo-docker/internal/models"
	"github.com/mooreolith/todo-docker/internal/shared"
)

// DefaultBaseURL is where the server listens out of the box.
const DefaultBaseURL = "http://localhost:3000"

var _ TodoClient = (*TodoService)(nil)

// TodoService implements [TodoClient] over HTTP.
type TodoService struct {
	baseURL    string
	httpClient *http.Client
}

// NewTodoService creates a client for the server at baseURL.
func NewTodoService(baseURL string, client *http.Client) *TodoService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &TodoService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// BaseURL returns the server address requests are sent to.
func (s *TodoService) BaseURL() string {
	return s.baseURL
}

// APIResponse is a raw response with its decoded envelope, when there is one.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Envelope   *envelope
}

// envelope keeps result undecoded so list and mutation routes can share it.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  any             `json:"error"`
}

func (e *envelope) failed() bool {
	return bytes.Equal(bytes.TrimSpace(e.Result), []byte("false"))
}

// List calls GET /list.
func (s *TodoService) List(ctx context.Context) ([]models.Todo, error) {
	resp, err := s.do(ctx, http.MethodGet, "/list", nil)
	if err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	todos := []models.Todo{}
	if err := json.Unmarshal(resp.Envelope.Result, &todos); err != nil {
		return nil, fmt.Errorf("%w: failed to decode todos: %v", shared.ErrAPIRequest, err)
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// Add calls POST /add.
func (s *TodoService) Add(ctx context.Context, item string) error {
	return s.mutate(ctx, "/add", models.AddRequest{Item: models.NewText(item)})
}

// Update calls POST /update with the full id, item and done triple.
func (s *TodoService) Update(ctx context.Context, id int64, item string, done bool) error {
	return s.mutate(ctx, "/update", models.UpdateRequest{ID: models.ID(id), Item: models.NewText(item), Done: models.Flag(done)})
}

// Remove calls POST /remove.
func (s *TodoService) Remove(ctx context.Context, id int64) error {
	return s.mutate(ctx, "/remove", models.RemoveRequest{ID: models.ID(id)})
}

// Hello calls GET /hello, which doubles as a liveness check.
func (s *TodoService) Hello(ctx context.Context) (string, error) {
	resp, err := s.do(ctx, http.MethodGet, "/hello", nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	return string(resp.Body), nil
}

func (s *TodoService) mutate(ctx context.Context, path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPost, path, data)
	if err != nil {
		return err
	}
	return resp.check()
}

// do sends one request and reads the whole response. Only transport failures are errors here.
func (s *TodoService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Result != nil {
		apiResp.Envelope = &env
	}

	return apiResp, nil
}

// check turns a failure envelope into an [*APIError] and anything that is not an envelope into a wrapped error.
func (r *APIResponse) check() error {
	if r.Envelope == nil {
		return fmt.Errorf("%w: unexpected response (status %d): %s", shared.ErrAPIRequest, r.StatusCode, truncate(r.Body, 200))
	}
	if r.Envelope.failed() {
		return &APIError{StatusCode: r.StatusCode, Payload: r.Envelope.Error}
	}
	return nil
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
