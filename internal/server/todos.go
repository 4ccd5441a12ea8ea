package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mooreolith/todo-docker/internal/models"
	"github.com/mooreolith/todo-docker/internal/shared"
)

const maxBodyBytes = 1 << 20

// TodoHandler serves the four todo routes over a [models.TodoRepository].
type TodoHandler struct {
	repo models.TodoRepository
}

// NewTodoHandler creates a [TodoHandler]. The repository is injected so tests can supply a double.
func NewTodoHandler(repo models.TodoRepository) *TodoHandler {
	return &TodoHandler{repo: repo}
}

// Register adds the todo routes to r.
func (h *TodoHandler) Register(r Router) {
	r.Handle(http.MethodPost, "/add", http.HandlerFunc(h.Add))
	r.Handle(http.MethodGet, "/list", http.HandlerFunc(h.List))
	r.Handle(http.MethodPost, "/update", http.HandlerFunc(h.Update))
	r.Handle(http.MethodPost, "/remove", http.HandlerFunc(h.Remove))
}

// Add handles POST /add.
func (h *TodoHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.repo.Add(r.Context(), req.Item.Ptr()); err != nil {
		h.fail(w, r, "add", err)
		return
	}
	writeResult(w, true)
}

// List handles GET /list.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, r, "list", err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	writeResult(w, todos)
}

// Update handles POST /update.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.repo.Update(r.Context(), int64(req.ID), req.Item.Ptr(), bool(req.Done)); err != nil {
		h.fail(w, r, "update", err)
		return
	}
	writeResult(w, true)
}

// Remove handles POST /remove.
func (h *TodoHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req models.RemoveRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.repo.Remove(r.Context(), int64(req.ID)); err != nil {
		h.fail(w, r, "remove", err)
		return
	}
	writeResult(w, true)
}

// fail logs a persistence error and writes the failure envelope. The request ends here.
func (h *TodoHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	LoggerFrom(r.Context()).Error("persistence error", "op", op, "error", err)

	code := http.StatusInternalServerError
	if errors.Is(err, shared.ErrPoolExhausted) || errors.Is(err, shared.ErrPoolClosed) {
		code = http.StatusServiceUnavailable
	}
	writeError(w, code, err)
}

// decode reads a JSON body into v, writing a 400 failure envelope when it can't.
// An empty body decodes to the zero value, like a missing field would.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	LoggerFrom(r.Context()).Warn("malformed request body", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
	return false
}
