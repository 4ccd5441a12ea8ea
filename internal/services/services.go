// package services defines the [TodoClient] interface used by the command line, terminal and bulk import clients
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mooreolith/todo-docker/internal/models"
	"github.com/mooreolith/todo-docker/internal/shared"
)

// TodoClient is the client side of the four todo routes.
type TodoClient interface {
	// List returns every stored todo in store order.
	List(ctx context.Context) ([]models.Todo, error)

	// Add stores a new, not yet done, todo.
	Add(ctx context.Context, item string) error

	// Update replaces item and done of the todo with id together.
	Update(ctx context.Context, id int64, item string, done bool) error

	// Remove deletes the todo with id. Unknown ids are not an error.
	Remove(ctx context.Context, id int64) error
}

// APIError is a failure envelope returned by the server.
//
// Payload is the raw "error" value, usually the driver's error message.
type APIError struct {
	StatusCode int
	Payload    any
}

func (e *APIError) Error() string {
	switch p := e.Payload.(type) {
	case nil:
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	case string:
		return p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Sprintf("%v", p)
		}
		return string(b)
	}
}

// Unwrap lets callers match any server-side failure with [shared.ErrAPIRequest].
func (e *APIError) Unwrap() error {
	return shared.ErrAPIRequest
}

// Temporary reports whether retrying later could succeed (pool exhausted or rate limited).
func (e *APIError) Temporary() bool {
	return e.StatusCode == 503 || e.StatusCode == 429
}
