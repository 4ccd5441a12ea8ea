package repositories

import (
	"context"
	"database/sql"

	"github.com/mooreolith/todo-docker/internal/models"
	"github.com/mooreolith/todo-docker/internal/pool"
	"github.com/mooreolith/todo-docker/internal/shared"
)

var _ models.TodoRepository = (*TodoRepository)(nil)

// TodoRepository implements [models.TodoRepository] on top of the todo_* procedures.
type TodoRepository struct {
	caller
}

// NewTodoRepository creates a new [TodoRepository] drawing connections from p.
func NewTodoRepository(p *pool.Pool, d shared.Dialect) *TodoRepository {
	return &TodoRepository{caller{pool: p, dialect: d}}
}

// Add calls todo_add. A nil item is passed through as NULL.
func (r *TodoRepository) Add(ctx context.Context, item *string) error {
	return r.exec(ctx, shared.ProcAdd, nullString(item))
}

// List calls todo_list and returns every item in id order.
func (r *TodoRepository) List(ctx context.Context) ([]models.Todo, error) {
	todos := []models.Todo{}

	err := r.query(ctx, shared.ProcList, func(rows *sql.Rows) error {
		var (
			todo models.Todo
			item sql.NullString
		)
		if err := rows.Scan(&todo.ID, &item, &todo.Done); err != nil {
			return err
		}
		todo.Item = item.String
		todos = append(todos, todo)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return todos, nil
}

// Update calls todo_update, replacing both item and done. Unknown ids are not an error.
func (r *TodoRepository) Update(ctx context.Context, id int64, item *string, done bool) error {
	return r.exec(ctx, shared.ProcUpdate, id, nullString(item), done)
}

// Remove calls todo_remove. Unknown ids are not an error.
func (r *TodoRepository) Remove(ctx context.Context, id int64) error {
	return r.exec(ctx, shared.ProcRemove, id)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
