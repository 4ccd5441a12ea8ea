// package models defines the data model for the todo service
package models

import "context"

// Todo is one task with its text and completion state.
//
// ID is assigned by the store on creation and never changes.
type Todo struct {
	ID   int64  `json:"id"`
	Item string `json:"item"`
	Done bool   `json:"done"`
}

// TodoRepository defines the persistence operations, one per stored procedure.
// Implementations must be safe for concurrent use.
type TodoRepository interface {
	Add(ctx context.Context, item *string) error                         // Add inserts a new item with done=false
	List(ctx context.Context) ([]Todo, error)                            // List returns every item, never nil
	Update(ctx context.Context, id int64, item *string, done bool) error // Update replaces item and done for id
	Remove(ctx context.Context, id int64) error                          // Remove deletes id permanently
}
