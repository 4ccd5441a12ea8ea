// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mooreolith/todo-docker/internal/pool"
	"github.com/mooreolith/todo-docker/internal/shared"
)

// caller runs procedures on pooled connections.
type caller struct {
	pool    *pool.Pool
	dialect shared.Dialect
}

// exec acquires a connection, invokes proc with args, and releases the connection.
func (c caller) exec(ctx context.Context, proc string, args ...any) error {
	stmt, err := c.dialect.Call(proc)
	if err != nil {
		return err
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer c.pool.Release(conn)

	if _, err := conn.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("%s failed: %w", proc, err)
	}
	return nil
}

// query is exec for procedures that return rows. scan is called once per row
// while the connection is still held.
func (c caller) query(ctx context.Context, proc string, scan func(*sql.Rows) error, args ...any) error {
	stmt, err := c.dialect.Call(proc)
	if err != nil {
		return err
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer c.pool.Release(conn)

	rows, err := conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("%s failed: %w", proc, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("%s: failed to scan row: %w", proc, err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: row iteration error: %w", proc, err)
	}

	// MySQL follows a CALL result set with a status result; drain it so the
	// connection goes back clean.
	for rows.NextResultSet() {
	}

	return nil
}
