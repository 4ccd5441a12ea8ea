// Package pool hands out database connections from a bounded set.
//
// [Pool] sits on top of the [sql.DB] connection pool and gives it the
// acquire/release shape the repositories work with: at most Capacity
// connections are open at once, idle connections are kept indefinitely, and
// an acquisition that waits longer than AcquireTimeout fails with
// [shared.ErrPoolExhausted].
package pool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mooreolith/todo-docker/internal/shared"
)

// Options configures a [Pool].
type Options struct {
	Capacity       int           // Maximum number of open connections (default: 1)
	AcquireTimeout time.Duration // Maximum wait in Acquire; zero waits on the caller's context only
}

// Pool is an explicitly constructed connection pool handle.
type Pool struct {
	db       *sql.DB
	capacity int
	timeout  time.Duration
	inUse    atomic.Int64
	timeouts atomic.Int64
	closed   atomic.Bool
}

// New configures db as a bounded pool and wraps it.
func New(db *sql.DB, opts Options) *Pool {
	if opts.Capacity <= 0 {
		opts.Capacity = 1
	}

	db.SetMaxOpenConns(opts.Capacity)
	db.SetMaxIdleConns(opts.Capacity)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	return &Pool{db: db, capacity: opts.Capacity, timeout: opts.AcquireTimeout}
}

// Acquire returns a dedicated connection, waiting for one to be released when the pool is at capacity.
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	if p.closed.Load() {
		return nil, shared.ErrPoolClosed
	}

	waitCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	conn, err := p.db.Conn(waitCtx)
	if err != nil {
		// Our own deadline fired while the caller's context is still live.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			p.timeouts.Add(1)
			return nil, fmt.Errorf("%w: no connection within %s (capacity %d)", shared.ErrPoolExhausted, p.timeout, p.capacity)
		}
		if errors.Is(err, sql.ErrConnDone) || p.closed.Load() {
			return nil, shared.ErrPoolClosed
		}
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	p.inUse.Add(1)
	return conn, nil
}

// Release hands a connection back to the pool. A nil conn is ignored.
func (p *Pool) Release(conn *sql.Conn) error {
	if conn == nil {
		return nil
	}
	p.inUse.Add(-1)
	return conn.Close()
}

// Capacity returns the configured maximum number of connections.
func (p *Pool) Capacity() int { return p.capacity }

// InUse returns the number of connections currently acquired.
func (p *Pool) InUse() int { return int(p.inUse.Load()) }

// Timeouts returns how many acquisitions failed with [shared.ErrPoolExhausted].
func (p *Pool) Timeouts() int64 { return p.timeouts.Load() }

// Stats returns the underlying [sql.DBStats].
func (p *Pool) Stats() sql.DBStats { return p.db.Stats() }

// DB exposes the underlying handle for migrations and health checks.
func (p *Pool) DB() *sql.DB { return p.db }

// Close closes the pool and the underlying database.
func (p *Pool) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.db.Close()
}
