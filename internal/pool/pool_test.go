package pool

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mooreolith/todo-docker/internal/shared"
)

func setupTestPool(t *testing.T, opts Options) *Pool {
	t.Helper()

	db, err := shared.NewSQLiteDatabase(filepath.Join(t.TempDir(), "pool.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	p := New(db, opts)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestPool(t *testing.T) {
	t.Run("New applies capacity", func(t *testing.T) {
		p := setupTestPool(t, Options{Capacity: 3})

		if p.Capacity() != 3 {
			t.Errorf("expected capacity 3, got %d", p.Capacity())
		}
		if got := p.Stats().MaxOpenConnections; got != 3 {
			t.Errorf("expected MaxOpenConnections 3, got %d", got)
		}
	})

	t.Run("New defaults capacity", func(t *testing.T) {
		p := setupTestPool(t, Options{})
		if p.Capacity() != 1 {
			t.Errorf("expected default capacity 1, got %d", p.Capacity())
		}
	})

	t.Run("Acquire and Release", func(t *testing.T) {
		p := setupTestPool(t, Options{Capacity: 2})
		ctx := context.Background()

		conn, err := p.Acquire(ctx)
		if err != nil {
			t.Fatalf("failed to acquire: %v", err)
		}
		if p.InUse() != 1 {
			t.Errorf("expected 1 in use, got %d", p.InUse())
		}

		var one int
		if err := conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
			t.Fatalf("query on acquired conn failed: %v", err)
		}

		if err := p.Release(conn); err != nil {
			t.Fatalf("failed to release: %v", err)
		}
		if p.InUse() != 0 {
			t.Errorf("expected 0 in use, got %d", p.InUse())
		}
	})

	t.Run("Release nil", func(t *testing.T) {
		p := setupTestPool(t, Options{Capacity: 1})
		if err := p.Release(nil); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("Acquire times out when exhausted", func(t *testing.T) {
		p := setupTestPool(t, Options{Capacity: 1, AcquireTimeout: 50 * time.Millisecond})
		ctx := context.Background()

		held, err := p.Acquire(ctx)
		if err != nil {
			t.Fatalf("failed to acquire: %v", err)
		}
		defer p.Release(held)

		_, err = p.Acquire(ctx)
		if !errors.Is(err, shared.ErrPoolExhausted) {
			t.Fatalf("expected ErrPoolExhausted, got %v", err)
		}
		if p.Timeouts() != 1 {
			t.Errorf("expected 1 timeout recorded, got %d", p.Timeouts())
		}
	})

	t.Run("Acquire honours caller cancellation", func(t *testing.T) {
		p := setupTestPool(t, Options{Capacity: 1, AcquireTimeout: time.Minute})

		held, err := p.Acquire(context.Background())
		if err != nil {
			t.Fatalf("failed to acquire: %v", err)
		}
		defer p.Release(held)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = p.Acquire(ctx)
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
		if errors.Is(err, shared.ErrPoolExhausted) {
			t.Errorf("cancellation should not be reported as exhaustion: %v", err)
		}
	})

	t.Run("waiting acquirer gets released connection", func(t *testing.T) {
		p := setupTestPool(t, Options{Capacity: 1, AcquireTimeout: 5 * time.Second})
		ctx := context.Background()

		held, err := p.Acquire(ctx)
		if err != nil {
			t.Fatalf("failed to acquire: %v", err)
		}

		var wg sync.WaitGroup
		var waitErr error
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := p.Acquire(ctx)
			if err != nil {
				waitErr = err
				return
			}
			waitErr = p.Release(conn)
		}()

		time.Sleep(20 * time.Millisecond)
		if err := p.Release(held); err != nil {
			t.Fatalf("failed to release: %v", err)
		}

		wg.Wait()
		if waitErr != nil {
			t.Errorf("waiting acquirer failed: %v", waitErr)
		}
	})

	t.Run("Acquire after Close", func(t *testing.T) {
		p := setupTestPool(t, Options{Capacity: 1})
		if err := p.Close(); err != nil {
			t.Fatalf("failed to close: %v", err)
		}
		if _, err := p.Acquire(context.Background()); !errors.Is(err, shared.ErrPoolClosed) {
			t.Errorf("expected ErrPoolClosed, got %v", err)
		}
		if err := p.Close(); err != nil {
			t.Errorf("second close should be a no-op, got %v", err)
		}
	})
}
