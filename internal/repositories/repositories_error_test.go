package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mooreolith/todo-docker/internal/shared"
)

func TestTodoRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Add", func(t *testing.T) {
		t.Run("NullItem", func(t *testing.T) {
			repo, p := setupTestRepo(t, 1)

			if err := repo.Add(ctx, nil); err == nil {
				t.Fatal("expected store to reject a null item")
			}
			if p.InUse() != 0 {
				t.Errorf("connection not released after failure, %d in use", p.InUse())
			}
		})

		t.Run("PoolExhausted", func(t *testing.T) {
			repo, p := setupTestRepo(t, 1)

			held, err := p.Acquire(ctx)
			if err != nil {
				t.Fatalf("failed to acquire: %v", err)
			}
			defer p.Release(held)

			shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			if err := repo.Add(shortCtx, strPtr("x")); err == nil {
				t.Fatal("expected error while pool is exhausted")
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo, _ := setupTestRepo(t, 1)

			if err := repo.Update(ctx, 999, strPtr("ghost"), true); err != nil {
				t.Errorf("updating a missing id should succeed, got %v", err)
			}
			todos, _ := repo.List(ctx)
			if len(todos) != 0 {
				t.Errorf("update must not create rows, got %d", len(todos))
			}
		})
	})

	t.Run("Remove", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo, _ := setupTestRepo(t, 1)

			if err := repo.Remove(ctx, 999); err != nil {
				t.Errorf("removing a missing id should succeed, got %v", err)
			}
		})

		t.Run("Twice", func(t *testing.T) {
			repo, _ := setupTestRepo(t, 1)
			repo.Add(ctx, strPtr("once"))
			todos, _ := repo.List(ctx)

			if err := repo.Remove(ctx, todos[0].ID); err != nil {
				t.Fatalf("first remove failed: %v", err)
			}
			if err := repo.Remove(ctx, todos[0].ID); err != nil {
				t.Errorf("second remove should succeed, got %v", err)
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("MissingTable", func(t *testing.T) {
			repo, p := setupTestRepo(t, 1)
			if _, err := p.DB().Exec("DROP TABLE todos"); err != nil {
				t.Fatalf("failed to drop table: %v", err)
			}

			if _, err := repo.List(ctx); err == nil {
				t.Fatal("expected error listing without a table")
			}
			if p.InUse() != 0 {
				t.Errorf("connection not released after failure, %d in use", p.InUse())
			}
		})
	})

	t.Run("UnknownProcedure", func(t *testing.T) {
		repo, _ := setupTestRepo(t, 1)
		if err := repo.exec(ctx, "todo_purge"); !errors.Is(err, shared.ErrUnknownProcedure) {
			t.Errorf("expected ErrUnknownProcedure, got %v", err)
		}
	})
}
