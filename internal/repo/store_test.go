package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	dom "tasks/internal/domain"
)

var errBoom = errors.New("boom")

// testStoreBehaviour runs the gateway contract against a fresh, empty store.
func testStoreBehaviour(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("list save and find", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		l := newList("groceries")
		if _, err := s.TaskLists().Save(ctx, l); err != nil {
			t.Fatalf("save list: %v", err)
		}
		got, err := s.TaskLists().FindByID(ctx, l.ID)
		if err != nil {
			t.Fatalf("find list: %v", err)
		}
		if got.Title != "groceries" || len(got.Tasks) != 0 {
			t.Fatalf("unexpected list: %+v", got)
		}
		if _, err := s.TaskLists().FindByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list update keeps created", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		l := newList("a")
		mustSaveList(t, s, l)
		l.Title = "b"
		l.Created = l.Created.Add(time.Hour)
		l.Updated = l.Updated.Add(2 * time.Hour)
		if _, err := s.TaskLists().Save(ctx, l); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, _ := s.TaskLists().FindByID(ctx, l.ID)
		if got.Title != "b" {
			t.Fatalf("title: %q", got.Title)
		}
		if got.Created.Equal(l.Created) {
			t.Fatal("created must not change on update")
		}
	})

	t.Run("tasks are scoped by list", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a, b := newList("a"), newList("b")
		mustSaveList(t, s, a)
		mustSaveList(t, s, b)
		ta := mustSaveTask(t, s, newTask(a.ID, "in a"))
		mustSaveTask(t, s, newTask(b.ID, "in b"))

		if _, err := s.Tasks().FindByTaskListIDAndID(ctx, b.ID, ta.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("cross-list lookup: expected ErrNotFound, got %v", err)
		}
		if err := s.Tasks().Delete(ctx, b.ID, ta.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("cross-list delete: expected ErrNotFound, got %v", err)
		}
		got, err := s.Tasks().FindByTaskListID(ctx, a.ID)
		if err != nil {
			t.Fatalf("find by list: %v", err)
		}
		if len(got) != 1 || got[0].ID != ta.ID {
			t.Fatalf("unexpected tasks: %+v", got)
		}
		list, _ := s.TaskLists().FindByID(ctx, a.ID)
		if len(list.Tasks) != 1 {
			t.Fatalf("list should carry its task, got %d", len(list.Tasks))
		}
		if none, _ := s.Tasks().FindByTaskListID(ctx, uuid.New()); len(none) != 0 {
			t.Fatalf("unknown list should have no tasks, got %d", len(none))
		}
	})

	t.Run("task for missing list", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Tasks().Save(context.Background(), newTask(uuid.New(), "orphan"))
		if !errors.Is(err, ErrForeignKey) {
			t.Fatalf("expected ErrForeignKey, got %v", err)
		}
	})

	t.Run("task update keeps owner", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a, b := newList("a"), newList("b")
		mustSaveList(t, s, a)
		mustSaveList(t, s, b)
		task := mustSaveTask(t, s, newTask(a.ID, "t"))
		task.TaskListID = b.ID
		task.Status = dom.TaskStatusClosed
		if _, err := s.Tasks().Save(ctx, task); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := s.Tasks().FindByTaskListIDAndID(ctx, a.ID, task.ID)
		if err != nil {
			t.Fatalf("task moved away from its list: %v", err)
		}
		if got.Status != dom.TaskStatusClosed {
			t.Fatalf("status: %s", got.Status)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		l := newList("l")
		mustSaveList(t, s, l)
		task := mustSaveTask(t, s, newTask(l.ID, "t"))
		if err := s.Tasks().Delete(ctx, l.ID, task.ID); err != nil {
			t.Fatalf("delete task: %v", err)
		}
		if err := s.Tasks().Delete(ctx, l.ID, task.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("second delete: expected ErrNotFound, got %v", err)
		}
		if err := s.TaskLists().Delete(ctx, l.ID); err != nil {
			t.Fatalf("delete list: %v", err)
		}
		if err := s.TaskLists().Delete(ctx, l.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("second delete: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete by list", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a, b := newList("a"), newList("b")
		mustSaveList(t, s, a)
		mustSaveList(t, s, b)
		for i := 0; i < 3; i++ {
			mustSaveTask(t, s, newTask(a.ID, "a"))
		}
		keep := mustSaveTask(t, s, newTask(b.ID, "b"))
		if err := s.Tasks().DeleteByTaskListID(ctx, a.ID); err != nil {
			t.Fatalf("delete by list: %v", err)
		}
		if left, _ := s.Tasks().FindByTaskListID(ctx, a.ID); len(left) != 0 {
			t.Fatalf("expected no tasks left, got %d", len(left))
		}
		if _, err := s.Tasks().FindByTaskListIDAndID(ctx, b.ID, keep.ID); err != nil {
			t.Fatalf("other list's task removed: %v", err)
		}
		if err := s.Tasks().DeleteByTaskListID(ctx, uuid.New()); err != nil {
			t.Fatalf("delete by unknown list should be a no-op: %v", err)
		}
	})

	t.Run("transaction rollback", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		l := newList("kept")
		mustSaveList(t, s, l)

		err := s.InTx(ctx, func(tx Store) error {
			if _, err := tx.Tasks().Save(ctx, newTask(l.ID, "lost")); err != nil {
				return err
			}
			if _, err := tx.TaskLists().Save(ctx, newList("lost")); err != nil {
				return err
			}
			return errBoom
		})
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		all, err := s.TaskLists().FindAll(ctx)
		if err != nil {
			t.Fatalf("find all: %v", err)
		}
		if len(all) != 1 || len(all[0].Tasks) != 0 {
			t.Fatalf("rollback left writes behind: %+v", all)
		}
	})

	t.Run("nested transaction joins outer", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		err := s.InTx(ctx, func(tx Store) error {
			if err := tx.InTx(ctx, func(inner Store) error {
				_, err := inner.TaskLists().Save(ctx, newList("inner"))
				return err
			}); err != nil {
				return err
			}
			return errBoom
		})
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		if all, _ := s.TaskLists().FindAll(ctx); len(all) != 0 {
			t.Fatalf("inner write survived outer rollback: %+v", all)
		}
	})

	t.Run("commit", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		l := newList("l")
		err := s.InTx(ctx, func(tx Store) error {
			if _, err := tx.TaskLists().Save(ctx, l); err != nil {
				return err
			}
			_, err := tx.Tasks().Save(ctx, newTask(l.ID, "t"))
			return err
		})
		if err != nil {
			t.Fatalf("tx: %v", err)
		}
		got, err := s.TaskLists().FindByID(ctx, l.ID)
		if err != nil || len(got.Tasks) != 1 {
			t.Fatalf("commit not visible: %+v %v", got, err)
		}
	})
}

func newList(title string) dom.TaskList {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return dom.TaskList{ID: uuid.New(), Title: title, Created: now, Updated: now}
}

func newTask(listID uuid.UUID, title string) dom.Task {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return dom.Task{
		ID:         uuid.New(),
		Title:      title,
		Status:     dom.TaskStatusOpen,
		Priority:   dom.TaskPriorityMedium,
		TaskListID: listID,
		Created:    now,
		Updated:    now,
	}
}

func mustSaveList(t *testing.T, s Store, l dom.TaskList) dom.TaskList {
	t.Helper()
	out, err := s.TaskLists().Save(context.Background(), l)
	if err != nil {
		t.Fatalf("save list: %v", err)
	}
	return out
}

func mustSaveTask(t *testing.T, s Store, task dom.Task) dom.Task {
	t.Helper()
	out, err := s.Tasks().Save(context.Background(), task)
	if err != nil {
		t.Fatalf("save task: %v", err)
	}
	return out
}
