package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"

	"tasks/internal/cache"
	dom "tasks/internal/domain"
	"tasks/internal/repo"
)

var errBoom = errors.New("boom")

// clock is a settable time source shared by both services under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	store repo.Store
	lists *TaskListService
	tasks *TaskService
	clock *clock
}

func newFixture(t *testing.T, store repo.Store, c *cache.TaskCache) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	clk := &clock{now: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}

	lists := NewTaskListService(store, c, logger)
	lists.now = clk.Now
	tasks := NewTaskService(store, c, logger)
	tasks.now = clk.Now

	return &fixture{store: store, lists: lists, tasks: tasks, clock: clk}
}

func (f *fixture) mustCreateList(t *testing.T, title string) dom.TaskList {
	t.Helper()
	l, err := f.lists.CreateTaskList(context.Background(), title, "")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	return l
}

func (f *fixture) mustCreateTask(t *testing.T, listID uuid.UUID, draft dom.Task) dom.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), listID, draft)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

// faultyStore wraps a Store and fails selected operations with errBoom.
type faultyStore struct {
	repo.Store
	failListFind   bool
	failListDelete bool
	failTaskSave   bool

	// afterTaskListing runs once FindByTaskListID has read its rows.
	afterTaskListing func()
}

func (s *faultyStore) TaskLists() repo.TaskListRepo {
	return faultyLists{TaskListRepo: s.Store.TaskLists(), s: s}
}

func (s *faultyStore) Tasks() repo.TaskRepo {
	return faultyTasks{TaskRepo: s.Store.Tasks(), s: s}
}

func (s *faultyStore) InTx(ctx context.Context, fn func(tx repo.Store) error) error {
	return s.Store.InTx(ctx, func(tx repo.Store) error {
		inner := *s
		inner.Store = tx
		return fn(&inner)
	})
}

type faultyLists struct {
	repo.TaskListRepo
	s *faultyStore
}

func (r faultyLists) FindByID(ctx context.Context, id uuid.UUID) (dom.TaskList, error) {
	if r.s.failListFind {
		return dom.TaskList{}, errBoom
	}
	return r.TaskListRepo.FindByID(ctx, id)
}

func (r faultyLists) Delete(ctx context.Context, id uuid.UUID) error {
	if r.s.failListDelete {
		return errBoom
	}
	return r.TaskListRepo.Delete(ctx, id)
}

type faultyTasks struct {
	repo.TaskRepo
	s *faultyStore
}

func (r faultyTasks) FindByTaskListID(ctx context.Context, taskListID uuid.UUID) ([]dom.Task, error) {
	out, err := r.TaskRepo.FindByTaskListID(ctx, taskListID)
	if r.s.afterTaskListing != nil {
		r.s.afterTaskListing()
	}
	return out, err
}

func (r faultyTasks) Save(ctx context.Context, t dom.Task) (dom.Task, error) {
	if r.s.failTaskSave {
		return dom.Task{}, errBoom
	}
	return r.TaskRepo.Save(ctx, t)
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	if !dom.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	if !dom.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func assertInfra(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
	if dom.IsValidation(err) || dom.IsNotFound(err) {
		t.Fatalf("infrastructure error reinterpreted as domain error: %v", err)
	}
}
