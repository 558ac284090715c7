package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	dom "tasks/internal/domain"
)

var (
	// ErrNotFound is returned by single-row lookups and deletes that match no row.
	ErrNotFound = errors.New("repo: not found")
	// ErrForeignKey is returned when a task is written for a list that does not exist.
	ErrForeignKey = errors.New("repo: task list reference violated")
)

// TaskListRepo persists task lists. Lookups return lists with their tasks loaded.
type TaskListRepo interface {
	FindAll(ctx context.Context) ([]dom.TaskList, error)
	FindByID(ctx context.Context, id uuid.UUID) (dom.TaskList, error)
	// Save inserts l or updates title, description and updated time of an existing row.
	Save(ctx context.Context, l dom.TaskList) (dom.TaskList, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskRepo persists tasks. Every lookup is scoped by the owning list.
type TaskRepo interface {
	FindByTaskListID(ctx context.Context, taskListID uuid.UUID) ([]dom.Task, error)
	FindByTaskListIDAndID(ctx context.Context, taskListID, id uuid.UUID) (dom.Task, error)
	// Save inserts t or updates an existing row; the owning list never changes.
	Save(ctx context.Context, t dom.Task) (dom.Task, error)
	Delete(ctx context.Context, taskListID, id uuid.UUID) error
	DeleteByTaskListID(ctx context.Context, taskListID uuid.UUID) error
}

// Store is the persistence gateway used by the services.
type Store interface {
	TaskLists() TaskListRepo
	Tasks() TaskRepo
	// InTx runs fn against a transactional view of the store. fn's error, or a
	// cancelled ctx, rolls back everything fn wrote. Nested calls join the outer transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error
}
