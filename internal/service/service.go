// Package service holds the task-list and task use cases. Services are
// stateless: every check-then-act sequence runs in one gateway transaction.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	dom "tasks/internal/domain"
)

// TaskLists is the task-list capability consumed by the transport layer.
type TaskLists interface {
	ListTaskLists(ctx context.Context) ([]dom.TaskList, error)
	CreateTaskList(ctx context.Context, title, description string) (dom.TaskList, error)
	GetTaskList(ctx context.Context, id uuid.UUID) (*dom.TaskList, error)
	UpdateTaskList(ctx context.Context, id uuid.UUID, title, description string) (dom.TaskList, error)
	DeleteTaskList(ctx context.Context, id uuid.UUID) error
}

// Tasks is the task capability consumed by the transport layer.
// Every task is addressed by (taskListID, taskID).
type Tasks interface {
	ListTasks(ctx context.Context, taskListID uuid.UUID) ([]dom.Task, error)
	CreateTask(ctx context.Context, taskListID uuid.UUID, draft dom.Task) (dom.Task, error)
	GetTask(ctx context.Context, taskListID, taskID uuid.UUID) (*dom.Task, error)
	UpdateTask(ctx context.Context, taskListID, taskID uuid.UUID, draft dom.Task) (dom.Task, error)
	DeleteTask(ctx context.Context, taskListID, taskID uuid.UUID) error
}

var (
	_ TaskLists = (*TaskListService)(nil)
	_ Tasks     = (*TaskService)(nil)
)

func utcNow() time.Time { return time.Now().UTC() }

func loggerOrStd(l log.FieldLogger) log.FieldLogger {
	if l == nil {
		return log.StandardLogger()
	}
	return l
}
