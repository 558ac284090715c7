package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"tasks/internal/cache"
	dom "tasks/internal/domain"
	"tasks/internal/repo"
)

type TaskService struct {
	store repo.Store
	cache *cache.TaskCache
	log   log.FieldLogger
	sf    singleflight.Group

	now   func() time.Time
	newID func() uuid.UUID
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(store repo.Store, c *cache.TaskCache, logger log.FieldLogger) *TaskService {
	return &TaskService{
		store: store,
		cache: c,
		log:   loggerOrStd(logger),
		now:   utcNow,
		newID: uuid.New,
	}
}

// ListTasks returns the tasks of a list. An unknown list yields an empty slice.
func (s *TaskService) ListTasks(ctx context.Context, taskListID uuid.UUID) ([]dom.Task, error) {
	var (
		list []dom.Task
		err  error
	)
	if s.cache != nil {
		var v interface{}
		v, err, _ = s.sf.Do("tasks:"+taskListID.String(), func() (interface{}, error) {
			// shared by every waiter, so one caller going away must not fail the rest
			ctx := context.WithoutCancel(ctx)
			if cached, err := s.cache.GetTasks(ctx, taskListID); err == nil && cached != nil {
				return cached, nil
			}
			gen, genErr := s.cache.Generation(ctx)
			fresh, err := s.store.Tasks().FindByTaskListID(ctx, taskListID)
			if err != nil {
				return nil, err
			}
			if genErr != nil {
				s.log.WithError(genErr).Warn("cache generation")
				return fresh, nil
			}
			if err := s.cache.SetTasks(ctx, gen, taskListID, fresh); err != nil {
				s.log.WithError(err).Warn("cache tasks")
			}
			return fresh, nil
		})
		if err == nil {
			list = v.([]dom.Task)
		}
	} else {
		list, err = s.store.Tasks().FindByTaskListID(ctx, taskListID)
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if list == nil {
		list = []dom.Task{}
	}
	return list, nil
}

// CreateTask adds a task to an existing list. The server assigns the id,
// priority defaults to MEDIUM and status always starts OPEN.
func (s *TaskService) CreateTask(ctx context.Context, taskListID uuid.UUID, draft dom.Task) (dom.Task, error) {
	if draft.HasID() {
		return dom.Task{}, dom.NewValidationError("task already has an id")
	}
	if dom.IsBlank(draft.Title) {
		return dom.Task{}, dom.NewValidationError("task must have a title")
	}
	if draft.Priority != "" && !draft.Priority.Valid() {
		return dom.Task{}, dom.NewValidationError(fmt.Sprintf("invalid task priority %q", draft.Priority))
	}

	var out dom.Task
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		if _, err := tx.TaskLists().FindByID(ctx, taskListID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return dom.NewValidationError("invalid task list id")
			}
			return err
		}
		priority := draft.Priority
		if priority == "" {
			priority = dom.TaskPriorityMedium
		}
		now := s.now()
		var err error
		out, err = tx.Tasks().Save(ctx, dom.Task{
			ID:          s.newID(),
			Title:       draft.Title,
			Description: draft.Description,
			DueDate:     draft.DueDate,
			Status:      dom.TaskStatusOpen,
			Priority:    priority,
			TaskListID:  taskListID,
			Created:     now,
			Updated:     now,
		})
		return err
	})
	if err != nil {
		return dom.Task{}, wrapInfra("create task", err)
	}
	invalidate(ctx, s.cache, s.log, taskListID)
	s.log.WithFields(log.Fields{"task_list_id": taskListID, "task_id": out.ID}).Info("task created")
	return out, nil
}

// GetTask returns nil when no task matches the (taskListID, taskID) pair.
func (s *TaskService) GetTask(ctx context.Context, taskListID, taskID uuid.UUID) (*dom.Task, error) {
	t, err := s.store.Tasks().FindByTaskListIDAndID(ctx, taskListID, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// UpdateTask merges draft into the stored task. Priority and status are kept
// when the draft leaves them empty; description and due date are replaced.
func (s *TaskService) UpdateTask(ctx context.Context, taskListID, taskID uuid.UUID, draft dom.Task) (dom.Task, error) {
	var out dom.Task
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		existing, err := tx.Tasks().FindByTaskListIDAndID(ctx, taskListID, taskID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return dom.NewNotFoundError("task", taskID.String())
			}
			return err
		}
		if dom.IsBlank(draft.Title) {
			return dom.NewValidationError("task must have a title")
		}
		if draft.HasID() && draft.ID != taskID {
			return dom.NewValidationError("task id in body does not match path")
		}
		if draft.Priority != "" && !draft.Priority.Valid() {
			return dom.NewValidationError(fmt.Sprintf("invalid task priority %q", draft.Priority))
		}
		if draft.Status != "" && !draft.Status.Valid() {
			return dom.NewValidationError(fmt.Sprintf("invalid task status %q", draft.Status))
		}
		out, err = tx.Tasks().Save(ctx, dom.MergeTask(existing, draft, s.now()))
		return err
	})
	if err != nil {
		return dom.Task{}, wrapInfra("update task", err)
	}
	invalidate(ctx, s.cache, s.log, taskListID)
	s.log.WithFields(log.Fields{"task_list_id": taskListID, "task_id": taskID, "status": out.Status}).Debug("task updated")
	return out, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskListID, taskID uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		if _, err := tx.Tasks().FindByTaskListIDAndID(ctx, taskListID, taskID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return dom.NewNotFoundError("task", taskID.String())
			}
			return err
		}
		return tx.Tasks().Delete(ctx, taskListID, taskID)
	})
	if err != nil {
		return wrapInfra("delete task", err)
	}
	invalidate(ctx, s.cache, s.log, taskListID)
	s.log.WithFields(log.Fields{"task_list_id": taskListID, "task_id": taskID}).Info("task deleted")
	return nil
}
