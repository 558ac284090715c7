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

type TaskListService struct {
	store repo.Store
	cache *cache.TaskCache
	log   log.FieldLogger
	sf    singleflight.Group

	now   func() time.Time
	newID func() uuid.UUID
}

// NewTaskListService creates a TaskListService. If c is nil, caching is disabled.
func NewTaskListService(store repo.Store, c *cache.TaskCache, logger log.FieldLogger) *TaskListService {
	return &TaskListService{
		store: store,
		cache: c,
		log:   loggerOrStd(logger),
		now:   utcNow,
		newID: uuid.New,
	}
}

func (s *TaskListService) ListTaskLists(ctx context.Context) ([]dom.TaskList, error) {
	var (
		list []dom.TaskList
		err  error
	)
	if s.cache != nil {
		var v interface{}
		v, err, _ = s.sf.Do("lists", func() (interface{}, error) {
			ctx := context.WithoutCancel(ctx)
			if cached, err := s.cache.GetTaskLists(ctx); err == nil && cached != nil {
				return cached, nil
			}
			gen, genErr := s.cache.Generation(ctx)
			fresh, err := s.store.TaskLists().FindAll(ctx)
			if err != nil {
				return nil, err
			}
			if genErr != nil {
				s.log.WithError(genErr).Warn("cache generation")
				return fresh, nil
			}
			if err := s.cache.SetTaskLists(ctx, gen, fresh); err != nil {
				s.log.WithError(err).Warn("cache task lists")
			}
			return fresh, nil
		})
		if err == nil {
			list = v.([]dom.TaskList)
		}
	} else {
		list, err = s.store.TaskLists().FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list task lists: %w", err)
	}
	if list == nil {
		list = []dom.TaskList{}
	}
	return list, nil
}

func (s *TaskListService) CreateTaskList(ctx context.Context, title, description string) (dom.TaskList, error) {
	if dom.IsBlank(title) {
		return dom.TaskList{}, dom.NewValidationError("task list must have a title")
	}
	now := s.now()
	l, err := s.store.TaskLists().Save(ctx, dom.TaskList{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		Created:     now,
		Updated:     now,
	})
	if err != nil {
		return dom.TaskList{}, fmt.Errorf("create task list: %w", err)
	}
	s.invalidate(ctx, l.ID)
	s.log.WithField("task_list_id", l.ID).Info("task list created")
	return l, nil
}

// GetTaskList returns nil when the list does not exist.
func (s *TaskListService) GetTaskList(ctx context.Context, id uuid.UUID) (*dom.TaskList, error) {
	l, err := s.store.TaskLists().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task list: %w", err)
	}
	return &l, nil
}

func (s *TaskListService) UpdateTaskList(ctx context.Context, id uuid.UUID, title, description string) (dom.TaskList, error) {
	var out dom.TaskList
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		existing, err := tx.TaskLists().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return dom.NewNotFoundError("task list", id.String())
			}
			return err
		}
		if dom.IsBlank(title) {
			return dom.NewValidationError("task list must have a title")
		}
		existing.Title = title
		existing.Description = description
		existing.Updated = s.now()
		out, err = tx.TaskLists().Save(ctx, existing)
		return err
	})
	if err != nil {
		return dom.TaskList{}, wrapInfra("update task list", err)
	}
	s.invalidate(ctx, id)
	s.log.WithField("task_list_id", id).Info("task list updated")
	return out, nil
}

// DeleteTaskList removes the list and all of its tasks in one transaction.
func (s *TaskListService) DeleteTaskList(ctx context.Context, id uuid.UUID) error {
	var removed int
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		existing, err := tx.TaskLists().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return dom.NewNotFoundError("task list", id.String())
			}
			return err
		}
		removed = len(existing.Tasks)
		if err := tx.Tasks().DeleteByTaskListID(ctx, id); err != nil {
			return err
		}
		return tx.TaskLists().Delete(ctx, id)
	})
	if err != nil {
		return wrapInfra("delete task list", err)
	}
	s.invalidate(ctx, id)
	s.log.WithFields(log.Fields{"task_list_id": id, "tasks_removed": removed}).Info("task list deleted")
	return nil
}

func (s *TaskListService) invalidate(ctx context.Context, taskListID uuid.UUID) {
	invalidate(ctx, s.cache, s.log, taskListID)
}

func invalidate(ctx context.Context, c *cache.TaskCache, logger log.FieldLogger, taskListID uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx, taskListID); err != nil {
		logger.WithError(err).WithField("task_list_id", taskListID).Warn("cache invalidation failed")
	}
}

// wrapInfra passes domain errors through untouched and annotates everything else.
func wrapInfra(op string, err error) error {
	if dom.IsValidation(err) || dom.IsNotFound(err) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
