package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dom "tasks/internal/domain"
)

const (
	keyTaskLists  = "tasks:lists"
	keyTasksOf    = "tasks:list:"
	keyGeneration = "tasks:gen"
)

// TaskCache caches task-list and per-list task listings in Redis.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetTaskLists returns the cached listing, or nil on a miss.
func (c *TaskCache) GetTaskLists(ctx context.Context) ([]dom.TaskList, error) {
	var list []dom.TaskList
	ok, err := c.get(ctx, keyTaskLists, &list)
	if err != nil || !ok {
		return nil, err
	}
	if list == nil {
		list = []dom.TaskList{}
	}
	return list, nil
}

// SetTaskLists stores the listing unless the cache was invalidated after gen was read.
func (c *TaskCache) SetTaskLists(ctx context.Context, gen int64, list []dom.TaskList) error {
	return c.set(ctx, gen, keyTaskLists, list)
}

// GetTasks returns the cached tasks of a list, or nil on a miss.
func (c *TaskCache) GetTasks(ctx context.Context, taskListID uuid.UUID) ([]dom.Task, error) {
	var list []dom.Task
	ok, err := c.get(ctx, tasksKey(taskListID), &list)
	if err != nil || !ok {
		return nil, err
	}
	if list == nil {
		list = []dom.Task{}
	}
	return list, nil
}

// SetTasks stores the tasks of a list unless the cache was invalidated after gen was read.
func (c *TaskCache) SetTasks(ctx context.Context, gen int64, taskListID uuid.UUID, list []dom.Task) error {
	return c.set(ctx, gen, tasksKey(taskListID), list)
}

// Generation returns the invalidation counter. Read it before loading from
// storage and hand it to the matching Set call.
func (c *TaskCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, keyGeneration).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// Invalidate drops the list listing and the task listing of taskListID and
// bumps the generation so in-flight loads do not write stale listings back.
func (c *TaskCache) Invalidate(ctx context.Context, taskListID uuid.UUID) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keyTaskLists, tasksKey(taskListID))
		pipe.Incr(ctx, keyGeneration)
		return nil
	})
	return err
}

func (c *TaskCache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false, err
	}
	return true, nil
}

func (c *TaskCache) set(ctx context.Context, gen int64, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, keyGeneration).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, c.ttl)
			return nil
		})
		return err
	}, keyGeneration)
	if errors.Is(err, redis.TxFailedErr) {
		// invalidated while writing
		return nil
	}
	return err
}

func tasksKey(taskListID uuid.UUID) string {
	return keyTasksOf + taskListID.String() + ":tasks"
}
