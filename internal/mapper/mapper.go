// Package mapper converts between domain entities and transport records.
// Mappers are pure: no validation, no persistence access.
package mapper

import (
	"github.com/google/uuid"

	dom "tasks/internal/domain"
	"tasks/internal/dto"
)

type TaskMapper interface {
	FromDto(d dto.Task) dom.Task
	ToDto(t dom.Task) dto.Task
}

type TaskListMapper interface {
	FromDto(d dto.TaskList) dom.TaskList
	ToDto(l dom.TaskList) dto.TaskList
}

// NewTaskMapper returns the default TaskMapper.
func NewTaskMapper() TaskMapper { return taskMapper{} }

// NewTaskListMapper returns a TaskListMapper that maps owned tasks with tm.
func NewTaskListMapper(tm TaskMapper) TaskListMapper { return taskListMapper{tasks: tm} }

type taskMapper struct{}

func (taskMapper) FromDto(d dto.Task) dom.Task {
	return dom.Task{
		ID:            idOrNil(d.ID),
		IDSet:         d.ID != nil,
		Title:         d.Title,
		Description:   d.Description,
		DueDate:       d.DueDate.Ptr(),
		Status:        d.Status,
		Priority:      d.Priority,
		TaskListID:    idOrNil(d.TaskListID),
		TaskListIDSet: d.TaskListID != nil,
		Created:       d.Created,
		Updated:       d.Updated,
	}
}

func (taskMapper) ToDto(t dom.Task) dto.Task {
	return dto.Task{
		ID:          idPtr(t.ID, t.HasID()),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     dto.NewDueDate(t.DueDate),
		Priority:    t.Priority,
		Status:      t.Status,
		TaskListID:  idPtr(t.TaskListID, t.HasTaskListID()),
		Created:     t.Created,
		Updated:     t.Updated,
	}
}

type taskListMapper struct {
	tasks TaskMapper
}

func (m taskListMapper) FromDto(d dto.TaskList) dom.TaskList {
	var tasks []dom.Task
	if d.Tasks != nil {
		tasks = make([]dom.Task, len(d.Tasks))
		for i := range d.Tasks {
			tasks[i] = m.tasks.FromDto(d.Tasks[i])
		}
	}
	return dom.TaskList{
		ID:          idOrNil(d.ID),
		IDSet:       d.ID != nil,
		Title:       d.Title,
		Description: d.Description,
		Tasks:       tasks,
		Created:     d.Created,
		Updated:     d.Updated,
	}
}

func (m taskListMapper) ToDto(l dom.TaskList) dto.TaskList {
	var tasks []dto.Task
	if l.Tasks != nil {
		tasks = make([]dto.Task, len(l.Tasks))
		for i := range l.Tasks {
			tasks[i] = m.tasks.ToDto(l.Tasks[i])
		}
	}
	return dto.TaskList{
		ID:          idPtr(l.ID, l.HasID()),
		Title:       l.Title,
		Description: l.Description,
		Count:       len(l.Tasks),
		Progress:    progress(l.Tasks),
		Tasks:       tasks,
		Created:     l.Created,
		Updated:     l.Updated,
	}
}

// progress is the fraction of closed tasks, nil for an empty list.
func progress(tasks []dom.Task) *float64 {
	if len(tasks) == 0 {
		return nil
	}
	closed := 0
	for _, t := range tasks {
		if t.Status == dom.TaskStatusClosed {
			closed++
		}
	}
	p := float64(closed) / float64(len(tasks))
	return &p
}

func idOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func idPtr(id uuid.UUID, present bool) *uuid.UUID {
	if !present {
		return nil
	}
	return &id
}
