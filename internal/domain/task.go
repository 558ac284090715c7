package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the closed set of task states. The empty value means "not supplied".
type TaskStatus string

const (
	TaskStatusOpen   TaskStatus = "OPEN"
	TaskStatusClosed TaskStatus = "CLOSED"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusOpen || s == TaskStatusClosed
}

// TaskPriority is the closed set of task priorities. The empty value means "not supplied".
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityLow    TaskPriority = "LOW"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one TaskList.
// It is addressed by the pair (TaskListID, ID).
type Task struct {
	ID          uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	Status      TaskStatus
	Priority    TaskPriority
	TaskListID  uuid.UUID

	// IDSet and TaskListIDSet mark identifiers the caller supplied explicitly,
	// so a supplied zero UUID is not mistaken for an absent one.
	IDSet         bool `json:"-"`
	TaskListIDSet bool `json:"-"`

	Created time.Time
	Updated time.Time
}

// HasID reports whether the task carries an identifier.
func (t Task) HasID() bool { return t.IDSet || t.ID != uuid.Nil }

// HasTaskListID reports whether the task carries an owning-list identifier.
func (t Task) HasTaskListID() bool { return t.TaskListIDSet || t.TaskListID != uuid.Nil }

// MergeTask applies patch on top of existing and returns the result.
// Title, description and due date always come from patch; priority and status
// keep the stored value when patch leaves them empty. Identity, owner and
// creation time never change.
func MergeTask(existing, patch Task, now time.Time) Task {
	out := existing
	out.Title = patch.Title
	out.Description = patch.Description
	out.DueDate = patch.DueDate
	if patch.Priority != "" {
		out.Priority = patch.Priority
	}
	if patch.Status != "" {
		out.Status = patch.Status
	}
	out.Updated = now
	return out
}
