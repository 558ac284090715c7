package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	dom "tasks/internal/domain"
)

// DueDate is the JSON form of a task's due date. A bare date is midnight UTC
// of that day; a datetime without an offset is read as UTC. null, "" and a
// missing field all mean no due date.
type DueDate struct{ t *time.Time }

// NewDueDate wraps t; nil means no due date.
func NewDueDate(t *time.Time) DueDate { return DueDate{t: t} }

// Accepted input layouts, tried in order.
var dueDateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("dueDate: %w", err)
	}
	d.t = nil
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	t, err := parseDueDate(s)
	if err != nil {
		return fmt.Errorf("dueDate must be YYYY-MM-DD or an RFC3339 datetime: %w", err)
	}
	d.t = &t
	return nil
}

func parseDueDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dueDateLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func (d DueDate) MarshalJSON() ([]byte, error) {
	if d.t == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.t.Format(time.RFC3339Nano))
}

// Ptr returns the due date, or nil when there is none.
func (d DueDate) Ptr() *time.Time { return d.t }

// Task is the transport record for a task. The owning list is a flat id, not a nested object.
type Task struct {
	ID          *uuid.UUID       `json:"id,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	DueDate     DueDate          `json:"dueDate"`
	Priority    dom.TaskPriority `json:"priority,omitempty" binding:"omitempty,oneof=HIGH MEDIUM LOW"`
	Status      dom.TaskStatus   `json:"status,omitempty" binding:"omitempty,oneof=OPEN CLOSED"`
	TaskListID  *uuid.UUID       `json:"taskListId,omitempty"`
	Created     time.Time        `json:"created"`
	Updated     time.Time        `json:"updated"`
}

type ListTasksResponse struct {
	Items []Task `json:"items"`
}
