package dto

import (
	"time"

	"github.com/google/uuid"
)

// TaskList is the transport record for a task list.
// Count and Progress are derived from Tasks and ignored on input.
type TaskList struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Count       int        `json:"count"`
	Progress    *float64   `json:"progress"`
	Tasks       []Task     `json:"tasks,omitempty" binding:"omitempty,dive"`
	Created     time.Time  `json:"created"`
	Updated     time.Time  `json:"updated"`
}

type ListTaskListsResponse struct {
	Items []TaskList `json:"items"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
