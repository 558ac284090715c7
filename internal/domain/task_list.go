package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskList groups tasks. A list must exist before any task references it.
type TaskList struct {
	ID          uuid.UUID
	Title       string
	Description string
	Tasks       []Task

	// IDSet marks an identifier the caller supplied explicitly.
	IDSet bool `json:"-"`

	Created time.Time
	Updated time.Time
}

// HasID reports whether the list carries an identifier.
func (l TaskList) HasID() bool { return l.IDSet || l.ID != uuid.Nil }
