package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the possible states of a personal task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// PersonalTask is a reminder a user creates for themselves, optionally
// linked to a ticket. Tasks are owned by the external task repository.
type PersonalTask struct {
	ID        uuid.UUID
	Title     string
	DueDate   time.Time // calendar date, time-of-day is ignored
	Status    TaskStatus
	Priority  TicketPriority
	CreatedBy uuid.UUID
	TicketID  *uuid.UUID
}

// IsActionableOn reports whether the task should surface a reminder on
// the given day: due that day and neither completed nor cancelled.
func (t *PersonalTask) IsActionableOn(day time.Time) bool {
	if t.Status == TaskCompleted || t.Status == TaskCancelled {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
