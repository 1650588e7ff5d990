package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationKind distinguishes the two sources of feed events.
type NotificationKind string

const (
	KindAssignment NotificationKind = "ASSIGNMENT"
	KindTaskDue    NotificationKind = "TASK_DUE"
)

// AssignmentEventID builds the deterministic event id for a ticket
// assignment. Ids derive from the source entity, never from time, so
// re-synthesizing the same inputs can never mint a second event.
func AssignmentEventID(ticketID uuid.UUID) string {
	return fmt.Sprintf("assignment:%s", ticketID)
}

// TaskDueEventID builds the deterministic event id for a due-today task.
func TaskDueEventID(taskID uuid.UUID) string {
	return fmt.Sprintf("task:%s", taskID)
}

// NotificationEvent is one entry in a user's feed. It is created at
// most once per (user, source entity) pair and afterwards only mutated
// through mark-read or removed through clear.
type NotificationEvent struct {
	ID           string           `json:"id"`
	Kind         NotificationKind `json:"kind"`
	TicketID     *uuid.UUID       `json:"ticketId,omitempty"` // nil for task events
	TicketNumber int64            `json:"ticketNumber,omitempty"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	IsRead       bool             `json:"isRead"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// NotificationLedger is the persisted per-user record of feed events
// and the dedup sets guarding re-notification. A ledger belongs to
// exactly one user and is only ever mutated through the notification
// service.
type NotificationLedger struct {
	Events        []NotificationEvent
	SeenTicketIDs map[uuid.UUID]struct{}
	SeenTaskIDs   map[uuid.UUID]struct{}
}

// NewNotificationLedger returns an empty ledger ready for use.
func NewNotificationLedger() *NotificationLedger {
	return &NotificationLedger{
		SeenTicketIDs: make(map[uuid.UUID]struct{}),
		SeenTaskIDs:   make(map[uuid.UUID]struct{}),
	}
}

// HasSeenTicket reports whether an assignment notification was already
// synthesized for the ticket.
func (l *NotificationLedger) HasSeenTicket(id uuid.UUID) bool {
	_, ok := l.SeenTicketIDs[id]
	return ok
}

// HasSeenTask reports whether a due-today notification was already
// synthesized for the task.
func (l *NotificationLedger) HasSeenTask(id uuid.UUID) bool {
	_, ok := l.SeenTaskIDs[id]
	return ok
}

// MarkTicketSeen records the ticket in the assignment dedup set.
func (l *NotificationLedger) MarkTicketSeen(id uuid.UUID) {
	if l.SeenTicketIDs == nil {
		l.SeenTicketIDs = make(map[uuid.UUID]struct{})
	}
	l.SeenTicketIDs[id] = struct{}{}
}

// MarkTaskSeen records the task in the due-today dedup set.
func (l *NotificationLedger) MarkTaskSeen(id uuid.UUID) {
	if l.SeenTaskIDs == nil {
		l.SeenTaskIDs = make(map[uuid.UUID]struct{})
	}
	l.SeenTaskIDs[id] = struct{}{}
}

// UnreadCount counts events not yet marked read.
func (l *NotificationLedger) UnreadCount() int {
	n := 0
	for i := range l.Events {
		if !l.Events[i].IsRead {
			n++
		}
	}
	return n
}
