package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
)

// SynthesizeNotifications derives the genuinely new notification
// events for a user from the current ticket and task collections:
// tickets newly assigned to the user, and the user's own tasks due
// today. The ledger's dedup sets decide what counts as new; event ids
// derive from the source entity, so re-running synthesis on unchanged
// inputs returns nothing the second time around. Holds no state and
// performs no I/O; merging and persisting are the caller's job.
func SynthesizeNotifications(userID uuid.UUID, tickets []domain.Ticket, tasks []domain.PersonalTask, ledger *domain.NotificationLedger, now time.Time) []domain.NotificationEvent {
	events := make([]domain.NotificationEvent, 0)

	for i := range tickets {
		t := &tickets[i]
		if !t.IsAssignedTo(userID) || ledger.HasSeenTicket(t.ID) {
			continue
		}
		ticketID := t.ID
		events = append(events, domain.NotificationEvent{
			ID:           domain.AssignmentEventID(t.ID),
			Kind:         domain.KindAssignment,
			TicketID:     &ticketID,
			TicketNumber: t.Number,
			Title:        t.Title,
			Message:      fmt.Sprintf("New ticket assigned: %s", t.Title),
			CreatedAt:    now,
		})
	}

	for i := range tasks {
		task := &tasks[i]
		if task.CreatedBy != userID || !task.IsActionableOn(now) || ledger.HasSeenTask(task.ID) {
			continue
		}
		events = append(events, domain.NotificationEvent{
			ID:        domain.TaskDueEventID(task.ID),
			Kind:      domain.KindTaskDue,
			Title:     task.Title,
			Message:   fmt.Sprintf("Task due today: %s", task.Title),
			CreatedAt: now,
		})
	}

	return events
}
