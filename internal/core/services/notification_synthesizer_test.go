package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
	"github.com/sunlib/helpdesk-backend/internal/core/services"
)

func taskDue(owner uuid.UUID, due time.Time, status domain.TaskStatus) domain.PersonalTask {
	return domain.PersonalTask{
		ID:        uuid.New(),
		Title:     "call the installer",
		DueDate:   due,
		Status:    status,
		Priority:  domain.PriorityMedium,
		CreatedBy: owner,
	}
}

func TestSynthesizeNotifications_Assignments(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()
	now := date(2024, time.March, 13)

	mine := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
	mine.Number = 42
	mine.AssigneeID = &userID
	theirs := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
	theirs.AssigneeID = &otherID
	unassigned := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)

	tickets := []domain.Ticket{mine, theirs, unassigned}

	events := services.SynthesizeNotifications(userID, tickets, nil, domain.NewNotificationLedger(), now)

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, domain.AssignmentEventID(mine.ID), ev.ID)
	assert.Equal(t, domain.KindAssignment, ev.Kind)
	require.NotNil(t, ev.TicketID)
	assert.Equal(t, mine.ID, *ev.TicketID)
	assert.Equal(t, int64(42), ev.TicketNumber)
	assert.False(t, ev.IsRead)
	assert.Equal(t, now, ev.CreatedAt)
}

func TestSynthesizeNotifications_SeenTicketsAreSkipped(t *testing.T) {
	userID := uuid.New()
	now := date(2024, time.March, 13)

	mine := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
	mine.AssigneeID = &userID

	ledger := domain.NewNotificationLedger()
	ledger.MarkTicketSeen(mine.ID)

	events := services.SynthesizeNotifications(userID, []domain.Ticket{mine}, nil, ledger, now)

	assert.Empty(t, events)
}

func TestSynthesizeNotifications_TasksDueToday(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2024, time.March, 13, 14, 0, 0, 0, time.UTC)

	t.Run("only actionable tasks owned by the user surface", func(t *testing.T) {
		tasks := []domain.PersonalTask{
			taskDue(userID, date(2024, time.March, 13), domain.TaskPending),
			taskDue(userID, date(2024, time.March, 13), domain.TaskInProgress),
			taskDue(userID, date(2024, time.March, 13), domain.TaskCompleted),
			taskDue(userID, date(2024, time.March, 13), domain.TaskCancelled),
			taskDue(userID, date(2024, time.March, 14), domain.TaskPending),
			taskDue(uuid.New(), date(2024, time.March, 13), domain.TaskPending),
		}

		events := services.SynthesizeNotifications(userID, nil, tasks, domain.NewNotificationLedger(), now)

		require.Len(t, events, 2)
		for _, ev := range events {
			assert.Equal(t, domain.KindTaskDue, ev.Kind)
			assert.Nil(t, ev.TicketID)
		}
	})

	t.Run("seen tasks are skipped", func(t *testing.T) {
		task := taskDue(userID, date(2024, time.March, 13), domain.TaskPending)
		ledger := domain.NewNotificationLedger()
		ledger.MarkTaskSeen(task.ID)

		events := services.SynthesizeNotifications(userID, nil, []domain.PersonalTask{task}, ledger, now)

		assert.Empty(t, events)
	})
}

func TestSynthesizeNotifications_DeterministicIDs(t *testing.T) {
	userID := uuid.New()
	now := date(2024, time.March, 13)

	mine := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
	mine.AssigneeID = &userID
	task := taskDue(userID, now, domain.TaskPending)

	first := services.SynthesizeNotifications(userID, []domain.Ticket{mine}, []domain.PersonalTask{task}, domain.NewNotificationLedger(), now)
	second := services.SynthesizeNotifications(userID, []domain.Ticket{mine}, []domain.PersonalTask{task}, domain.NewNotificationLedger(), now.Add(time.Hour))

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	// Ids derive from the source entity, not from when synthesis ran.
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)
}
