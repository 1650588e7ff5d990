package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
	apperrors "github.com/sunlib/helpdesk-backend/internal/core/errors"
	"github.com/sunlib/helpdesk-backend/internal/core/mocks"
	"github.com/sunlib/helpdesk-backend/internal/core/services"
)

// memLedgerStore is an in-memory LedgerStore for exercising the
// stateful refresh/clear flows across calls.
type memLedgerStore struct {
	ledgers map[uuid.UUID]*domain.NotificationLedger
}

func newMemLedgerStore() *memLedgerStore {
	return &memLedgerStore{ledgers: make(map[uuid.UUID]*domain.NotificationLedger)}
}

func (s *memLedgerStore) Get(_ context.Context, userID uuid.UUID) (*domain.NotificationLedger, error) {
	ledger, ok := s.ledgers[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return ledger, nil
}

func (s *memLedgerStore) Put(_ context.Context, userID uuid.UUID, ledger *domain.NotificationLedger) error {
	s.ledgers[userID] = ledger
	return nil
}

type notificationFixture struct {
	svc        *services.NotificationService
	store      *memLedgerStore
	ticketRepo *mocks.MockTicketRepository
	taskRepo   *mocks.MockTaskRepository
}

func newNotificationFixture() *notificationFixture {
	store := newMemLedgerStore()
	ticketRepo := mocks.NewMockTicketRepository()
	taskRepo := mocks.NewMockTaskRepository()
	return &notificationFixture{
		svc:        services.NewNotificationService(store, ticketRepo, taskRepo, nil, testLogger()),
		store:      store,
		ticketRepo: ticketRepo,
		taskRepo:   taskRepo,
	}
}

func TestNotificationService_RefreshIsIdempotent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newNotificationFixture()

	mine := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
	mine.AssigneeID = &userID
	task := taskDue(userID, time.Now(), domain.TaskPending)

	f.ticketRepo.On("List", ctx).Return([]domain.Ticket{mine}, nil)
	f.taskRepo.On("ListByOwner", ctx, userID).Return([]domain.PersonalTask{task}, nil)

	first, err := f.svc.Refresh(ctx, userID)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := f.svc.Refresh(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	ledger := f.store.ledgers[userID]
	assert.Len(t, ledger.SeenTicketIDs, 1)
	assert.Len(t, ledger.SeenTaskIDs, 1)
}

func TestNotificationService_ClearAllAsymmetry(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newNotificationFixture()

	mine := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
	mine.AssigneeID = &userID
	task := taskDue(userID, time.Now(), domain.TaskPending)

	f.ticketRepo.On("List", ctx).Return([]domain.Ticket{mine}, nil)
	f.taskRepo.On("ListByOwner", ctx, userID).Return([]domain.PersonalTask{task}, nil)

	events, err := f.svc.Refresh(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	require.NoError(t, f.svc.ClearAll(ctx, userID))

	// The assignment stays cleared; the still-due task comes back.
	events, err = f.svc.Refresh(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.KindTaskDue, events[0].Kind)
}

func TestNotificationService_StaleTicketCleanup(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newNotificationFixture()

	mine := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
	mine.AssigneeID = &userID
	task := taskDue(userID, time.Now(), domain.TaskPending)

	f.ticketRepo.On("List", ctx).Return([]domain.Ticket{mine}, nil).Once()
	f.taskRepo.On("ListByOwner", ctx, userID).Return([]domain.PersonalTask{task}, nil)

	events, err := f.svc.Refresh(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// The ticket disappears from the repository.
	f.ticketRepo.On("List", ctx).Return([]domain.Ticket{}, nil)

	events, err = f.svc.Refresh(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.KindTaskDue, events[0].Kind)
	assert.Empty(t, f.store.ledgers[userID].SeenTicketIDs)
}

func TestNotificationService_ReadState(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newNotificationFixture()

	first := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
	first.AssigneeID = &userID
	second := ticketAt(date(2024, time.March, 12), domain.TypeDebtRecovery)
	second.AssigneeID = &userID

	f.ticketRepo.On("List", ctx).Return([]domain.Ticket{first, second}, nil)
	f.taskRepo.On("ListByOwner", ctx, userID).Return([]domain.PersonalTask{}, nil)

	events, err := f.svc.Refresh(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	count, err := f.svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, f.svc.MarkRead(ctx, userID, events[0].ID))
	count, _ = f.svc.UnreadCount(ctx, userID)
	assert.Equal(t, 1, count)

	require.NoError(t, f.svc.MarkAllRead(ctx, userID))
	count, _ = f.svc.UnreadCount(ctx, userID)
	assert.Equal(t, 0, count)

	// Read state survives a refresh on unchanged inputs.
	events, err = f.svc.Refresh(ctx, userID)
	require.NoError(t, err)
	for _, ev := range events {
		assert.True(t, ev.IsRead)
	}
}

func TestNotificationService_Clear(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newNotificationFixture()

	mine := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
	mine.AssigneeID = &userID

	f.ticketRepo.On("List", ctx).Return([]domain.Ticket{mine}, nil)
	f.taskRepo.On("ListByOwner", ctx, userID).Return([]domain.PersonalTask{}, nil)

	events, err := f.svc.Refresh(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	t.Run("removes the event", func(t *testing.T) {
		require.NoError(t, f.svc.Clear(ctx, userID, events[0].ID))
		count, _ := f.svc.UnreadCount(ctx, userID)
		assert.Equal(t, 0, count)
	})

	t.Run("unknown event id", func(t *testing.T) {
		err := f.svc.Clear(ctx, userID, "assignment:nope")
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})

	t.Run("mark read on unknown event id", func(t *testing.T) {
		err := f.svc.MarkRead(ctx, userID, "assignment:nope")
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestNotificationService_LedgerFailureModes(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("missing ledger is an empty one", func(t *testing.T) {
		f := newNotificationFixture()
		f.ticketRepo.On("List", ctx).Return([]domain.Ticket{}, nil)
		f.taskRepo.On("ListByOwner", ctx, userID).Return([]domain.PersonalTask{}, nil)

		events, err := f.svc.Refresh(ctx, userID)

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("read failure degrades to an empty ledger", func(t *testing.T) {
		store := mocks.NewMockLedgerStore()
		ticketRepo := mocks.NewMockTicketRepository()
		taskRepo := mocks.NewMockTaskRepository()
		svc := services.NewNotificationService(store, ticketRepo, taskRepo, nil, testLogger())

		mine := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
		mine.AssigneeID = &userID

		ticketRepo.On("List", ctx).Return([]domain.Ticket{mine}, nil)
		taskRepo.On("ListByOwner", ctx, userID).Return([]domain.PersonalTask{}, nil)
		store.On("Get", ctx, userID).Return(nil, errors.New("corrupt ledger"))
		store.On("Put", ctx, userID, mock.Anything).Return(nil)

		events, err := svc.Refresh(ctx, userID)

		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("write failure keeps the in-memory update and reports it", func(t *testing.T) {
		store := mocks.NewMockLedgerStore()
		ticketRepo := mocks.NewMockTicketRepository()
		taskRepo := mocks.NewMockTaskRepository()
		svc := services.NewNotificationService(store, ticketRepo, taskRepo, nil, testLogger())

		mine := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
		mine.AssigneeID = &userID

		ticketRepo.On("List", ctx).Return([]domain.Ticket{mine}, nil)
		taskRepo.On("ListByOwner", ctx, userID).Return([]domain.PersonalTask{}, nil)
		store.On("Get", ctx, userID).Return(nil, apperrors.ErrNotFound)
		store.On("Put", ctx, userID, mock.Anything).Return(errors.New("disk full"))

		events, err := svc.Refresh(ctx, userID)

		assert.ErrorIs(t, err, apperrors.ErrLedgerWrite)
		assert.Len(t, events, 1)
	})
}

func TestNotificationService_BroadcastsNewEvents(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	store := newMemLedgerStore()
	ticketRepo := mocks.NewMockTicketRepository()
	taskRepo := mocks.NewMockTaskRepository()
	broadcaster := mocks.NewMockFeedBroadcaster()
	svc := services.NewNotificationService(store, ticketRepo, taskRepo, broadcaster, testLogger())

	mine := ticketAt(date(2024, time.March, 11), domain.TypeTechnicalSupport)
	mine.AssigneeID = &userID

	ticketRepo.On("List", ctx).Return([]domain.Ticket{mine}, nil)
	taskRepo.On("ListByOwner", ctx, userID).Return([]domain.PersonalTask{}, nil)
	broadcaster.On("Broadcast", mock.MatchedBy(func(ev domain.FeedEvent) bool {
		return ev.Type == domain.EventNotificationsAdded && ev.UserID == userID
	})).Return(nil)

	_, err := svc.Refresh(ctx, userID)
	require.NoError(t, err)

	// Nothing new on the second pass, so nothing broadcast.
	_, err = svc.Refresh(ctx, userID)
	require.NoError(t, err)

	broadcaster.AssertNumberOfCalls(t, "Broadcast", 1)
}
