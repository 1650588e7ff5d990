package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
	apperrors "github.com/sunlib/helpdesk-backend/internal/core/errors"
	"github.com/sunlib/helpdesk-backend/internal/core/ports"
)

// NotificationService owns the per-user notification ledgers: it
// merges synthesized events into them, serves read/unread/clear
// operations, and persists every change through the ledger store.
type NotificationService struct {
	ledgerStore ports.LedgerStore
	ticketRepo  ports.TicketRepository
	taskRepo    ports.TaskRepository
	broadcaster ports.FeedBroadcaster
	logger      *slog.Logger
	now         func() time.Time
}

var _ ports.NotificationService = (*NotificationService)(nil)

// NewNotificationService creates a new notification service. The
// broadcaster may be nil when no real-time surface is wired.
func NewNotificationService(
	ledgerStore ports.LedgerStore,
	ticketRepo ports.TicketRepository,
	taskRepo ports.TaskRepository,
	broadcaster ports.FeedBroadcaster,
	logger *slog.Logger,
) *NotificationService {
	return &NotificationService{
		ledgerStore: ledgerStore,
		ticketRepo:  ticketRepo,
		taskRepo:    taskRepo,
		broadcaster: broadcaster,
		logger:      logger.With("service", "notifications"),
		now:         time.Now,
	}
}

// Refresh reconciles the user's ledger with the current ticket and
// task collections: appends genuinely new events, records their
// sources in the dedup sets, drops events whose ticket no longer
// exists, and persists. Idempotent; safe to call on every tick of the
// host application. A missing ledger is an empty one, never an error.
func (s *NotificationService) Refresh(ctx context.Context, userID uuid.UUID) ([]domain.NotificationEvent, error) {
	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	ledger := s.loadLedger(ctx, userID)

	newEvents := SynthesizeNotifications(userID, tickets, tasks, ledger, s.now())
	for _, ev := range newEvents {
		switch ev.Kind {
		case domain.KindAssignment:
			ledger.MarkTicketSeen(*ev.TicketID)
		case domain.KindTaskDue:
			if taskID, err := uuid.Parse(strings.TrimPrefix(ev.ID, "task:")); err == nil {
				ledger.MarkTaskSeen(taskID)
			}
		}
	}
	ledger.Events = append(ledger.Events, newEvents...)

	s.dropStaleTicketRefs(ledger, tickets)

	if err := s.persist(ctx, userID, ledger); err != nil {
		// The in-memory update stands; the caller learns durability
		// was not achieved.
		return ledger.Events, err
	}

	if len(newEvents) > 0 && s.broadcaster != nil {
		_ = s.broadcaster.Broadcast(domain.FeedEvent{
			Type:    domain.EventNotificationsAdded,
			UserID:  userID,
			Payload: newEvents,
			Unread:  ledger.UnreadCount(),
		})
	}

	return ledger.Events, nil
}

// MarkRead flags one event as read and persists the ledger.
func (s *NotificationService) MarkRead(ctx context.Context, userID uuid.UUID, eventID string) error {
	ledger := s.loadLedger(ctx, userID)

	found := false
	for i := range ledger.Events {
		if ledger.Events[i].ID == eventID {
			ledger.Events[i].IsRead = true
			found = true
			break
		}
	}
	if !found {
		return apperrors.ErrEventNotFound
	}

	return s.persist(ctx, userID, ledger)
}

// MarkAllRead flags every event as read and persists the ledger.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	ledger := s.loadLedger(ctx, userID)
	for i := range ledger.Events {
		ledger.Events[i].IsRead = true
	}
	return s.persist(ctx, userID, ledger)
}

// Clear removes one event from the feed and persists the ledger.
func (s *NotificationService) Clear(ctx context.Context, userID uuid.UUID, eventID string) error {
	ledger := s.loadLedger(ctx, userID)

	kept := ledger.Events[:0]
	found := false
	for _, ev := range ledger.Events {
		if ev.ID == eventID {
			found = true
			continue
		}
		kept = append(kept, ev)
	}
	if !found {
		return apperrors.ErrEventNotFound
	}
	ledger.Events = kept

	return s.persist(ctx, userID, ledger)
}

// ClearAll empties the feed. The task dedup set resets with it so a
// task still due today can re-surface on the next refresh; the ticket
// dedup set survives because an assignment, once surfaced, must never
// come back merely because the feed was cleared.
func (s *NotificationService) ClearAll(ctx context.Context, userID uuid.UUID) error {
	ledger := s.loadLedger(ctx, userID)
	ledger.Events = nil
	ledger.SeenTaskIDs = make(map[uuid.UUID]struct{})

	if err := s.persist(ctx, userID, ledger); err != nil {
		return err
	}

	if s.broadcaster != nil {
		_ = s.broadcaster.Broadcast(domain.FeedEvent{
			Type:   domain.EventFeedCleared,
			UserID: userID,
		})
	}
	return nil
}

// UnreadCount returns the number of unread events in the user's feed.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.loadLedger(ctx, userID).UnreadCount(), nil
}

// loadLedger fetches the user's ledger, degrading to an empty one when
// none exists or the store cannot be read. The notification feature
// must keep working without prior state.
func (s *NotificationService) loadLedger(ctx context.Context, userID uuid.UUID) *domain.NotificationLedger {
	ledger, err := s.ledgerStore.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("ledger read failed, starting from empty",
				"user_id", userID,
				"error", err,
			)
		}
		return domain.NewNotificationLedger()
	}
	if ledger == nil {
		return domain.NewNotificationLedger()
	}
	return ledger
}

func (s *NotificationService) persist(ctx context.Context, userID uuid.UUID, ledger *domain.NotificationLedger) error {
	if err := s.ledgerStore.Put(ctx, userID, ledger); err != nil {
		s.logger.Error("ledger write failed",
			"user_id", userID,
			"error", err,
		)
		return apperrors.LedgerWriteError(err)
	}
	return nil
}

// dropStaleTicketRefs removes assignment events whose source ticket is
// gone, and prunes the matching dedup entries. Task events carry no
// ticket reference and are never dropped here.
func (s *NotificationService) dropStaleTicketRefs(ledger *domain.NotificationLedger, tickets []domain.Ticket) {
	existing := make(map[uuid.UUID]struct{}, len(tickets))
	for i := range tickets {
		existing[tickets[i].ID] = struct{}{}
	}

	kept := ledger.Events[:0]
	for _, ev := range ledger.Events {
		if ev.TicketID != nil {
			if _, ok := existing[*ev.TicketID]; !ok {
				continue
			}
		}
		kept = append(kept, ev)
	}
	ledger.Events = kept

	for id := range ledger.SeenTicketIDs {
		if _, ok := existing[id]; !ok {
			delete(ledger.SeenTicketIDs, id)
		}
	}
}
