package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
)

// TicketRepository is the read-only view of the external ticket store.
// The engine never mutates tickets.
type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
}

// TaskRepository is the read-only view of the external personal-task
// store, scoped to one owner.
type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.PersonalTask, error)
}

// UserDirectory supplies the user roster so per-assignee rows exist
// even for assignees with zero current activity.
type UserDirectory interface {
	List(ctx context.Context) ([]domain.User, error)
}

// LedgerStore persists one NotificationLedger per user. Get returns
// apperrors.ErrNotFound when no ledger exists for the user yet; the
// notification service treats that, and any other read failure, as an
// empty ledger. Put replaces the stored ledger (last write wins).
type LedgerStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationLedger, error)
	Put(ctx context.Context, userID uuid.UUID, ledger *domain.NotificationLedger) error
}
