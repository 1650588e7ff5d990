package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
)

// MetricsService defines the port for on-demand ticket metrics.
// Compute is stateless and side-effect free; every call recomputes
// from the current ticket collection.
type MetricsService interface {
	Compute(ctx context.Context, query domain.MetricsQuery) (*domain.MetricsResult, error)
	Export(ctx context.Context, query domain.MetricsQuery) ([]byte, error)
}

// NotificationService defines the port for one user's notification
// feed. Refresh is idempotent: calling it repeatedly on unchanged
// inputs never yields duplicate events.
type NotificationService interface {
	Refresh(ctx context.Context, userID uuid.UUID) ([]domain.NotificationEvent, error)
	MarkRead(ctx context.Context, userID uuid.UUID, eventID string) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID, eventID string) error
	ClearAll(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

// FeedBroadcaster pushes feed changes to a user's connected sessions.
type FeedBroadcaster interface {
	Broadcast(event domain.FeedEvent) error
}
