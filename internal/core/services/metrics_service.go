package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sunlib/helpdesk-backend/internal/core/domain"
	"github.com/sunlib/helpdesk-backend/internal/core/ports"
)

// MetricsService implements on-demand ticket metrics over the external
// ticket repository and user directory.
type MetricsService struct {
	ticketRepo ports.TicketRepository
	userDir    ports.UserDirectory
	logger     *slog.Logger
	now        func() time.Time
}

var _ ports.MetricsService = (*MetricsService)(nil)

// NewMetricsService creates a new metrics service.
func NewMetricsService(ticketRepo ports.TicketRepository, userDir ports.UserDirectory, logger *slog.Logger) *MetricsService {
	return &MetricsService{
		ticketRepo: ticketRepo,
		userDir:    userDir,
		logger:     logger.With("service", "metrics"),
		now:        time.Now,
	}
}

// Compute fetches the current collections and runs ComputeMetrics on
// them. Safe to call on every upstream data change.
func (s *MetricsService) Compute(ctx context.Context, query domain.MetricsQuery) (*domain.MetricsResult, error) {
	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.userDir.List(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeMetrics(tickets, users, query, s.now())
}

// Export serializes the metrics result to an indented JSON document,
// mirroring the download the desk UI offers.
func (s *MetricsService) Export(ctx context.Context, query domain.MetricsQuery) ([]byte, error) {
	result, err := s.Compute(ctx, query)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result, "", "  ")
}

// ComputeMetrics is the pure computation behind the service: it turns
// the supplied collections and query into one result object, with no
// side effects and no state between calls. Empty inputs yield a
// well-formed zero-valued result.
func ComputeMetrics(tickets []domain.Ticket, users []domain.User, query domain.MetricsQuery, now time.Time) (*domain.MetricsResult, error) {
	window, err := ResolveWindow(query, now)
	if err != nil {
		return nil, err
	}

	overall, byType := resolutionByType(tickets, query.TypeFilter)

	typeLabel := "all"
	if query.TypeFilter != "" {
		typeLabel = string(query.TypeFilter)
	}

	return &domain.MetricsResult{
		PeriodLabel: fmt.Sprintf("%s - %s",
			window.Start.Format("02/01/2006"),
			// End is exclusive, the label shows the last included day.
			window.End.AddDate(0, 0, -1).Format("02/01/2006")),
		TypeFilter:             typeLabel,
		Granularity:            window.Granularity,
		Buckets:                BuildBucketSeries(window, tickets, query.TypeFilter),
		OverallResolutionHours: overall,
		ByType:                 byType,
		ByAssignee:             assigneeBreakdown(window, tickets, users, query.TypeFilter),
	}, nil
}
