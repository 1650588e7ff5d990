package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
	apperrors "github.com/sunlib/helpdesk-backend/internal/core/errors"
	"github.com/sunlib/helpdesk-backend/internal/core/mocks"
	"github.com/sunlib/helpdesk-backend/internal/core/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func assignedTicket(created, closed time.Time, assignee uuid.UUID, closedYet bool) domain.Ticket {
	t := ticketAt(created, domain.TypeTechnicalSupport)
	t.AssigneeID = &assignee
	if closedYet {
		t.Status = domain.StatusClosed
		t.UpdatedAt = closed
	}
	return t
}

func TestComputeMetrics_ResolutionMath(t *testing.T) {
	now := date(2024, time.March, 13)
	created := date(2024, time.March, 10)

	t.Run("single ticket closed after 50 hours averages 50.0", func(t *testing.T) {
		tickets := []domain.Ticket{
			closedTicketAt(created, created.Add(50*time.Hour), domain.TypeTechnicalSupport),
		}

		result, err := services.ComputeMetrics(tickets, nil, domain.MetricsQuery{Range: domain.RangeDay}, now)

		require.NoError(t, err)
		assert.Equal(t, 50.0, result.OverallResolutionHours)
		require.Len(t, result.ByType, 1)
		assert.Equal(t, 50.0, result.ByType[0].AverageResolutionHours)
		assert.Equal(t, 1, result.ByType[0].Count)
	})

	t.Run("rounding happens once at output", func(t *testing.T) {
		// 10h and 11h average to 10.5; 10h, 10h, 11h to 10.333... -> 10.3.
		tickets := []domain.Ticket{
			closedTicketAt(created, created.Add(10*time.Hour), domain.TypeDebtRecovery),
			closedTicketAt(created, created.Add(10*time.Hour), domain.TypeDebtRecovery),
			closedTicketAt(created, created.Add(11*time.Hour), domain.TypeDebtRecovery),
		}

		result, err := services.ComputeMetrics(tickets, nil, domain.MetricsQuery{Range: domain.RangeDay}, now)

		require.NoError(t, err)
		assert.Equal(t, 10.3, result.OverallResolutionHours)
	})

	t.Run("per-type breakdown sorts descending by average", func(t *testing.T) {
		tickets := []domain.Ticket{
			closedTicketAt(created, created.Add(5*time.Hour), domain.TypeDebtRecovery),
			closedTicketAt(created, created.Add(40*time.Hour), domain.TypeTechnicalSupport),
			closedTicketAt(created, created.Add(20*time.Hour), domain.TypePaymentChange),
		}

		result, err := services.ComputeMetrics(tickets, nil, domain.MetricsQuery{Range: domain.RangeDay}, now)

		require.NoError(t, err)
		require.Len(t, result.ByType, 3)
		assert.Equal(t, domain.TypeTechnicalSupport, result.ByType[0].Type)
		assert.Equal(t, domain.TypePaymentChange, result.ByType[1].Type)
		assert.Equal(t, domain.TypeDebtRecovery, result.ByType[2].Type)
	})

	t.Run("no resolved tickets yields zero, not NaN", func(t *testing.T) {
		tickets := []domain.Ticket{ticketAt(created, domain.TypeTechnicalSupport)}

		result, err := services.ComputeMetrics(tickets, nil, domain.MetricsQuery{Range: domain.RangeDay}, now)

		require.NoError(t, err)
		assert.Equal(t, 0.0, result.OverallResolutionHours)
		assert.Empty(t, result.ByType)
	})
}

func TestComputeMetrics_AssigneeBreakdown(t *testing.T) {
	now := date(2024, time.March, 13)
	created := date(2024, time.March, 10)
	agent := domain.User{ID: uuid.New(), Name: "Agent One"}
	idle := domain.User{ID: uuid.New(), Name: "Agent Two"}
	users := []domain.User{idle, agent}

	t.Run("resolution rate rounds from closed over assigned", func(t *testing.T) {
		tickets := []domain.Ticket{
			assignedTicket(created, created.Add(10*time.Hour), agent.ID, true),
			assignedTicket(created, created.Add(20*time.Hour), agent.ID, true),
			assignedTicket(created, created.Add(30*time.Hour), agent.ID, true),
			assignedTicket(created, time.Time{}, agent.ID, false),
		}

		result, err := services.ComputeMetrics(tickets, users, domain.MetricsQuery{Range: domain.RangeDay}, now)

		require.NoError(t, err)
		require.Len(t, result.ByAssignee, 2)
		// Sorted by closed count: the active agent first.
		top := result.ByAssignee[0]
		assert.Equal(t, agent.ID, top.UserID)
		assert.Equal(t, 4, top.AssignedCount)
		assert.Equal(t, 3, top.ClosedCount)
		assert.Equal(t, 75, top.ResolutionRatePercent)
		assert.Equal(t, 20.0, top.AverageResolutionHours)
	})

	t.Run("zero assignments means zero rate, not an error", func(t *testing.T) {
		result, err := services.ComputeMetrics(nil, users, domain.MetricsQuery{Range: domain.RangeDay}, now)

		require.NoError(t, err)
		require.Len(t, result.ByAssignee, 2)
		for _, row := range result.ByAssignee {
			assert.Zero(t, row.AssignedCount)
			assert.Zero(t, row.ResolutionRatePercent)
			assert.Zero(t, row.AverageResolutionHours)
		}
	})

	t.Run("counts are window-scoped", func(t *testing.T) {
		old := assignedTicket(date(2023, time.June, 1), date(2023, time.June, 2), agent.ID, true)
		tickets := []domain.Ticket{
			old,
			assignedTicket(created, created.Add(10*time.Hour), agent.ID, true),
		}

		result, err := services.ComputeMetrics(tickets, users, domain.MetricsQuery{Range: domain.RangeDay}, now)

		require.NoError(t, err)
		top := result.ByAssignee[0]
		assert.Equal(t, 1, top.AssignedCount)
		assert.Equal(t, 1, top.ClosedCount)
	})
}

func TestComputeMetrics_EmptyData(t *testing.T) {
	result, err := services.ComputeMetrics(nil, nil, domain.MetricsQuery{Range: domain.RangeMonth}, date(2024, time.March, 13))

	require.NoError(t, err)
	assert.NotNil(t, result.Buckets)
	assert.Len(t, result.Buckets, 12)
	assert.NotNil(t, result.ByType)
	assert.NotNil(t, result.ByAssignee)
	assert.Equal(t, 0.0, result.OverallResolutionHours)
}

func TestComputeMetrics_InvalidRangeAborts(t *testing.T) {
	_, err := services.ComputeMetrics(nil, nil, domain.MetricsQuery{
		Range: domain.RangeCustom,
		Start: date(2024, time.March, 10),
		End:   date(2024, time.March, 1),
	}, date(2024, time.March, 13))

	assert.ErrorIs(t, err, apperrors.ErrInvalidRange)
}

func TestMetricsService_Compute(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches collections and computes", func(t *testing.T) {
		ticketRepo := mocks.NewMockTicketRepository()
		userDir := mocks.NewMockUserDirectory()
		svc := services.NewMetricsService(ticketRepo, userDir, testLogger())

		ticketRepo.On("List", ctx).Return([]domain.Ticket{}, nil)
		userDir.On("List", ctx).Return([]domain.User{}, nil)

		result, err := svc.Compute(ctx, domain.MetricsQuery{Range: domain.RangeDay})

		require.NoError(t, err)
		assert.Len(t, result.Buckets, 7)
		ticketRepo.AssertExpectations(t)
		userDir.AssertExpectations(t)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		ticketRepo := mocks.NewMockTicketRepository()
		userDir := mocks.NewMockUserDirectory()
		svc := services.NewMetricsService(ticketRepo, userDir, testLogger())

		ticketRepo.On("List", ctx).Return(nil, errors.New("store down"))

		_, err := svc.Compute(ctx, domain.MetricsQuery{Range: domain.RangeDay})

		assert.Error(t, err)
		userDir.AssertNotCalled(t, "List")
	})
}

func TestMetricsService_Export(t *testing.T) {
	ctx := context.Background()
	ticketRepo := mocks.NewMockTicketRepository()
	userDir := mocks.NewMockUserDirectory()
	svc := services.NewMetricsService(ticketRepo, userDir, testLogger())

	created := date(2024, time.March, 10)
	ticketRepo.On("List", ctx).Return([]domain.Ticket{
		closedTicketAt(created, created.Add(50*time.Hour), domain.TypeTechnicalSupport),
	}, nil)
	userDir.On("List", ctx).Return([]domain.User{}, nil)

	raw, err := svc.Export(ctx, domain.MetricsQuery{Range: domain.RangeMonth})
	require.NoError(t, err)

	// The document must round-trip losslessly.
	var decoded domain.MetricsResult
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 50.0, decoded.OverallResolutionHours)
	assert.Equal(t, "all", decoded.TypeFilter)
	assert.Len(t, decoded.Buckets, 12)
}
