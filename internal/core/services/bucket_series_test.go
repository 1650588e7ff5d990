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

func ticketAt(created time.Time, typ domain.TicketType) domain.Ticket {
	return domain.Ticket{
		ID:        uuid.New(),
		Title:     "ticket",
		Type:      typ,
		Status:    domain.StatusOpen,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func closedTicketAt(created, closed time.Time, typ domain.TicketType) domain.Ticket {
	t := ticketAt(created, typ)
	t.Status = domain.StatusClosed
	t.UpdatedAt = closed
	return t
}

func TestBuildBucketSeries_Daily(t *testing.T) {
	win := domain.TimeWindow{
		Start:       date(2024, time.March, 1),
		End:         date(2024, time.March, 8),
		Granularity: domain.GranularityDaily,
	}

	tickets := []domain.Ticket{
		ticketAt(date(2024, time.March, 1).Add(9*time.Hour), domain.TypeTechnicalSupport),
		ticketAt(date(2024, time.March, 1).Add(17*time.Hour), domain.TypeDebtRecovery),
		ticketAt(date(2024, time.March, 3), domain.TypeTechnicalSupport),
		closedTicketAt(date(2024, time.February, 20), date(2024, time.March, 5).Add(12*time.Hour), domain.TypeTechnicalSupport),
		// Outside the window entirely.
		ticketAt(date(2024, time.February, 28), domain.TypeTechnicalSupport),
	}

	buckets := services.BuildBucketSeries(win, tickets, "")

	require.Len(t, buckets, 7)
	assert.Equal(t, "01/03", buckets[0].Label)
	assert.Equal(t, 2, buckets[0].Opened)
	assert.Equal(t, 1, buckets[2].Opened)
	assert.Equal(t, 1, buckets[4].Closed)
	assert.Equal(t, 0, buckets[4].Opened)
}

func TestBuildBucketSeries_TypeFilter(t *testing.T) {
	win := domain.TimeWindow{
		Start:       date(2024, time.March, 1),
		End:         date(2024, time.March, 2),
		Granularity: domain.GranularityDaily,
	}

	tickets := []domain.Ticket{
		ticketAt(date(2024, time.March, 1), domain.TypeTechnicalSupport),
		ticketAt(date(2024, time.March, 1), domain.TypeDebtRecovery),
	}

	buckets := services.BuildBucketSeries(win, tickets, domain.TypeDebtRecovery)

	require.Len(t, buckets, 1)
	assert.Equal(t, 1, buckets[0].Opened)
}

func TestBuildBucketSeries_WeeklyAlignsToCalendarWeeks(t *testing.T) {
	// Window starts on a Thursday; the first bucket must still be the
	// calendar week containing it, clamped to the window.
	win := domain.TimeWindow{
		Start:       date(2024, time.March, 7), // Thursday
		End:         date(2024, time.March, 28),
		Granularity: domain.GranularityWeekly,
	}

	tickets := []domain.Ticket{
		// Monday of the first calendar week, before the window: must
		// not be counted anywhere.
		ticketAt(date(2024, time.March, 4), domain.TypeTechnicalSupport),
		// Inside the clamped first bucket.
		ticketAt(date(2024, time.March, 8), domain.TypeTechnicalSupport),
		// Second calendar week.
		ticketAt(date(2024, time.March, 12), domain.TypeTechnicalSupport),
	}

	buckets := services.BuildBucketSeries(win, tickets, "")

	require.Len(t, buckets, 4)
	assert.Equal(t, "04/03", buckets[0].Label)
	assert.Equal(t, 1, buckets[0].Opened)
	assert.Equal(t, 1, buckets[1].Opened)
}

func TestBuildBucketSeries_Coverage(t *testing.T) {
	// Sum of opened counts across buckets equals the number of
	// in-window tickets: nothing dropped, nothing double-counted.
	win := domain.TimeWindow{
		Start:       date(2024, time.January, 10),
		End:         date(2024, time.April, 2),
		Granularity: domain.GranularityMonthly,
	}

	var tickets []domain.Ticket
	inWindow := 0
	for day := date(2024, time.January, 1); day.Before(date(2024, time.April, 10)); day = day.AddDate(0, 0, 3) {
		tickets = append(tickets, ticketAt(day, domain.TypeTechnicalSupport))
		if win.Contains(day) {
			inWindow++
		}
	}

	buckets := services.BuildBucketSeries(win, tickets, "")

	require.Len(t, buckets, 4) // Jan (clamped), Feb, Mar, Apr (clamped)
	total := 0
	for _, b := range buckets {
		total += b.Opened
	}
	assert.Equal(t, inWindow, total)
}

func TestBuildBucketSeries_MonthlyLabels(t *testing.T) {
	win := domain.TimeWindow{
		Start:       date(2023, time.November, 1),
		End:         date(2024, time.February, 1),
		Granularity: domain.GranularityMonthly,
	}

	buckets := services.BuildBucketSeries(win, nil, "")

	require.Len(t, buckets, 3)
	assert.Equal(t, "Nov 2023", buckets[0].Label)
	assert.Equal(t, "Dec 2023", buckets[1].Label)
	assert.Equal(t, "Jan 2024", buckets[2].Label)
}

func TestBuildBucketSeries_EmptyCollection(t *testing.T) {
	win := domain.TimeWindow{
		Start:       date(2024, time.March, 1),
		End:         date(2024, time.March, 4),
		Granularity: domain.GranularityDaily,
	}

	buckets := services.BuildBucketSeries(win, nil, "")

	require.Len(t, buckets, 3)
	for _, b := range buckets {
		assert.Zero(t, b.Opened)
		assert.Zero(t, b.Closed)
	}
}
