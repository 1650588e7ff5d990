package services

import (
	"time"

	"github.com/sunlib/helpdesk-backend/internal/core/domain"
)

// BuildBucketSeries partitions the window into calendar-aligned
// sub-periods and counts matching tickets per sub-period. Sub-period
// boundaries follow the calendar (start of day, of week, of month),
// not equal-width slices of the window; edge sub-periods are clamped
// to the window so a ticket inside the window lands in exactly one
// bucket and a ticket outside it in none.
func BuildBucketSeries(window domain.TimeWindow, tickets []domain.Ticket, filter domain.TicketType) []domain.BucketPoint {
	buckets := make([]domain.BucketPoint, 0)

	for cursor := alignToPeriod(window.Start, window.Granularity); cursor.Before(window.End); {
		next := nextPeriod(cursor, window.Granularity)

		subStart := cursor
		if subStart.Before(window.Start) {
			subStart = window.Start
		}
		subEnd := next
		if subEnd.After(window.End) {
			subEnd = window.End
		}

		point := domain.BucketPoint{
			Label: periodLabel(cursor, window.Granularity),
			Start: subStart,
		}
		for i := range tickets {
			t := &tickets[i]
			if !t.MatchesType(filter) {
				continue
			}
			if inHalfOpen(t.CreatedAt, subStart, subEnd) {
				point.Opened++
			}
			if t.IsResolved() && inHalfOpen(t.UpdatedAt, subStart, subEnd) {
				point.Closed++
			}
		}

		buckets = append(buckets, point)
		cursor = next
	}

	return buckets
}

func inHalfOpen(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func alignToPeriod(t time.Time, g domain.Granularity) time.Time {
	switch g {
	case domain.GranularityWeekly:
		return startOfWeek(t)
	case domain.GranularityMonthly:
		return startOfMonth(t)
	default:
		return startOfDay(t)
	}
}

func nextPeriod(t time.Time, g domain.Granularity) time.Time {
	switch g {
	case domain.GranularityWeekly:
		return t.AddDate(0, 0, 7)
	case domain.GranularityMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func periodLabel(t time.Time, g domain.Granularity) string {
	if g == domain.GranularityMonthly {
		return t.Format("Jan 2006")
	}
	return t.Format("02/01")
}
