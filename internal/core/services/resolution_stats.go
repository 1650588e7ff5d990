package services

import (
	"math"
	"sort"

	"github.com/sunlib/helpdesk-backend/internal/core/domain"
)

// resolutionByType computes the mean resolution duration in hours over
// all resolved tickets matching the filter, plus the per-type
// breakdown sorted descending by mean (ties keep grouping order).
// Accumulation runs in full precision; rounding happens once, here, at
// output assembly. No resolved tickets yields zeros, never NaN.
func resolutionByType(tickets []domain.Ticket, filter domain.TicketType) (float64, []domain.TypeResolution) {
	type group struct {
		hours float64
		count int
	}

	var (
		totalHours float64
		totalCount int
		groups     = make(map[domain.TicketType]*group)
		order      []domain.TicketType
	)

	for i := range tickets {
		t := &tickets[i]
		if !t.IsResolved() || !t.MatchesType(filter) {
			continue
		}
		hours := t.ResolutionHours()
		totalHours += hours
		totalCount++

		g, ok := groups[t.Type]
		if !ok {
			g = &group{}
			groups[t.Type] = g
			order = append(order, t.Type)
		}
		g.hours += hours
		g.count++
	}

	byType := make([]domain.TypeResolution, 0, len(order))
	for _, typ := range order {
		g := groups[typ]
		byType = append(byType, domain.TypeResolution{
			Type:                   typ,
			AverageResolutionHours: round1(g.hours / float64(g.count)),
			Count:                  g.count,
		})
	}
	sort.SliceStable(byType, func(i, j int) bool {
		return byType[i].AverageResolutionHours > byType[j].AverageResolutionHours
	})

	overall := 0.0
	if totalCount > 0 {
		overall = round1(totalHours / float64(totalCount))
	}
	return overall, byType
}

// assigneeBreakdown computes per-user activity figures. Every roster
// user gets a row, even with zero activity. Created and assigned
// counts are scoped to the window by ticket creation time; the closed
// subset and its mean resolution hours follow from the assigned set.
// Sorted descending by closed count (ties keep roster order).
func assigneeBreakdown(window domain.TimeWindow, tickets []domain.Ticket, users []domain.User, filter domain.TicketType) []domain.AssigneeStats {
	stats := make([]domain.AssigneeStats, 0, len(users))

	for _, u := range users {
		row := domain.AssigneeStats{UserID: u.ID, Name: u.Name}
		var closedHours float64

		for i := range tickets {
			t := &tickets[i]
			if !t.MatchesType(filter) || !window.Contains(t.CreatedAt) {
				continue
			}
			if t.CreatedBy == u.ID {
				row.CreatedCount++
			}
			if t.IsAssignedTo(u.ID) {
				row.AssignedCount++
				if t.IsResolved() {
					row.ClosedCount++
					closedHours += t.ResolutionHours()
				}
			}
		}

		if row.ClosedCount > 0 {
			row.AverageResolutionHours = round1(closedHours / float64(row.ClosedCount))
		}
		if row.AssignedCount > 0 {
			row.ResolutionRatePercent = int(math.Round(100 * float64(row.ClosedCount) / float64(row.AssignedCount)))
		}
		stats = append(stats, row)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].ClosedCount > stats[j].ClosedCount
	})
	return stats
}

// round1 rounds to one decimal place for presentation.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
