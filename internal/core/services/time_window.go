package services

import (
	"time"

	"github.com/sunlib/helpdesk-backend/internal/core/domain"
	apperrors "github.com/sunlib/helpdesk-backend/internal/core/errors"
)

// Custom ranges pick their bucket width from the span they cover.
const (
	maxDailySpanDays  = 31
	maxWeeklySpanDays = 120
)

// ResolveWindow turns a time-range selection into a concrete
// [start, end) instant interval and a bucket granularity. The presets
// are fixed: day is the last 7 calendar days ending today, week the
// last 4 calendar weeks ending the current week, month the last 12
// calendar months ending the current month. Custom ranges span whole
// calendar days and choose their granularity adaptively.
func ResolveWindow(query domain.MetricsQuery, now time.Time) (domain.TimeWindow, error) {
	switch query.Range {
	case domain.RangeDay:
		end := startOfDay(now).AddDate(0, 0, 1)
		return domain.TimeWindow{
			Start:       end.AddDate(0, 0, -7),
			End:         end,
			Granularity: domain.GranularityDaily,
		}, nil

	case domain.RangeWeek:
		week := startOfWeek(now)
		return domain.TimeWindow{
			Start:       week.AddDate(0, 0, -21),
			End:         week.AddDate(0, 0, 7),
			Granularity: domain.GranularityWeekly,
		}, nil

	case domain.RangeMonth:
		month := startOfMonth(now)
		return domain.TimeWindow{
			Start:       month.AddDate(0, -11, 0),
			End:         month.AddDate(0, 1, 0),
			Granularity: domain.GranularityMonthly,
		}, nil

	case domain.RangeCustom:
		start := startOfDay(query.Start)
		endDay := startOfDay(query.End)
		if endDay.Before(start) {
			return domain.TimeWindow{}, apperrors.ErrInvalidRange
		}
		end := endDay.AddDate(0, 0, 1)

		spanDays := int(end.Sub(start).Hours() / 24)
		granularity := domain.GranularityMonthly
		switch {
		case spanDays <= maxDailySpanDays:
			granularity = domain.GranularityDaily
		case spanDays <= maxWeeklySpanDays:
			granularity = domain.GranularityWeekly
		}

		return domain.TimeWindow{Start: start, End: end, Granularity: granularity}, nil

	default:
		return domain.TimeWindow{}, apperrors.ErrInvalidTimeRange
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek truncates to the most recent Monday, the first day of
// the week in the locale the desk operates in.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
