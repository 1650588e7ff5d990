package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeRange selects one of the preset analysis periods, or a custom one.
type TimeRange string

const (
	RangeDay    TimeRange = "day"
	RangeWeek   TimeRange = "week"
	RangeMonth  TimeRange = "month"
	RangeCustom TimeRange = "custom"
)

// Granularity is the width of one bucket in the time series.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// MetricsQuery describes one metrics computation request. Start and
// End are only consulted when Range is RangeCustom. An empty
// TypeFilter means all types.
type MetricsQuery struct {
	Range      TimeRange
	Start      time.Time
	End        time.Time
	TypeFilter TicketType
}

// TimeWindow is a resolved, concrete [Start, End) interval together
// with the bucket granularity chosen for it.
type TimeWindow struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
}

// Contains reports whether the instant falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// BucketPoint is one calendar-aligned sub-period of the series with
// its opened and closed ticket counts.
type BucketPoint struct {
	Label  string    `json:"period"`
	Start  time.Time `json:"start"`
	Opened int       `json:"opened"`
	Closed int       `json:"closed"`
}

// TypeResolution is the mean resolution time of one ticket type.
type TypeResolution struct {
	Type                   TicketType `json:"type"`
	AverageResolutionHours float64    `json:"averageResolutionHours"`
	Count                  int        `json:"count"`
}

// AssigneeStats summarizes one directory user's activity inside the
// active window.
type AssigneeStats struct {
	UserID                 uuid.UUID `json:"userId"`
	Name                   string    `json:"name"`
	CreatedCount           int       `json:"createdCount"`
	AssignedCount          int       `json:"assignedCount"`
	ClosedCount            int       `json:"closedCount"`
	AverageResolutionHours float64   `json:"averageResolutionHours"`
	ResolutionRatePercent  int       `json:"resolutionRatePercent"`
}

// MetricsResult is the complete answer to one MetricsQuery. Hour
// figures are rounded to one decimal at assembly time; zero-data
// queries produce zero values, never absent fields.
type MetricsResult struct {
	PeriodLabel            string           `json:"period"`
	TypeFilter             string           `json:"type"`
	Granularity            Granularity      `json:"granularity"`
	Buckets                []BucketPoint    `json:"buckets"`
	OverallResolutionHours float64          `json:"overallResolutionHours"`
	ByType                 []TypeResolution `json:"byType"`
	ByAssignee             []AssigneeStats  `json:"byAssignee"`
}
