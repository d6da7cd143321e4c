// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Recurrence identifies how often a scheduled search runs.
type Recurrence string

const (
	RecurHourly Recurrence = "hourly"
	RecurDaily  Recurrence = "daily"
	RecurWeekly Recurrence = "weekly"
)

// Interval returns the trigger interval for the recurrence. Unknown values
// fall back to daily.
func (r Recurrence) Interval() time.Duration {
	switch r {
	case RecurHourly:
		return time.Hour
	case RecurWeekly:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// DateRange enumerates the recency filters a scheduled search may carry.
// The zero value means no recency filter.
type DateRange string

const (
	RangeNone    DateRange = ""
	Range7Days   DateRange = "7days"
	Range30Days  DateRange = "30days"
	Range60Days  DateRange = "60days"
	Range90Days  DateRange = "90days"
	Range180Days DateRange = "180days"
	Range1Year   DateRange = "1year"
)

// SearchParams are the stored query parameters of a scheduled search.
type SearchParams struct {
	// Query is the raw free-text query before MeSH-term expansion.
	Query string `json:"query" yaml:"query"`

	// Count is the number of results to request per run.
	Count int `json:"count" yaml:"count"`

	// DateRange restricts results to a recency window.
	DateRange DateRange `json:"date_range,omitempty" yaml:"date_range,omitempty"`
}

// ScheduledSearch is a named, recurring query definition. Saving one
// re-registers its recurring trigger; deleting it cancels the trigger.
type ScheduledSearch struct {
	ID          int64        `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Params      SearchParams `json:"params" yaml:"params"`
	Schedule    Recurrence   `json:"schedule" yaml:"schedule"`

	// LastRun is nil until the search has executed at least once.
	LastRun *time.Time `json:"last_run,omitempty" yaml:"last_run,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
