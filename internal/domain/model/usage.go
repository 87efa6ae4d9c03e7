package model

import "time"

// DayFormat is the calendar-date layout used for quota reset boundaries.
const DayFormat = "2006-01-02"

// Usage is the per-user daily search counter.
// SearchCount is only meaningful for the day recorded in LastReset; a record
// read on a later day must be treated as zero for that day.
type Usage struct {
	UserID      string
	SearchCount int
	LastReset   string
}

// Today returns now's calendar date in UTC, in the reset-boundary layout.
func Today(now time.Time) string {
	return now.UTC().Format(DayFormat)
}

// EffectiveCount returns the count that applies on day: the stored count if
// the record was last reset on that day, otherwise zero. Stale counts from a
// prior day are discarded, never carried over.
func (u Usage) EffectiveCount(day string) int {
	if u.LastReset != day {
		return 0
	}
	return u.SearchCount
}
