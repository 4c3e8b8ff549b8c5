// internal/engine/clock/clock.go
package clock

import (
	"fmt"
	"math"
	"time"
)

// DefaultTimezone is the reporting timezone used when none is configured.
const DefaultTimezone = "Asia/Bangkok"

// Calendar performs day arithmetic normalized to one fixed IANA timezone,
// so results do not depend on the caller's local zone.
type Calendar struct {
	loc *time.Location
}

// NewCalendar loads the given IANA zone. An empty name falls back to
// DefaultTimezone.
func NewCalendar(timezone string) (*Calendar, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Calendar{loc: loc}, nil
}

// Location returns the calendar's fixed zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DaysBetween returns the signed whole-day difference b-a, with both
// instants normalized to midnight in the calendar's zone before differencing.
func (c *Calendar) DaysBetween(a, b time.Time) int {
	da := c.midnight(a)
	db := c.midnight(b)
	// Rounding absorbs DST transitions, which make some days 23h or 25h long.
	return int(math.Round(db.Sub(da).Hours() / 24))
}

func (c *Calendar) midnight(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
}

// At freezes a single "now" for one evaluation pass. Every row scored
// through the returned Snapshot is judged against the same instant.
func (c *Calendar) At(now time.Time) Snapshot {
	return Snapshot{cal: c, now: now}
}

// Snapshot is a Calendar bound to one frozen instant.
type Snapshot struct {
	cal *Calendar
	now time.Time
}

// Now returns the frozen instant.
func (s Snapshot) Now() time.Time {
	return s.now
}

// DaysBetween defers to the underlying calendar.
func (s Snapshot) DaysBetween(a, b time.Time) int {
	return s.cal.DaysBetween(a, b)
}

// OverdueDays returns how many whole days past due the date is, never
// negative. A nil due date is not overdue.
func (s Snapshot) OverdueDays(due *time.Time) int {
	if due == nil {
		return 0
	}
	days := s.cal.DaysBetween(*due, s.now)
	if days < 0 {
		return 0
	}
	return days
}

// DueInDays answers "is it still in the future, and by how many days".
// It returns nil when the due date is absent or already in the past.
func (s Snapshot) DueInDays(due *time.Time) *int {
	if due == nil {
		return nil
	}
	days := s.cal.DaysBetween(s.now, *due)
	if days < 0 {
		return nil
	}
	return &days
}
