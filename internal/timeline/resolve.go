// Package timeline resolves feature schedules into calendar ranges and maps
// them onto a shared, day-granular domain.
//
// Everything here is pure: callers pass "now" explicitly and no function
// touches storage or the clock.
package timeline

import (
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
)

// Config tunes the resolver, domain and position mapper.
type Config struct {
	// BufferDays pads the domain on each side of the earliest and latest dates.
	BufferDays int
	// DefaultSpanDays is used when a feature has no estimate to size it.
	DefaultSpanDays int
	// HoursPerDay converts estimated hours into whole days.
	HoursPerDay int
	// EmptyPastDays and EmptyFutureDays frame the domain when there is nothing to show.
	EmptyPastDays   int
	EmptyFutureDays int
	// MinWidthPct keeps very short bars visible.
	MinWidthPct float64
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		BufferDays:      7,
		DefaultSpanDays: 7,
		HoursPerDay:     8,
		EmptyPastDays:   7,
		EmptyFutureDays: 30,
		MinWidthPct:     1,
	}
}

// Range is a resolved schedule. Start and End are calendar days.
type Range struct {
	Start time.Time
	End   time.Time

	// Explicit is true when both dates came from storage.
	Explicit bool
	// Unscheduled is true when neither date was stored and the range was
	// anchored at "now".
	Unscheduled bool
}

// Days returns the number of days between start and end.
func (r Range) Days() int {
	return domain.DaysBetween(r.Start, r.End)
}

// Resolve produces a (start, end) pair for f. It never fails: missing data
// falls through to estimate-based or default spans.
func Resolve(f domain.Feature, now time.Time, cfg Config) Range {
	span := spanDays(f.EstimatedHours, cfg)

	var r Range
	switch {
	case f.StartDate != nil && f.EndDate != nil:
		r = Range{Start: domain.Day(*f.StartDate), End: domain.Day(*f.EndDate), Explicit: true}

	case f.StartDate != nil:
		start := domain.Day(*f.StartDate)
		end := domain.AddDays(start, cfg.DefaultSpanDays)
		switch {
		case hasHours(f.EstimatedHours):
			end = domain.AddDays(start, span)
		case f.DueDate != nil:
			end = domain.Day(*f.DueDate)
		}
		r = Range{Start: start, End: end}

	case f.EndDate != nil || f.DueDate != nil:
		end := domain.Day(*domain.CoalesceDate(f.EndDate, f.DueDate))
		r = Range{Start: domain.AddDays(end, -span), End: end}

	default:
		start := domain.Day(now)
		r = Range{Start: start, End: domain.AddDays(start, span), Unscheduled: true}
	}

	// Stored ranges are returned as-is; only derived ends are clamped.
	if !r.Explicit && r.End.Before(r.Start) {
		r.End = r.Start
	}
	return r
}

// spanDays converts an estimate into whole days, rounding up.
func spanDays(hours *int, cfg Config) int {
	if !hasHours(hours) {
		return cfg.DefaultSpanDays
	}
	perDay := cfg.HoursPerDay
	if perDay <= 0 {
		perDay = 8
	}
	return (*hours + perDay - 1) / perDay
}

func hasHours(hours *int) bool {
	return hours != nil && *hours > 0
}
