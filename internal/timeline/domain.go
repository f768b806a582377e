package timeline

import (
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
)

// Domain is the buffered, inclusive range of calendar days shared by every
// bar in a view.
type Domain struct {
	Start time.Time
	End   time.Time
}

// NewDomain spans every resolved range and due date, padded by
// cfg.BufferDays on each side. With nothing to span it frames "now".
func NewDomain(ranges []Range, due []time.Time, now time.Time, cfg Config) Domain {
	var lo, hi time.Time
	seen := false
	include := func(t time.Time) {
		t = domain.Day(t)
		if !seen {
			lo, hi, seen = t, t, true
			return
		}
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}
	for _, r := range ranges {
		include(r.Start)
		include(r.End)
	}
	for _, d := range due {
		include(d)
	}

	if !seen {
		today := domain.Day(now)
		return Domain{
			Start: domain.AddDays(today, -cfg.EmptyPastDays),
			End:   domain.AddDays(today, cfg.EmptyFutureDays),
		}
	}
	return Domain{
		Start: domain.AddDays(lo, -cfg.BufferDays),
		End:   domain.AddDays(hi, cfg.BufferDays),
	}
}

// Len returns the number of calendar days in the domain, inclusive.
func (d Domain) Len() int {
	return domain.DaysBetween(d.Start, d.End) + 1
}

// Days enumerates each calendar day from Start to End inclusive.
func (d Domain) Days() []time.Time {
	n := d.Len()
	if n <= 0 {
		return nil
	}
	days := make([]time.Time, n)
	for i := range days {
		days[i] = domain.AddDays(d.Start, i)
	}
	return days
}

// Weeks returns the Sunday-anchored week starts that fall inside the domain,
// used for axis ticks.
func (d Domain) Weeks() []time.Time {
	var weeks []time.Time
	first := domain.AddDays(d.Start, (7-int(d.Start.Weekday()))%7)
	for w := first; !w.After(d.End); w = domain.AddDays(w, 7) {
		weeks = append(weeks, w)
	}
	return weeks
}

// Contains reports whether t's calendar day falls inside the domain.
func (d Domain) Contains(t time.Time) bool {
	day := domain.Day(t)
	return !day.Before(d.Start) && !day.After(d.End)
}
