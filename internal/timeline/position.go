package timeline

import (
	"math"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
)

// Percent maps t to a percentage of the domain without clamping. A
// zero-length domain maps everything to 0.
func (d Domain) Percent(t time.Time) float64 {
	total := d.End.Sub(d.Start)
	if total <= 0 {
		return 0
	}
	return float64(t.Sub(d.Start)) / float64(total) * 100
}

// Offset is Percent clamped to [0, 100].
func (d Domain) Offset(t time.Time) float64 {
	return clamp(d.Percent(t), 0, 100)
}

// Width is the percentage span between start and end, never below minPct.
func (d Domain) Width(start, end time.Time, minPct float64) float64 {
	return math.Max(minPct, d.Offset(end)-d.Offset(start))
}

// PositionToDate interpolates pct back into the domain and snaps down to the
// start of that calendar day. pct is not clamped, so positions dragged past
// either edge yield dates outside the domain.
func (d Domain) PositionToDate(pct float64) time.Time {
	total := d.End.Sub(d.Start)
	// Round to the second so a date mapped forward and back lands on itself.
	secs := math.Round(pct / 100 * total.Seconds())
	at := d.Start.Add(time.Duration(secs) * time.Second)
	return domain.Day(at)
}

// DayWidthPct is the width of a single day as a percentage of the domain.
func (d Domain) DayWidthPct() float64 {
	days := domain.DaysBetween(d.Start, d.End)
	if days <= 0 {
		return 100
	}
	return 100 / float64(days)
}

// Today returns the offset of now and whether it lies inside the domain.
func (d Domain) Today(now time.Time) (float64, bool) {
	day := domain.Day(now)
	return d.Offset(day), d.Contains(day)
}

// PixelsToPercent converts a pixel distance on a track of trackPx pixels.
func PixelsToPercent(px, trackPx float64) float64 {
	if trackPx <= 0 {
		return 0
	}
	return px / trackPx * 100
}

// PercentToPixels converts a percentage of a track of trackPx pixels.
func PercentToPixels(pct, trackPx float64) float64 {
	return pct / 100 * trackPx
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
