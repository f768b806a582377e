// Package drag implements the timeline bar gesture state machine.
//
// Session values are immutable: Start, Move and End are pure and return new
// values, so a gesture can be replayed in tests without any UI. Controller
// wraps a single session and owns the asynchronous commit.
package drag

import (
	"math"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/timeline"
)

// Kind is the gesture kind, fixed when the pointer goes down.
type Kind int

const (
	KindMove Kind = iota
	KindResizeStart
	KindResizeEnd
)

func (k Kind) String() string {
	switch k {
	case KindResizeStart:
		return "resize-start"
	case KindResizeEnd:
		return "resize-end"
	default:
		return "move"
	}
}

// Config holds the gesture thresholds. Pixel values are in whatever unit the
// caller measures the track in (screen pixels, terminal cells).
type Config struct {
	EdgeZonePx  float64
	ThresholdPx float64
	// SlackDays widens the accepted range beyond the domain on each side.
	SlackDays int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{EdgeZonePx: 15, ThresholdPx: 3, SlackDays: 7}
}

// Point is a pointer position on the track.
type Point struct {
	X, Y float64
}

// Geometry is a bar position and width as percentages of the domain. Values
// are not clamped while a gesture is in progress.
type Geometry struct {
	Offset float64
	Width  float64
}

// Right returns the right edge of the bar.
func (g Geometry) Right() float64 { return g.Offset + g.Width }

// Target describes the bar under the pointer when a gesture begins.
type Target struct {
	FeatureID string
	Start     time.Time
	End       time.Time
	Domain    timeline.Domain
	// TrackPx is the rendered width of the whole timeline track.
	TrackPx float64
}

// DateChange is the persisted result of a gesture.
type DateChange struct {
	Start time.Time
	End   time.Time
}

// StartDate returns the start as YYYY-MM-DD.
func (c DateChange) StartDate() string { return domain.FormatDate(c.Start) }

// EndDate returns the end as YYYY-MM-DD.
func (c DateChange) EndDate() string { return domain.FormatDate(c.End) }

// Session is one in-progress gesture.
type Session struct {
	Target   Target
	Kind     Kind
	Origin   Point
	Initial  Geometry
	Proposed Geometry
	Moved    bool

	cfg Config
}

// Classify picks the gesture kind from the pointer's x offset inside a bar of
// barPx width. Edge zones only apply when the bar is wide enough to hold two.
func Classify(localX, barPx float64, cfg Config) Kind {
	if barPx > 2*cfg.EdgeZonePx {
		if localX <= cfg.EdgeZonePx {
			return KindResizeStart
		}
		if localX >= barPx-cfg.EdgeZonePx {
			return KindResizeEnd
		}
	}
	return KindMove
}

// Start begins a gesture on t with the pointer at at.
func Start(t Target, at Point, cfg Config) Session {
	g := Geometry{
		Offset: t.Domain.Percent(t.Start),
		Width:  t.Domain.Percent(t.End) - t.Domain.Percent(t.Start),
	}
	barLeft := timeline.PercentToPixels(g.Offset, t.TrackPx)
	barPx := timeline.PercentToPixels(g.Width, t.TrackPx)
	return Session{
		Target:   t,
		Kind:     Classify(at.X-barLeft, barPx, cfg),
		Origin:   at,
		Initial:  g,
		Proposed: g,
		cfg:      cfg,
	}
}

// Move recomputes the proposed geometry for a pointer at at. It does no I/O.
func (s Session) Move(at Point) Session {
	dx := at.X - s.Origin.X
	dy := at.Y - s.Origin.Y
	if math.Abs(dx) > s.cfg.ThresholdPx || math.Abs(dy) > s.cfg.ThresholdPx {
		s.Moved = true
	}

	delta := timeline.PixelsToPercent(dx, s.Target.TrackPx)
	minWidth := s.Target.Domain.DayWidthPct()
	g := s.Initial

	switch s.Kind {
	case KindMove:
		g.Offset += delta
	case KindResizeStart:
		right := g.Right()
		left := math.Min(g.Offset+delta, right-minWidth)
		g = Geometry{Offset: left, Width: right - left}
	case KindResizeEnd:
		g.Width = math.Max(g.Width+delta, minWidth)
	}
	s.Proposed = g
	return s
}

// Dates converts the proposed geometry back to calendar days. A move keeps
// the original duration; a resize keeps the fixed edge and at least one day.
func (s Session) Dates() DateChange {
	d := s.Target.Domain
	start, end := s.Target.Start, s.Target.End
	switch s.Kind {
	case KindMove:
		newStart := d.PositionToDate(s.Proposed.Offset)
		shift := domain.DaysBetween(start, newStart)
		return DateChange{Start: domain.AddDays(start, shift), End: domain.AddDays(end, shift)}
	case KindResizeStart:
		newStart := d.PositionToDate(s.Proposed.Offset)
		if domain.DaysBetween(newStart, end) < 1 {
			newStart = domain.AddDays(end, -1)
		}
		return DateChange{Start: newStart, End: end}
	default:
		newEnd := d.PositionToDate(s.Proposed.Right())
		if domain.DaysBetween(start, newEnd) < 1 {
			newEnd = domain.AddDays(start, 1)
		}
		return DateChange{Start: start, End: newEnd}
	}
}

// End finishes the gesture. A gesture that never crossed the threshold is a
// click. A drag that snaps back to the original days is discarded; otherwise
// the proposed dates are validated and either committed or discarded.
func (s Session) End() Outcome {
	if !s.Moved {
		return Outcome{Kind: OutcomeClick, FeatureID: s.Target.FeatureID}
	}
	change := s.Dates()
	if change.Start.Equal(domain.Day(s.Target.Start)) && change.End.Equal(domain.Day(s.Target.End)) {
		return Outcome{Kind: OutcomeDiscard, FeatureID: s.Target.FeatureID, Change: change, Reason: ErrUnchanged}
	}
	if err := ValidateRange(s.Target.Domain, change.Start, change.End, s.cfg.SlackDays); err != nil {
		return Outcome{Kind: OutcomeDiscard, FeatureID: s.Target.FeatureID, Change: change, Reason: err}
	}
	return Outcome{Kind: OutcomeCommit, FeatureID: s.Target.FeatureID, Change: change}
}
