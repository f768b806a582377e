package drag

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// testTarget is a 5-day bar on a 30-day domain drawn 300px wide, so one day
// is 10px and the bar spans x=100..150.
func testTarget() Target {
	return Target{
		FeatureID: "f1",
		Start:     day("2024-01-11"),
		End:       day("2024-01-16"),
		Domain:    timeline.Domain{Start: day("2024-01-01"), End: day("2024-01-31")},
		TrackPx:   300,
	}
}

func TestClassify(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, KindResizeStart, Classify(5, 50, cfg))
	assert.Equal(t, KindResizeEnd, Classify(45, 50, cfg))
	assert.Equal(t, KindMove, Classify(25, 50, cfg))
	assert.Equal(t, KindMove, Classify(2, 30, cfg), "bar too narrow for two edge zones")
}

func TestStart_ClassifiesFromBarGeometry(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, KindResizeStart, Start(testTarget(), Point{X: 105}, cfg).Kind)
	assert.Equal(t, KindResizeEnd, Start(testTarget(), Point{X: 145}, cfg).Kind)

	s := Start(testTarget(), Point{X: 125}, cfg)
	assert.Equal(t, KindMove, s.Kind)
	assert.False(t, s.Moved)
	assert.InDelta(t, 100.0/3, s.Initial.Offset, 1e-9)
	assert.Equal(t, s.Initial, s.Proposed)
}

func TestMove_IsPureAndShiftsBothEdges(t *testing.T) {
	s0 := Start(testTarget(), Point{X: 125}, DefaultConfig())
	s1 := s0.Move(Point{X: 147})

	assert.False(t, s0.Moved, "original session must not change")
	assert.True(t, s1.Moved)
	assert.InDelta(t, s0.Initial.Width, s1.Proposed.Width, 1e-9)

	out := s1.End()
	require.Equal(t, OutcomeCommit, out.Kind)
	assert.Equal(t, "f1", out.FeatureID)
	assert.Equal(t, day("2024-01-13"), out.Change.Start)
	assert.Equal(t, day("2024-01-18"), out.Change.End)
	assert.Equal(t, "2024-01-13", out.Change.StartDate())
}

func TestEnd_SmallMovementIsClick(t *testing.T) {
	s := Start(testTarget(), Point{X: 125, Y: 10}, DefaultConfig()).
		Move(Point{X: 127, Y: 11}).
		Move(Point{X: 124, Y: 8})
	out := s.End()
	assert.Equal(t, OutcomeClick, out.Kind)
	assert.Equal(t, "f1", out.FeatureID)
}

func TestMove_VerticalMovementCountsAsDrag(t *testing.T) {
	s := Start(testTarget(), Point{X: 125, Y: 10}, DefaultConfig()).Move(Point{X: 125, Y: 14})
	assert.True(t, s.Moved)

	out := s.End()
	require.Equal(t, OutcomeDiscard, out.Kind, "past the threshold but no horizontal delta")
	assert.ErrorIs(t, out.Reason, ErrUnchanged)
}

func TestEnd_SubDayMoveIsDiscarded(t *testing.T) {
	// Four pixels is less than a day on a 10px-per-day track.
	out := Start(testTarget(), Point{X: 125}, DefaultConfig()).Move(Point{X: 129}).End()
	require.Equal(t, OutcomeDiscard, out.Kind)
	assert.ErrorIs(t, out.Reason, ErrUnchanged)
	assert.Equal(t, day("2024-01-11"), out.Change.Start)
	assert.Equal(t, day("2024-01-16"), out.Change.End)

	resize := Start(testTarget(), Point{X: 145}, DefaultConfig()).Move(Point{X: 149}).End()
	assert.Equal(t, OutcomeDiscard, resize.Kind)
	assert.ErrorIs(t, resize.Reason, ErrUnchanged)
}

func TestResizeStart_ClampsToOneDay(t *testing.T) {
	s := Start(testTarget(), Point{X: 105}, DefaultConfig()).Move(Point{X: 300})
	out := s.End()
	require.Equal(t, OutcomeCommit, out.Kind)
	assert.Equal(t, day("2024-01-15"), out.Change.Start)
	assert.Equal(t, day("2024-01-16"), out.Change.End, "right edge stays fixed")
}

func TestResizeEnd(t *testing.T) {
	grow := Start(testTarget(), Point{X: 145}, DefaultConfig()).Move(Point{X: 175}).End()
	require.Equal(t, OutcomeCommit, grow.Kind)
	assert.Equal(t, day("2024-01-11"), grow.Change.Start)
	assert.Equal(t, day("2024-01-19"), grow.Change.End)

	shrink := Start(testTarget(), Point{X: 145}, DefaultConfig()).Move(Point{X: 0}).End()
	require.Equal(t, OutcomeCommit, shrink.Kind)
	assert.Equal(t, day("2024-01-12"), shrink.Change.End)
}

func TestEnd_OutOfWindowIsDiscarded(t *testing.T) {
	out := Start(testTarget(), Point{X: 125}, DefaultConfig()).Move(Point{X: -1000}).End()
	assert.Equal(t, OutcomeDiscard, out.Kind)
	assert.ErrorIs(t, out.Reason, ErrOutOfRange)
}

func TestEnd_SlackAllowsEditsNearTheEdge(t *testing.T) {
	// Five days past the domain end is inside the seven-day slack.
	out := Start(testTarget(), Point{X: 125}, DefaultConfig()).Move(Point{X: 125 + 200}).End()
	require.Equal(t, OutcomeCommit, out.Kind)
	assert.Equal(t, day("2024-02-05"), out.Change.End)
}

func TestValidateRange(t *testing.T) {
	d := timeline.Domain{Start: day("2024-01-01"), End: day("2024-01-31")}
	assert.NoError(t, ValidateRange(d, day("2023-12-25"), day("2024-02-07"), 7))
	assert.ErrorIs(t, ValidateRange(d, day("2023-12-24"), day("2024-01-05"), 7), ErrOutOfRange)
	assert.ErrorIs(t, ValidateRange(d, day("2024-01-05"), day("2024-02-08"), 7), ErrOutOfRange)
	assert.ErrorIs(t, ValidateRange(d, day("2024-01-10"), day("2024-01-09"), 7), ErrInvertedRange)
}

// TestGesture_Invariants property-tests that a move preserves duration and
// resizes never produce less than one day.
func TestGesture_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cfg := DefaultConfig()

	for trial := 0; trial < 500; trial++ {
		dom := timeline.Domain{Start: day("2024-01-01"), End: domain.AddDays(day("2024-01-01"), rng.Intn(120)+10)}
		length := domain.DaysBetween(dom.Start, dom.End)
		start := domain.AddDays(dom.Start, rng.Intn(length))
		end := domain.AddDays(start, rng.Intn(20))
		target := Target{FeatureID: "f", Start: start, End: end, Domain: dom, TrackPx: float64(rng.Intn(1500) + 100)}
		dx := float64(rng.Intn(2000) - 1000)

		moved := Start(target, Point{}, cfg)
		moved.Kind = KindMove
		change := moved.Move(Point{X: dx}).Dates()
		require.Equal(t, end.Sub(start), change.End.Sub(change.Start), "move must preserve duration")

		s := Start(target, Point{}, cfg)
		s.Kind = KindResizeStart
		change = s.Move(Point{X: dx}).Dates()
		require.Equal(t, end, change.End)
		require.GreaterOrEqual(t, domain.DaysBetween(change.Start, change.End), 1)

		s.Kind = KindResizeEnd
		change = s.Move(Point{X: dx}).Dates()
		require.Equal(t, start, change.Start)
		require.GreaterOrEqual(t, domain.DaysBetween(change.Start, change.End), 1)
	}
}
