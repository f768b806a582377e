package timeline

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomain_Empty(t *testing.T) {
	d := NewDomain(nil, nil, testNow, DefaultConfig())
	assert.Equal(t, day("2024-02-08"), d.Start)
	assert.Equal(t, day("2024-03-16"), d.End)
	assert.Equal(t, 38, d.Len())
}

func TestNewDomain_BuffersMinAndMax(t *testing.T) {
	ranges := []Range{
		{Start: day("2024-02-01"), End: day("2024-02-10")},
		{Start: day("2024-02-05"), End: day("2024-02-06")},
	}
	d := NewDomain(ranges, []time.Time{day("2024-02-20")}, testNow, DefaultConfig())
	assert.Equal(t, day("2024-01-25"), d.Start)
	assert.Equal(t, day("2024-02-27"), d.End)

	days := d.Days()
	require.Len(t, days, d.Len())
	assert.Equal(t, d.Start, days[0])
	assert.Equal(t, d.End, days[len(days)-1])
}

func TestDomain_Weeks(t *testing.T) {
	d := Domain{Start: day("2024-01-25"), End: day("2024-02-27")}
	weeks := d.Weeks()
	require.Len(t, weeks, 5)
	assert.Equal(t, day("2024-01-28"), weeks[0])
	assert.Equal(t, day("2024-02-25"), weeks[4])
	for _, w := range weeks {
		assert.Equal(t, 0, int(w.Weekday()))
	}
}

func TestOffset_Bounds(t *testing.T) {
	d := Domain{Start: day("2024-01-01"), End: day("2024-01-11")}
	assert.Equal(t, 0.0, d.Offset(d.Start))
	assert.Equal(t, 100.0, d.Offset(d.End))
	assert.InDelta(t, 50.0, d.Offset(day("2024-01-06")), 1e-9)
	assert.Equal(t, 0.0, d.Offset(day("2023-12-01")), "clamped below")
	assert.Equal(t, 100.0, d.Offset(day("2024-03-01")), "clamped above")
}

func TestOffset_DegenerateDomain(t *testing.T) {
	d := Domain{Start: day("2024-01-01"), End: day("2024-01-01")}
	assert.Equal(t, 0.0, d.Offset(day("2024-01-05")))
}

func TestWidth_NeverBelowMinimum(t *testing.T) {
	d := Domain{Start: day("2024-01-01"), End: day("2024-12-31")}
	assert.Equal(t, 1.0, d.Width(day("2024-06-01"), day("2024-06-01"), 1))
	assert.InDelta(t, 50.0, d.Width(d.Start, d.PositionToDate(50), 1), 0.5)
}

func TestPositionToDate_SnapsToDayStart(t *testing.T) {
	d := Domain{Start: day("2024-01-01"), End: day("2024-01-11")}
	assert.Equal(t, day("2024-01-06"), d.PositionToDate(50))
	assert.Equal(t, day("2024-01-06"), d.PositionToDate(55))
	assert.Equal(t, day("2023-12-31"), d.PositionToDate(-10), "positions past the edge are not clamped")
	assert.Equal(t, day("2024-01-12"), d.PositionToDate(110))
}

func TestDomain_Today(t *testing.T) {
	d := Domain{Start: day("2024-02-05"), End: day("2024-02-25")}
	off, ok := d.Today(testNow)
	assert.True(t, ok)
	assert.InDelta(t, 50.0, off, 1e-9)

	_, ok = d.Today(testNow.AddDate(1, 0, 0))
	assert.False(t, ok)
}

func TestPixelConversions(t *testing.T) {
	assert.Equal(t, 25.0, PixelsToPercent(50, 200))
	assert.Equal(t, 0.0, PixelsToPercent(50, 0))
	assert.Equal(t, 50.0, PercentToPixels(25, 200))
}

// TestOffset_Invariants property-tests monotonicity, the [0,100] range and
// the day round trip through PositionToDate.
func TestOffset_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cfg := DefaultConfig()

	for trial := 0; trial < 200; trial++ {
		start := domain.AddDays(day("2023-01-01"), rng.Intn(700))
		length := rng.Intn(400) + 1
		d := Domain{Start: start, End: domain.AddDays(start, length)}

		prev := -1.0
		for _, dd := range d.Days() {
			off := d.Offset(dd)
			require.GreaterOrEqual(t, off, prev, "offset must be non-decreasing")
			require.GreaterOrEqual(t, off, 0.0)
			require.LessOrEqual(t, off, 100.0)
			require.Equal(t, dd, d.PositionToDate(off), "day must survive a round trip")
			prev = off
		}

		a := domain.AddDays(start, rng.Intn(length+1))
		b := domain.AddDays(a, rng.Intn(30))
		require.GreaterOrEqual(t, d.Width(a, b, cfg.MinWidthPct), cfg.MinWidthPct)
	}
}
