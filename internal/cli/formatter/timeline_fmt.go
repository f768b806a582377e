package formatter

import (
	"math"
	"strings"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/timeline"
	"github.com/charmbracelet/lipgloss"
)

const (
	minTrackCells = 20
	maxLabelCells = 32

	glyphBar     = "█"
	glyphPending = "▒"
	glyphDue     = "◆"
	glyphToday   = "│"
	glyphGrid    = "┊"
)

// TimelineLayout fixes the column geometry of a rendered timeline so that
// interactive callers can map terminal cells back to bars.
type TimelineLayout struct {
	LabelCells int
	TrackCells int
	// HeaderLines is the number of lines printed above the first bar row.
	HeaderLines int
}

// TrackStart is the column of the first track cell.
func (l TimelineLayout) TrackStart() int { return l.LabelCells + 1 }

// NewTimelineLayout sizes the label column to the widest visible row and
// gives the rest of width to the track.
func NewTimelineLayout(v timeline.View, width int) TimelineLayout {
	label := 8
	for _, b := range v.Bars {
		label = max(label, lipgloss.Width(barLabel(b, nil)))
	}
	label = min(label, maxLabelCells)
	return TimelineLayout{
		LabelCells:  label,
		TrackCells:  max(width-label-1, minTrackCells),
		HeaderLines: 2,
	}
}

// TrackSpan converts a bar's percentage geometry to a half-open cell range.
// Every bar occupies at least one cell.
func TrackSpan(offset, width float64, cells int) (from, to int) {
	from = int(math.Floor(offset / 100 * float64(cells)))
	to = int(math.Ceil((offset + width) / 100 * float64(cells)))
	from = min(max(from, 0), cells-1)
	to = min(max(to, from+1), cells)
	return from, to
}

// TrackCell returns the cell holding pct.
func TrackCell(pct float64, cells int) int {
	c := int(math.Floor(pct / 100 * float64(cells)))
	return min(max(c, 0), cells-1)
}

// TimelineOptions tweaks RenderTimeline for interactive use.
type TimelineOptions struct {
	// Cursor highlights the row with this feature id.
	Cursor string
	// Preview overrides the geometry of one bar while it is dragged.
	Preview *BarPreview
}

// BarPreview is the in-flight geometry of a dragged bar.
type BarPreview struct {
	FeatureID string
	Offset    float64
	Width     float64
}

// RenderTimeline draws a project timeline as a scale header followed by one
// row per visible bar: a tree label, then the bar on a shared track with the
// elapsed share of the bar solid, a due marker and a today line.
func RenderTimeline(v timeline.View, lay TimelineLayout, opts TimelineOptions) string {
	if len(v.Bars) == 0 {
		return Dim("No features to show.") + "\n"
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", lay.TrackStart()))
	b.WriteString(scaleLine(v.Domain, lay.TrackCells))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", lay.TrackStart()))
	b.WriteString(gridLine(v, lay.TrackCells))
	b.WriteString("\n")

	lastAt := []bool{}
	for _, bar := range v.Bars {
		if bar.Depth >= len(lastAt) {
			lastAt = append(lastAt, make([]bool, bar.Depth-len(lastAt)+1)...)
		}
		lastAt[bar.Depth] = bar.IsLast

		label := barLabel(bar, lastAt)
		label = truncate(label, lay.LabelCells)
		pad := strings.Repeat(" ", max(lay.LabelCells-lipgloss.Width(label), 0))
		if bar.Feature.ID == opts.Cursor {
			label = StyleHeader.Render(label)
		} else {
			label = StyleFg.Render(label)
		}
		b.WriteString(label + pad + " ")
		b.WriteString(trackLine(v, bar, lay.TrackCells, opts.Preview))
		b.WriteString("\n")
	}
	return b.String()
}

// barLabel renders the tree connector and title. ancestorsLast may be nil
// when only the width matters.
func barLabel(bar timeline.Bar, ancestorsLast []bool) string {
	toggle := "  "
	if bar.HasChildren {
		toggle = "▸ "
		if bar.Expanded {
			toggle = "▾ "
		}
	}
	return TreePrefix(bar.Depth, bar.IsLast, ancestorsLast) + toggle + bar.Feature.Title
}

func truncate(s string, cells int) string {
	if lipgloss.Width(s) <= cells {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > cells {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// scaleLine prints the domain start, the end and the middle date where they fit.
func scaleLine(d timeline.Domain, cells int) string {
	line := []rune(strings.Repeat(" ", cells))
	put := func(at int, text string) {
		at = min(max(at, 0), cells-len(text))
		if at < 0 {
			return
		}
		copy(line[at:], []rune(text))
	}
	put(0, domain.FormatDate(d.Start))
	if cells >= 3*len(domain.DateLayout)+4 {
		mid := d.PositionToDate(50)
		put(cells/2-len(domain.DateLayout)/2, domain.FormatDate(mid))
	}
	put(cells-len(domain.DateLayout), domain.FormatDate(d.End))
	return Dim(string(line))
}

// gridLine marks week starts and today.
func gridLine(v timeline.View, cells int) string {
	line := []rune(strings.Repeat(" ", cells))
	for _, w := range v.Domain.Weeks() {
		line[TrackCell(v.Domain.Offset(w), cells)] = []rune(glyphGrid)[0]
	}
	out := Dim(string(line))
	if v.TodayVisible {
		at := TrackCell(v.Today, cells)
		out = Dim(string(line[:at])) + StyleRed.Render(glyphToday) + Dim(string(line[at+1:]))
	}
	return out
}

// trackLine draws one bar. The solid part reflects progress; overdue bars are
// red regardless of status.
func trackLine(v timeline.View, bar timeline.Bar, cells int, preview *BarPreview) string {
	offset, width := bar.Offset, bar.Width
	dragged := preview != nil && preview.FeatureID == bar.Feature.ID
	if dragged {
		offset, width = preview.Offset, preview.Width
	}
	from, to := TrackSpan(offset, width, cells)
	solid := from + int(math.Round(float64(to-from)*float64(bar.Feature.ProgressPercentage)/100))

	due := -1
	if bar.DueOffset != nil {
		due = TrackCell(*bar.DueOffset, cells)
	}
	today := -1
	if v.TodayVisible {
		today = TrackCell(v.Today, cells)
	}

	style := StatusColor(bar.Feature.Status)
	if bar.Overdue {
		style = StyleRed
	}
	if dragged {
		style = StyleHeader
	}

	var b strings.Builder
	for c := 0; c < cells; c++ {
		switch {
		case c == due:
			b.WriteString(StyleRed.Render(glyphDue))
		case c >= from && c < solid:
			b.WriteString(style.Render(glyphBar))
		case c >= from && c < to:
			b.WriteString(style.Render(glyphPending))
		case c == today:
			b.WriteString(StyleRed.Render(glyphToday))
		default:
			b.WriteString(" ")
		}
	}
	return b.String()
}

// FeatureLegend summarises the bar under the cursor in one line.
func FeatureLegend(bar timeline.Bar) string {
	r := bar.Range
	parts := []string{
		Bold(bar.Feature.Title),
		FeatureStatusPill(bar.Feature.Status),
		domain.FormatDate(r.Start) + " → " + domain.FormatDate(r.End),
	}
	if !r.Explicit {
		parts = append(parts, Dim("(estimated)"))
	}
	if bar.Feature.DueDate != nil {
		due := "due " + domain.FormatDate(*bar.Feature.DueDate)
		if bar.Overdue {
			due = StyleRed.Render(due)
		}
		parts = append(parts, due)
	}
	return strings.Join(parts, "  ")
}
