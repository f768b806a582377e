package timeline

import (
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/hierarchy"
)

// Bar is one visible row of a timeline: a feature enriched with its resolved
// range, layout geometry and tree position.
type Bar struct {
	Feature domain.Feature
	Range   Range

	Offset float64
	Width  float64

	// DueOffset is set when the feature has a due date.
	DueOffset *float64

	Depth       int
	HasChildren bool
	Expanded    bool
	IsLast      bool
	Overdue     bool
}

// View is a laid-out timeline for one project.
type View struct {
	Domain       Domain
	Bars         []Bar
	Forest       []*hierarchy.Node
	Ranges       map[string]Range
	Today        float64
	TodayVisible bool
	Dependencies []domain.Dependency
}

// Layout builds the forest, resolves every feature, derives the domain and
// positions the rows visible under expanded. The domain covers every feature,
// not only the visible rows, so expanding or collapsing never rescales it.
func Layout(features []domain.Feature, expanded hierarchy.ExpandSet, now time.Time, cfg Config) View {
	forest := hierarchy.Build(features)

	ranges := make(map[string]Range, len(features))
	all := make([]Range, 0, len(features))
	var due []time.Time
	hierarchy.Walk(forest, func(n *hierarchy.Node) bool {
		r := Resolve(n.Feature, now, cfg)
		ranges[n.ID()] = r
		all = append(all, r)
		if n.Feature.DueDate != nil {
			due = append(due, *n.Feature.DueDate)
		}
		return true
	})

	d := NewDomain(all, due, now, cfg)
	today, visible := d.Today(now)

	rows := hierarchy.Flatten(forest, expanded)
	bars := make([]Bar, 0, len(rows))
	for _, row := range rows {
		f := row.Node.Feature
		r := ranges[f.ID]
		bar := Bar{
			Feature:     f,
			Range:       r,
			Offset:      d.Offset(r.Start),
			Width:       d.Width(r.Start, r.End, cfg.MinWidthPct),
			Depth:       row.Depth,
			HasChildren: row.Node.HasChildren(),
			Expanded:    row.Expanded,
			IsLast:      row.IsLast,
			Overdue:     f.IsOverdue(now),
		}
		if f.DueDate != nil {
			off := d.Offset(*f.DueDate)
			bar.DueOffset = &off
		}
		bars = append(bars, bar)
	}

	return View{
		Domain:       d,
		Bars:         bars,
		Forest:       forest,
		Ranges:       ranges,
		Today:        today,
		TodayVisible: visible,
	}
}

// FindBar returns the visible bar for id.
func (v View) FindBar(id string) (Bar, bool) {
	for _, b := range v.Bars {
		if b.Feature.ID == id {
			return b, true
		}
	}
	return Bar{}, false
}
