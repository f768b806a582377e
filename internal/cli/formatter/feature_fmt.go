package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/hierarchy"
)

// FormatFeatureList renders the fully expanded feature tree of a project as
// a table. Titles carry tree connectors so nesting stays visible.
func FormatFeatureList(forest []*hierarchy.Node, now time.Time) string {
	headers := []string{"ID", "FEATURE", "STATUS", "PRIORITY", "DATES", "DUE", "PROGRESS"}
	rows := [][]string{}

	lastAt := []bool{}
	for _, r := range hierarchy.Flatten(forest, hierarchy.ExpandAll(forest)) {
		if r.Depth >= len(lastAt) {
			lastAt = append(lastAt, make([]bool, r.Depth-len(lastAt)+1)...)
		}
		lastAt[r.Depth] = r.IsLast

		f := r.Node.Feature
		title := Dim(TreePrefix(r.Depth, r.IsLast, lastAt)) + f.Title
		rows = append(rows, []string{
			TruncID(f.ID),
			title,
			FeatureStatusPill(f.Status),
			PriorityBadge(f.Priority),
			DateSpan(f.StartDate, f.EndDate),
			DueLabel(f, now),
			RenderProgress(f.ProgressPercentage, 10),
		})
	}
	return RenderTable(headers, rows)
}

// FeatureDetailData holds everything shown by "feature show".
type FeatureDetailData struct {
	Feature      *domain.Feature
	Parent       *domain.Feature
	Children     []*domain.Feature
	Dependencies []*domain.Feature
	Now          time.Time
}

// FormatFeatureDetail renders a feature card.
func FormatFeatureDetail(d FeatureDetailData) string {
	f := d.Feature
	var b strings.Builder

	b.WriteString(StyleBold.Render(f.Title) + "\n")
	if f.Description != "" {
		b.WriteString(Dim(f.Description) + "\n")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value)
	}
	field("ID", f.ID)
	field("STATUS", FeatureStatusPill(f.Status))
	field("PRIORITY", PriorityBadge(f.Priority))
	if d.Parent != nil {
		field("PARENT", d.Parent.Title+" "+TruncID(d.Parent.ID))
	}
	field("DATES", DateSpan(f.StartDate, f.EndDate))
	field("DUE", DueLabel(*f, d.Now))
	field("ESTIMATE", FormatHours(f.EstimatedHours))
	field("ACTUAL", FormatHours(f.ActualHours))
	field("PROGRESS", RenderProgress(f.ProgressPercentage, 20))
	if f.CompletedAt != nil {
		field("COMPLETED", domain.FormatDate(*f.CompletedAt))
	}

	if len(d.Children) > 0 {
		b.WriteString("\n" + Header("Sub-features") + "\n")
		for _, c := range d.Children {
			fmt.Fprintf(&b, "  %s %s  %s\n", TruncID(c.ID), c.Title, FeatureStatusPill(c.Status))
		}
	}

	b.WriteString("\n" + Header("Depends on") + "\n")
	if len(d.Dependencies) == 0 {
		b.WriteString(Dim("  nothing") + "\n")
	}
	for _, dep := range d.Dependencies {
		fmt.Fprintf(&b, "  %s %s  %s\n", TruncID(dep.ID), dep.Title, FeatureStatusPill(dep.Status))
	}

	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatCandidates lists the features a dependency may point at.
func FormatCandidates(candidates []domain.Feature) string {
	if len(candidates) == 0 {
		return Dim("No eligible dependencies.") + "\n"
	}
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		level := "feature"
		if c.IsSubFeature() {
			level = "sub-feature"
		}
		rows = append(rows, []string{TruncID(c.ID), c.Title, Dim(level), FeatureStatusPill(c.Status)})
	}
	return RenderTable([]string{"ID", "TITLE", "LEVEL", "STATUS"}, rows)
}
