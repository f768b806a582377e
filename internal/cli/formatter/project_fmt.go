package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/hierarchy"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project, now time.Time) string {
	headers := []string{"ID", "NAME", "STATUS", "WINDOW", "DEADLINE"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		deadline := Dim("--")
		if p.Deadline != nil {
			deadline = RelativeDateFrom(*p.Deadline, domain.Day(now))
		}
		rows = append(rows, []string{
			p.DisplayID(),
			Bold(p.Name),
			ProjectStatusPill(p.Status),
			DateSpan(p.StartDate, p.EndDate),
			deadline,
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectDetail renders project metadata beside its feature tree.
func FormatProjectDetail(p *domain.Project, forest []*hierarchy.Node) string {
	var meta strings.Builder
	meta.WriteString(StyleBold.Render(p.Name) + "\n")
	if p.Description != "" {
		meta.WriteString(Dim(p.Description) + "\n")
	}
	meta.WriteString("\n")
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("STATUS  "), ProjectStatusPill(p.Status))
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("ID      "), p.DisplayID())
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("UUID    "), TruncID(p.ID))
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("WINDOW  "), DateSpan(p.StartDate, p.EndDate))
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("DEADLINE"), domain.CoalesceStr(domain.FormatOptionalDate(p.Deadline), "--"))
	fmt.Fprintf(&meta, "%s  %d\n", StyleDim.Render("FEATURES"), hierarchy.Count(forest))

	tree := Dim("No features yet.")
	if len(forest) > 0 {
		items := TreeItems(forest, hierarchy.ExpandAll(forest), func(f domain.Feature) string {
			return fmt.Sprintf("%d%%", f.ProgressPercentage)
		})
		tree = RenderTree(items)
	}

	combined := lipgloss.JoinHorizontal(lipgloss.Top, meta.String(), "    ", tree)
	return RenderBox("", combined)
}
