package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/hierarchy"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	// Collapsed marks a node whose children are hidden.
	Collapsed bool
	Status    domain.FeatureStatus
	Detail    string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// TreeItems flattens a forest for RenderTree. Detail is filled by detail when
// it is non-nil.
func TreeItems(forest []*hierarchy.Node, expanded hierarchy.ExpandSet, detail func(domain.Feature) string) []TreeItem {
	rows := hierarchy.Flatten(forest, expanded)
	items := make([]TreeItem, 0, len(rows))
	for _, r := range rows {
		item := TreeItem{
			Title:     r.Node.Feature.Title,
			Level:     r.Depth,
			IsLast:    r.IsLast,
			Collapsed: r.Node.HasChildren() && !r.Expanded,
			Status:    r.Node.Feature.Status,
		}
		if detail != nil {
			item.Detail = detail(r.Node.Feature)
		}
		items = append(items, item)
	}
	return items
}

// TreePrefix returns the connector drawn before a row at level. ancestorsLast
// holds, for each enclosing level, whether that ancestor was the last child.
func TreePrefix(level int, isLast bool, ancestorsLast []bool) string {
	if level == 0 {
		return ""
	}
	var b strings.Builder
	for i := 1; i < level; i++ {
		if i < len(ancestorsLast) && ancestorsLast[i] {
			b.WriteString(treeBlank)
		} else {
			b.WriteString(treePipe)
		}
	}
	if isLast {
		b.WriteString(treeCorner)
	} else {
		b.WriteString(treeBranch)
	}
	return b.String()
}

// RenderTree renders TreeItems as an indented tree using box-drawing
// connectors. Live items get a green ✔, items in development or testing an
// amber ▶, and detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0
	lastAt := []bool{}

	for idx, item := range items {
		if item.Level >= len(lastAt) {
			lastAt = append(lastAt, make([]bool, item.Level-len(lastAt)+1)...)
		}
		lastAt[item.Level] = item.IsLast
		prefix := TreePrefix(item.Level, item.IsLast, lastAt)

		title := item.Title
		if item.Collapsed {
			title += Dim(" ▸")
		}
		statusPrefix := ""
		switch item.Status {
		case domain.StatusLive:
			statusPrefix = StyleGreen.Render("✔ ")
			title = Dim(title)
		case domain.StatusDevelopment, domain.StatusTesting:
			statusPrefix = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		}

		content := StyleDim.Render(prefix) + statusPrefix + title
		lines[idx].content = content
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}
		maxContentWidth = max(maxContentWidth, lipgloss.Width(content))
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge == "" {
			b.WriteString(li.content + "\n")
			continue
		}
		pad := max(maxContentWidth-lipgloss.Width(li.content), 0)
		b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
	}
	return b.String()
}
