package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the style used for a feature's bar and status pill.
func StatusColor(s domain.FeatureStatus) lipgloss.Style {
	switch s {
	case domain.StatusLive:
		return StyleGreen
	case domain.StatusTesting:
		return StylePurple
	case domain.StatusDevelopment:
		return StyleYellow
	case domain.StatusSpecification:
		return StyleBlue
	default:
		return StyleDim
	}
}

// FeatureStatusPill returns a colored indicator such as "● development".
func FeatureStatusPill(s domain.FeatureStatus) string {
	glyph := "●"
	switch s {
	case domain.StatusLive:
		glyph = "✔"
	case domain.StatusIdea:
		glyph = "○"
	}
	return StatusColor(s).Render(glyph + " " + string(s))
}

// PriorityBadge colors critical and high priorities; the rest are dimmed.
func PriorityBadge(p domain.FeaturePriority) string {
	switch p {
	case domain.PriorityCritical:
		return StyleRed.Render("▲ critical")
	case domain.PriorityHigh:
		return StyleYellow.Render("▲ high")
	case "":
		return Dim("--")
	default:
		return Dim(string(p))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
