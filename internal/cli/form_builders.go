package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/trackline/internal/cli/formatter"
	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// tracklineHuhTheme returns a huh theme matching the formatter palette.
func tracklineHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorGreen).SetString("[x] ")
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorDim).SetString("[ ] ")
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// featureFormValues holds the raw strings collected by the feature form.
type featureFormValues struct {
	Title       string
	Description string
	Parent      string
	Status      string
	Priority    string
	Start       string
	End         string
	Due         string
	Hours       string
}

// toFeature validates v and builds an unsaved feature for projectID.
func (v featureFormValues) toFeature(projectID string) (*domain.Feature, error) {
	f := &domain.Feature{
		ProjectID:   projectID,
		Title:       strings.TrimSpace(v.Title),
		Description: strings.TrimSpace(v.Description),
		Status:      domain.FeatureStatus(domain.CoalesceStr(v.Status, string(domain.StatusIdea))),
		Priority:    domain.FeaturePriority(domain.CoalesceStr(v.Priority, string(domain.PriorityMedium))),
	}
	if f.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !domain.ValidFeatureStatuses[string(f.Status)] {
		return nil, fmt.Errorf("unknown status %q", f.Status)
	}
	if !domain.ValidFeaturePriorities[string(f.Priority)] {
		return nil, fmt.Errorf("unknown priority %q", f.Priority)
	}
	if v.Parent != "" {
		parent := v.Parent
		f.ParentID = &parent
	}

	var err error
	if f.StartDate, err = domain.ParseOptionalDate(v.Start); err != nil {
		return nil, err
	}
	if f.EndDate, err = domain.ParseOptionalDate(v.End); err != nil {
		return nil, err
	}
	if f.DueDate, err = domain.ParseOptionalDate(v.Due); err != nil {
		return nil, err
	}
	if v.Hours != "" {
		h, err := strconv.Atoi(v.Hours)
		if err != nil || h <= 0 {
			return nil, fmt.Errorf("estimated hours must be a positive number")
		}
		f.EstimatedHours = &h
	}
	return f, nil
}

// featureForm builds the interactive "feature add -i" form. parents lists the
// features a new feature may be nested under.
func featureForm(v *featureFormValues, parents []*domain.Feature) *huh.Form {
	parentOpts := []huh.Option[string]{huh.NewOption("(none, top level)", "")}
	for _, p := range parents {
		parentOpts = append(parentOpts, huh.NewOption(p.Title, p.ID))
	}

	statusOpts := make([]huh.Option[string], 0, len(domain.ValidFeatureStatuses))
	for _, s := range []domain.FeatureStatus{domain.StatusIdea, domain.StatusSpecification,
		domain.StatusDevelopment, domain.StatusTesting, domain.StatusLive} {
		statusOpts = append(statusOpts, huh.NewOption(string(s), string(s)))
	}
	priorityOpts := []huh.Option[string]{}
	for _, p := range []domain.FeaturePriority{domain.PriorityLow, domain.PriorityMedium,
		domain.PriorityHigh, domain.PriorityCritical} {
		priorityOpts = append(priorityOpts, huh.NewOption(string(p), string(p)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&v.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&v.Description),
			huh.NewSelect[string]().
				Title("Parent feature").
				Options(parentOpts...).
				Value(&v.Parent),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOpts...).
				Value(&v.Status),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOpts...).
				Value(&v.Priority),
		),
		huh.NewGroup(
			dateInput("Start date", &v.Start),
			dateInput("End date", &v.End),
			dateInput("Due date", &v.Due),
			huh.NewInput().
				Title("Estimated hours").
				Description("Used to size the bar when dates are missing").
				Value(&v.Hours).
				Validate(validatePositiveInt),
		),
	).WithTheme(tracklineHuhTheme())
}

// dependencyForm builds the "dep edit" multi-select over the eligible
// candidates. selected holds the ids currently depended on.
func dependencyForm(title string, candidates []domain.Feature, selected *[]string) *huh.Form {
	opts := make([]huh.Option[string], 0, len(candidates))
	current := make(map[string]bool, len(*selected))
	for _, id := range *selected {
		current[id] = true
	}
	for _, c := range candidates {
		label := c.Title
		if c.IsSubFeature() {
			label = "  " + label
		}
		opts = append(opts, huh.NewOption(label, c.ID).Selected(current[c.ID]))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Description("space to toggle, enter to save").
				Options(opts...).
				Value(selected),
		),
	).WithTheme(tracklineHuhTheme())
}

func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("YYYY-MM-DD").
		Value(value).
		Validate(validateOptionalDate)
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := domain.ParseDate(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// diffSelection returns the ids added to and removed from before.
func diffSelection(before, after []string) (added, removed []string) {
	was := make(map[string]bool, len(before))
	for _, id := range before {
		was[id] = true
	}
	now := make(map[string]bool, len(after))
	for _, id := range after {
		now[id] = true
		if !was[id] {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if !now[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}
