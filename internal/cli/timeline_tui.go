package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/trackline/internal/cli/formatter"
	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/drag"
	"github.com/alexanderramin/trackline/internal/hierarchy"
	"github.com/alexanderramin/trackline/internal/timeline"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// titleLines is the number of lines View prints above the timeline.
const titleLines = 2

// timelineKeyMap lists the timeline view's key bindings.
type timelineKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Expand    key.Binding
	Collapse  key.Binding
	ShiftBack key.Binding
	ShiftFwd  key.Binding
	Reload    key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newTimelineKeyMap() timelineKeyMap {
	return timelineKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		Expand:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		Collapse:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		ShiftBack: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "one day earlier")),
		ShiftFwd:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "one day later")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k timelineKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Help, k.Quit}
}

func (k timelineKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Expand, k.Collapse, k.Reload},
		{k.ShiftBack, k.ShiftFwd, k.Cancel},
		{k.Help, k.Quit},
	}
}

// timelineLoadedMsg carries a freshly built view.
type timelineLoadedMsg struct {
	view *timeline.View
	err  error
}

// dragSettledMsg reports the end of a drag after its write finished or was
// rejected.
type dragSettledMsg struct {
	settlement drag.Settlement
}

// datesShiftedMsg reports a keyboard reschedule.
type datesShiftedMsg struct {
	title  string
	change drag.DateChange
	err    error
}

// timelineModel is the interactive timeline. Mouse gestures on a bar are fed
// to a drag.Controller; the bar follows the pointer locally and only the
// settled outcome reaches the database.
type timelineModel struct {
	ctx     context.Context
	app     *App
	project *domain.Project

	expanded  hierarchy.ExpandSet
	expandAll bool
	view      *timeline.View
	layout    formatter.TimelineLayout
	cursorID  string
	cursor    int

	ctrl    *drag.Controller
	settled chan drag.Settlement
	preview *formatter.BarPreview

	width  int
	status string
	err    error

	keys timelineKeyMap
	help help.Model
}

func newTimelineModel(ctx context.Context, app *App, p *domain.Project, expanded hierarchy.ExpandSet, all bool) *timelineModel {
	m := &timelineModel{
		ctx:       ctx,
		app:       app,
		project:   p,
		expanded:  expanded,
		expandAll: all,
		settled:   make(chan drag.Settlement, 1),
		width:     defaultTimelineWidth,
		keys:      newTimelineKeyMap(),
		help:      help.New(),
	}
	m.ctrl = drag.NewController(app.Features, cellDragConfig(app.Config.Drag()),
		drag.WithLogger(app.logger()),
		drag.WithOnSettled(func(s drag.Settlement) { m.settled <- s }),
	)
	return m
}

// cellDragConfig adapts pixel thresholds to terminal cells: one cell at each
// end of a bar resizes, and any movement counts as a drag.
func cellDragConfig(cfg drag.Config) drag.Config {
	cfg.EdgeZonePx = 1
	cfg.ThresholdPx = 0.5
	return cfg
}

func runTimelineTUI(ctx context.Context, app *App, p *domain.Project, expanded hierarchy.ExpandSet, all bool) error {
	m := newTimelineModel(ctx, app, p, expanded, all)
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := prog.Run()
	m.ctrl.Wait()
	return err
}

func (m *timelineModel) Init() tea.Cmd {
	return m.load()
}

func (m *timelineModel) load() tea.Cmd {
	app, projectID, expanded, all := m.app, m.project.ID, m.expanded, m.expandAll
	ctx := m.ctx
	return func() tea.Msg {
		view, err := buildTimeline(ctx, app, projectID, expanded, all)
		return timelineLoadedMsg{view: view, err: err}
	}
}

func (m *timelineModel) waitSettled() tea.Cmd {
	ch := m.settled
	return func() tea.Msg {
		return dragSettledMsg{settlement: <-ch}
	}
}

func (m *timelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.relayout()
		return m, nil

	case timelineLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.view = msg.view
		if m.expandAll {
			m.expanded = hierarchy.ExpandAll(m.view.Forest)
			m.expandAll = false
		}
		m.relayout()
		m.restoreCursor()
		return m, nil

	case dragSettledMsg:
		m.preview = nil
		s := msg.settlement
		if s.Committed() {
			m.status = fmt.Sprintf("Rescheduled %s: %s → %s",
				m.titleOf(s.Outcome.FeatureID), s.Outcome.Change.StartDate(), s.Outcome.Change.EndDate())
			return m, m.load()
		}
		if errors.Is(s.Err, drag.ErrUnchanged) {
			m.status = "No change to " + m.titleOf(s.Outcome.FeatureID)
			return m, nil
		}
		m.status = "Reverted: " + s.Err.Error()
		return m, nil

	case datesShiftedMsg:
		if msg.err != nil {
			m.status = "Reverted: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Rescheduled %s: %s → %s", msg.title, msg.change.StartDate(), msg.change.EndDate())
		return m, m.load()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *timelineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.ctrl.State() == drag.StateDragging {
			m.ctrl.Cancel()
			m.preview = nil
			m.status = "Drag cancelled"
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.view == nil || len(m.view.Bars) == 0 {
		if key.Matches(msg, m.keys.Reload) {
			return m, m.load()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.setCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		m.setCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.Toggle):
		bar := m.view.Bars[m.cursor]
		if bar.HasChildren {
			m.expanded = m.expanded.Toggle(bar.Feature.ID)
			return m, m.load()
		}
	case key.Matches(msg, m.keys.Expand):
		m.expanded = hierarchy.ExpandAll(m.view.Forest)
		return m, m.load()
	case key.Matches(msg, m.keys.Collapse):
		m.expanded = hierarchy.ExpandSet{}
		return m, m.load()
	case key.Matches(msg, m.keys.ShiftBack):
		return m, m.shift(-1)
	case key.Matches(msg, m.keys.ShiftFwd):
		return m, m.shift(1)
	case key.Matches(msg, m.keys.Reload):
		return m, m.load()
	}
	return m, nil
}

// shift moves the selected bar by days, keeping its length.
func (m *timelineModel) shift(days int) tea.Cmd {
	if m.ctrl.State() != drag.StateIdle {
		return nil
	}
	bar := m.view.Bars[m.cursor]
	change := drag.DateChange{
		Start: domain.AddDays(bar.Range.Start, days),
		End:   domain.AddDays(bar.Range.End, days),
	}
	if err := drag.ValidateRange(m.view.Domain, change.Start, change.End, m.app.Config.DragSlackDays); err != nil {
		m.status = "Reverted: " + err.Error()
		return nil
	}
	ctx, features, id, title := m.ctx, m.app.Features, bar.Feature.ID, bar.Feature.Title
	return func() tea.Msg {
		err := features.UpdateDates(ctx, id, change)
		return datesShiftedMsg{title: title, change: change, err: err}
	}
}

func (m *timelineModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.view == nil {
		return m, nil
	}
	at := drag.Point{X: float64(msg.X-m.layout.TrackStart()) + 0.5, Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		row, ok := m.rowAt(msg.Y)
		if !ok {
			return m, nil
		}
		m.setCursor(row)
		bar := m.view.Bars[row]
		if !m.onBar(bar, msg.X) {
			return m, nil
		}
		target := drag.Target{
			FeatureID: bar.Feature.ID,
			Start:     bar.Range.Start,
			End:       bar.Range.End,
			Domain:    m.view.Domain,
			TrackPx:   float64(m.layout.TrackCells),
		}
		if _, err := m.ctrl.PointerDown(target, at); err != nil {
			m.status = err.Error()
		}
		return m, nil

	case tea.MouseActionMotion:
		s, err := m.ctrl.PointerMove(at)
		if err != nil {
			return m, nil
		}
		if s.Moved {
			m.preview = &formatter.BarPreview{
				FeatureID: s.Target.FeatureID,
				Offset:    s.Proposed.Offset,
				Width:     s.Proposed.Width,
			}
			d := s.Dates()
			m.status = fmt.Sprintf("%s %s → %s", s.Kind, d.StartDate(), d.EndDate())
		}
		return m, nil

	case tea.MouseActionRelease:
		out, err := m.ctrl.PointerUp(m.ctx)
		if err != nil {
			return m, nil
		}
		switch out.Kind {
		case drag.OutcomeClick:
			m.preview = nil
			return m, nil
		case drag.OutcomeCommit:
			m.status = "Saving…"
		}
		return m, m.waitSettled()
	}
	return m, nil
}

// rowAt maps a screen line to a bar index.
func (m *timelineModel) rowAt(y int) (int, bool) {
	row := y - titleLines - m.layout.HeaderLines
	if row < 0 || row >= len(m.view.Bars) {
		return 0, false
	}
	return row, true
}

// onBar reports whether screen column x falls on bar's cells.
func (m *timelineModel) onBar(bar timeline.Bar, x int) bool {
	cell := x - m.layout.TrackStart()
	from, to := formatter.TrackSpan(bar.Offset, bar.Width, m.layout.TrackCells)
	return cell >= from && cell < to
}

func (m *timelineModel) setCursor(i int) {
	if m.view == nil || len(m.view.Bars) == 0 {
		m.cursor, m.cursorID = 0, ""
		return
	}
	m.cursor = min(max(i, 0), len(m.view.Bars)-1)
	m.cursorID = m.view.Bars[m.cursor].Feature.ID
}

// restoreCursor keeps the selection on the same feature across reloads.
func (m *timelineModel) restoreCursor() {
	for i, b := range m.view.Bars {
		if b.Feature.ID == m.cursorID {
			m.setCursor(i)
			return
		}
	}
	m.setCursor(m.cursor)
}

func (m *timelineModel) relayout() {
	if m.view != nil {
		m.layout = formatter.NewTimelineLayout(*m.view, m.width)
	}
}

func (m *timelineModel) titleOf(id string) string {
	if m.view != nil {
		if n := hierarchy.Find(m.view.Forest, id); n != nil {
			return n.Feature.Title
		}
	}
	return id
}

func (m *timelineModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render(m.project.Name) + "  " + formatter.Dim(m.project.DisplayID()))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.view == nil:
		b.WriteString(formatter.Dim("Loading…") + "\n")
	default:
		b.WriteString(formatter.RenderTimeline(*m.view, m.layout, formatter.TimelineOptions{
			Cursor:  m.cursorID,
			Preview: m.preview,
		}))
		if len(m.view.Bars) > 0 {
			b.WriteString("\n" + formatter.FeatureLegend(m.view.Bars[m.cursor]) + "\n")
		}
	}

	if m.status != "" {
		b.WriteString(formatter.Dim(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}
