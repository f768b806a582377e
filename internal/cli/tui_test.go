package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/trackline/internal/cli/formatter"
	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/drag"
	"github.com/alexanderramin/trackline/internal/teatest"
	"github.com/alexanderramin/trackline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tuiFixture struct {
	app      *App
	model    *timelineModel
	driver   *teatest.Driver
	checkout *domain.Feature
	payment  *domain.Feature
	search   *domain.Feature
}

// newTUIFixture seeds Checkout (with sub-feature Payment) and Search, and
// opens the timeline model on them.
func newTUIFixture(t *testing.T) *tuiFixture {
	t.Helper()
	app := testApp(t)
	p := seedProject(t, app, "SHOP01")
	fx := &tuiFixture{app: app}
	fx.checkout = seedFeature(t, app, p.ID, "Checkout", testutil.WithOrder(0),
		testutil.WithDates(testutil.Date(2024, 3, 1), testutil.Date(2024, 3, 20)))
	fx.payment = seedFeature(t, app, p.ID, "Payment", testutil.WithParent(fx.checkout.ID),
		testutil.WithDates(testutil.Date(2024, 3, 4), testutil.Date(2024, 3, 8)))
	fx.search = seedFeature(t, app, p.ID, "Search", testutil.WithOrder(1),
		testutil.WithDates(testutil.Date(2024, 3, 10), testutil.Date(2024, 3, 16)))

	fx.model = newTimelineModel(context.Background(), app, p, nil, false)
	fx.driver = teatest.New(t, fx.model, teatest.WithSize(100, 30), teatest.WithCmdTimeout(2*time.Second))
	fx.driver.DrainInit()
	require.NoError(t, fx.model.err)
	require.NotNil(t, fx.model.view)
	return fx
}

// barCells returns the screen columns a bar covers and the line it is drawn on.
func (fx *tuiFixture) barCells(t *testing.T, featureID string) (from, to, y int) {
	t.Helper()
	m := fx.model
	for i, b := range m.view.Bars {
		if b.Feature.ID == featureID {
			from, to = formatter.TrackSpan(b.Offset, b.Width, m.layout.TrackCells)
			return m.layout.TrackStart() + from, m.layout.TrackStart() + to, titleLines + m.layout.HeaderLines + i
		}
	}
	t.Fatalf("no bar for %s", featureID)
	return 0, 0, 0
}

func (fx *tuiFixture) dates(t *testing.T, id string) (string, string) {
	t.Helper()
	f, err := fx.app.Features.GetByID(context.Background(), id)
	require.NoError(t, err)
	return domain.FormatOptionalDate(f.StartDate), domain.FormatOptionalDate(f.EndDate)
}

func TestTimelineTUI_InitialView(t *testing.T) {
	fx := newTUIFixture(t)

	view := fx.driver.View()
	assert.Contains(t, view, "Web Shop")
	assert.Contains(t, view, "▸ Checkout")
	assert.Contains(t, view, "Search")
	assert.NotContains(t, view, "Payment", "sub-features start collapsed")
	assert.Len(t, fx.model.view.Bars, 2)
	assert.Equal(t, fx.checkout.ID, fx.model.cursorID)
}

func TestTimelineTUI_CursorAndToggle(t *testing.T) {
	fx := newTUIFixture(t)

	fx.driver.PressDown()
	assert.Equal(t, fx.search.ID, fx.model.cursorID)
	fx.driver.PressDown()
	assert.Equal(t, fx.search.ID, fx.model.cursorID, "cursor stops at the last row")
	fx.driver.PressUp()
	assert.Equal(t, fx.checkout.ID, fx.model.cursorID)

	fx.driver.PressEnter()
	require.Len(t, fx.model.view.Bars, 3)
	assert.Contains(t, fx.driver.View(), "Payment")
	assert.Equal(t, fx.checkout.ID, fx.model.cursorID, "cursor follows the feature across reloads")

	fx.driver.PressKey('c')
	assert.Len(t, fx.model.view.Bars, 2)
	fx.driver.PressKey('e')
	assert.Len(t, fx.model.view.Bars, 3)
}

func TestTimelineTUI_DragMovesBar(t *testing.T) {
	fx := newTUIFixture(t)
	from, to, y := fx.barCells(t, fx.search.ID)
	mid := (from + to) / 2
	cellsPerDay := float64(fx.model.layout.TrackCells) / float64(fx.model.view.Domain.Len())

	fx.driver.Drag(mid, mid+int(3*cellsPerDay+0.5), y)
	fx.model.ctrl.Wait()

	start, end := fx.dates(t, fx.search.ID)
	assert.NotEqual(t, "2024-03-10", start, "bar moved")
	s, err := domain.ParseDate(start)
	require.NoError(t, err)
	e, err := domain.ParseDate(end)
	require.NoError(t, err)
	assert.True(t, s.After(testutil.Date(2024, 3, 10)), "moved later, got %s", start)
	assert.Equal(t, 6, domain.DaysBetween(s, e), "a move keeps the length")

	assert.Contains(t, fx.model.status, "Rescheduled Search")
	assert.Nil(t, fx.model.preview)
	assert.Equal(t, drag.StateIdle, fx.model.ctrl.State())
}

func TestTimelineTUI_DragOutsideWindowReverts(t *testing.T) {
	fx := newTUIFixture(t)
	from, to, y := fx.barCells(t, fx.search.ID)
	mid := (from + to) / 2

	fx.driver.Drag(mid, mid+fx.model.layout.TrackCells, y)

	assert.Contains(t, fx.model.status, "Reverted")
	assert.Nil(t, fx.model.preview)
	start, end := fx.dates(t, fx.search.ID)
	assert.Equal(t, "2024-03-10", start)
	assert.Equal(t, "2024-03-16", end)
	assert.Equal(t, drag.StateIdle, fx.model.ctrl.State())
}

func TestTimelineTUI_ClickSelectsWithoutWriting(t *testing.T) {
	fx := newTUIFixture(t)
	from, to, y := fx.barCells(t, fx.search.ID)
	mid := (from + to) / 2

	fx.driver.MouseDown(mid, y)
	fx.driver.MouseUp(mid, y)

	assert.Equal(t, fx.search.ID, fx.model.cursorID)
	assert.Empty(t, fx.model.status)
	start, _ := fx.dates(t, fx.search.ID)
	assert.Equal(t, "2024-03-10", start)
}

func TestTimelineTUI_EscCancelsDrag(t *testing.T) {
	fx := newTUIFixture(t)
	from, to, y := fx.barCells(t, fx.search.ID)
	mid := (from + to) / 2

	fx.driver.MouseDown(mid, y)
	fx.driver.MouseMove(mid+6, y)
	require.NotNil(t, fx.model.preview)
	assert.Contains(t, fx.model.status, "move")

	fx.driver.PressEsc()
	assert.Nil(t, fx.model.preview)
	assert.Equal(t, "Drag cancelled", fx.model.status)

	fx.driver.MouseUp(mid+6, y)
	start, _ := fx.dates(t, fx.search.ID)
	assert.Equal(t, "2024-03-10", start)
}

func TestTimelineTUI_PressOffBarDoesNothing(t *testing.T) {
	fx := newTUIFixture(t)
	_, to, y := fx.barCells(t, fx.search.ID)

	fx.driver.Drag(to+2, to+10, y)
	assert.Nil(t, fx.model.preview)
	assert.Equal(t, drag.StateIdle, fx.model.ctrl.State())
	start, _ := fx.dates(t, fx.search.ID)
	assert.Equal(t, "2024-03-10", start)
}

func TestTimelineTUI_KeyboardShift(t *testing.T) {
	fx := newTUIFixture(t)
	fx.driver.PressDown()

	fx.driver.PressKey(']')
	start, end := fx.dates(t, fx.search.ID)
	assert.Equal(t, "2024-03-11", start)
	assert.Equal(t, "2024-03-17", end)
	assert.Contains(t, fx.model.status, "Rescheduled Search: 2024-03-11 → 2024-03-17")

	fx.driver.PressKey('[')
	fx.driver.PressKey('[')
	start, _ = fx.dates(t, fx.search.ID)
	assert.Equal(t, "2024-03-09", start)
}

func TestTimelineTUI_ShiftSubFeatureMovesParent(t *testing.T) {
	fx := newTUIFixture(t)
	fx.driver.PressEnter()
	fx.driver.PressDown()
	require.Equal(t, fx.payment.ID, fx.model.cursorID)

	// Checkout was rolled up to Payment's 03-04..03-08, so it follows.
	for i := 0; i < 2; i++ {
		fx.driver.PressKey('[')
	}
	start, end := fx.dates(t, fx.payment.ID)
	assert.Equal(t, "2024-03-02", start)
	assert.Equal(t, "2024-03-06", end)
	start, end = fx.dates(t, fx.checkout.ID)
	assert.Equal(t, "2024-03-02", start)
	assert.Equal(t, "2024-03-06", end)
	assert.Contains(t, fx.model.status, "Rescheduled Payment")
}

func TestTimelineTUI_SubCellDragChangesNothing(t *testing.T) {
	fx := newTUIFixture(t)
	from, to, y := fx.barCells(t, fx.search.ID)
	mid := (from + to) / 2

	// One cell is less than a day on this track.
	fx.driver.Drag(mid, mid+1, y)

	assert.Equal(t, "No change to Search", fx.model.status)
	start, _ := fx.dates(t, fx.search.ID)
	assert.Equal(t, "2024-03-10", start)
	assert.Equal(t, drag.StateIdle, fx.model.ctrl.State())
}

func TestTimelineTUI_HelpToggle(t *testing.T) {
	fx := newTUIFixture(t)
	assert.NotContains(t, fx.driver.View(), "collapse all")
	fx.driver.PressKey('?')
	assert.Contains(t, fx.driver.View(), "collapse all")
}

func TestTimelineTUI_Quit(t *testing.T) {
	fx := newTUIFixture(t)
	fx.driver.PressKey('q')
	assert.True(t, fx.driver.Quitting)
}
