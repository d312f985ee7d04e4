package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoardDriver(t *testing.T, app *App, ref string) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newBoardModel(app, ref), teatest.WithSize(120, 40))
	d.DrainInit()
	return d
}

func TestBoard_RendersLatestPlan(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, sampleDump, "plan", "new")
	p := latestPlan(t, app)

	d := newBoardDriver(t, app, "")

	d.RequireViewContains("PLAN "+p.ID[:8], "Do first (1)", "> [ ] Pay rent tomorrow", "[ ] Call mum", "space toggle done")
}

func TestBoard_ToggleDone(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, sampleDump, "plan", "new")

	d := newBoardDriver(t, app, "")
	d.PressSpace()

	d.RequireViewContains(`Done: "Pay rent tomorrow"`, "[x] Pay rent tomorrow")
	assert.Equal(t, 1, latestPlan(t, app).Counts().Done)

	d.PressSpace()
	d.RequireViewContains("[ ] Pay rent tomorrow")
	assert.Equal(t, 0, latestPlan(t, app).Counts().Done)
}

func TestBoard_MoveCyclesSectionAndKeepsCursor(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, sampleDump, "plan", "new")

	d := newBoardDriver(t, app, "")
	d.PressDown()
	d.PressKey('m')

	d.RequireViewContains("Not this week (1)", "> [ ] Call mum")
	moved := latestPlan(t, app).TasksIn(domain.SectionNotThisWeek)
	require.Len(t, moved, 1)
	assert.Equal(t, "Call mum", moved[0].Title)

	d.PressKey('m')
	assert.Len(t, latestPlan(t, app).TasksIn(domain.SectionDoFirst), 2, "not_this_week wraps to do_first")
}

func TestBoard_DeleteAndQuit(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, sampleDump, "plan", "new")

	d := newBoardDriver(t, app, "")
	d.PressKey('x')

	d.RequireViewContains(`Removed "Pay rent tomorrow"`, "Do first (0)", "> [ ] Call mum")
	assert.Len(t, latestPlan(t, app).Tasks, 1)

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestBoard_NoPlans(t *testing.T) {
	app := testApp(t)

	d := newBoardDriver(t, app, "")

	d.RequireViewContains("Error: no plans yet")
}

func TestBoard_MutationErrorShowsStatus(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, sampleDump, "plan", "new")
	d := newBoardDriver(t, app, "")

	// Remove the task behind the board's back.
	p := latestPlan(t, app)
	require.NoError(t, app.Tasks.Delete(context.Background(), app.Owner, p.Tasks[0].ID))

	d.PressSpace()
	d.RequireViewContains("error: ")

	d.PressKey('r')
	d.RequireViewContains("Do first (0)")
}

func TestNextSection(t *testing.T) {
	assert.Equal(t, domain.SectionThisWeek, nextSection(domain.SectionDoFirst))
	assert.Equal(t, domain.SectionNotThisWeek, nextSection(domain.SectionThisWeek))
	assert.Equal(t, domain.SectionDoFirst, nextSection(domain.SectionNotThisWeek))
}
