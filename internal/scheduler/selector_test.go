package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(n int, effort domain.Effort, urgency domain.Urgency) []domain.CandidateTask {
	out := make([]domain.CandidateTask, n)
	for i := range out {
		out[i] = domain.CandidateTask{
			ID:      fmt.Sprintf("t%d", i+1),
			Title:   fmt.Sprintf("Task %d", i+1),
			Effort:  effort,
			Urgency: urgency,
		}
	}
	return out
}

func TestCapacity_Tables(t *testing.T) {
	assert.Equal(t, 25, EstimateMinutes(domain.EffortSmall))
	assert.Equal(t, 75, EstimateMinutes(domain.EffortMedium))
	assert.Equal(t, 150, EstimateMinutes(domain.EffortLarge))
	assert.Equal(t, 60, EstimateMinutes("huge"))

	assert.Equal(t, 90, MaxMinutes(domain.ModeToday, domain.TimeLow))
	assert.Equal(t, 180, MaxMinutes(domain.ModeToday, domain.TimeMedium))
	assert.Equal(t, 300, MaxMinutes(domain.ModeToday, domain.TimeHigh))
	assert.Equal(t, 600, MaxMinutes(domain.ModeWeek, domain.TimeLow))
	assert.Equal(t, 900, MaxMinutes(domain.ModeWeek, domain.TimeMedium))
	assert.Equal(t, 1500, MaxMinutes(domain.ModeWeek, domain.TimeHigh))
	assert.Equal(t, 0, MaxMinutes("month", domain.TimeHigh))

	assert.Equal(t, 3, MaxTaskCount(domain.ModeToday))
	assert.Equal(t, 7, MaxTaskCount(domain.ModeWeek))
	assert.Equal(t, 0, MaxTaskCount("month"))
}

func TestSelectAndPartition_EmptyInput(t *testing.T) {
	p := SelectAndPartition(nil, domain.DefaultConstraints(), scoreNow, DefaultOptions())

	assert.Empty(t, p.DoFirst)
	assert.Empty(t, p.ThisWeek)
	assert.Empty(t, p.NotThisWeek)
	assert.NotNil(t, p.ThisWeek, "empty lists should be non-nil for stable JSON output")
}

func TestSelectAndPartition_OversizedTasksAdmitNothing(t *testing.T) {
	c := domain.Constraints{Mode: domain.ModeToday, TimeAvailable: domain.TimeLow, EnergyLevel: domain.EnergyOK}
	p := SelectAndPartition(candidates(5, domain.EffortLarge, domain.UrgencyHigh), c, scoreNow, DefaultOptions())

	assert.Empty(t, p.ThisWeek)
	assert.Empty(t, p.DoFirst)
	assert.Len(t, p.NotThisWeek, 5)
	require.Len(t, p.Selection.Rejections, 5)
	for _, r := range p.Selection.Rejections {
		assert.Equal(t, app.RejectBudgetExceeded, r.Code)
	}
	assert.Equal(t, 90, p.Selection.BudgetMin)
	assert.Zero(t, p.Selection.AllocatedMin)
}

func TestSelectAndPartition_CapLimitsWeek(t *testing.T) {
	c := domain.Constraints{Mode: domain.ModeWeek, TimeAvailable: domain.TimeHigh, EnergyLevel: domain.EnergyOK}
	p := SelectAndPartition(candidates(10, domain.EffortSmall, domain.UrgencyMedium), c, scoreNow, DefaultOptions())

	require.Len(t, p.ThisWeek, 7)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"}, ids(p.ThisWeek))
	assert.Equal(t, []string{"t8", "t9", "t10"}, ids(p.NotThisWeek))
	assert.Len(t, p.DoFirst, 3)
	assert.Equal(t, 7*25, p.Selection.AllocatedMin)
	for _, r := range p.Selection.Rejections {
		assert.Equal(t, app.RejectTaskCapReached, r.Code)
	}
}

func TestSelectAndPartition_SingleTaskToday(t *testing.T) {
	c := domain.Constraints{Mode: domain.ModeToday, TimeAvailable: domain.TimeMedium, EnergyLevel: domain.EnergyOK}
	p := SelectAndPartition(candidates(1, domain.EffortMedium, domain.UrgencyLow), c, scoreNow, DefaultOptions())

	assert.Len(t, p.DoFirst, 1)
	assert.Len(t, p.ThisWeek, 1)
	assert.Empty(t, p.NotThisWeek)
}

func TestSelectAndPartition_TopTaskRanksFirstInMixedBatch(t *testing.T) {
	tomorrow := scoreNow.Add(24 * time.Hour)
	nextWeek := scoreNow.Add(6 * 24 * time.Hour)
	tasks := []domain.CandidateTask{
		{ID: "report", Urgency: domain.UrgencyHigh, Effort: domain.EffortLarge, Deadline: &nextWeek, Category: "work"},
		{ID: "laundry", Urgency: domain.UrgencyMedium, Effort: domain.EffortSmall, Category: "home"},
		{ID: "pay-rent", Urgency: domain.UrgencyHigh, Effort: domain.EffortSmall, Deadline: &tomorrow, Category: "money"},
		{ID: "gym", Urgency: domain.UrgencyLow, Effort: domain.EffortMedium, Category: "health"},
	}
	c := domain.Constraints{Mode: domain.ModeWeek, TimeAvailable: domain.TimeMedium, EnergyLevel: domain.EnergyFiredUp, FocusArea: "money"}

	p := SelectAndPartition(tasks, c, scoreNow, DefaultOptions())

	require.NotEmpty(t, p.ThisWeek)
	assert.Equal(t, "pay-rent", p.ThisWeek[0].Task.ID)
	assert.Equal(t, "pay-rent", p.DoFirst[0].Task.ID)
}

func TestSelect_GreedyWalkContinuesPastRejection(t *testing.T) {
	// Budget 90: the top-ranked large task cannot fit, the walk keeps going
	// and admits later tasks that do.
	tasks := []domain.CandidateTask{
		{ID: "big", Urgency: domain.UrgencyHigh, Effort: domain.EffortLarge},     // 53, 150m
		{ID: "small-a", Urgency: domain.UrgencyMedium, Effort: domain.EffortSmall}, // 50, 25m
		{ID: "medium", Urgency: domain.UrgencyMedium, Effort: domain.EffortMedium}, // 45, 75m
		{ID: "small-b", Urgency: domain.UrgencyLow, Effort: domain.EffortSmall},    // 35, 25m
	}
	c := domain.Constraints{Mode: domain.ModeToday, TimeAvailable: domain.TimeLow, EnergyLevel: domain.EnergyOK}

	sel := Select(tasks, c, scoreNow, DefaultOptions())

	assert.Equal(t, []string{"small-a", "small-b"}, ids(sel.Selected))
	assert.Equal(t, []string{"big", "medium"}, ids(sel.Rejected))
	assert.Equal(t, 50, sel.AllocatedMin)
}

func TestSelect_InvalidModeSelectsNothing(t *testing.T) {
	c := domain.Constraints{Mode: "month", TimeAvailable: domain.TimeHigh, EnergyLevel: domain.EnergyOK}
	sel := Select(candidates(3, domain.EffortSmall, domain.UrgencyHigh), c, scoreNow, DefaultOptions())

	assert.Empty(t, sel.Selected)
	assert.Len(t, sel.Rejected, 3)
}

func TestSelect_Deterministic(t *testing.T) {
	due := scoreNow.Add(2 * 24 * time.Hour)
	tasks := candidates(12, domain.EffortMedium, domain.UrgencyMedium)
	tasks[4].Deadline = &due
	tasks[7].Effort = domain.EffortSmall
	tasks[9].Urgency = domain.UrgencyHigh
	c := domain.Constraints{Mode: domain.ModeWeek, TimeAvailable: domain.TimeMedium, EnergyLevel: domain.EnergyDrained}

	first := SelectAndPartition(tasks, c, scoreNow, DefaultOptions())
	second := SelectAndPartition(tasks, c, scoreNow, DefaultOptions())

	assert.Equal(t, first, second)
}

func TestSelect_CustomCapacity(t *testing.T) {
	opts := DefaultOptions()
	opts.Capacity.TaskCaps[domain.ModeToday] = 1

	c := domain.Constraints{Mode: domain.ModeToday, TimeAvailable: domain.TimeHigh, EnergyLevel: domain.EnergyOK}
	sel := Select(candidates(3, domain.EffortSmall, domain.UrgencyLow), c, scoreNow, opts)

	assert.Len(t, sel.Selected, 1)
	assert.Equal(t, 1, sel.MaxTasks)
}

func TestCheckTasks(t *testing.T) {
	tasks := []domain.CandidateTask{
		{ID: "ok", Urgency: domain.UrgencyLow, Effort: domain.EffortSmall},
		{ID: "bad", Urgency: "asap", Effort: "huge"},
	}

	assert.NoError(t, CheckTasks(tasks, EnumLenient))

	err := CheckTasks(tasks, EnumStrict)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrecognizedValues)
	assert.Contains(t, err.Error(), `urgency "asap"`)
	assert.Contains(t, err.Error(), `effort "huge"`)
	assert.NotContains(t, err.Error(), "(ok)")
}
