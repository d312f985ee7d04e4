package scheduler

import "github.com/alexanderramin/braindump/internal/domain"

// CapacityTable maps effort classes to minutes and (mode, time available) to
// a minute budget and task cap.
type CapacityTable struct {
	EffortMinutes   map[domain.Effort]int
	FallbackMinutes int
	Budgets         map[domain.PlanMode]map[domain.TimeAvailable]int
	TaskCaps        map[domain.PlanMode]int
}

func DefaultCapacity() CapacityTable {
	return CapacityTable{
		EffortMinutes: map[domain.Effort]int{
			domain.EffortSmall:  25,
			domain.EffortMedium: 75,
			domain.EffortLarge:  150,
		},
		FallbackMinutes: 60,
		Budgets: map[domain.PlanMode]map[domain.TimeAvailable]int{
			domain.ModeToday: {
				domain.TimeLow:    90,
				domain.TimeMedium: 180,
				domain.TimeHigh:   300,
			},
			domain.ModeWeek: {
				domain.TimeLow:    600,
				domain.TimeMedium: 900,
				domain.TimeHigh:   1500,
			},
		},
		TaskCaps: map[domain.PlanMode]int{
			domain.ModeToday: 3,
			domain.ModeWeek:  7,
		},
	}
}

// EstimateMinutes returns the duration estimate for an effort class, or the
// fallback for anything unrecognised.
func (c CapacityTable) EstimateMinutes(effort domain.Effort) int {
	if m, ok := c.EffortMinutes[effort]; ok {
		return m
	}
	return c.FallbackMinutes
}

// MaxMinutes returns the minute budget. Unknown combinations get zero, which
// admits nothing.
func (c CapacityTable) MaxMinutes(mode domain.PlanMode, time domain.TimeAvailable) int {
	return c.Budgets[mode][time]
}

// MaxTaskCount returns the hard item cap for a mode, zero when unknown.
func (c CapacityTable) MaxTaskCount(mode domain.PlanMode) int {
	return c.TaskCaps[mode]
}

var defaultCapacity = DefaultCapacity()

// EstimateMinutes uses the default capacity table.
func EstimateMinutes(effort domain.Effort) int {
	return defaultCapacity.EstimateMinutes(effort)
}

// MaxMinutes uses the default capacity table.
func MaxMinutes(mode domain.PlanMode, time domain.TimeAvailable) int {
	return defaultCapacity.MaxMinutes(mode, time)
}

// MaxTaskCount uses the default capacity table.
func MaxTaskCount(mode domain.PlanMode) int {
	return defaultCapacity.MaxTaskCount(mode)
}

// Clone returns a deep copy so callers can override entries safely.
func (c CapacityTable) Clone() CapacityTable {
	out := CapacityTable{
		EffortMinutes:   make(map[domain.Effort]int, len(c.EffortMinutes)),
		FallbackMinutes: c.FallbackMinutes,
		Budgets:         make(map[domain.PlanMode]map[domain.TimeAvailable]int, len(c.Budgets)),
		TaskCaps:        make(map[domain.PlanMode]int, len(c.TaskCaps)),
	}
	for k, v := range c.EffortMinutes {
		out.EffortMinutes[k] = v
	}
	for mode, byTime := range c.Budgets {
		inner := make(map[domain.TimeAvailable]int, len(byTime))
		for k, v := range byTime {
			inner[k] = v
		}
		out.Budgets[mode] = inner
	}
	for k, v := range c.TaskCaps {
		out.TaskCaps[k] = v
	}
	return out
}
