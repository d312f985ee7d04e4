package scheduler

import (
	"math"
	"time"

	"github.com/alexanderramin/braindump/internal/domain"
)

// doFirstShare is the fraction of admitted week tasks promoted to do-first.
const doFirstShare = 0.35

// maxDoFirstWeek caps do-first in week mode.
const maxDoFirstWeek = 3

// PlanPartition is the ranked view of a plan. DoFirst is a prefix of
// ThisWeek; ThisWeek is the whole admitted set; NotThisWeek is everything
// else in rank order.
type PlanPartition struct {
	DoFirst     []ScoredTask
	ThisWeek    []ScoredTask
	NotThisWeek []ScoredTask

	Selection Selection
}

// DoFirstCount returns how many of n admitted tasks are do-first.
func DoFirstCount(mode domain.PlanMode, n int) int {
	if n <= 0 {
		return 0
	}
	if mode == domain.ModeToday {
		return 1
	}
	return min(maxDoFirstWeek, int(math.Ceil(float64(n)*doFirstShare)))
}

// Partition slices a selection into the ranked do-first / this-week /
// not-this-week view.
func Partition(sel Selection, mode domain.PlanMode) PlanPartition {
	thisWeek := sel.Selected
	if thisWeek == nil {
		thisWeek = []ScoredTask{}
	}
	notThisWeek := sel.Rejected
	if notThisWeek == nil {
		notThisWeek = []ScoredTask{}
	}
	n := DoFirstCount(mode, len(thisWeek))
	return PlanPartition{
		DoFirst:     thisWeek[:n:n],
		ThisWeek:    thisWeek,
		NotThisWeek: notThisWeek,
		Selection:   sel,
	}
}

// SelectAndPartition is the engine's single entry point: score, rank,
// admit under budget and cap, then partition.
func SelectAndPartition(tasks []domain.CandidateTask, constraints domain.Constraints, now time.Time, opts Options) PlanPartition {
	return Partition(Select(tasks, constraints, now, opts), constraints.Mode)
}

// SectionedTask is a scored task carrying its persisted section label and
// its 1-based global rank.
type SectionedTask struct {
	ScoredTask
	Section domain.Section
	Rank    int
}

// Sections maps the ranked view onto the persisted view, where every task
// carries exactly one section label: do-first members are taken out of
// this_week. Order is do_first, this_week, not_this_week.
func Sections(p PlanPartition) []SectionedTask {
	out := make([]SectionedTask, 0, len(p.ThisWeek)+len(p.NotThisWeek))
	rank := 0
	add := func(st ScoredTask, s domain.Section) {
		rank++
		out = append(out, SectionedTask{ScoredTask: st, Section: s, Rank: rank})
	}
	for i, st := range p.ThisWeek {
		if i < len(p.DoFirst) {
			add(st, domain.SectionDoFirst)
			continue
		}
		add(st, domain.SectionThisWeek)
	}
	for _, st := range p.NotThisWeek {
		add(st, domain.SectionNotThisWeek)
	}
	return out
}
