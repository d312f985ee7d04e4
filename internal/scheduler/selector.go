package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/domain"
)

// EnumPolicy decides what happens to unrecognised urgency/effort values.
type EnumPolicy string

const (
	// EnumLenient scores unknown values in the lowest branch of each factor.
	EnumLenient EnumPolicy = "lenient"
	// EnumStrict rejects batches containing unknown values before scoring.
	EnumStrict EnumPolicy = "strict"
)

func (p EnumPolicy) IsValid() bool {
	return p == EnumLenient || p == EnumStrict
}

// Options configures one run of the engine.
type Options struct {
	Weights    ScoringWeights
	Capacity   CapacityTable
	EnumPolicy EnumPolicy
}

func DefaultOptions() Options {
	return Options{
		Weights:    DefaultWeights(),
		Capacity:   DefaultCapacity(),
		EnumPolicy: EnumLenient,
	}
}

// ErrUnrecognizedValues is returned by CheckTasks under EnumStrict.
var ErrUnrecognizedValues = errors.New("unrecognized task values")

// CheckTasks validates urgency and effort of every task under the given
// policy. EnumLenient never fails.
func CheckTasks(tasks []domain.CandidateTask, policy EnumPolicy) error {
	if policy != EnumStrict {
		return nil
	}
	var errs []error
	for i, t := range tasks {
		if !t.Urgency.IsValid() {
			errs = append(errs, fmt.Errorf("task %d (%s): urgency %q", i, t.ID, t.Urgency))
		}
		if !t.Effort.IsValid() {
			errs = append(errs, fmt.Errorf("task %d (%s): effort %q", i, t.ID, t.Effort))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnrecognizedValues, errors.Join(errs...))
}

// Selection is the outcome of greedy admission.
type Selection struct {
	Selected     []ScoredTask
	Rejected     []ScoredTask
	Rejections   []app.Rejection
	BudgetMin    int
	MaxTasks     int
	AllocatedMin int
}

// ScoreAll scores every task and returns them in rank order.
func ScoreAll(tasks []domain.CandidateTask, constraints domain.Constraints, now time.Time, opts Options) []ScoredTask {
	scored := make([]ScoredTask, 0, len(tasks))
	for i, t := range tasks {
		st := ScoreTask(ScoringInput{
			Task:        t,
			Idx:         i,
			Constraints: constraints,
			Now:         now,
			Weights:     opts.Weights,
		})
		st.EstimatedMin = opts.Capacity.EstimateMinutes(t.Effort)
		scored = append(scored, st)
	}
	RankSort(scored)
	return scored
}

// Select ranks all tasks and walks them once in rank order, admitting a task
// when it fits both the remaining minute budget and the task cap. There is no
// backtracking: an early large task can use budget that several later small
// tasks would have fit into. Later tasks that still fit are admitted.
func Select(tasks []domain.CandidateTask, constraints domain.Constraints, now time.Time, opts Options) Selection {
	sel := Selection{
		BudgetMin: opts.Capacity.MaxMinutes(constraints.Mode, constraints.TimeAvailable),
		MaxTasks:  opts.Capacity.MaxTaskCount(constraints.Mode),
	}

	for _, st := range ScoreAll(tasks, constraints, now, opts) {
		if len(sel.Selected) >= sel.MaxTasks {
			sel.reject(st, app.RejectTaskCapReached,
				fmt.Sprintf("Plan already holds %d tasks", sel.MaxTasks))
			continue
		}
		if sel.AllocatedMin+st.EstimatedMin > sel.BudgetMin {
			sel.reject(st, app.RejectBudgetExceeded,
				fmt.Sprintf("Needs %d min, %d min left", st.EstimatedMin, sel.BudgetMin-sel.AllocatedMin))
			continue
		}
		sel.Selected = append(sel.Selected, st)
		sel.AllocatedMin += st.EstimatedMin
	}

	return sel
}

func (s *Selection) reject(st ScoredTask, code app.RejectionCode, msg string) {
	s.Rejected = append(s.Rejected, st)
	s.Rejections = append(s.Rejections, app.Rejection{
		TaskID:  st.Task.ID,
		Code:    code,
		Message: msg,
	})
}
