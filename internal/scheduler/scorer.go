package scheduler

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/domain"
)

// ScoringWeights holds the points each factor contributes. The score is an
// ordinal ranking key only; rescaling is fine as long as relative order holds.
type ScoringWeights struct {
	UrgencyHigh   float64
	UrgencyMedium float64
	UrgencyLow    float64

	DeadlineWithin1Day  float64
	DeadlineWithin3Days float64
	DeadlineWithin7Days float64
	DeadlineLater       float64

	EffortSmall  float64
	EffortMedium float64
	EffortLarge  float64

	EnergyMatch    float64
	EnergyNeutral  float64
	EnergyMismatch float64

	FocusBonus float64
}

func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		UrgencyHigh:   35,
		UrgencyMedium: 20,
		UrgencyLow:    5,

		DeadlineWithin1Day:  30,
		DeadlineWithin3Days: 25,
		DeadlineWithin7Days: 15,
		DeadlineLater:       5,

		EffortSmall:  20,
		EffortMedium: 15,
		EffortLarge:  8,

		EnergyMatch:    15,
		EnergyNeutral:  10,
		EnergyMismatch: 5,

		FocusBonus: 5,
	}
}

type ScoringInput struct {
	Task        domain.CandidateTask
	Idx         int // position in the input batch, the tie-break key
	Constraints domain.Constraints
	Now         time.Time
	Weights     ScoringWeights
}

// ScoredTask is a candidate annotated with its score. Immutable once built.
type ScoredTask struct {
	Task         domain.CandidateTask
	Idx          int
	Score        float64
	EstimatedMin int
	Reasons      []app.ScoreReason
}

// ScoreTask computes the additive priority score for one task. It never
// fails: unrecognised urgency or effort values land in the lowest branch of
// their factor and are flagged with an UNRECOGNIZED_VALUE reason.
func ScoreTask(input ScoringInput) ScoredTask {
	result := ScoredTask{
		Task: input.Task,
		Idx:  input.Idx,
	}

	var score float64
	factors := []func(ScoringInput) (float64, *app.ScoreReason){
		scoreUrgency,
		scoreDeadlineProximity,
		scoreEffortFit,
		scoreEnergyFit,
		scoreFocusArea,
	}
	for _, f := range factors {
		delta, reason := f(input)
		score += delta
		if reason != nil {
			result.Reasons = append(result.Reasons, *reason)
		}
	}
	result.Reasons = append(result.Reasons, unrecognizedReasons(input.Task)...)

	result.Score = score
	return result
}

func scoreUrgency(input ScoringInput) (float64, *app.ScoreReason) {
	w := input.Weights
	var delta float64
	switch input.Task.Urgency {
	case domain.UrgencyHigh:
		delta = w.UrgencyHigh
	case domain.UrgencyMedium:
		delta = w.UrgencyMedium
	default:
		delta = w.UrgencyLow
	}
	return delta, &app.ScoreReason{
		Code:        app.ReasonUrgency,
		Message:     fmt.Sprintf("Urgency %s", displayValue(string(input.Task.Urgency))),
		WeightDelta: delta,
	}
}

func scoreDeadlineProximity(input ScoringInput) (float64, *app.ScoreReason) {
	if input.Task.Deadline == nil {
		return 0, nil
	}
	w := input.Weights
	daysUntil := DaysUntil(*input.Task.Deadline, input.Now)
	var delta float64
	switch {
	case daysUntil <= 1:
		delta = w.DeadlineWithin1Day
	case daysUntil <= 3:
		delta = w.DeadlineWithin3Days
	case daysUntil <= 7:
		delta = w.DeadlineWithin7Days
	default:
		delta = w.DeadlineLater
	}
	return delta, &app.ScoreReason{
		Code:        app.ReasonDeadlineProximity,
		Message:     formatDeadlineMessage(daysUntil),
		WeightDelta: delta,
	}
}

func scoreEffortFit(input ScoringInput) (float64, *app.ScoreReason) {
	w := input.Weights
	var delta float64
	switch input.Task.Effort {
	case domain.EffortSmall:
		delta = w.EffortSmall
	case domain.EffortMedium:
		delta = w.EffortMedium
	default:
		delta = w.EffortLarge
	}
	return delta, &app.ScoreReason{
		Code:        app.ReasonEffortFit,
		Message:     fmt.Sprintf("Effort %s", displayValue(string(input.Task.Effort))),
		WeightDelta: delta,
	}
}

func scoreEnergyFit(input ScoringInput) (float64, *app.ScoreReason) {
	w := input.Weights
	energy := input.Constraints.EnergyLevel
	effort := input.Task.Effort

	var delta float64
	var msg string
	switch {
	case energy == domain.EnergyFiredUp && effort == domain.EffortLarge,
		energy == domain.EnergyDrained && effort == domain.EffortSmall:
		delta = w.EnergyMatch
		msg = "Task size matches your energy"
	case energy == domain.EnergyOK:
		delta = w.EnergyNeutral
		msg = "Steady energy suits any task size"
	default:
		delta = w.EnergyMismatch
		msg = "Task size does not match your energy"
	}
	return delta, &app.ScoreReason{
		Code:        app.ReasonEnergyFit,
		Message:     msg,
		WeightDelta: delta,
	}
}

func scoreFocusArea(input ScoringInput) (float64, *app.ScoreReason) {
	if !MatchesFocus(input.Task.Category, input.Constraints.FocusArea) {
		return 0, nil
	}
	delta := input.Weights.FocusBonus
	return delta, &app.ScoreReason{
		Code:        app.ReasonFocusArea,
		Message:     fmt.Sprintf("In your focus area (%s)", input.Constraints.FocusArea),
		WeightDelta: delta,
	}
}

func unrecognizedReasons(task domain.CandidateTask) []app.ScoreReason {
	var reasons []app.ScoreReason
	if !task.Urgency.IsValid() {
		reasons = append(reasons, app.ScoreReason{
			Code:    app.ReasonUnrecognizedValue,
			Message: fmt.Sprintf("Unrecognized urgency %q scored as low", task.Urgency),
		})
	}
	if !task.Effort.IsValid() {
		reasons = append(reasons, app.ScoreReason{
			Code:    app.ReasonUnrecognizedValue,
			Message: fmt.Sprintf("Unrecognized effort %q scored as large", task.Effort),
		})
	}
	return reasons
}

// MatchesFocus reports whether a task category equals the focus area,
// ignoring case and surrounding space. An empty focus area matches nothing.
func MatchesFocus(category, focus string) bool {
	focus = strings.TrimSpace(focus)
	if focus == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(category), focus)
}

// DaysUntil returns floor((deadline - now) / 24h). Past deadlines are negative.
func DaysUntil(deadline, now time.Time) int {
	return int(math.Floor(deadline.Sub(now).Hours() / 24))
}

func formatDeadlineMessage(daysUntil int) string {
	switch {
	case daysUntil < 0:
		return "Past due!"
	case daysUntil <= 1:
		return "Due within a day"
	case daysUntil <= 3:
		return "Due in the next few days"
	case daysUntil <= 7:
		return "Due this week"
	default:
		return "Upcoming deadline"
	}
}

func displayValue(s string) string {
	if s == "" {
		return "(missing)"
	}
	return s
}
