package app

import (
	"errors"
	"time"

	"github.com/alexanderramin/braindump/internal/domain"
)

// ParseSource records where a plan's candidate tasks came from.
type ParseSource string

const (
	SourceLLM           ParseSource = "llm"
	SourceDeterministic ParseSource = "deterministic"
	SourceProvided      ParseSource = "provided"
)

type GeneratePlanRequest struct {
	OwnerID     string
	BrainDump   string
	Tasks       []domain.CandidateTask // pre-parsed tasks skip the parser
	Constraints domain.Constraints
	DryRun      bool
	Now         *time.Time
}

func NewGeneratePlanRequest(owner, brainDump string, constraints domain.Constraints) GeneratePlanRequest {
	return GeneratePlanRequest{
		OwnerID:     owner,
		BrainDump:   brainDump,
		Constraints: constraints,
	}
}

type GeneratePlanResponse struct {
	Plan        *domain.Plan
	Rejections  []Rejection
	ParseSource ParseSource
	Persisted   bool
	Warnings    []string
}

type PlanErrorCode string

const (
	PlanErrInvalidConstraints  PlanErrorCode = "INVALID_CONSTRAINTS"
	PlanErrEmptyBrainDump      PlanErrorCode = "EMPTY_BRAIN_DUMP"
	PlanErrNoTasksParsed       PlanErrorCode = "NO_TASKS_PARSED"
	PlanErrUnrecognizedValues  PlanErrorCode = "UNRECOGNIZED_VALUES"
	PlanErrInvalidTaskMutation PlanErrorCode = "INVALID_TASK_MUTATION"
	PlanErrInvalidRequest      PlanErrorCode = "INVALID_REQUEST"
)

// PlanError is a request-level validation failure.
type PlanError struct {
	Code    PlanErrorCode
	Message string
}

func (e *PlanError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// AsPlanError unwraps err into a *PlanError when it carries one.
func AsPlanError(err error) (*PlanError, bool) {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// TaskUpdate is a partial edit of a persisted plan task.
type TaskUpdate struct {
	Section *domain.Section
	Title   *string
}
