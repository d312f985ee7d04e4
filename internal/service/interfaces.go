package service

import (
	"errors"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/scheduler"
)

var (
	// ErrGenerationInProgress is returned when an owner submits a different
	// plan request while one is still running.
	ErrGenerationInProgress = errors.New("plan generation already in progress")
	// ErrRateLimited is returned when an owner exceeds the generation rate.
	ErrRateLimited = errors.New("plan generation rate limit exceeded")
)

// OptionsSource supplies the engine options for one generation. config.Store
// satisfies it; the snapshot is read once per request.
type OptionsSource interface {
	Options() scheduler.Options
}

// StaticOptions is an OptionsSource that never changes.
type StaticOptions scheduler.Options

func (o StaticOptions) Options() scheduler.Options { return scheduler.Options(o) }

// RateLimit bounds plan generations per owner. PerHour of 0 disables it.
type RateLimit struct {
	PerHour int
	Burst   int
}

var (
	_ app.GeneratePlanUseCase = (*planService)(nil)
	_ app.PlanQueryUseCase    = (*planService)(nil)
	_ app.DeletePlanUseCase   = (*planService)(nil)
	_ app.TaskUseCase         = (*taskService)(nil)
)
