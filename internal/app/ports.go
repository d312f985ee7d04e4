package app

import (
	"context"

	"github.com/alexanderramin/braindump/internal/domain"
)

type GeneratePlanUseCase interface {
	Generate(ctx context.Context, req GeneratePlanRequest) (*GeneratePlanResponse, error)
}

type PlanQueryUseCase interface {
	Get(ctx context.Context, ownerID, planID string) (*domain.Plan, error)
	List(ctx context.Context, ownerID string, limit int) ([]*domain.Plan, error)
	Latest(ctx context.Context, ownerID string) (*domain.Plan, error)
}

type DeletePlanUseCase interface {
	Delete(ctx context.Context, ownerID, planID string) error
}

// TaskUseCase mutates tasks of a persisted plan. Every method returns the
// task as stored after the change.
type TaskUseCase interface {
	Complete(ctx context.Context, ownerID, taskID string) (*domain.PlanTask, error)
	Reopen(ctx context.Context, ownerID, taskID string) (*domain.PlanTask, error)
	Move(ctx context.Context, ownerID, taskID string, section domain.Section) (*domain.PlanTask, error)
	Rename(ctx context.Context, ownerID, taskID, title string) (*domain.PlanTask, error)
	Update(ctx context.Context, ownerID, taskID string, upd TaskUpdate) (*domain.PlanTask, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}
