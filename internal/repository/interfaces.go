package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/braindump/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	// GetByID returns the plan with its tasks in rank order.
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	// ListByOwner returns plan headers (no tasks), newest first.
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*domain.Plan, error)
	ListWithTasks(ctx context.Context, ownerID string, limit int) ([]*domain.Plan, error)
	LatestByOwner(ctx context.Context, ownerID string) (*domain.Plan, error)
	OwnerOf(ctx context.Context, id string) (string, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type PlanTaskRepo interface {
	CreateBatch(ctx context.Context, tasks []domain.PlanTask) error
	GetByID(ctx context.Context, id string) (*domain.PlanTask, error)
	ListByPlan(ctx context.Context, planID string) ([]domain.PlanTask, error)
	Update(ctx context.Context, t *domain.PlanTask) error
	Delete(ctx context.Context, id string) error
}
