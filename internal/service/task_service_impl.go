package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/db"
	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/repository"
)

type taskService struct {
	uow      db.UnitOfWork
	now      func() time.Time
	observer UseCaseObserver
}

func NewTaskService(uow db.UnitOfWork, observers ...UseCaseObserver) app.TaskUseCase {
	return &taskService{
		uow:      uow,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Complete(ctx context.Context, ownerID, taskID string) (*domain.PlanTask, error) {
	return s.mutate(ctx, "complete-task", ownerID, taskID, func(t *domain.PlanTask, now time.Time) error {
		return t.MarkDone(now)
	})
}

func (s *taskService) Reopen(ctx context.Context, ownerID, taskID string) (*domain.PlanTask, error) {
	return s.mutate(ctx, "reopen-task", ownerID, taskID, func(t *domain.PlanTask, now time.Time) error {
		return t.Reopen(now)
	})
}

func (s *taskService) Move(ctx context.Context, ownerID, taskID string, section domain.Section) (*domain.PlanTask, error) {
	return s.mutate(ctx, "move-task", ownerID, taskID, func(t *domain.PlanTask, now time.Time) error {
		return t.MoveTo(section, now)
	})
}

func (s *taskService) Rename(ctx context.Context, ownerID, taskID, title string) (*domain.PlanTask, error) {
	return s.mutate(ctx, "rename-task", ownerID, taskID, func(t *domain.PlanTask, now time.Time) error {
		return t.Rename(title, now)
	})
}

// Update applies a partial edit; both fields change together or not at all.
func (s *taskService) Update(ctx context.Context, ownerID, taskID string, upd app.TaskUpdate) (*domain.PlanTask, error) {
	if upd.Section == nil && upd.Title == nil {
		return nil, &app.PlanError{Code: app.PlanErrInvalidTaskMutation, Message: "nothing to update"}
	}
	return s.mutate(ctx, "update-task", ownerID, taskID, func(t *domain.PlanTask, now time.Time) error {
		if upd.Section != nil {
			if err := t.MoveTo(*upd.Section, now); err != nil {
				return err
			}
		}
		if upd.Title != nil {
			return t.Rename(*upd.Title, now)
		}
		return nil
	})
}

func (s *taskService) Delete(ctx context.Context, ownerID, taskID string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "delete-task", ownerID, startedAt, map[string]any{"task": taskID}, &err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLitePlanTaskRepo(tx)
		t, err := s.ownedTask(ctx, tx, ownerID, taskID)
		if err != nil {
			return err
		}
		if err := tasks.Delete(ctx, t.ID); err != nil {
			return err
		}
		return repository.NewSQLitePlanRepo(tx).Touch(ctx, t.PlanID, s.now())
	})
}

func (s *taskService) mutate(ctx context.Context, name, ownerID, taskID string, apply func(*domain.PlanTask, time.Time) error) (task *domain.PlanTask, err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, name, ownerID, startedAt, map[string]any{"task": taskID}, &err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		t, err := s.ownedTask(ctx, tx, ownerID, taskID)
		if err != nil {
			return err
		}
		now := s.now()
		if err := apply(t, now); err != nil {
			return &app.PlanError{Code: app.PlanErrInvalidTaskMutation, Message: err.Error()}
		}
		if err := repository.NewSQLitePlanTaskRepo(tx).Update(ctx, t); err != nil {
			return err
		}
		if err := repository.NewSQLitePlanRepo(tx).Touch(ctx, t.PlanID, now); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ownedTask loads a task and hides it from anyone but its plan's owner.
func (s *taskService) ownedTask(ctx context.Context, tx db.DBTX, ownerID, taskID string) (*domain.PlanTask, error) {
	t, err := repository.NewSQLitePlanTaskRepo(tx).GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	owner, err := repository.NewSQLitePlanRepo(tx).OwnerOf(ctx, t.PlanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("plan task: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	if owner != ownerID {
		return nil, fmt.Errorf("plan task: %w", repository.ErrNotFound)
	}
	return t, nil
}
