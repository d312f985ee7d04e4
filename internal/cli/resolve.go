package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/repository"
)

// prefixSearchLimit is how many recent plans an ID prefix is matched against.
const prefixSearchLimit = 100

var errNoPlans = errors.New("no plans yet; run `braindump plan new`")

// resolvePlan finds a plan by full ID or unique ID prefix. An empty ref
// means the owner's latest plan.
func resolvePlan(ctx context.Context, a *App, ref string) (*domain.Plan, error) {
	if ref == "" {
		p, err := a.Plans.Latest(ctx, a.Owner)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errNoPlans
		}
		return p, err
	}

	p, err := a.Plans.Get(ctx, a.Owner, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	plans, err := a.Plans.List(ctx, a.Owner, prefixSearchLimit)
	if err != nil {
		return nil, err
	}
	var match *domain.Plan
	for _, candidate := range plans {
		if !strings.HasPrefix(candidate.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("plan %q is ambiguous, use more characters", ref)
		}
		match = candidate
	}
	if match == nil {
		return nil, fmt.Errorf("plan %q: %w", ref, repository.ErrNotFound)
	}
	return match, nil
}

// resolveTask resolves a task reference within a plan. The reference can be:
//   - a rank number as printed by `plan show`
//   - a task UUID or a unique prefix of one
func resolveTask(ctx context.Context, a *App, planRef, ref string) (string, error) {
	p, err := resolvePlan(ctx, a, planRef)
	if err != nil {
		return "", err
	}
	if rank, err := strconv.Atoi(ref); err == nil && rank > 0 {
		for _, t := range p.Tasks {
			if t.Rank == rank {
				return t.ID, nil
			}
		}
		return "", fmt.Errorf("task #%d not found in plan %s: %w", rank, p.ID[:min(8, len(p.ID))], repository.ErrNotFound)
	}

	var match string
	for _, t := range p.Tasks {
		if !strings.HasPrefix(t.ID, ref) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("task %q is ambiguous, use more characters", ref)
		}
		match = t.ID
	}
	if match == "" {
		return "", fmt.Errorf("task %q: %w", ref, repository.ErrNotFound)
	}
	return match, nil
}
