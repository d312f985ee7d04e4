package service

import (
	"context"
	"sync"

	"github.com/alexanderramin/braindump/internal/app"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// generationGuard enforces the per-owner rules around plan generation.
// Identical concurrent requests share one run and one result; a different
// request from the same owner while one runs is refused; every run costs
// one token from the owner's limiter.
type generationGuard struct {
	group singleflight.Group

	mu       sync.Mutex
	inFlight map[string]bool
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newGenerationGuard(rl RateLimit) *generationGuard {
	g := &generationGuard{
		inFlight: map[string]bool{},
		limiters: map[string]*rate.Limiter{},
		limit:    rate.Inf,
		burst:    max(rl.Burst, 1),
	}
	if rl.PerHour > 0 {
		g.limit = rate.Limit(float64(rl.PerHour) / 3600)
	}
	return g
}

// Do runs fn for owner unless a rule refuses it. shared reports whether the
// result came from another caller's identical request.
//
// The run gets ctx without its cancellation so that one caller going away
// does not fail the others waiting on it. Each caller still returns early
// when its own ctx is done.
func (g *generationGuard) Do(ctx context.Context, owner, fingerprint string, fn func(context.Context) (*app.GeneratePlanResponse, error)) (resp *app.GeneratePlanResponse, shared bool, err error) {
	runCtx := context.WithoutCancel(ctx)
	ch := g.group.DoChan(owner+"\x00"+fingerprint, func() (any, error) {
		if err := g.acquire(owner); err != nil {
			return nil, err
		}
		defer g.release(owner)
		return fn(runCtx)
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		return res.Val.(*app.GeneratePlanResponse), res.Shared, nil
	}
}

func (g *generationGuard) acquire(owner string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight[owner] {
		return ErrGenerationInProgress
	}
	lim, ok := g.limiters[owner]
	if !ok {
		lim = rate.NewLimiter(g.limit, g.burst)
		g.limiters[owner] = lim
	}
	if !lim.Allow() {
		return ErrRateLimited
	}
	g.inFlight[owner] = true
	return nil
}

func (g *generationGuard) release(owner string) {
	g.mu.Lock()
	delete(g.inFlight, owner)
	g.mu.Unlock()
}
