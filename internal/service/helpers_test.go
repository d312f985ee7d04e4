package service

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/intelligence"
	"github.com/alexanderramin/braindump/internal/repository"
	"github.com/alexanderramin/braindump/internal/scheduler"
	"github.com/alexanderramin/braindump/internal/testutil"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

// stubParser returns fixed tasks. When gate is set, Parse signals entered
// and blocks until gate is closed.
type stubParser struct {
	result  intelligence.ParseResult
	err     error
	calls   atomic.Int32
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func (p *stubParser) Parse(ctx context.Context, dump string, now time.Time) (*intelligence.ParseResult, error) {
	p.calls.Add(1)
	if p.gate != nil {
		p.once.Do(func() { close(p.entered) })
		<-p.gate
	}
	if p.err != nil {
		return nil, p.err
	}
	res := p.result
	return &res, nil
}

func newGatedParser(tasks ...domain.CandidateTask) *stubParser {
	return &stubParser{
		result:  intelligence.ParseResult{Tasks: tasks, Source: app.SourceLLM},
		entered: make(chan struct{}),
		gate:    make(chan struct{}),
	}
}

type stubEnricher struct {
	out map[string]intelligence.Enrichment
}

func (e *stubEnricher) Enrich(ctx context.Context, tasks []scheduler.ScoredTask, c domain.Constraints) (map[string]intelligence.Enrichment, error) {
	out := make(map[string]intelligence.Enrichment, len(tasks))
	for _, st := range tasks {
		if v, ok := e.out[st.Task.ID]; ok {
			out[st.Task.ID] = v
			continue
		}
		out[st.Task.ID] = intelligence.DeterministicEnrichment(st)
	}
	return out, nil
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type testEnv struct {
	db       *sql.DB
	plans    PlanService
	tasks    app.TaskUseCase
	observer *recordingObserver
}

type envOption func(*envConfig)

type envConfig struct {
	parser   intelligence.ParseService
	enricher intelligence.EnrichService
	options  OptionsSource
	limit    RateLimit
}

func withParser(p intelligence.ParseService) envOption {
	return func(c *envConfig) { c.parser = p }
}

func withEnricher(e intelligence.EnrichService) envOption {
	return func(c *envConfig) { c.enricher = e }
}

func withOptions(o scheduler.Options) envOption {
	return func(c *envConfig) { c.options = StaticOptions(o) }
}

func withRateLimit(perHour, burst int) envOption {
	return func(c *envConfig) { c.limit = RateLimit{PerHour: perHour, Burst: burst} }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	cfg := envConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	obs := &recordingObserver{}
	return &testEnv{
		db:       database,
		plans:    NewPlanService(repository.NewSQLitePlanRepo(database), uow, cfg.parser, cfg.enricher, cfg.options, cfg.limit, obs),
		tasks:    NewTaskService(uow, obs),
		observer: obs,
	}
}

func weekRequest(dump string) app.GeneratePlanRequest {
	req := app.NewGeneratePlanRequest("local", dump, domain.DefaultConstraints())
	now := testNow
	req.Now = &now
	return req
}
