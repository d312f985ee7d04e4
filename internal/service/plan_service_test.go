package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/intelligence"
	"github.com/alexanderramin/braindump/internal/repository"
	"github.com/alexanderramin/braindump/internal/scheduler"
	"github.com/alexanderramin/braindump/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePlanError(t *testing.T, err error, code app.PlanErrorCode) {
	t.Helper()
	pe, ok := app.AsPlanError(err)
	require.True(t, ok, "expected a PlanError, got %v", err)
	assert.Equal(t, code, pe.Code)
}

func TestGenerate_PersistsDeterministicPlan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.plans.Generate(ctx, weekRequest("- pay rent tomorrow\n- clean the garage someday"))

	require.NoError(t, err)
	assert.True(t, resp.Persisted)
	assert.Equal(t, app.SourceDeterministic, resp.ParseSource)
	assert.Empty(t, resp.Rejections)

	p := resp.Plan
	require.Len(t, p.Tasks, 2)
	assert.Equal(t, "Pay rent tomorrow", p.Tasks[0].Title)
	assert.Equal(t, domain.SectionDoFirst, p.Tasks[0].Section)
	assert.Equal(t, domain.SectionThisWeek, p.Tasks[1].Section)
	assert.Equal(t, 1, p.Tasks[0].Rank)
	assert.Equal(t, 2, p.Tasks[1].Rank)
	assert.Equal(t, 900, p.BudgetMin)
	assert.Equal(t, 7, p.MaxTasks)
	assert.Equal(t, 25+75, p.AllocatedMin)
	assert.Equal(t, "~25 min", p.Tasks[0].TimeEstimate)

	stored, err := env.plans.Get(ctx, "local", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Counts(), stored.Counts())
	assert.Equal(t, p.Tasks[0].ID, stored.Tasks[0].ID)
	assert.True(t, testNow.Equal(stored.CreatedAt))
}

func TestGenerate_DryRunSkipsPersistence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := weekRequest("pay rent")
	req.DryRun = true

	resp, err := env.plans.Generate(ctx, req)

	require.NoError(t, err)
	assert.False(t, resp.Persisted)
	require.Len(t, resp.Plan.Tasks, 1)
	plans, err := env.plans.List(ctx, "local", 0)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestGenerate_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bad := weekRequest("pay rent")
	bad.Constraints.Mode = "month"
	_, err := env.plans.Generate(ctx, bad)
	requirePlanError(t, err, app.PlanErrInvalidConstraints)

	_, err = env.plans.Generate(ctx, weekRequest("  \n\t "))
	requirePlanError(t, err, app.PlanErrEmptyBrainDump)

	_, err = env.plans.Generate(ctx, weekRequest("Groceries:\n\n"))
	requirePlanError(t, err, app.PlanErrNoTasksParsed)

	assert.False(t, env.observer.last().Success)
	assert.Equal(t, "generate-plan", env.observer.last().Name)
}

func TestGenerate_ProvidedTasksSkipParser(t *testing.T) {
	parser := &stubParser{}
	env := newTestEnv(t, withParser(parser))
	req := weekRequest("")
	req.Tasks = []domain.CandidateTask{
		{Title: "  book dentist  ", Effort: domain.EffortSmall},
		{Title: ""},
		{ID: "keep", Title: "file taxes", Urgency: domain.UrgencyHigh},
	}

	resp, err := env.plans.Generate(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, app.SourceProvided, resp.ParseSource)
	assert.Zero(t, parser.calls.Load())
	require.Len(t, resp.Plan.Tasks, 2)
	ids := map[string]string{}
	for _, pt := range resp.Plan.Tasks {
		ids[pt.Title] = pt.CandidateID
	}
	assert.Equal(t, "t1", ids["book dentist"])
	assert.Equal(t, "keep", ids["file taxes"])
}

func TestGenerate_ProvidedTaskIDsStayUnique(t *testing.T) {
	env := newTestEnv(t)
	req := weekRequest("")
	req.DryRun = true
	req.Tasks = []domain.CandidateTask{
		{ID: "t2", Title: "pay rent"},
		{Title: "call mum"},
		{ID: "t2", Title: "water plants"},
	}

	resp, err := env.plans.Generate(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, resp.Plan.Tasks, 3)
	seen := map[string]bool{}
	for _, pt := range resp.Plan.Tasks {
		assert.False(t, seen[pt.CandidateID], "candidate id %s used twice", pt.CandidateID)
		seen[pt.CandidateID] = true
		assert.Equal(t, pt.Title, pt.DisplayTitle)
	}
	assert.True(t, seen["t2"])
}

func TestGenerate_OversizedTasksAllRejected(t *testing.T) {
	env := newTestEnv(t)
	req := weekRequest("")
	req.Constraints = domain.Constraints{Mode: domain.ModeToday, TimeAvailable: domain.TimeLow, EnergyLevel: domain.EnergyOK}
	for i := 0; i < 5; i++ {
		req.Tasks = append(req.Tasks, testutil.NewTestCandidate("big",
			testutil.WithEffort(domain.EffortLarge), testutil.WithUrgency(domain.UrgencyHigh)))
	}

	resp, err := env.plans.Generate(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, resp.Rejections, 5)
	for _, r := range resp.Rejections {
		assert.Equal(t, app.RejectBudgetExceeded, r.Code)
	}
	c := resp.Plan.Counts()
	assert.Equal(t, 0, c.DoFirst)
	assert.Equal(t, 0, c.ThisWeek)
	assert.Equal(t, 5, c.NotThisWeek)
	assert.Zero(t, resp.Plan.AllocatedMin)
}

func TestGenerate_StrictPolicyRejectsUnknownValues(t *testing.T) {
	opts := scheduler.DefaultOptions()
	opts.EnumPolicy = scheduler.EnumStrict
	env := newTestEnv(t, withOptions(opts))
	req := weekRequest("")
	req.Tasks = []domain.CandidateTask{{Title: "odd", Effort: "huge"}}

	_, err := env.plans.Generate(context.Background(), req)

	requirePlanError(t, err, app.PlanErrUnrecognizedValues)
	assert.ErrorContains(t, err, "huge")
}

func TestGenerate_LenientPolicyKeepsUnknownValues(t *testing.T) {
	env := newTestEnv(t)
	req := weekRequest("")
	req.Tasks = []domain.CandidateTask{{Title: "odd", Effort: "huge"}}

	resp, err := env.plans.Generate(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, resp.Plan.Tasks, 1)
	assert.Equal(t, domain.Effort("huge"), resp.Plan.Tasks[0].Effort)
	assert.Equal(t, 60, resp.Plan.Tasks[0].EstimatedMin)
}

func TestGenerate_UsesEnrichment(t *testing.T) {
	parser := &stubParser{result: intelligence.ParseResult{
		Tasks:    []domain.CandidateTask{testutil.NewTestCandidate("pay rent", testutil.WithCandidateID("t1"))},
		Source:   app.SourceLLM,
		Warnings: []string{"note"},
	}}
	enricher := &stubEnricher{out: map[string]intelligence.Enrichment{
		"t1": {DisplayTitle: "Pay March rent", TimeEstimate: "~10 min", Context: "Landlord reminder"},
	}}
	env := newTestEnv(t, withParser(parser), withEnricher(enricher))

	resp, err := env.plans.Generate(context.Background(), weekRequest("rent"))

	require.NoError(t, err)
	assert.Equal(t, app.SourceLLM, resp.ParseSource)
	assert.Equal(t, []string{"note"}, resp.Warnings)
	task := resp.Plan.Tasks[0]
	assert.Equal(t, "pay rent", task.Title)
	assert.Equal(t, "Pay March rent", task.Label())
	assert.Equal(t, "~10 min", task.TimeEstimate)
	assert.Equal(t, "Landlord reminder", task.Context)
}

func TestGenerate_ParserErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	env := newTestEnv(t, withParser(&stubParser{err: boom}))

	_, err := env.plans.Generate(context.Background(), weekRequest("rent"))
	assert.ErrorIs(t, err, boom)
}

func TestGenerate_RollsBackOnSaveFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	injected := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: injected}
	svc := NewPlanService(repository.NewSQLitePlanRepo(database), uow, nil, nil, nil, RateLimit{})

	_, err := svc.Generate(context.Background(), weekRequest("pay rent\ncall mum\nbuy milk"))
	require.ErrorIs(t, err, injected)

	plans, err := svc.List(context.Background(), "local", 0)
	require.NoError(t, err)
	assert.Empty(t, plans)
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM plan_tasks`).Scan(&n))
	assert.Zero(t, n)
}

func TestGenerate_RateLimitedPerOwner(t *testing.T) {
	env := newTestEnv(t, withRateLimit(1, 1))
	ctx := context.Background()

	_, err := env.plans.Generate(ctx, weekRequest("pay rent"))
	require.NoError(t, err)

	_, err = env.plans.Generate(ctx, weekRequest("call mum"))
	assert.ErrorIs(t, err, ErrRateLimited)

	other := weekRequest("call mum")
	other.OwnerID = "someone-else"
	_, err = env.plans.Generate(ctx, other)
	assert.NoError(t, err, "limits are per owner")
}

func TestGenerate_ConcurrentRequestsPerOwner(t *testing.T) {
	parser := newGatedParser(testutil.NewTestCandidate("pay rent"))
	env := newTestEnv(t, withParser(parser))
	ctx := context.Background()

	type result struct {
		resp *app.GeneratePlanResponse
		err  error
	}
	results := make(chan result, 2)
	var wg sync.WaitGroup
	run := func() {
		defer wg.Done()
		resp, err := env.plans.Generate(ctx, weekRequest("rent"))
		results <- result{resp, err}
	}

	wg.Add(1)
	go run()
	<-parser.entered

	_, err := env.plans.Generate(ctx, weekRequest("something different"))
	assert.ErrorIs(t, err, ErrGenerationInProgress)

	wg.Add(1)
	go run()
	// Let the duplicate join the running flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(parser.gate)
	wg.Wait()
	close(results)

	var ids []string
	for r := range results {
		require.NoError(t, r.err)
		ids = append(ids, r.resp.Plan.ID)
	}
	require.Len(t, ids, 2)
	assert.Equal(t, ids[0], ids[1], "identical requests share one plan")
	assert.Equal(t, int32(1), parser.calls.Load())

	plans, err := env.plans.List(ctx, "local", 0)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestGenerate_SharedRunSurvivesFirstCallerCancelling(t *testing.T) {
	parser := newGatedParser(testutil.NewTestCandidate("pay rent"))
	env := newTestEnv(t, withParser(parser))

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := env.plans.Generate(firstCtx, weekRequest("rent"))
		firstErr <- err
	}()
	<-parser.entered

	type result struct {
		resp *app.GeneratePlanResponse
		err  error
	}
	second := make(chan result, 1)
	go func() {
		resp, err := env.plans.Generate(context.Background(), weekRequest("rent"))
		second <- result{resp, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(parser.gate)
	r := <-second
	require.NoError(t, r.err)
	assert.True(t, r.resp.Persisted)

	stored, err := env.plans.Get(context.Background(), "local", r.resp.Plan.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Tasks, 1)
	assert.Equal(t, int32(1), parser.calls.Load())
}

func TestPlanQueries_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.plans.Generate(ctx, weekRequest("pay rent"))
	require.NoError(t, err)
	later := weekRequest("call mum")
	next := testNow.Add(time.Second)
	later.Now = &next
	second, err := env.plans.Generate(ctx, later)
	require.NoError(t, err)

	latest, err := env.plans.Latest(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, second.Plan.ID, latest.ID)

	list, err := env.plans.List(ctx, "local", 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.Plan.ID, list[0].ID)
	assert.Len(t, list[0].Tasks, 1, "listed plans carry tasks for counts")

	_, err = env.plans.Get(ctx, "intruder", first.Plan.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, env.plans.Delete(ctx, "intruder", first.Plan.ID), repository.ErrNotFound)

	require.NoError(t, env.plans.Delete(ctx, "local", first.Plan.ID))
	_, err = env.plans.Get(ctx, "local", first.Plan.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.plans.Latest(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
