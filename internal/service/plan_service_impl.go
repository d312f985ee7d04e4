package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/db"
	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/intelligence"
	"github.com/alexanderramin/braindump/internal/repository"
	"github.com/alexanderramin/braindump/internal/scheduler"
)

// DefaultListLimit applies when List is called without a positive limit.
const DefaultListLimit = 20

type planService struct {
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	parser   intelligence.ParseService
	enricher intelligence.EnrichService
	options  OptionsSource
	guard    *generationGuard
	observer UseCaseObserver
}

// PlanService is the full plan use-case surface.
type PlanService interface {
	app.GeneratePlanUseCase
	app.PlanQueryUseCase
	app.DeletePlanUseCase
}

func NewPlanService(
	plans repository.PlanRepo,
	uow db.UnitOfWork,
	parser intelligence.ParseService,
	enricher intelligence.EnrichService,
	options OptionsSource,
	limit RateLimit,
	observers ...UseCaseObserver,
) PlanService {
	if parser == nil {
		parser = intelligence.NewParseService(nil)
	}
	if enricher == nil {
		enricher = intelligence.NewEnrichService(nil)
	}
	if options == nil {
		options = StaticOptions(scheduler.DefaultOptions())
	}
	return &planService{
		plans:    plans,
		uow:      uow,
		parser:   parser,
		enricher: enricher,
		options:  options,
		guard:    newGenerationGuard(limit),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Generate(ctx context.Context, req app.GeneratePlanRequest) (resp *app.GeneratePlanResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"mode":    string(req.Constraints.Mode),
		"dry_run": req.DryRun,
	}
	defer func() { observe(ctx, s.observer, "generate-plan", req.OwnerID, startedAt, fields, &err) }()

	if err = req.Constraints.Validate(); err != nil {
		return nil, &app.PlanError{Code: app.PlanErrInvalidConstraints, Message: err.Error()}
	}
	if len(req.Tasks) == 0 && strings.TrimSpace(req.BrainDump) == "" {
		return nil, &app.PlanError{Code: app.PlanErrEmptyBrainDump, Message: "brain dump is empty"}
	}

	var shared bool
	resp, shared, err = s.guard.Do(ctx, req.OwnerID, fingerprint(req), func(ctx context.Context) (*app.GeneratePlanResponse, error) {
		return s.generate(ctx, req)
	})
	fields["shared"] = shared
	if resp != nil {
		fields["parse_source"] = string(resp.ParseSource)
		fields["task_count"] = len(resp.Plan.Tasks)
		fields["persisted"] = resp.Persisted
	}
	return resp, err
}

func (s *planService) generate(ctx context.Context, req app.GeneratePlanRequest) (*app.GeneratePlanResponse, error) {
	now := time.Now().UTC()
	if req.Now != nil {
		now = *req.Now
	}

	resp := &app.GeneratePlanResponse{}
	var tasks []domain.CandidateTask
	if len(req.Tasks) > 0 {
		tasks = providedTasks(req.Tasks)
		resp.ParseSource = app.SourceProvided
	} else {
		parsed, err := s.parser.Parse(ctx, req.BrainDump, now)
		if err != nil {
			return nil, fmt.Errorf("parsing brain dump: %w", err)
		}
		tasks = parsed.Tasks
		resp.ParseSource = parsed.Source
		resp.Warnings = append(resp.Warnings, parsed.Warnings...)
	}
	if len(tasks) == 0 {
		return nil, &app.PlanError{Code: app.PlanErrNoTasksParsed, Message: "no tasks could be extracted from the brain dump"}
	}

	opts := s.options.Options()
	if err := scheduler.CheckTasks(tasks, opts.EnumPolicy); err != nil {
		return nil, &app.PlanError{Code: app.PlanErrUnrecognizedValues, Message: err.Error()}
	}

	partition := scheduler.SelectAndPartition(tasks, req.Constraints, now, opts)
	enrichments, err := s.enricher.Enrich(ctx, rankedScored(partition), req.Constraints)
	if err != nil {
		return nil, fmt.Errorf("enriching plan: %w", err)
	}

	resp.Plan = AssemblePlan(AssemblePlanInput{
		OwnerID:     req.OwnerID,
		BrainDump:   req.BrainDump,
		Constraints: req.Constraints,
		Partition:   partition,
		Enrichments: enrichments,
		Now:         now,
	})
	resp.Rejections = partition.Selection.Rejections

	if req.DryRun {
		return resp, nil
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLitePlanRepo(tx).Create(ctx, resp.Plan); err != nil {
			return err
		}
		return repository.NewSQLitePlanTaskRepo(tx).CreateBatch(ctx, resp.Plan.Tasks)
	})
	if err != nil {
		return nil, fmt.Errorf("saving plan: %w", err)
	}
	resp.Persisted = true
	return resp, nil
}

// providedTasks normalises caller-supplied tasks, drops untitled ones and
// fills in missing IDs.
func providedTasks(in []domain.CandidateTask) []domain.CandidateTask {
	out := make([]domain.CandidateTask, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = t.Normalize()
		if t.Title == "" {
			continue
		}
		if t.ID == "" || seen[t.ID] {
			t.ID = freeTaskID(seen, len(out)+1)
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// freeTaskID returns the first of t<n>, t<n+1>, ... not yet in seen.
func freeTaskID(seen map[string]bool, n int) string {
	for ; ; n++ {
		if id := fmt.Sprintf("t%d", n); !seen[id] {
			return id
		}
	}
}

// fingerprint identifies a request for duplicate suppression.
func fingerprint(req app.GeneratePlanRequest) string {
	data, _ := json.Marshal(struct {
		BrainDump   string
		Tasks       []domain.CandidateTask
		Constraints domain.Constraints
		DryRun      bool
	}{req.BrainDump, req.Tasks, req.Constraints, req.DryRun})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *planService) Get(ctx context.Context, ownerID, planID string) (p *domain.Plan, err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "get-plan", ownerID, startedAt, map[string]any{"plan": planID}, &err) }()

	p, err = s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, fmt.Errorf("plan: %w", repository.ErrNotFound)
	}
	return p, nil
}

func (s *planService) List(ctx context.Context, ownerID string, limit int) (plans []*domain.Plan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "list-plans", ownerID, startedAt, fields, &err) }()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	plans, err = s.plans.ListWithTasks(ctx, ownerID, limit)
	fields["count"] = len(plans)
	return plans, err
}

func (s *planService) Latest(ctx context.Context, ownerID string) (p *domain.Plan, err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "latest-plan", ownerID, startedAt, nil, &err) }()

	return s.plans.LatestByOwner(ctx, ownerID)
}

func (s *planService) Delete(ctx context.Context, ownerID, planID string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "delete-plan", ownerID, startedAt, map[string]any{"plan": planID}, &err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		owner, err := plans.OwnerOf(ctx, planID)
		if err != nil {
			return err
		}
		if owner != ownerID {
			return fmt.Errorf("plan: %w", repository.ErrNotFound)
		}
		return plans.Delete(ctx, planID)
	})
}
