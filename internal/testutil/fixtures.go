package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/google/uuid"
)

var testCandidateCounter atomic.Int64

// Candidate options
type CandidateOption func(*domain.CandidateTask)

func WithEffort(e domain.Effort) CandidateOption {
	return func(t *domain.CandidateTask) {
		t.Effort = e
	}
}

func WithUrgency(u domain.Urgency) CandidateOption {
	return func(t *domain.CandidateTask) {
		t.Urgency = u
	}
}

func WithDeadline(d time.Time) CandidateOption {
	return func(t *domain.CandidateTask) {
		t.Deadline = &d
	}
}

func WithCategory(c string) CandidateOption {
	return func(t *domain.CandidateTask) {
		t.Category = c
	}
}

func WithCandidateID(id string) CandidateOption {
	return func(t *domain.CandidateTask) {
		t.ID = id
	}
}

// NewTestCandidate builds a medium/medium candidate with a unique ID.
func NewTestCandidate(title string, opts ...CandidateOption) domain.CandidateTask {
	t := domain.CandidateTask{
		ID:      fmt.Sprintf("c%d", testCandidateCounter.Add(1)),
		Title:   title,
		Effort:  domain.EffortMedium,
		Urgency: domain.UrgencyMedium,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Plan options
type PlanOption func(*domain.Plan)

func WithOwner(owner string) PlanOption {
	return func(p *domain.Plan) {
		p.OwnerID = owner
	}
}

func WithConstraints(c domain.Constraints) PlanOption {
	return func(p *domain.Plan) {
		p.Constraints = c
	}
}

func WithCreatedAt(t time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.CreatedAt = t
		p.UpdatedAt = t
	}
}

func NewTestPlan(opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Plan{
		ID:          uuid.New().String(),
		OwnerID:     "local",
		BrainDump:   "pay rent\ncall mum",
		Constraints: domain.DefaultConstraints(),
		BudgetMin:   900,
		MaxTasks:    7,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanTask options
type PlanTaskOption func(*domain.PlanTask)

func WithSection(s domain.Section) PlanTaskOption {
	return func(t *domain.PlanTask) {
		t.Section = s
	}
}

func WithRank(r int) PlanTaskOption {
	return func(t *domain.PlanTask) {
		t.Rank = r
	}
}

func WithTaskStatus(s domain.TaskStatus) PlanTaskOption {
	return func(t *domain.PlanTask) {
		t.Status = s
	}
}

func WithTaskDeadline(d time.Time) PlanTaskOption {
	return func(t *domain.PlanTask) {
		t.Deadline = &d
	}
}

func NewTestPlanTask(planID, title string, opts ...PlanTaskOption) domain.PlanTask {
	now := time.Now().UTC().Truncate(time.Second)
	t := domain.PlanTask{
		ID:           uuid.New().String(),
		PlanID:       planID,
		CandidateID:  fmt.Sprintf("c%d", testCandidateCounter.Add(1)),
		Title:        title,
		DisplayTitle: title,
		TimeEstimate: "~1h 15m",
		Effort:       domain.EffortMedium,
		Urgency:      domain.UrgencyMedium,
		EstimatedMin: 75,
		Score:        60,
		Rank:         1,
		Section:      domain.SectionThisWeek,
		Status:       domain.TaskOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}
