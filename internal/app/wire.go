package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/braindump/internal/domain"
)

// TaskInput is the JSON shape of a pre-parsed task, shared by the HTTP API,
// the CLI --tasks file and the LLM parse prompt.
type TaskInput struct {
	Title    string `json:"title"`
	Effort   string `json:"effort,omitempty"`
	Urgency  string `json:"urgency,omitempty"`
	Deadline string `json:"deadline,omitempty"`
	Category string `json:"category,omitempty"`
}

// ToCandidate converts the input into a normalised candidate. Unknown effort
// and urgency values pass through for the enum policy to judge; a malformed
// deadline is an error.
func (in TaskInput) ToCandidate(id string, loc *time.Location) (domain.CandidateTask, error) {
	deadline, err := domain.ParseDeadline(in.Deadline, loc)
	if err != nil {
		return domain.CandidateTask{}, err
	}
	return domain.CandidateTask{
		ID:       id,
		Title:    in.Title,
		Effort:   domain.EffortOf(in.Effort),
		Urgency:  domain.UrgencyOf(in.Urgency),
		Deadline: deadline,
		Category: in.Category,
	}.Normalize(), nil
}

// CandidatesFromInputs converts inputs into candidates with IDs t1..tn,
// skipping entries without a title.
func CandidatesFromInputs(inputs []TaskInput, loc *time.Location) ([]domain.CandidateTask, error) {
	out := make([]domain.CandidateTask, 0, len(inputs))
	var errs []error
	for i, in := range inputs {
		if strings.TrimSpace(in.Title) == "" {
			continue
		}
		c, err := in.ToCandidate(fmt.Sprintf("t%d", len(out)+1), loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w", i, err))
			continue
		}
		out = append(out, c)
	}
	return out, errors.Join(errs...)
}

// ConstraintsInput is the JSON shape of planning constraints.
type ConstraintsInput struct {
	TimeAvailable string `json:"time_available"`
	EnergyLevel   string `json:"energy_level"`
	FocusArea     string `json:"focus_area,omitempty"`
	Mode          string `json:"mode"`
}

// ToDomain parses every field, reporting all invalid ones at once. Empty
// fields take the defaults.
func (in ConstraintsInput) ToDomain() (domain.Constraints, error) {
	def := domain.DefaultConstraints()
	c := domain.Constraints{FocusArea: strings.TrimSpace(in.FocusArea)}
	var errs []error
	var err error

	if c.TimeAvailable, err = domain.ParseTimeAvailable(domain.CoalesceStr(in.TimeAvailable, string(def.TimeAvailable))); err != nil {
		errs = append(errs, err)
	}
	if c.EnergyLevel, err = domain.ParseEnergyLevel(domain.CoalesceStr(in.EnergyLevel, string(def.EnergyLevel))); err != nil {
		errs = append(errs, err)
	}
	if c.Mode, err = domain.ParsePlanMode(domain.CoalesceStr(in.Mode, string(def.Mode))); err != nil {
		errs = append(errs, err)
	}
	return c, errors.Join(errs...)
}

type ConstraintsView struct {
	TimeAvailable domain.TimeAvailable `json:"time_available"`
	EnergyLevel   domain.EnergyLevel   `json:"energy_level"`
	FocusArea     string               `json:"focus_area,omitempty"`
	Mode          domain.PlanMode      `json:"mode"`
}

type PlanTaskView struct {
	ID           string            `json:"id"`
	CandidateID  string            `json:"candidate_id"`
	Title        string            `json:"title"`
	DisplayTitle string            `json:"display_title"`
	TimeEstimate string            `json:"time_estimate"`
	Context      string            `json:"context,omitempty"`
	Effort       domain.Effort     `json:"effort"`
	Urgency      domain.Urgency    `json:"urgency"`
	Deadline     *string           `json:"deadline,omitempty"`
	Category     string            `json:"category,omitempty"`
	EstimatedMin int               `json:"estimated_min"`
	Score        float64           `json:"score"`
	Rank         int               `json:"rank"`
	Section      domain.Section    `json:"section"`
	Status       domain.TaskStatus `json:"status"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// PlanView is the ranked, sectioned JSON view of a plan. DoFirst, ThisWeek
// and NotThisWeek hold tasks by persisted section label.
type PlanView struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"owner_id"`
	Constraints  ConstraintsView `json:"constraints"`
	BudgetMin    int             `json:"budget_min"`
	AllocatedMin int             `json:"allocated_min"`
	MaxTasks     int             `json:"max_tasks"`
	DoFirst      []PlanTaskView  `json:"do_first"`
	ThisWeek     []PlanTaskView  `json:"this_week"`
	NotThisWeek  []PlanTaskView  `json:"not_this_week"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewPlanTaskView(t domain.PlanTask) PlanTaskView {
	v := PlanTaskView{
		ID:           t.ID,
		CandidateID:  t.CandidateID,
		Title:        t.Title,
		DisplayTitle: t.Label(),
		TimeEstimate: t.TimeEstimate,
		Context:      t.Context,
		Effort:       t.Effort,
		Urgency:      t.Urgency,
		Category:     t.Category,
		EstimatedMin: t.EstimatedMin,
		Score:        t.Score,
		Rank:         t.Rank,
		Section:      t.Section,
		Status:       t.Status,
		CompletedAt:  t.CompletedAt,
	}
	if t.Deadline != nil {
		d := t.Deadline.Format(time.DateOnly)
		v.Deadline = &d
	}
	return v
}

func NewPlanView(p *domain.Plan) PlanView {
	v := PlanView{
		ID:      p.ID,
		OwnerID: p.OwnerID,
		Constraints: ConstraintsView{
			TimeAvailable: p.Constraints.TimeAvailable,
			EnergyLevel:   p.Constraints.EnergyLevel,
			FocusArea:     p.Constraints.FocusArea,
			Mode:          p.Constraints.Mode,
		},
		BudgetMin:    p.BudgetMin,
		AllocatedMin: p.AllocatedMin,
		MaxTasks:     p.MaxTasks,
		DoFirst:      []PlanTaskView{},
		ThisWeek:     []PlanTaskView{},
		NotThisWeek:  []PlanTaskView{},
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	for _, t := range p.Tasks {
		tv := NewPlanTaskView(t)
		switch t.Section {
		case domain.SectionDoFirst:
			v.DoFirst = append(v.DoFirst, tv)
		case domain.SectionThisWeek:
			v.ThisWeek = append(v.ThisWeek, tv)
		default:
			v.NotThisWeek = append(v.NotThisWeek, tv)
		}
	}
	return v
}

// PlanSummary is a one-line listing entry.
type PlanSummary struct {
	ID        string               `json:"id"`
	Mode      domain.PlanMode      `json:"mode"`
	Counts    domain.SectionCounts `json:"counts"`
	TaskCount int                  `json:"task_count"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func NewPlanSummary(p *domain.Plan) PlanSummary {
	return PlanSummary{
		ID:        p.ID,
		Mode:      p.Constraints.Mode,
		Counts:    p.Counts(),
		TaskCount: len(p.Tasks),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// GeneratePlanView is the JSON body returned for a generate request.
type GeneratePlanView struct {
	Plan        PlanView    `json:"plan"`
	Rejections  []Rejection `json:"rejections"`
	ParseSource ParseSource `json:"parse_source"`
	Persisted   bool        `json:"persisted"`
	Warnings    []string    `json:"warnings,omitempty"`
}

func NewGeneratePlanView(resp *GeneratePlanResponse) GeneratePlanView {
	rej := resp.Rejections
	if rej == nil {
		rej = []Rejection{}
	}
	return GeneratePlanView{
		Plan:        NewPlanView(resp.Plan),
		Rejections:  rej,
		ParseSource: resp.ParseSource,
		Persisted:   resp.Persisted,
		Warnings:    resp.Warnings,
	}
}
