package domain

import (
	"fmt"
	"strings"
	"time"
)

// Plan is a persisted, generated plan together with the constraints it was
// built under.
type Plan struct {
	ID           string
	OwnerID      string
	BrainDump    string
	Constraints  Constraints
	BudgetMin    int
	AllocatedMin int
	MaxTasks     int
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Tasks []PlanTask
}

// PlanTask is one task of a persisted plan. Section is mutually exclusive:
// a do_first task is not also stored as this_week.
type PlanTask struct {
	ID           string
	PlanID       string
	CandidateID  string
	Title        string
	DisplayTitle string
	TimeEstimate string
	Context      string
	Effort       Effort
	Urgency      Urgency
	Deadline     *time.Time
	Category     string
	EstimatedMin int
	Score        float64
	Rank         int
	Section      Section
	Status       TaskStatus
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Label returns the display title when the enricher produced one.
func (t *PlanTask) Label() string {
	return CoalesceStr(t.DisplayTitle, t.Title)
}

func (t *PlanTask) IsDone() bool {
	return t.Status == TaskDone
}

// MarkDone completes the task. Completing a done task keeps the original
// completion time.
func (t *PlanTask) MarkDone(now time.Time) error {
	if t.Status == TaskDone {
		return nil
	}
	if t.Status != TaskOpen {
		return fmt.Errorf("cannot complete task in status %s", t.Status)
	}
	t.Status = TaskDone
	t.CompletedAt = &now
	t.UpdatedAt = now
	return nil
}

// Reopen moves a done task back to open.
func (t *PlanTask) Reopen(now time.Time) error {
	if t.Status != TaskDone {
		return fmt.Errorf("cannot reopen task in status %s", t.Status)
	}
	t.Status = TaskOpen
	t.CompletedAt = nil
	t.UpdatedAt = now
	return nil
}

// MoveTo relabels the task into another section.
func (t *PlanTask) MoveTo(section Section, now time.Time) error {
	if !section.IsValid() {
		return fmt.Errorf("section %q: %w", section, ErrInvalidEnum)
	}
	if t.Section == section {
		return nil
	}
	t.Section = section
	t.UpdatedAt = now
	return nil
}

// Rename replaces the display title.
func (t *PlanTask) Rename(title string, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}
	t.DisplayTitle = title
	t.UpdatedAt = now
	return nil
}

// TasksIn returns the plan's tasks in the given section, in rank order.
func (p *Plan) TasksIn(section Section) []PlanTask {
	var out []PlanTask
	for _, t := range p.Tasks {
		if t.Section == section {
			out = append(out, t)
		}
	}
	return out
}

// SectionCounts holds per-section task totals.
type SectionCounts struct {
	DoFirst     int `json:"do_first"`
	ThisWeek    int `json:"this_week"`
	NotThisWeek int `json:"not_this_week"`
	Done        int `json:"done"`
}

func (p *Plan) Counts() SectionCounts {
	var c SectionCounts
	for _, t := range p.Tasks {
		switch t.Section {
		case SectionDoFirst:
			c.DoFirst++
		case SectionThisWeek:
			c.ThisWeek++
		case SectionNotThisWeek:
			c.NotThisWeek++
		}
		if t.IsDone() {
			c.Done++
		}
	}
	return c
}
