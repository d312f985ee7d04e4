package service

import (
	"time"

	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/intelligence"
	"github.com/alexanderramin/braindump/internal/scheduler"
	"github.com/google/uuid"
)

// AssemblePlanInput carries everything the assembler stitches together.
type AssemblePlanInput struct {
	OwnerID     string
	BrainDump   string
	Constraints domain.Constraints
	Partition   scheduler.PlanPartition
	Enrichments map[string]intelligence.Enrichment
	Now         time.Time
}

// AssemblePlan turns a partition into a storable plan. Every task gets
// exactly one section label. Missing enrichments fall back to the
// deterministic ones.
func AssemblePlan(in AssemblePlanInput) *domain.Plan {
	now := in.Now.UTC()
	plan := &domain.Plan{
		ID:           uuid.New().String(),
		OwnerID:      in.OwnerID,
		BrainDump:    in.BrainDump,
		Constraints:  in.Constraints,
		BudgetMin:    in.Partition.Selection.BudgetMin,
		AllocatedMin: in.Partition.Selection.AllocatedMin,
		MaxTasks:     in.Partition.Selection.MaxTasks,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	sections := scheduler.Sections(in.Partition)
	plan.Tasks = make([]domain.PlanTask, 0, len(sections))
	for _, st := range sections {
		e, ok := in.Enrichments[st.Task.ID]
		if !ok {
			e = intelligence.DeterministicEnrichment(st.ScoredTask)
		}
		plan.Tasks = append(plan.Tasks, domain.PlanTask{
			ID:           uuid.New().String(),
			PlanID:       plan.ID,
			CandidateID:  st.Task.ID,
			Title:        st.Task.Title,
			DisplayTitle: e.DisplayTitle,
			TimeEstimate: e.TimeEstimate,
			Context:      e.Context,
			Effort:       st.Task.Effort,
			Urgency:      st.Task.Urgency,
			Deadline:     st.Task.Deadline,
			Category:     st.Task.Category,
			EstimatedMin: st.EstimatedMin,
			Score:        st.Score,
			Rank:         st.Rank,
			Section:      st.Section,
			Status:       domain.TaskOpen,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return plan
}

// rankedScored returns every task of the partition in rank order.
func rankedScored(p scheduler.PlanPartition) []scheduler.ScoredTask {
	out := make([]scheduler.ScoredTask, 0, len(p.ThisWeek)+len(p.NotThisWeek))
	out = append(out, p.ThisWeek...)
	return append(out, p.NotThisWeek...)
}
