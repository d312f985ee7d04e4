package intelligence

import (
	"time"

	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/scheduler"
)

// PlanTrace is a flattened, JSON-serializable view of the engine output.
// It is the only context the enrichment model sees.
type PlanTrace struct {
	Mode        string          `json:"mode"`
	EnergyLevel string          `json:"energy_level"`
	FocusArea   string          `json:"focus_area,omitempty"`
	Tasks       []TaskTraceItem `json:"tasks"`
}

// TaskTraceItem captures one scored task with its reasons.
type TaskTraceItem struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Effort       string            `json:"effort"`
	Urgency      string            `json:"urgency"`
	Deadline     *string           `json:"deadline,omitempty"`
	Category     string            `json:"category,omitempty"`
	EstimatedMin int               `json:"estimated_min"`
	Score        float64           `json:"score"`
	Reasons      []ReasonTraceItem `json:"reasons"`
}

type ReasonTraceItem struct {
	Code        string  `json:"code"`
	Message     string  `json:"message"`
	WeightDelta float64 `json:"weight_delta"`
}

func BuildPlanTrace(tasks []scheduler.ScoredTask, c domain.Constraints) PlanTrace {
	trace := PlanTrace{
		Mode:        string(c.Mode),
		EnergyLevel: string(c.EnergyLevel),
		FocusArea:   c.FocusArea,
		Tasks:       make([]TaskTraceItem, 0, len(tasks)),
	}
	for _, st := range tasks {
		item := TaskTraceItem{
			ID:           st.Task.ID,
			Title:        st.Task.Title,
			Effort:       string(st.Task.Effort),
			Urgency:      string(st.Task.Urgency),
			Category:     st.Task.Category,
			EstimatedMin: st.EstimatedMin,
			Score:        st.Score,
		}
		if st.Task.Deadline != nil {
			d := st.Task.Deadline.Format(time.DateOnly)
			item.Deadline = &d
		}
		for _, r := range st.Reasons {
			item.Reasons = append(item.Reasons, ReasonTraceItem{
				Code:        string(r.Code),
				Message:     r.Message,
				WeightDelta: r.WeightDelta,
			})
		}
		trace.Tasks = append(trace.Tasks, item)
	}
	return trace
}

// TraceKeys returns the set of task IDs the model may refer to.
func (t PlanTrace) TraceKeys() map[string]bool {
	keys := make(map[string]bool, len(t.Tasks))
	for _, item := range t.Tasks {
		keys[item.ID] = true
	}
	return keys
}
