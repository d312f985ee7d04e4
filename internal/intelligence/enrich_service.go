package intelligence

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/llm"
	"github.com/alexanderramin/braindump/internal/scheduler"
)

// EnrichService writes display titles, time estimates and context notes for
// ranked tasks. It never changes scores, ranks or sections.
type EnrichService interface {
	Enrich(ctx context.Context, tasks []scheduler.ScoredTask, c domain.Constraints) (map[string]Enrichment, error)
}

type enrichOutput struct {
	Tasks []struct {
		ID string `json:"id"`
		Enrichment
	} `json:"tasks"`
}

type enrichService struct {
	client llm.LLMClient
}

// NewEnrichService creates an EnrichService. A nil client always uses
// DeterministicEnrichment.
func NewEnrichService(client llm.LLMClient) EnrichService {
	return &enrichService{client: client}
}

// Enrich returns one entry per input task. Entries the model omits, or
// returns with unknown IDs or blank fields, are filled deterministically.
func (s *enrichService) Enrich(ctx context.Context, tasks []scheduler.ScoredTask, c domain.Constraints) (map[string]Enrichment, error) {
	out := make(map[string]Enrichment, len(tasks))
	for _, st := range tasks {
		out[st.Task.ID] = DeterministicEnrichment(st)
	}
	if s.client == nil || len(tasks) == 0 {
		return out, nil
	}

	trace := BuildPlanTrace(tasks, c)
	traceJSON, err := json.MarshalIndent(trace, "", "  ")
	if err != nil {
		return out, nil
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskEnrich,
		SystemPrompt: enrichSystemPrompt,
		UserPrompt:   "Here is the plan trace:\n\n" + string(traceJSON),
		JSON:         true,
	})
	if err != nil {
		return out, nil
	}

	parsed, err := llm.ExtractJSON[enrichOutput](resp.Text, nil)
	if err != nil {
		return out, nil
	}

	keys := trace.TraceKeys()
	for _, item := range parsed.Tasks {
		if !keys[item.ID] {
			continue
		}
		e := out[item.ID]
		if v := strings.TrimSpace(item.DisplayTitle); v != "" {
			e.DisplayTitle = v
		}
		if v := strings.TrimSpace(item.TimeEstimate); v != "" {
			e.TimeEstimate = v
		}
		if v := strings.TrimSpace(item.Context); v != "" {
			e.Context = v
		}
		out[item.ID] = e
	}
	return out, nil
}
