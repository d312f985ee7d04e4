package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/llm"
)

// ParseResult holds the candidate tasks extracted from a brain dump.
type ParseResult struct {
	Tasks    []domain.CandidateTask
	Source   app.ParseSource
	Warnings []string
}

// ParseService turns a brain dump into candidate tasks.
type ParseService interface {
	Parse(ctx context.Context, dump string, now time.Time) (*ParseResult, error)
}

type parseOutput struct {
	Tasks []app.TaskInput `json:"tasks"`
}

type parseService struct {
	client llm.LLMClient
}

// NewParseService creates a ParseService. A nil client always uses the
// deterministic line parser.
func NewParseService(client llm.LLMClient) ParseService {
	return &parseService{client: client}
}

// Parse never fails because of the model: any LLM error or invalid output
// falls back to DeterministicParse with a warning.
func (s *parseService) Parse(ctx context.Context, dump string, now time.Time) (*ParseResult, error) {
	dump = strings.TrimSpace(dump)
	if dump == "" {
		return &ParseResult{Source: app.SourceDeterministic}, nil
	}
	if s.client == nil {
		return fallbackParse(dump, now, nil), nil
	}

	tasks, warnings, err := s.parseWithLLM(ctx, dump, now)
	if err != nil {
		return fallbackParse(dump, now, err), nil
	}
	return &ParseResult{Tasks: tasks, Source: app.SourceLLM, Warnings: warnings}, nil
}

func (s *parseService) parseWithLLM(ctx context.Context, dump string, now time.Time) ([]domain.CandidateTask, []string, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskParse,
		SystemPrompt: parseSystemPrompt,
		UserPrompt:   fmt.Sprintf("Today is %s (%s).\n\nBrain dump:\n%s", now.Format(time.DateOnly), now.Weekday(), dump),
		JSON:         true,
	})
	if err != nil {
		return nil, nil, err
	}

	out, err := llm.ExtractJSON(resp.Text, validateParseOutput)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	inputs := out.Tasks
	if len(inputs) > MaxParsedTasks {
		warnings = append(warnings, fmt.Sprintf("kept the first %d of %d extracted tasks", MaxParsedTasks, len(inputs)))
		inputs = inputs[:MaxParsedTasks]
	}
	for i := range inputs {
		if _, err := domain.ParseDeadline(inputs[i].Deadline, now.Location()); err != nil {
			warnings = append(warnings, fmt.Sprintf("dropped deadline of %q: %v", inputs[i].Title, err))
			inputs[i].Deadline = ""
		}
	}
	tasks, err := app.CandidatesFromInputs(inputs, now.Location())
	if err != nil {
		return nil, nil, err
	}
	if len(tasks) == 0 {
		return nil, nil, fmt.Errorf("%w: no usable tasks", llm.ErrInvalidOutput)
	}
	return tasks, warnings, nil
}

func validateParseOutput(out parseOutput) error {
	for _, t := range out.Tasks {
		if strings.TrimSpace(t.Title) != "" {
			return nil
		}
	}
	return errors.New("no task with a title")
}

func fallbackParse(dump string, now time.Time, cause error) *ParseResult {
	res := &ParseResult{
		Tasks:  DeterministicParse(dump, now),
		Source: app.SourceDeterministic,
	}
	if cause != nil {
		res.Warnings = append(res.Warnings, "task extraction model failed ("+cause.Error()+"); used line-based parsing")
	}
	return res
}
