package httpapi

import (
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/domain"
)

type generateRequestJSON struct {
	BrainDump   string               `json:"brain_dump"`
	Tasks       []app.TaskInput      `json:"tasks,omitempty"`
	Constraints app.ConstraintsInput `json:"constraints"`
	DryRun      bool                 `json:"dry_run"`
}

type taskPatchJSON struct {
	Section *string `json:"section,omitempty"`
	Title   *string `json:"title,omitempty"`
}

type planListJSON struct {
	Plans []app.PlanSummary `json:"plans"`
}

// toRequest converts the body into a generate request. Malformed constraints
// and deadlines come back as plan errors.
func toRequest(owner string, body generateRequestJSON) (app.GeneratePlanRequest, error) {
	constraints, err := body.Constraints.ToDomain()
	if err != nil {
		return app.GeneratePlanRequest{}, &app.PlanError{Code: app.PlanErrInvalidConstraints, Message: err.Error()}
	}
	tasks, err := app.CandidatesFromInputs(body.Tasks, time.UTC)
	if err != nil {
		return app.GeneratePlanRequest{}, &app.PlanError{Code: app.PlanErrInvalidRequest, Message: err.Error()}
	}
	req := app.NewGeneratePlanRequest(owner, body.BrainDump, constraints)
	req.Tasks = tasks
	req.DryRun = body.DryRun
	return req, nil
}

func toTaskUpdate(body taskPatchJSON) (app.TaskUpdate, error) {
	upd := app.TaskUpdate{Title: body.Title}
	if body.Section != nil {
		section, err := domain.ParseSection(*body.Section)
		if err != nil {
			return app.TaskUpdate{}, &app.PlanError{Code: app.PlanErrInvalidTaskMutation, Message: err.Error()}
		}
		upd.Section = &section
	}
	return upd, nil
}
