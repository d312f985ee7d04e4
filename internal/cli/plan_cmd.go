package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	bdapp "github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/cli/formatter"
	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate and inspect plans",
	}
	cmd.AddCommand(
		newPlanNewCmd(app),
		newPlanShowCmd(app),
		newPlanListCmd(app),
		newPlanRemoveCmd(app),
	)
	return cmd
}

func newPlanNewCmd(app *App) *cobra.Command {
	mode := newEnumFlag(string(domain.ModeWeek), string(domain.ModeToday), string(domain.ModeWeek))
	timeAvail := newEnumFlag(string(domain.TimeMedium), string(domain.TimeLow), string(domain.TimeMedium), string(domain.TimeHigh))
	energy := newEnumFlag(string(domain.EnergyOK), string(domain.EnergyDrained), string(domain.EnergyOK), string(domain.EnergyFiredUp))
	var focus, file, tasksFile string
	var dryRun, asJSON bool

	cmd := &cobra.Command{
		Use:   "new [brain dump...]",
		Short: "Turn a brain dump into a ranked plan",
		Long: `Turn free text into a ranked plan that fits the time you have.

The brain dump comes from the arguments, --file (use - for stdin), or an
interactive prompt. --tasks reads pre-parsed tasks as a JSON array of
{"title","effort","urgency","deadline","category"} objects instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers := planAnswers{
				BrainDump: strings.Join(args, " "),
				Mode:      mode.String(),
				Time:      timeAvail.String(),
				Energy:    energy.String(),
				Focus:     focus,
			}
			if file != "" {
				text, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				answers.BrainDump = text
			}

			var tasks []domain.CandidateTask
			if tasksFile != "" {
				var err error
				if tasks, err = readTasksFile(cmd, tasksFile); err != nil {
					return err
				}
			}

			needDump := strings.TrimSpace(answers.BrainDump) == "" && len(tasks) == 0
			flags := cmd.Flags()
			needConstraints := !flags.Changed("mode") && !flags.Changed("time") && !flags.Changed("energy")
			switch {
			case app.interactive() && (needDump || needConstraints):
				if err := planForm(&answers, needDump).Run(); err != nil {
					return err
				}
			case needDump:
				text, err := readInput(cmd, "-")
				if err != nil {
					return err
				}
				answers.BrainDump = text
			}

			constraints, err := bdapp.ConstraintsInput{
				Mode:          answers.Mode,
				TimeAvailable: answers.Time,
				EnergyLevel:   answers.Energy,
				FocusArea:     answers.Focus,
			}.ToDomain()
			if err != nil {
				return err
			}

			now := app.now()
			req := bdapp.NewGeneratePlanRequest(app.Owner, answers.BrainDump, constraints)
			req.Tasks = tasks
			req.DryRun = dryRun
			req.Now = &now

			resp, err := app.Plans.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			view := bdapp.NewGeneratePlanView(resp)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGenerate(view, now))
			return nil
		},
	}

	cmd.Flags().Var(mode, "mode", "Plan horizon")
	cmd.Flags().Var(timeAvail, "time", "Time available")
	cmd.Flags().Var(energy, "energy", "Energy level")
	cmd.Flags().StringVar(&focus, "focus", "", "Category to favour, e.g. work")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the brain dump from a file (- for stdin)")
	cmd.Flags().StringVar(&tasksFile, "tasks", "", "Read pre-parsed tasks from a JSON file (- for stdin)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without saving it")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	cmd.MarkFlagsMutuallyExclusive("file", "tasks")

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [plan-id]",
		Short: "Show a plan (the latest when no ID is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			p, err := resolvePlan(cmd.Context(), app, ref)
			if err != nil {
				return err
			}
			view := bdapp.NewPlanView(p)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(view, app.now()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.List(cmd.Context(), app.Owner, limit)
			if err != nil {
				return err
			}
			summaries := make([]bdapp.PlanSummary, 0, len(plans))
			for _, p := range plans {
				summaries = append(summaries, bdapp.NewPlanSummary(p))
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summaries)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(summaries, app.now()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of plans")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print plans as JSON")
	return cmd
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <plan-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a plan and its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePlan(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.Delete(cmd.Context(), app.Owner, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", formatter.TruncID(p.ID))
			return nil
		},
	}
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func readTasksFile(cmd *cobra.Command, path string) ([]domain.CandidateTask, error) {
	text, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var inputs []bdapp.TaskInput
	if err := json.Unmarshal([]byte(text), &inputs); err != nil {
		return nil, fmt.Errorf("parsing tasks file: %w", err)
	}
	tasks, err := bdapp.CandidatesFromInputs(inputs, time.Local)
	if err != nil {
		return nil, fmt.Errorf("tasks file: %w", err)
	}
	return tasks, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
