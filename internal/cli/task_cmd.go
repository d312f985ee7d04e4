package cli

import (
	"context"
	"fmt"
	"strings"

	bdapp "github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/cli/formatter"
	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	var planRef string
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Edit tasks of a saved plan",
		Long: `Edit tasks of a saved plan. A task is named by its rank number as
shown by 'plan show', or by its ID or an ID prefix. Tasks are looked up in
the latest plan unless --plan is given.`,
	}
	cmd.PersistentFlags().StringVar(&planRef, "plan", "", "Plan ID or prefix (default: latest)")

	mutation := func(use, short string, nargs int, run func(ctx context.Context, taskID string, rest []string) (*domain.PlanTask, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.MinimumNArgs(nargs),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := resolveTask(cmd.Context(), app, planRef, args[0])
				if err != nil {
					return err
				}
				t, err := run(cmd.Context(), id, args[1:])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTask(bdapp.NewPlanTaskView(*t), app.now()))
				return nil
			},
		}
	}

	done := mutation("done <task>", "Mark a task done", 1, func(ctx context.Context, id string, _ []string) (*domain.PlanTask, error) {
		return app.Tasks.Complete(ctx, app.Owner, id)
	})
	reopen := mutation("reopen <task>", "Reopen a done task", 1, func(ctx context.Context, id string, _ []string) (*domain.PlanTask, error) {
		return app.Tasks.Reopen(ctx, app.Owner, id)
	})
	move := mutation("move <task> <section>", "Move a task to do_first, this_week or not_this_week", 2, func(ctx context.Context, id string, rest []string) (*domain.PlanTask, error) {
		section, err := domain.ParseSection(strings.Join(rest, " "))
		if err != nil {
			return nil, err
		}
		return app.Tasks.Move(ctx, app.Owner, id, section)
	})
	rename := mutation("rename <task> <title...>", "Change a task's display title", 2, func(ctx context.Context, id string, rest []string) (*domain.PlanTask, error) {
		return app.Tasks.Rename(ctx, app.Owner, id, strings.Join(rest, " "))
	})

	rm := &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"delete"},
		Short:   "Remove a task from its plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTask(cmd.Context(), app, planRef, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(cmd.Context(), app.Owner, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", formatter.TruncID(id))
			return nil
		},
	}

	cmd.AddCommand(done, reopen, move, rename, rm)
	return cmd
}
