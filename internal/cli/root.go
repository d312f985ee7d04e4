// Package cli implements the braindump command tree.
package cli

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/config"
	"github.com/alexanderramin/braindump/internal/scheduler"
	"github.com/alexanderramin/braindump/internal/service"
	"github.com/spf13/cobra"
)

// DefaultOwner is the owner the CLI acts as unless --owner is given.
const DefaultOwner = "local"

// App holds the use cases and settings CLI commands run against.
type App struct {
	Plans service.PlanService
	Tasks app.TaskUseCase

	Env    config.Env
	Store  *config.Store
	Base   scheduler.Options // engine options before the config file
	Logger *slog.Logger

	// Owner is bound to the --owner persistent flag.
	Owner string

	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// NewRootCmd creates the top-level "braindump" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "braindump",
		Short:         "Turn a brain dump into a ranked, capacity-checked plan",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.Owner, "owner", DefaultOwner, "Act as this plan owner")

	root.AddCommand(
		newPlanCmd(app),
		newTaskCmd(app),
		newBoardCmd(app),
		newServeCmd(app),
		newTokenCmd(app),
		newConfigCmd(app),
	)
	return root
}
