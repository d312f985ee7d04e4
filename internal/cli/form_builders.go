package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/braindump/internal/cli/formatter"
	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func braindumpHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// planAnswers collects what `plan new` asks for interactively.
type planAnswers struct {
	BrainDump string
	Mode      string
	Time      string
	Energy    string
	Focus     string
}

// planForm builds the interactive plan form. The brain dump field is only
// shown when askDump is set.
func planForm(a *planAnswers, askDump bool) *huh.Form {
	var groups []*huh.Group
	if askDump {
		groups = append(groups, huh.NewGroup(
			huh.NewText().
				Title("What's on your mind?").
				Description("One task per line works best.").
				Lines(8).
				Value(&a.BrainDump).
				Validate(requireText("brain dump")),
		))
	}
	groups = append(groups, huh.NewGroup(
		huh.NewSelect[string]().
			Title("Plan for").
			Options(
				huh.NewOption("Today", string(domain.ModeToday)),
				huh.NewOption("This week", string(domain.ModeWeek)),
			).
			Value(&a.Mode),
		huh.NewSelect[string]().
			Title("Time available").
			Options(
				huh.NewOption("Low", string(domain.TimeLow)),
				huh.NewOption("Medium", string(domain.TimeMedium)),
				huh.NewOption("High", string(domain.TimeHigh)),
			).
			Value(&a.Time),
		huh.NewSelect[string]().
			Title("Energy").
			Options(
				huh.NewOption("Drained", string(domain.EnergyDrained)),
				huh.NewOption("OK", string(domain.EnergyOK)),
				huh.NewOption("Fired up", string(domain.EnergyFiredUp)),
			).
			Value(&a.Energy),
		huh.NewInput().
			Title("Focus area").
			Description("Optional category to favour, e.g. work").
			Value(&a.Focus),
	))
	return huh.NewForm(groups...).WithTheme(braindumpHuhTheme()).WithShowHelp(false)
}

func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
