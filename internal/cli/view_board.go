package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/braindump/internal/cli/formatter"
	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type boardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Move   key.Binding
	Delete key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "toggle done")),
		Move:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "next section")),
		Delete: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Move, k.Delete, k.Reload, k.Quit}
}

// planLoadedMsg carries a freshly loaded plan.
type planLoadedMsg struct {
	plan *domain.Plan
	err  error
}

// taskChangedMsg reports the outcome of a mutation started from the board.
type taskChangedMsg struct {
	status string
	err    error
}

// boardModel is an interactive view of one plan, grouped by section, that
// completes, moves and removes tasks in place.
type boardModel struct {
	app     *App
	planRef string
	keys    boardKeyMap

	plan     *domain.Plan
	planID   string
	rows     []domain.PlanTask
	cursor   int
	cursorID string
	loading  bool
	status   string
	err      error
	width    int
}

func newBoardModel(app *App, planRef string) *boardModel {
	return &boardModel{
		app:     app,
		planRef: planRef,
		keys:    defaultBoardKeys(),
		loading: true,
	}
}

func (m *boardModel) Init() tea.Cmd {
	return m.load()
}

func (m *boardModel) load() tea.Cmd {
	app, ref := m.app, m.planRef
	if m.planID != "" {
		ref = m.planID
	}
	return func() tea.Msg {
		p, err := resolvePlan(context.Background(), app, ref)
		return planLoadedMsg{plan: p, err: err}
	}
}

// nextSection cycles do_first → this_week → not_this_week → do_first.
func nextSection(s domain.Section) domain.Section {
	for i, cur := range domain.SectionOrder {
		if cur == s {
			return domain.SectionOrder[(i+1)%len(domain.SectionOrder)]
		}
	}
	return domain.SectionThisWeek
}

func (m *boardModel) mutate(run func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		status, err := run(context.Background())
		return taskChangedMsg{status: status, err: err}
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case planLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setPlan(msg.plan)
		return m, nil

	case taskChangedMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Reload):
			m.loading = true
			return m, m.load()
		case key.Matches(msg, m.keys.Toggle):
			if t, ok := m.current(); ok {
				return m, m.toggle(t)
			}
		case key.Matches(msg, m.keys.Move):
			if t, ok := m.current(); ok {
				to := nextSection(t.Section)
				app := m.app
				return m, m.mutate(func(ctx context.Context) (string, error) {
					_, err := app.Tasks.Move(ctx, app.Owner, t.ID, to)
					return fmt.Sprintf("Moved %q to %s", t.Label(), formatter.SectionTitle(to)), err
				})
			}
		case key.Matches(msg, m.keys.Delete):
			if t, ok := m.current(); ok {
				app := m.app
				return m, m.mutate(func(ctx context.Context) (string, error) {
					return fmt.Sprintf("Removed %q", t.Label()), app.Tasks.Delete(ctx, app.Owner, t.ID)
				})
			}
		}
		if t, ok := m.current(); ok {
			m.cursorID = t.ID
		}
	}
	return m, nil
}

func (m *boardModel) toggle(t domain.PlanTask) tea.Cmd {
	app := m.app
	return m.mutate(func(ctx context.Context) (string, error) {
		if t.IsDone() {
			_, err := app.Tasks.Reopen(ctx, app.Owner, t.ID)
			return fmt.Sprintf("Reopened %q", t.Label()), err
		}
		_, err := app.Tasks.Complete(ctx, app.Owner, t.ID)
		return fmt.Sprintf("Done: %q", t.Label()), err
	})
}

// setPlan flattens the plan in section order and keeps the cursor on the
// same task when it still exists.
func (m *boardModel) setPlan(p *domain.Plan) {
	m.plan = p
	m.planID = p.ID
	m.rows = m.rows[:0]
	for _, s := range domain.SectionOrder {
		m.rows = append(m.rows, p.TasksIn(s)...)
	}
	for i, t := range m.rows {
		if t.ID == m.cursorID {
			m.cursor = i
			return
		}
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	if t, ok := m.current(); ok {
		m.cursorID = t.ID
	}
}

func (m *boardModel) current() (domain.PlanTask, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return domain.PlanTask{}, false
	}
	return m.rows[m.cursor], true
}

var cursorStyle = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)

func (m *boardModel) View() string {
	if m.err != nil {
		return formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n\n" + formatter.Dim("q quit") + "\n"
	}
	if m.plan == nil {
		return formatter.Dim("Loading plan...") + "\n"
	}

	var b strings.Builder
	b.WriteString(formatter.StylePurple.Render("PLAN " + formatter.TruncID(m.plan.ID)))
	b.WriteString(formatter.Dim(fmt.Sprintf("  %s · %s allocated of %s",
		m.plan.Constraints.Mode,
		formatter.FormatMinutes(m.plan.AllocatedMin),
		formatter.FormatMinutes(m.plan.BudgetMin))))
	if m.loading {
		b.WriteString(formatter.Dim("  refreshing"))
	}
	b.WriteString("\n\n")

	i := 0
	for _, s := range domain.SectionOrder {
		tasks := m.plan.TasksIn(s)
		b.WriteString(formatter.SectionStyle(s).Render(fmt.Sprintf("%s (%d)", formatter.SectionTitle(s), len(tasks))))
		b.WriteString("\n")
		for _, t := range tasks {
			b.WriteString(m.renderRow(t, i == m.cursor))
			i++
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(formatter.StyleYellow.Render(m.status) + "\n")
	}
	help := make([]string, 0, len(m.keys.help()))
	for _, k := range m.keys.help() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(formatter.Dim(strings.Join(help, " · ")) + "\n")
	return b.String()
}

func (m *boardModel) renderRow(t domain.PlanTask, selected bool) string {
	pointer := "  "
	if selected {
		pointer = cursorStyle.Render(">") + " "
	}
	check := "[ ]"
	title := formatter.StyleFg.Render(t.Label())
	if t.IsDone() {
		check = "[x]"
		title = formatter.StyleDim.Strikethrough(true).Render(t.Label())
	}
	line := fmt.Sprintf("%s%s %s %s", pointer, check, title, formatter.Dim(t.TimeEstimate))
	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line + "\n"
}
