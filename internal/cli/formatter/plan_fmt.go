package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/domain"
)

// FormatPlan renders a plan as three sections with a capacity summary.
func FormatPlan(p app.PlanView, now time.Time) string {
	var b strings.Builder

	b.WriteString(StylePurple.Render(fmt.Sprintf("PLAN %s", TruncID(p.ID))))
	b.WriteString(Dim(fmt.Sprintf("  %s · %s time · %s energy",
		p.Constraints.Mode, p.Constraints.TimeAvailable, p.Constraints.EnergyLevel)))
	if p.Constraints.FocusArea != "" {
		b.WriteString(Dim(" · focus " + p.Constraints.FocusArea))
	}
	b.WriteString("\n\n")

	sections := []struct {
		section domain.Section
		tasks   []app.PlanTaskView
	}{
		{domain.SectionDoFirst, p.DoFirst},
		{domain.SectionThisWeek, p.ThisWeek},
		{domain.SectionNotThisWeek, p.NotThisWeek},
	}
	for _, s := range sections {
		b.WriteString(SectionStyle(s.section).Render(fmt.Sprintf("%s (%d)", SectionTitle(s.section), len(s.tasks))))
		b.WriteString("\n")
		if len(s.tasks) == 0 {
			b.WriteString("  " + Dim("nothing here") + "\n")
		}
		for _, t := range s.tasks {
			b.WriteString(FormatTaskLine(t, now))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("%s  %s  %s",
		StyleGreen.Render("Allocated: "+FormatMinutes(p.AllocatedMin)),
		StyleDim.Render("|"),
		StyleBlue.Render(fmt.Sprintf("Budget: %s, up to %d tasks", FormatMinutes(p.BudgetMin), p.MaxTasks)),
	))
	b.WriteString("\n")
	return b.String()
}

// FormatTaskLine renders one task as a rank line plus an optional context
// line.
func FormatTaskLine(t app.PlanTaskView, now time.Time) string {
	check := "[ ]"
	title := StyleFg.Render(t.DisplayTitle)
	if t.Status == domain.TaskDone {
		check = "[x]"
		title = StyleDim.Strikethrough(true).Render(t.DisplayTitle)
	}
	parts := []string{
		fmt.Sprintf("  %s %s %s", Bold(fmt.Sprintf("%2d.", t.Rank)), check, title),
		StyleBlue.Render("(" + t.TimeEstimate + ")"),
		UrgencyBadge(t.Urgency),
	}
	if t.Deadline != nil {
		if d, err := time.Parse(time.DateOnly, *t.Deadline); err == nil {
			parts = append(parts, Dim("due ")+DeadlineStyled(d, now))
		}
	}
	if t.Category != "" {
		parts = append(parts, StylePurple.Render("#"+t.Category))
	}
	line := strings.Join(parts, "  ") + "\n"
	if t.Context != "" {
		line += "        " + Dim(t.Context) + "\n"
	}
	return line
}

// FormatGenerate renders a freshly generated plan with its rejections and
// any parse warnings.
func FormatGenerate(v app.GeneratePlanView, now time.Time) string {
	var b strings.Builder
	b.WriteString(FormatPlan(v.Plan, now))

	if len(v.Rejections) > 0 {
		b.WriteString("\n" + Header("Left out") + "\n")
		titles := map[string]string{}
		for _, t := range v.Plan.NotThisWeek {
			titles[t.CandidateID] = t.DisplayTitle
		}
		for _, r := range v.Rejections {
			label := titles[r.TaskID]
			if label == "" {
				label = r.TaskID
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", StyleYellow.Render(label+":"), Dim(r.Message)))
		}
	}
	for _, w := range v.Warnings {
		b.WriteString(StyleYellow.Render("warning: ") + Dim(w) + "\n")
	}

	footer := fmt.Sprintf("parsed: %s", v.ParseSource)
	if !v.Persisted {
		footer += " · dry run, not saved"
	}
	b.WriteString("\n" + Dim(footer) + "\n")
	return b.String()
}

// FormatPlanList renders plan summaries newest first.
func FormatPlanList(plans []app.PlanSummary, now time.Time) string {
	if len(plans) == 0 {
		return Dim("No plans yet. Run `braindump plan new`.") + "\n"
	}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			TruncID(p.ID),
			string(p.Mode),
			fmt.Sprintf("%d", p.Counts.DoFirst),
			fmt.Sprintf("%d", p.Counts.ThisWeek),
			fmt.Sprintf("%d", p.Counts.NotThisWeek),
			fmt.Sprintf("%d/%d", p.Counts.Done, p.TaskCount),
			TimestampFrom(p.CreatedAt, now),
		})
	}
	return RenderTable([]string{"ID", "MODE", "FIRST", "WEEK", "LATER", "DONE", "CREATED"}, rows)
}

// FormatTask renders the result of a task mutation.
func FormatTask(t app.PlanTaskView, now time.Time) string {
	return fmt.Sprintf("%s %s", StyleGreen.Render("✔"), strings.TrimLeft(FormatTaskLine(t, now), " "))
}
