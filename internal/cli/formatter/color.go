// Package formatter renders plans and tasks for the terminal with lipgloss.
package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// UrgencyBadge returns a short colored urgency marker. Unknown values are
// shown as given.
func UrgencyBadge(u domain.Urgency) string {
	switch u {
	case domain.UrgencyHigh:
		return StyleRed.Render("▲ high")
	case domain.UrgencyMedium:
		return StyleYellow.Render("● medium")
	case domain.UrgencyLow:
		return StyleDim.Render("▽ low")
	default:
		return StylePurple.Render("? " + string(u))
	}
}

// SectionTitle is the human heading for a plan section.
func SectionTitle(s domain.Section) string {
	switch s {
	case domain.SectionDoFirst:
		return "Do first"
	case domain.SectionThisWeek:
		return "This week"
	case domain.SectionNotThisWeek:
		return "Not this week"
	}
	return string(s)
}

// SectionStyle colors a section heading.
func SectionStyle(s domain.Section) lipgloss.Style {
	switch s {
	case domain.SectionDoFirst:
		return StyleHeader
	case domain.SectionThisWeek:
		return StyleBlue.Bold(true)
	default:
		return StyleDim.Bold(true)
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
