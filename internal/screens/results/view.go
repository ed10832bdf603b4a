package results

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/ui/components"
	"github.com/abhisek/fluentplan/internal/ui/theme"
)

const maxTextWidth = 76

func (s *ResultsScreen) View(width, height int) string {
	textWidth := min(width-4, maxTextWidth)
	lines := strings.Split(s.render(textWidth), "\n")

	s.maxOffset = max(len(lines)-height, 0)
	s.offset = min(s.offset, s.maxOffset)
	end := min(s.offset+height, len(lines))
	visible := strings.Join(lines[s.offset:end], "\n")

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, visible)
}

func (s *ResultsScreen) render(width int) string {
	b := s.bundle
	var sections []string

	if s.status != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Warning).Render("! "+s.status))
	}
	if s.sentTo != "" {
		sections = append(sections, theme.Checked.Render("✓ Your plan is on its way to "+s.sentTo+"."))
	}

	sections = append(sections,
		s.renderProfile(width),
		s.renderIntensity(),
		section("Your daily time", renderAllocation(b.Allocation, width)),
		section("Passive listening: "+b.Passive.RangeLabel, renderPassive(b.Passive, width)),
	)
	if len(b.RealityChecks) > 0 {
		sections = append(sections, section("Reality checks", renderChecks(b.RealityChecks, width)))
	}
	sections = append(sections,
		section("Recommendations", bullets(b.Recommendations, width)),
		section("Next steps", numbered(b.NextSteps, width)),
	)
	if len(b.Insights) > 0 {
		sections = append(sections, section("What we noticed", bullets(b.Insights, width)))
	}
	sections = append(sections, section("In six months: "+b.Projection.Level, renderProjection(b.Projection, width)))

	if note := s.renderNote(width); note != "" {
		sections = append(sections, note)
	}
	return strings.Join(sections, "\n\n") + "\n"
}

func section(title, body string) string {
	return theme.Heading.Render(title) + "\n" + body
}

func (s *ResultsScreen) renderProfile(width int) string {
	p := s.bundle.Profile
	accent := theme.ProfileColor(p)
	head := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(p.Icon + "  " + p.Title)
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(width - 8).Render(p.Description)
	if p.DetailedDescription != "" {
		body += "\n\n" + theme.Hint.Width(width-8).Render(p.DetailedDescription)
	}
	return theme.Card.BorderForeground(accent).Width(width).Render(head + "\n\n" + body)
}

func (s *ResultsScreen) renderIntensity() string {
	n := s.bundle.Intensity
	return fmt.Sprintf("%s  %s  %s",
		theme.Heading.Render("Intensity"),
		components.Meter(n, scoring.MaxIntensity),
		theme.Hint.Render(fmt.Sprintf("%d/%d %s", n, scoring.MaxIntensity, scoring.IntensityLabel(n))),
	)
}

func renderAllocation(a scoring.TimeAllocation, width int) string {
	rows := []struct {
		label   string
		minutes int
	}{
		{"Immersion", a.ImmersionMinutes},
		{"Study", a.StudyMinutes},
		{"Output", a.OutputMinutes},
	}
	var b strings.Builder
	for _, r := range rows {
		pct := 0.0
		if a.TotalMinutes > 0 {
			pct = float64(r.minutes) / float64(a.TotalMinutes)
		}
		bar := components.ProgressBar{
			Label:      r.label,
			LabelWidth: 10,
			Percent:    pct,
			Suffix:     scoring.FormatMinutes(r.minutes),
			Width:      width,
		}
		b.WriteString(bar.View() + "\n")
	}
	b.WriteString(theme.Hint.Render("Total " + scoring.FormatMinutes(a.TotalMinutes) + " a day"))
	return b.String()
}

func renderPassive(p scoring.PassiveTimeEstimate, width int) string {
	var b strings.Builder
	b.WriteString(theme.Body.Width(width).Render(p.Description))
	for _, a := range p.Activities {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render("• " + a))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(width - 2).PaddingLeft(2).Render(scoring.ActivityTip(a)))
	}
	return b.String()
}

func renderChecks(checks []scoring.RealityCheck, width int) string {
	out := make([]string, 0, len(checks))
	for _, c := range checks {
		head := lipgloss.NewStyle().Foreground(theme.PriorityColor(c.Priority)).Bold(true).Render(c.Kind.Icon() + " " + c.Title)
		out = append(out, head+"\n"+theme.Body.Width(width).Render(c.Message))
	}
	return strings.Join(out, "\n\n")
}

func renderProjection(p scoring.SixMonthProjection, width int) string {
	return theme.Body.Width(width).Render(p.Description) + "\n" + bullets(p.Milestones, width)
}

func (s *ResultsScreen) renderNote(width int) string {
	switch {
	case s.note != nil:
		body := theme.Body.Width(width - 8).Render(s.note.Message)
		if s.note.Message == "" {
			body = ""
		} else {
			body += "\n"
		}
		body += bullets(s.note.Focus, width-8)
		head := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(s.note.Headline)
		return theme.Card.Width(width).Render(head + "\n\n" + body)
	case s.noteStatus != "":
		return theme.Hint.Render(s.noteStatus)
	}
	return ""
}

func bullets(items []string, width int) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = theme.Body.Width(width).Render("• " + it)
	}
	return strings.Join(out, "\n")
}

func numbered(items []string, width int) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = theme.Body.Width(width).Render(fmt.Sprintf("%d. %s", i+1, it))
	}
	return strings.Join(out, "\n")
}
