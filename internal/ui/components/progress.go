package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentplan/internal/ui/theme"
)

// ProgressBar displays a horizontal bar with an optional label and suffix.
type ProgressBar struct {
	Label string
	// LabelWidth pads the label so stacked bars line up. Zero means no
	// padding.
	LabelWidth int
	Percent    float64
	// Suffix replaces the percentage shown after the bar when set.
	Suffix      string
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var b strings.Builder

	if p.Label != "" {
		label := p.Label
		if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  ")
	}

	suffix := p.Suffix
	if suffix == "" && p.ShowPercent {
		suffix = fmt.Sprintf("%d%%", int(p.Percent*100))
	}
	if suffix != "" {
		suffix = "  " + suffix
	}

	barWidth := max(p.Width-lipgloss.Width(b.String())-lipgloss.Width(suffix), 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)))
	if suffix != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	}
	return b.String()
}

// Meter renders level out of total as a row of filled and hollow blocks,
// e.g. the 1-9 intensity scale.
func Meter(level, total int) string {
	level = min(max(level, 0), total)
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(strings.Repeat("■", level)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("□", total-level))
}
