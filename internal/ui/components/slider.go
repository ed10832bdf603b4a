package components

import (
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentplan/internal/ui/theme"
)

// Slider picks a number between Min and Max in Step increments. Left and
// right move one step; with shift they move four.
type Slider struct {
	Min, Max, Step float64
	Value          float64
	// Format renders the current value, e.g. "1h 30m".
	Format func(float64) string
}

// NewSlider creates a slider positioned at value.
func NewSlider(lo, hi, step, value float64, format func(float64) string) Slider {
	s := Slider{Min: lo, Max: hi, Step: step, Format: format}
	s.Set(value)
	return s
}

// Set moves the slider to v, snapped to the step grid and clamped.
func (s *Slider) Set(v float64) {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	s.Value = math.Min(math.Max(v, s.Min), s.Max)
}

// Update handles arrow keys.
func (s Slider) Update(msg tea.Msg) (Slider, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "left", "h":
		s.Set(s.Value - s.Step)
	case "right", "l":
		s.Set(s.Value + s.Step)
	case "shift+left", "H":
		s.Set(s.Value - 4*s.Step)
	case "shift+right", "L":
		s.Set(s.Value + 4*s.Step)
	case "home":
		s.Set(s.Min)
	case "end":
		s.Set(s.Max)
	}
	return s, nil
}

// View renders the track, the knob and the formatted value.
func (s Slider) View(width int) string {
	track := max(width-2, 10)
	pos := 0
	if s.Max > s.Min {
		pos = int(math.Round((s.Value - s.Min) / (s.Max - s.Min) * float64(track-1)))
	}

	bar := lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("━", pos)) +
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("●") +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("━", track-1-pos))

	label := ""
	if s.Format != nil {
		label = s.Format(s.Value)
	}
	value := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Accent).
		Bold(true).
		Render(label)
	return value + "\n" + bar
}
