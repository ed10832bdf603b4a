// Package theme holds the colours and lipgloss styles shared by every
// screen.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentplan/internal/scoring"
)

// Palette. Profile cards use the profile's own colour instead of Primary.
var (
	Primary   = lipgloss.Color("#8B5CF6") // violet, brand
	Secondary = lipgloss.Color("#06B6D4") // cyan, immersion and activities
	Accent    = lipgloss.Color("#F97316") // orange, progress and status
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#FBBF24")
	Error     = lipgloss.Color("#EF4444")
	Info      = lipgloss.Color("#60A5FA")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#A1A1AA")
	BgCard    = lipgloss.Color("#1C1917")
	Border    = lipgloss.Color("#44403C")
)

// Text styles.
var (
	Title      = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle   = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Heading    = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	Body       = lipgloss.NewStyle().Foreground(Text)
	Hint       = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	ErrorText  = lipgloss.NewStyle().Foreground(Error).Bold(true)
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Checked    = lipgloss.NewStyle().Foreground(Success).Bold(true)
)

// Card frames a block of content such as the profile or the coaching note.
var Card = lipgloss.NewStyle().
	Background(BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// Bar segments of progress bars and sliders.
var (
	ProgressFilled = lipgloss.NewStyle().Background(Accent)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
)

// PriorityColor maps a reality check priority to its colour.
func PriorityColor(p scoring.Priority) color.Color {
	switch p {
	case scoring.PriorityHigh:
		return Error
	case scoring.PriorityMedium:
		return Warning
	default:
		return Info
	}
}

// ProfileColor returns the colour of a learner profile, falling back to
// Primary when the profile carries none.
func ProfileColor(p scoring.LearnerProfile) color.Color {
	if p.Color == "" {
		return Primary
	}
	return lipgloss.Color(p.Color)
}
