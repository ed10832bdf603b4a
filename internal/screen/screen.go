// Package screen defines what the router needs from a TUI screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fluentplan/internal/ui/layout"
)

// Screen is one page of the TUI: welcome, questionnaire, results or email.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area only; the app draws header and footer.
	View(width, height int) string

	// Title is shown in the header. It may change as the screen advances,
	// such as "Question 3 of 14".
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// DefaultHints are shown for screens without a KeyHintProvider.
var DefaultHints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}

// Hints returns the footer hints of s.
func Hints(s Screen) []layout.KeyHint {
	if p, ok := s.(KeyHintProvider); ok {
		return p.KeyHints()
	}
	return DefaultHints
}
