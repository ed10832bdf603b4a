package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentplan/internal/router"
	"github.com/abhisek/fluentplan/internal/screen"
	"github.com/abhisek/fluentplan/internal/ui/layout"
	"github.com/abhisek/fluentplan/internal/ui/theme"
)

const (
	tickInterval = 120 * time.Millisecond
	bannerAt     = 480 * time.Millisecond
	pitchAt      = 1200 * time.Millisecond
	totalDur     = 2400 * time.Millisecond
)

// greetings cycle above the banner while the screen is idle.
var greetings = []string{"Hello", "Hola", "Bonjour", "こんにちは", "안녕하세요", "Ciao", "Hallo", "Olá", "你好", "مرحبا"}

var pitch = []string{
	"14 questions. About three minutes.",
	"Find out what kind of learner you are and get a daily plan",
	"that fits the time you actually have.",
}

type tickMsg time.Time

// WelcomeScreen shows the intro until a key is pressed.
type WelcomeScreen struct {
	quizFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with the screen built by
// quizFactory on the first key press.
func New(quizFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		quizFactory: quizFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Any key", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed = min(w.elapsed+tickInterval, totalDur)
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.quizFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	greeting := greetings[(w.tickCount/8)%len(greetings)]
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(greeting+"!"))

	if w.elapsed >= bannerAt {
		sections = append(sections, RenderBanner(width))
	}

	if w.elapsed >= pitchAt {
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Your language learning plan, built around you."))
		sections = append(sections, "")
		for _, line := range pitch {
			sections = append(sections, theme.Subtitle.Render(line))
		}
	}

	if w.elapsed >= totalDur {
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to begin"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimRight(content, "\n"))
}
