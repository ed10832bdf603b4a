package app

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentplan/internal/coach"
	"github.com/abhisek/fluentplan/internal/logging"
	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/router"
	"github.com/abhisek/fluentplan/internal/screen"
	"github.com/abhisek/fluentplan/internal/screens/questionnaire"
	"github.com/abhisek/fluentplan/internal/screens/results"
	"github.com/abhisek/fluentplan/internal/screens/welcome"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/segments"
	"github.com/abhisek/fluentplan/internal/store"
	"github.com/abhisek/fluentplan/internal/ui/layout"
)

// Options holds the services the TUI needs. Any field may be nil; the
// affected feature is then skipped.
type Options struct {
	Assessments store.AssessmentRepo
	Deliveries  store.DeliveryRepo
	Engine      *scoring.Engine
	Coach       *coach.Service
	Counter     segments.Counter
	Logger      *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	if opts.Engine == nil {
		opts.Engine = scoring.New()
	}
	opts.Logger = logging.OrDefault(opts.Logger)

	var start func() screen.Screen
	start = func() screen.Screen {
		return questionnaire.New(func(rs quiz.ResponseSet, elapsed time.Duration) screen.Screen {
			return results.New(results.Deps{
				Assessments: opts.Assessments,
				Deliveries:  opts.Deliveries,
				Engine:      opts.Engine,
				Coach:       opts.Coach,
				Counter:     opts.Counter,
				Logger:      opts.Logger,
				Restart:     start,
			}, rs, elapsed)
		})
	}

	return AppModel{
		router: router.New(welcome.New(start)),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, "rules "+scoring.RulesVersion, m.width)
	footer := layout.RenderFooter(screen.Hints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	return err
}
