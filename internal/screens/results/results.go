package results

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fluentplan/internal/coach"
	"github.com/abhisek/fluentplan/internal/logging"
	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/router"
	"github.com/abhisek/fluentplan/internal/screen"
	"github.com/abhisek/fluentplan/internal/screens/email"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/segments"
	"github.com/abhisek/fluentplan/internal/store"
	"github.com/abhisek/fluentplan/internal/ui/layout"
)

const (
	saveTimeout  = 10 * time.Second
	coachTimeout = 45 * time.Second
)

// Deps are the services the results screen talks to. Every field may be
// nil; the screen then skips the step that needs it.
type Deps struct {
	Assessments store.AssessmentRepo
	Deliveries  store.DeliveryRepo
	Engine      *scoring.Engine
	Coach       *coach.Service
	Counter     segments.Counter
	Logger      *slog.Logger

	// Restart builds the first screen of a new assessment.
	Restart func() screen.Screen
}

type savedMsg struct {
	rec *store.Record
	err error
}

type noteMsg struct {
	note *coach.Note
	err  error
}

// ResultsScreen shows the evaluation of a finished questionnaire.
type ResultsScreen struct {
	deps    Deps
	logger  *slog.Logger
	rs      quiz.ResponseSet
	elapsed time.Duration
	bundle  scoring.ResultBundle

	rec        *store.Record
	saving     bool
	status     string
	sentTo     string
	note       *coach.Note
	noteStatus string

	offset    int
	maxOffset int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New evaluates rs. Saving and the coaching note run from Init.
func New(deps Deps, rs quiz.ResponseSet, elapsed time.Duration) *ResultsScreen {
	if deps.Engine == nil {
		deps.Engine = scoring.New()
	}
	return &ResultsScreen{
		deps:    deps,
		logger:  logging.OrDefault(deps.Logger),
		rs:      rs,
		elapsed: elapsed,
		bundle:  deps.Engine.Evaluate(rs),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	var cmds []tea.Cmd
	if s.deps.Assessments != nil {
		s.saving = true
		cmds = append(cmds, s.saveCmd())
	} else {
		s.status = "Results are not saved in this session."
	}
	if s.deps.Coach.Enabled() {
		s.noteStatus = "Writing your coaching note..."
		cmds = append(cmds, s.coachCmd())
	}
	return tea.Batch(cmds...)
}

func (s *ResultsScreen) Title() string {
	return "Your Plan"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}}
	if s.canEmail() {
		hints = append(hints, layout.KeyHint{Key: "e", Description: "Email me"})
	}
	return append(hints,
		layout.KeyHint{Key: "r", Description: "Start over"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

// Bundle returns the evaluation shown on screen.
func (s *ResultsScreen) Bundle() scoring.ResultBundle {
	return s.bundle
}

func (s *ResultsScreen) canEmail() bool {
	return s.rec != nil && s.deps.Deliveries != nil
}

func (s *ResultsScreen) saveCmd() tea.Cmd {
	rec := store.NewRecord(s.rs, s.bundle, s.elapsed)
	assessments, counter, logger := s.deps.Assessments, s.deps.Counter, s.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := assessments.Save(ctx, rec); err != nil {
			return savedMsg{err: err}
		}
		if counter != nil {
			if err := counter.Add(ctx, rec); err != nil {
				logger.Warn("update live segments", "id", rec.ID, "error", err)
			}
		}
		return savedMsg{rec: rec}
	}
}

func (s *ResultsScreen) coachCmd() tea.Cmd {
	svc, rs, bundle := s.deps.Coach, s.rs, s.bundle
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), coachTimeout)
		defer cancel()
		note, err := svc.Compose(ctx, rs, bundle)
		return noteMsg{note: note, err: err}
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saving = false
		if msg.err != nil {
			s.logger.Error("save assessment", "error", msg.err)
			s.status = "We couldn't save your results. They are still shown below."
			return s, nil
		}
		s.rec = msg.rec
		s.status = ""
		s.logger.Info("assessment saved", "id", msg.rec.ID, "profile", msg.rec.ProfileID)
		return s, nil

	case noteMsg:
		if msg.err != nil {
			s.logger.Warn("coach note", "error", msg.err)
			s.noteStatus = "Coaching note unavailable right now."
			return s, nil
		}
		s.note = msg.note
		s.noteStatus = ""
		return s, nil

	case router.ResumedMsg:
		if sent, ok := msg.Result.(email.Sent); ok {
			s.sentTo = sent.Address
		}
		return s, nil

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *ResultsScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch strings.ToLower(msg.String()) {
	case "up", "k":
		s.scroll(-1)
	case "down", "j":
		s.scroll(1)
	case "pgup":
		s.scroll(-10)
	case "pgdown", "space", " ":
		s.scroll(10)
	case "home":
		s.offset = 0
	case "e":
		if s.canEmail() {
			next := email.New(s.deps.Assessments, s.deps.Deliveries, s.rec.ID, s.logger)
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
		if s.saving {
			s.status = "Still saving, try again in a moment."
		}
	case "r":
		if s.deps.Restart != nil {
			next := s.deps.Restart()
			return func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
		}
	}
	return nil
}

func (s *ResultsScreen) scroll(n int) {
	s.offset = min(max(s.offset+n, 0), s.maxOffset)
}
