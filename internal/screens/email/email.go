package email

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentplan/internal/logging"
	"github.com/abhisek/fluentplan/internal/newsletter"
	"github.com/abhisek/fluentplan/internal/router"
	"github.com/abhisek/fluentplan/internal/screen"
	"github.com/abhisek/fluentplan/internal/store"
	"github.com/abhisek/fluentplan/internal/ui/components"
	"github.com/abhisek/fluentplan/internal/ui/layout"
	"github.com/abhisek/fluentplan/internal/ui/theme"
)

const (
	captureTimeout = 10 * time.Second
	nameLimit      = 60
	emailLimit     = 254
)

// Sent is the result the screen closes with after a successful capture.
type Sent struct {
	Address string
}

type capturedMsg struct {
	delivery *store.Delivery
	err      error
}

// EmailScreen collects a name and an address and subscribes them to the
// newsletter for one saved assessment.
type EmailScreen struct {
	assessments  store.AssessmentRepo
	deliveries   store.DeliveryRepo
	assessmentID string
	logger       *slog.Logger

	name    components.TextInput
	address components.TextInput
	focus   int

	sending bool
	done    bool
	sentTo  string
	status  string
	failed  bool
}

var _ screen.Screen = (*EmailScreen)(nil)
var _ screen.KeyHintProvider = (*EmailScreen)(nil)

// New creates an email capture screen for assessmentID.
func New(assessments store.AssessmentRepo, deliveries store.DeliveryRepo, assessmentID string, logger *slog.Logger) *EmailScreen {
	s := &EmailScreen{
		assessments:  assessments,
		deliveries:   deliveries,
		assessmentID: assessmentID,
		logger:       logging.OrDefault(logger),
		name:         components.NewTextInput("First name (optional)", "Alex", nameLimit),
		address:      components.NewTextInput("Email", "you@example.com", emailLimit),
	}
	s.address.Blur()
	return s
}

func (s *EmailScreen) Init() tea.Cmd {
	return s.name.Init()
}

func (s *EmailScreen) Title() string {
	return "Email My Plan"
}

func (s *EmailScreen) KeyHints() []layout.KeyHint {
	if s.done {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Back to results"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *EmailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case capturedMsg:
		s.sending = false
		s.handleCaptured(msg)
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, s.close()
		case "enter":
			if s.done {
				return s, s.close()
			}
			return s, s.submit()
		case "tab", "shift+tab", "up", "down":
			return s, s.toggleFocus()
		}
		if s.done || s.sending {
			return s, nil
		}
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.name, cmd = s.name.Update(msg)
	} else {
		s.address, cmd = s.address.Update(msg)
	}
	return s, cmd
}

// close returns to the previous screen, reporting the address once the
// capture went through.
func (s *EmailScreen) close() tea.Cmd {
	var result any
	if s.done {
		result = Sent{Address: s.sentTo}
	}
	return func() tea.Msg { return router.PopScreenMsg{Result: result} }
}

func (s *EmailScreen) toggleFocus() tea.Cmd {
	s.focus = 1 - s.focus
	if s.focus == 0 {
		s.address.Blur()
		return s.name.Focus()
	}
	s.name.Blur()
	return s.address.Focus()
}

func (s *EmailScreen) submit() tea.Cmd {
	if s.sending {
		return nil
	}
	if _, err := newsletter.NormalizeEmail(s.address.Value()); err != nil {
		s.address.Submit(false)
		s.failed = true
		s.status = "Please enter a valid email address."
		if s.focus == 0 {
			return s.toggleFocus()
		}
		return nil
	}
	s.address.Submit(true)
	s.sending = true
	s.failed = false
	s.status = "Sending..."

	assessments, deliveries := s.assessments, s.deliveries
	id, address, name := s.assessmentID, s.address.Value(), s.name.Value()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
		defer cancel()
		d, err := newsletter.CaptureEmail(ctx, assessments, deliveries, id, address, name)
		return capturedMsg{delivery: d, err: err}
	}
}

func (s *EmailScreen) handleCaptured(msg capturedMsg) {
	switch {
	case msg.err == nil:
		s.done = true
		s.failed = false
		s.sentTo = msg.delivery.Email
		s.status = "You're on the list. Your plan is on its way to " + s.sentTo + "."
		s.logger.Info("email captured", "assessment", s.assessmentID, "delivery", msg.delivery.ID)
	case errors.Is(msg.err, newsletter.ErrInvalidEmail):
		s.failed = true
		s.status = "Please enter a valid email address."
	case errors.Is(msg.err, store.ErrNotFound):
		s.failed = true
		s.status = "We couldn't find your saved results."
		s.logger.Warn("capture email", "assessment", s.assessmentID, "error", msg.err)
	default:
		s.failed = true
		s.status = "Something went wrong. Please try again."
		s.logger.Error("capture email", "assessment", s.assessmentID, "error", msg.err)
	}
}

func (s *EmailScreen) View(width, height int) string {
	textWidth := min(width-4, 60)
	var b strings.Builder

	b.WriteString(theme.Title.Width(textWidth).Render("Get your plan by email"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(textWidth).Render("We'll send your results and a few follow-ups to keep you on track."))
	b.WriteString("\n\n")
	b.WriteString(s.name.View())
	b.WriteString("\n\n")
	b.WriteString(s.address.View())
	b.WriteString("\n\n")

	if s.status != "" {
		style := lipgloss.NewStyle().Foreground(theme.Success)
		switch {
		case s.failed:
			style = theme.ErrorText
		case s.sending:
			style = theme.Hint
		}
		b.WriteString(style.Width(textWidth).Render(s.status))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
