package questionnaire

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/router"
	"github.com/abhisek/fluentplan/internal/screen"
	"github.com/abhisek/fluentplan/internal/ui/layout"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "results" }
func (s *stubScreen) Title() string                          { return "Results" }

type captured struct {
	rs      quiz.ResponseSet
	elapsed time.Duration
	calls   int
}

func newTestScreen() (*QuestionnaireScreen, *captured) {
	c := &captured{}
	s := New(func(rs quiz.ResponseSet, elapsed time.Duration) screen.Screen {
		c.rs = rs
		c.elapsed = elapsed
		c.calls++
		return &stubScreen{}
	})
	return s, c
}

func press(s *QuestionnaireScreen, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(k)
	}
	return cmd
}

var (
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	esc   = tea.KeyPressMsg{Code: tea.KeyEscape}
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
	right = tea.KeyPressMsg{Code: tea.KeyRight}
	space = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
)

func typeText(s *QuestionnaireScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestFullRun(t *testing.T) {
	s, c := newTestScreen()
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	s.View(80, 24)

	// Japanese, just starting.
	press(s, down, enter, enter)
	assert.Equal(t, quiz.QCurrentMethod, s.current().ID)

	// First current-method option.
	press(s, enter)

	// Motivation requires a pick.
	press(s, enter)
	assert.Equal(t, quiz.QMotivation, s.current().ID)
	assert.NotEmpty(t, s.status)
	press(s, space, enter)

	// 60 + 15 minutes.
	press(s, right, enter)

	for s.current().ID != quiz.QCommunicationPreference {
		press(s, enter)
	}
	clock = clock.Add(4 * time.Minute)
	cmd := press(s, enter)
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok, "expected ReplaceScreenMsg")
	assert.NotNil(t, msg.Screen)
	assert.Equal(t, 1, c.calls)
	assert.Equal(t, 4*time.Minute, c.elapsed)

	sel, ok := c.rs.Language(quiz.QLanguageSelection)
	require.True(t, ok)
	assert.Equal(t, "japanese", sel.Language)
	assert.Equal(t, quiz.StudyJustStarting, sel.Timeline)
	assert.Equal(t, quiz.MultiChoice{quiz.MotivationEducation}, c.rs.Multi(quiz.QMotivation))
	minutes, ok := c.rs.Number(quiz.QTimeCommitment)
	require.True(t, ok)
	assert.Equal(t, 75.0, minutes)
	assert.Len(t, c.rs, len(quiz.Catalog()))

	assert.Nil(t, press(s, enter), "finished questionnaire ignores input")
}

func TestCustomLanguage(t *testing.T) {
	s, _ := newTestScreen()
	q := s.current()
	for range len(q.Languages) - 1 {
		press(s, down)
	}
	press(s, enter)
	require.Equal(t, stageCustom, s.stage)

	press(s, enter)
	assert.Equal(t, stageCustom, s.stage, "empty name is rejected")
	assert.NotEmpty(t, s.status)

	typeText(s, "Swahili")
	press(s, enter)
	require.Equal(t, stageTimeline, s.stage)
	assert.Contains(t, s.View(80, 24), "Swahili")

	// Back returns to the name, not the language list.
	press(s, esc)
	assert.Equal(t, stageCustom, s.stage)
	press(s, enter, down, enter)

	sel, ok := s.Responses().Language(quiz.QLanguageSelection)
	require.True(t, ok)
	assert.Equal(t, quiz.LanguageOther, sel.Language)
	assert.Equal(t, "Swahili", sel.CustomLanguage)
	assert.Equal(t, quiz.StudyGrindingMonths, sel.Timeline)
}

func TestBackRestoresAnswer(t *testing.T) {
	s, _ := newTestScreen()
	press(s, enter, enter)
	press(s, down, down, enter)
	require.Equal(t, quiz.QMotivation, s.current().ID)

	press(s, esc)
	assert.Equal(t, quiz.QCurrentMethod, s.current().ID)
	assert.Equal(t, 2, s.choices.Cursor, "previous choice is restored")

	press(s, esc)
	assert.Equal(t, quiz.QLanguageSelection, s.current().ID)
	assert.Equal(t, stageLanguage, s.stage)

	press(s, esc)
	assert.Equal(t, quiz.QLanguageSelection, s.current().ID, "esc on the first question stays put")
}

func TestTitleSubstitutesLanguage(t *testing.T) {
	s, _ := newTestScreen()
	press(s, down, down, enter, enter)

	for s.current().ID != quiz.QSpeakingPriority {
		if s.current().Kind == quiz.KindMultiple {
			press(s, space)
		}
		press(s, enter)
	}
	view := s.View(100, 40)
	assert.NotContains(t, view, quiz.TargetLanguagePlaceholder)
}

func TestKeyHints(t *testing.T) {
	s, _ := newTestScreen()
	for _, h := range s.KeyHints() {
		assert.NotEqual(t, "Esc", h.Key, "no back hint on the first question")
	}
	press(s, enter)
	assert.Contains(t, s.KeyHints(), layout.KeyHint{Key: "Esc", Description: "Back"})
}
