package questionnaire

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/router"
	"github.com/abhisek/fluentplan/internal/screen"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/ui/components"
	"github.com/abhisek/fluentplan/internal/ui/layout"
)

// DoneFunc builds the screen shown once every question is answered.
type DoneFunc func(rs quiz.ResponseSet, elapsed time.Duration) screen.Screen

// stage is the step within the language question.
type stage int

const (
	stageLanguage stage = iota
	stageCustom
	stageTimeline
)

const customLanguageLimit = 40

// QuestionnaireScreen asks the catalog questions one at a time.
type QuestionnaireScreen struct {
	questions []quiz.Question
	index     int
	builder   quiz.Builder

	choices components.ChoiceList
	slider  components.Slider
	custom  components.TextInput
	stage   stage

	// pending holds the language picked before the timeline is chosen.
	pending quiz.LanguageSelection

	started time.Time
	now     func() time.Time
	onDone  DoneFunc
	status  string
	done    bool
}

var _ screen.Screen = (*QuestionnaireScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionnaireScreen)(nil)

// New creates a questionnaire over the full catalog.
func New(onDone DoneFunc) *QuestionnaireScreen {
	s := &QuestionnaireScreen{
		questions: quiz.Catalog(),
		now:       time.Now,
		onDone:    onDone,
	}
	s.load()
	return s
}

func (s *QuestionnaireScreen) Init() tea.Cmd {
	return nil
}

func (s *QuestionnaireScreen) Title() string {
	return fmt.Sprintf("Question %d of %d", s.index+1, len(s.questions))
}

func (s *QuestionnaireScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	switch s.current().Kind {
	case quiz.KindSlider:
		hints = append(hints,
			layout.KeyHint{Key: "←→", Description: "Adjust"},
			layout.KeyHint{Key: "Shift", Description: "Faster"},
		)
	case quiz.KindMultiple:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Navigate"},
			layout.KeyHint{Key: "Space", Description: "Toggle"},
		)
	default:
		if s.stage != stageCustom {
			hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Navigate"})
		}
	}
	hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
	if s.index > 0 || s.stage != stageLanguage {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Responses returns the answers given so far.
func (s *QuestionnaireScreen) Responses() quiz.ResponseSet {
	return s.builder.Responses()
}

func (s *QuestionnaireScreen) current() quiz.Question {
	return s.questions[s.index]
}

// load prepares the controls for the current question, restoring a
// previous answer when the learner comes back to it.
func (s *QuestionnaireScreen) load() {
	q := s.current()
	s.status = ""
	s.stage = stageLanguage
	prev, answered := s.builder.Get(q.ID)

	switch q.Kind {
	case quiz.KindSingle:
		s.choices = components.NewChoiceList(choicesOf(q.Options), false)
		if a, ok := prev.(quiz.SingleChoice); ok {
			s.choices.Select(string(a))
		}
	case quiz.KindMultiple:
		s.choices = components.NewChoiceList(choicesOf(q.Options), true)
		if a, ok := prev.(quiz.MultiChoice); ok {
			s.choices.SetChecked(a)
		}
	case quiz.KindSlider:
		value := q.Slider.Default
		if a, ok := prev.(quiz.Numeric); ok && answered {
			value = float64(a)
		}
		s.slider = components.NewSlider(q.Slider.Min, q.Slider.Max, q.Slider.Step, value, formatMinutes)
	case quiz.KindLanguage:
		s.pending, _ = prev.(quiz.LanguageSelection)
		s.choices = components.NewChoiceList(choicesOf(q.Languages), false)
		s.choices.Select(s.pending.Language)
		s.custom = components.NewTextInput("Which language?", "e.g. Swahili", customLanguageLimit)
		s.custom.SetValue(s.pending.CustomLanguage)
	}
}

func (s *QuestionnaireScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if s.stage == stageCustom {
			var cmd tea.Cmd
			s.custom, cmd = s.custom.Update(msg)
			return s, cmd
		}
		return s, nil
	}
	if s.done {
		return s, nil
	}

	switch kmsg.String() {
	case "enter":
		return s, s.advance()
	case "esc":
		s.back()
		return s, nil
	}

	s.status = ""
	var cmd tea.Cmd
	switch {
	case s.current().Kind == quiz.KindSlider:
		s.slider, cmd = s.slider.Update(msg)
	case s.stage == stageCustom:
		s.custom, cmd = s.custom.Update(msg)
	default:
		s.choices, cmd = s.choices.Update(msg)
	}
	return s, cmd
}

// advance records the current answer and moves on. It returns the
// transition command after the last question.
func (s *QuestionnaireScreen) advance() tea.Cmd {
	q := s.current()
	switch q.Kind {
	case quiz.KindSingle:
		s.builder.Set(q.ID, quiz.SingleChoice(s.choices.Current()))
	case quiz.KindMultiple:
		picked := s.choices.Checked()
		if len(picked) == 0 {
			s.status = "Pick at least one option."
			return nil
		}
		s.builder.Set(q.ID, quiz.NewMultiChoice(picked...))
	case quiz.KindSlider:
		s.builder.Set(q.ID, quiz.Numeric(s.slider.Value))
	case quiz.KindLanguage:
		if !s.advanceLanguage(q) {
			return nil
		}
	}

	if s.index < len(s.questions)-1 {
		s.index++
		s.load()
		return nil
	}
	return s.finish()
}

// advanceLanguage walks the language, custom-name and timeline steps. It
// reports true once the answer is complete.
func (s *QuestionnaireScreen) advanceLanguage(q quiz.Question) bool {
	switch s.stage {
	case stageLanguage:
		lang := s.choices.Current()
		if lang != s.pending.Language {
			s.pending.Timeline = ""
		}
		s.pending.Language = lang
		if lang == quiz.LanguageOther {
			s.stage = stageCustom
			s.custom.Focus()
			return false
		}
		s.pending.CustomLanguage = ""
		s.enterTimeline(q)
		return false
	case stageCustom:
		name := s.custom.Value()
		s.custom.Submit(name != "")
		if name == "" {
			s.status = "Type the language you are learning."
			return false
		}
		s.pending.CustomLanguage = name
		s.custom.Blur()
		s.enterTimeline(q)
		return false
	default:
		s.pending.Timeline = s.choices.Current()
		s.builder.Set(q.ID, s.pending)
		return true
	}
}

func (s *QuestionnaireScreen) enterTimeline(q quiz.Question) {
	s.stage = stageTimeline
	s.choices = components.NewChoiceList(choicesOf(q.Options), false)
	s.choices.Select(s.pending.Timeline)
}

// back steps to the previous language stage or the previous question.
func (s *QuestionnaireScreen) back() {
	s.status = ""
	if s.current().Kind == quiz.KindLanguage && s.stage != stageLanguage {
		if s.stage == stageTimeline && s.pending.Language == quiz.LanguageOther {
			s.stage = stageCustom
			s.custom.Focus()
			return
		}
		q := s.current()
		s.stage = stageLanguage
		s.custom.Blur()
		s.choices = components.NewChoiceList(choicesOf(q.Languages), false)
		s.choices.Select(s.pending.Language)
		return
	}
	if s.index == 0 {
		return
	}
	s.index--
	s.load()
}

func (s *QuestionnaireScreen) finish() tea.Cmd {
	s.done = true
	elapsed := time.Duration(0)
	if !s.started.IsZero() {
		elapsed = s.now().Sub(s.started)
	}
	next := s.onDone(s.builder.Responses(), elapsed)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func choicesOf(opts []quiz.Option) []components.Choice {
	out := make([]components.Choice, len(opts))
	for i, o := range opts {
		out[i] = components.Choice{ID: o.ID, Label: o.Text, Hint: o.Description}
	}
	return out
}

func formatMinutes(v float64) string {
	return scoring.FormatMinutes(int(v)) + " per day"
}
