package questionnaire

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/ui/components"
	"github.com/abhisek/fluentplan/internal/ui/theme"
)

const maxTextWidth = 72

func (s *QuestionnaireScreen) View(width, height int) string {
	if s.started.IsZero() {
		s.started = s.now()
	}

	q := s.current()
	sel, _ := s.builder.Get(quiz.QLanguageSelection)
	lang, _ := sel.(quiz.LanguageSelection)
	if q.ID == quiz.QLanguageSelection {
		lang = s.pending
	}
	textWidth := min(width-4, maxTextWidth)

	var b strings.Builder

	progress := components.NewProgressBar("", float64(s.index)/float64(len(s.questions)), false, textWidth)
	progress.Suffix = fmt.Sprintf("%d/%d", s.index+1, len(s.questions))
	b.WriteString(progress.View())
	b.WriteString("\n\n")

	title := quiz.ReplaceTargetLanguage(q.Title, lang)
	if q.Kind == quiz.KindLanguage && s.stage == stageTimeline {
		title = fmt.Sprintf("How long have you been learning %s?", lang.Display())
	}
	b.WriteString(theme.Title.Width(textWidth).Render(title))
	b.WriteString("\n")
	if q.Explanation != "" && s.stage == stageLanguage {
		b.WriteString(theme.Hint.Width(textWidth).Render(quiz.ReplaceTargetLanguage(q.Explanation, lang)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case q.Kind == quiz.KindSlider:
		b.WriteString(s.slider.View(textWidth))
		b.WriteString("\n")
	case s.stage == stageCustom:
		b.WriteString(s.custom.View())
		b.WriteString("\n")
	default:
		if q.Kind == quiz.KindMultiple {
			b.WriteString(theme.Hint.Render("Select all that apply."))
			b.WriteString("\n")
		}
		b.WriteString(s.choices.View())
	}

	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(s.status))
	}

	block := lipgloss.NewStyle().Width(textWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, "\n"+block)
}
