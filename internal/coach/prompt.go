package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
)

const baseSystemPrompt = `You are a language-immersion coach writing a short personal note to a learner who just finished a self-assessment. The assessment has already been scored; never contradict the learner profile, the time allocation or the reality checks you are given, and never invent new numbers.`

var toneInstructions = map[Tone]string{
	ToneBlunt:       "Be direct and honest. No sugar-coating, no filler praise.",
	ToneEncouraging: "Be warm but realistic. Acknowledge what will be hard, then show the way through it.",
	TonePositive:    "Focus on what the learner is already doing right and build on those strengths.",
	TonePushy:       "Challenge the learner to do more than they planned. Be energetic and demanding.",
	TonePlan:        "Skip the pep talk. Return an empty message and put the whole plan in focus.",
}

func systemPrompt(tone Tone) string {
	return baseSystemPrompt + "\n\nTone: " + toneInstructions[tone]
}

func buildUserMessage(rs quiz.ResponseSet, b scoring.ResultBundle) string {
	var sb strings.Builder

	sel, _ := rs.Language(quiz.QLanguageSelection)
	lang := sel.Display()
	if lang == "" {
		lang = "not chosen yet"
	}
	fmt.Fprintf(&sb, "Target language: %s\n", lang)
	fmt.Fprintf(&sb, "Learner profile: %s (%s)\n", b.Profile.Title, b.Profile.Description)
	fmt.Fprintf(&sb, "Intensity: %d/9 (%s)\n", b.Intensity, scoring.IntensityLabel(b.Intensity))

	a := b.Allocation
	fmt.Fprintf(&sb, "Daily plan: %s total = %s immersion + %s study + %s output\n",
		scoring.FormatMinutes(a.TotalMinutes), scoring.FormatMinutes(a.ImmersionMinutes),
		scoring.FormatMinutes(a.StudyMinutes), scoring.FormatMinutes(a.OutputMinutes))
	fmt.Fprintf(&sb, "Passive listening available: %s\n", b.Passive.RangeLabel)

	sb.WriteString("\nAnswers:\n")
	for _, q := range quiz.Catalog() {
		if q.ID == quiz.QCommunicationPreference {
			continue
		}
		if v := answerText(q, rs); v != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", q.Title, v)
		}
	}

	if len(b.RealityChecks) > 0 {
		sb.WriteString("\nReality checks:\n")
		for _, c := range b.RealityChecks {
			fmt.Fprintf(&sb, "- [%s] %s: %s\n", c.Priority, c.Title, c.Message)
		}
	}

	if len(b.NextSteps) > 0 {
		sb.WriteString("\nSuggested next steps:\n")
		for _, s := range b.NextSteps {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}

	sb.WriteString(`
Instructions:
1. Write a headline of at most 12 words.
2. Write a 3-5 sentence message addressed to the learner as "you".
3. List 2-4 focus actions for the coming week. Each must be concrete and fit inside the daily plan above.
4. Plain text only. No markdown, no emoji.`)

	return sb.String()
}

func answerText(q quiz.Question, rs quiz.ResponseSet) string {
	switch q.Kind {
	case quiz.KindSingle:
		if v, ok := rs.Single(q.ID); ok {
			return quiz.OptionText(q.ID, v)
		}
	case quiz.KindMultiple:
		var parts []string
		for _, v := range rs.Multi(q.ID) {
			parts = append(parts, quiz.OptionText(q.ID, v))
		}
		return strings.Join(parts, "; ")
	case quiz.KindSlider:
		if v, ok := rs.Number(q.ID); ok {
			return scoring.FormatMinutes(int(v))
		}
	case quiz.KindLanguage:
		if sel, ok := rs.Language(q.ID); ok && sel.Timeline != "" {
			return quiz.OptionText(q.ID, sel.Timeline)
		}
	}
	return ""
}
