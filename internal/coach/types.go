package coach

import "github.com/abhisek/fluentplan/internal/quiz"

// Tone is the voice a note is written in.
type Tone string

const (
	ToneBlunt       Tone = "blunt"
	ToneEncouraging Tone = "encouraging"
	TonePositive    Tone = "positive"
	TonePushy       Tone = "pushy"
	TonePlan        Tone = "plan"
)

// ToneFor maps a communication-preference answer to a tone. Unanswered or
// unknown preferences get the encouraging tone.
func ToneFor(rs quiz.ResponseSet) Tone {
	pref, _ := rs.Single(quiz.QCommunicationPreference)
	switch pref {
	case quiz.ToneGiveStraight:
		return ToneBlunt
	case quiz.ToneFocusDoingRight:
		return TonePositive
	case quiz.ToneChallengeBetter:
		return TonePushy
	case quiz.ToneJustPlan:
		return TonePlan
	default:
		return ToneEncouraging
	}
}

// Note is a short personal message written on top of an evaluation.
// Message is empty for the plan tone.
type Note struct {
	Headline string   `json:"headline"`
	Message  string   `json:"message,omitempty"`
	Focus    []string `json:"focus"`
	Tone     Tone     `json:"tone"`
	Model    string   `json:"model"`
}

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   600,
		Temperature: 0.6,
	}
}
