package scoring

import "github.com/abhisek/fluentplan/internal/quiz"

// checkRule emits check when match reports true.
type checkRule struct {
	match func(quiz.ResponseSet) bool
	check RealityCheck
}

// Declaration order is the output order.
var checkRules = []checkRule{
	{
		match: func(rs quiz.ResponseSet) bool {
			return atMostMinutes(rs, 45) && speaking(rs, quiz.SpeakingSurvival)
		},
		check: RealityCheck{
			Kind:     CheckWarning,
			Title:    "Ambitious Goal Alert",
			Message:  "Needing to speak with limited active time is a major challenge. Your focus must be laser-sharp on survival phrases. Every minute counts.",
			Priority: PriorityHigh,
		},
	},
	{
		match: func(rs quiz.ResponseSet) bool {
			return level(rs, quiz.LevelBeginner) &&
				rs.Is(quiz.QTimelineExpectations, quiz.Timeline3To6Months) &&
				answeredOtherThan(rs, quiz.QAccentPriority, quiz.AccentDontCare)
		},
		check: RealityCheck{
			Kind:     CheckReality,
			Title:    "Timeline Reality Check",
			Message:  "Perfect accent + conversational ability in 6 months as a beginner requires 3-4+ hours daily of focused practice. Be prepared to adjust expectations or time commitment.",
			Priority: PriorityHigh,
		},
	},
	{
		match: func(rs quiz.ResponseSet) bool {
			return atLeastMinutes(rs, 240) &&
				answeredOtherThan(rs, quiz.QSpeakingPriority, quiz.SpeakingInputFirst)
		},
		check: RealityCheck{
			Kind:     CheckOptimization,
			Title:    "Don't Neglect Output",
			Message:  "With this much immersion time, your understanding will skyrocket. Make sure to dedicate some time to speaking practice so your active skills don't lag behind.",
			Priority: PriorityMedium,
		},
	},
	{
		match: func(rs quiz.ResponseSet) bool {
			return rs.Is(quiz.QContentConsumption, quiz.ContentAlwaysEnglishSubs) &&
				answeredOtherThan(rs, quiz.QCapabilityLevel, quiz.LevelBeginner)
		},
		check: RealityCheck{
			Kind:     CheckHabit,
			Title:    "Subtitle Dependency Risk",
			Message:  "You're training your reading skills more than listening. Consider gradually reducing English subtitles to develop true comprehension.",
			Priority: PriorityMedium,
		},
	},
	{
		match: func(rs quiz.ResponseSet) bool {
			return rs.Is(quiz.QVocabularySystem, quiz.VocabInconsistent)
		},
		check: RealityCheck{
			Kind:     CheckSystem,
			Title:    "Vocabulary System Gap",
			Message:  "Your inconsistent review habits are holding you back. Even 10 minutes of daily SRS would accelerate your progress significantly.",
			Priority: PriorityMedium,
		},
	},
}

// GenerateRealityChecks returns one check per matching rule, in rule order.
// The result is never nil.
func GenerateRealityChecks(rs quiz.ResponseSet) []RealityCheck {
	checks := []RealityCheck{}
	for _, r := range checkRules {
		if r.match(rs) {
			checks = append(checks, r.check)
		}
	}
	return checks
}
