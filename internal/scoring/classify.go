package scoring

import (
	"slices"

	"github.com/abhisek/fluentplan/internal/quiz"
)

// ProfileRule assigns Profile when Match reports true.
type ProfileRule struct {
	Name    string
	Profile ProfileID
	Match   func(quiz.ResponseSet) bool
}

// DefaultProfileRules returns the classification rules in priority order.
// The first matching rule decides the profile.
func DefaultProfileRules() []ProfileRule {
	return slices.Clone(profileRules)
}

var profileRules = []ProfileRule{
	{
		Name:    "heavy-input",
		Profile: ProfileImmersionDevotee,
		Match: func(rs quiz.ResponseSet) bool {
			return atLeastMinutes(rs, 240) && speaking(rs, quiz.SpeakingInputFirst)
		},
	},
	{
		Name:    "urgent-speaking",
		Profile: ProfileSurvivalist,
		Match: func(rs quiz.ResponseSet) bool {
			return speaking(rs, quiz.SpeakingSurvival) ||
				motivated(rs, quiz.MotivationTravel) ||
				motivated(rs, quiz.MotivationCareer)
		},
	},
	{
		Name:    "media-input",
		Profile: ProfileMediaPurist,
		Match: func(rs quiz.ResponseSet) bool {
			return motivated(rs, quiz.MotivationEnjoyment) && speaking(rs, quiz.SpeakingInputFirst)
		},
	},
	{
		Name:    "heritage",
		Profile: ProfileHeritageReconnector,
		Match: func(rs quiz.ResponseSet) bool {
			return motivated(rs, quiz.MotivationHeritage)
		},
	},
	{
		Name:    "education",
		Profile: ProfileAcademicAchiever,
		Match: func(rs quiz.ResponseSet) bool {
			return motivated(rs, quiz.MotivationEducation)
		},
	},
	{
		Name:    "challenge",
		Profile: ProfileChallengeConqueror,
		Match: func(rs quiz.ResponseSet) bool {
			return motivated(rs, quiz.MotivationChallenge) && atLeastMinutes(rs, 120)
		},
	},
}

// RunProfileRules returns the profile of the first matching rule and that
// rule's name. With no match it returns the Balanced Learner and "".
func RunProfileRules(rules []ProfileRule, rs quiz.ResponseSet) (LearnerProfile, string) {
	for _, r := range rules {
		if r.Match(rs) {
			return Profile(r.Profile), r.Name
		}
	}
	return Profile(ProfileBalancedLearner), ""
}

// ClassifyProfile assigns exactly one learner profile.
func ClassifyProfile(rs quiz.ResponseSet) LearnerProfile {
	p, _ := RunProfileRules(profileRules, rs)
	return p
}
