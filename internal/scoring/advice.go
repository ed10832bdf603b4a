package scoring

import "github.com/abhisek/fluentplan/internal/quiz"

// Recommendations returns study recommendations gated on capability level,
// speaking priority and motivation. The profile is accepted so that
// profile-specific advice can be added without changing callers.
func Recommendations(rs quiz.ResponseSet, _ LearnerProfile) []string {
	recs := []string{}

	switch {
	case level(rs, quiz.LevelBeginner):
		recs = append(recs,
			"Start with comprehensible input at your level - children's content isn't beneath you, it's strategic",
			"Focus on high-frequency vocabulary first - the top 1000 words will unlock 80% of daily conversation",
		)
	case level(rs, quiz.LevelComprehensionStrong):
		recs = append(recs,
			"Challenge yourself with native content in your areas of interest",
			"Start intensive reading to build vocabulary depth",
		)
	}

	switch {
	case speaking(rs, quiz.SpeakingSurvival):
		recs = append(recs,
			"Prioritize survival phrases and situational dialogues",
			"Practice shadowing technique for pronunciation and rhythm",
		)
	case speaking(rs, quiz.SpeakingInputFirst):
		recs = append(recs,
			"Maximize your listening hours - this is your superpower phase",
			"Build massive passive vocabulary before worrying about output",
		)
	}

	if motivated(rs, quiz.MotivationEnjoyment) {
		recs = append(recs,
			"Use your media interests as your primary immersion source",
			"Create playlists and content libraries around your favorite genres",
		)
	}
	if motivated(rs, quiz.MotivationCareer) {
		recs = append(recs,
			"Focus on professional vocabulary in your field",
			"Practice formal register and business communication",
		)
	}
	return recs
}

// NextSteps returns concrete actions gated on the main obstacle, the
// vocabulary system and the daily commitment.
func NextSteps(rs quiz.ResponseSet, _ LearnerProfile) []string {
	steps := []string{}

	obstacle, _ := rs.Single(quiz.QLearningObstacles)
	switch obstacle {
	case quiz.ObstacleDontKnowStart:
		steps = append(steps,
			"Download one podcast app and subscribe to 3 beginner-friendly shows in your target language",
			"Set up a simple Anki deck or vocabulary app for daily review",
		)
	case quiz.ObstacleCantFindContent:
		steps = append(steps,
			`Try the "ladder method" - start with content slightly below your level and gradually increase difficulty`,
			"Explore different genres - documentaries, reality TV, cooking shows, sports commentary",
		)
	case quiz.ObstacleNoConsistentRoutine:
		steps = append(steps,
			"Start with just 15 minutes daily at the same time - consistency beats intensity",
			"Link your language practice to an existing habit (coffee, commute, workout)",
		)
	}

	if rs.Is(quiz.QVocabularySystem, quiz.VocabLookUpHope) || rs.Is(quiz.QVocabularySystem, quiz.VocabInconsistent) {
		steps = append(steps,
			"Set up Anki with a pre-made deck for your target language",
			"Commit to 10 minutes of daily review - no exceptions, no excuses",
		)
	}

	if atLeastMinutes(rs, 120) {
		steps = append(steps,
			"Create immersion blocks - 45-60 minute focused sessions without distractions",
			"Track your hours weekly to maintain accountability",
		)
	} else {
		steps = append(steps,
			"Maximize efficiency with spaced repetition and high-frequency content",
			"Use every transition moment - walking, waiting, commuting",
		)
	}
	return steps
}
