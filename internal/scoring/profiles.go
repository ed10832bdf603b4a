package scoring

// Profiles returns the profile catalog in classification order.
func Profiles() []LearnerProfile {
	out := make([]LearnerProfile, len(profiles))
	copy(out, profiles)
	return out
}

// Profile returns the catalog entry for id. Unknown IDs resolve to the
// Balanced Learner.
func Profile(id ProfileID) LearnerProfile {
	for _, p := range profiles {
		if p.ID == id {
			return p
		}
	}
	return profiles[len(profiles)-1]
}

var profiles = []LearnerProfile{
	{
		ID:                  ProfileImmersionDevotee,
		Title:               "The Immersion Devotee",
		Description:         "You're all-in on building a massive comprehension base.",
		DetailedDescription: "Your journey is about depth and patience, leading to an exceptionally strong intuitive grasp of the language. You understand that true fluency comes from thousands of hours of input, and you're willing to put in the time.",
		Icon:                "🧘",
		Color:               "#4F46E5",
	},
	{
		ID:                  ProfileSurvivalist,
		Title:               "The Survivalist",
		Description:         "You need to function in the real world, now.",
		DetailedDescription: "Your plan balances building deep understanding with practical skills to speak and survive. You have deadlines and real-world pressure, which can actually be a powerful motivator when channeled correctly.",
		Icon:                "⚡",
		Color:               "#DC2626",
	},
	{
		ID:                  ProfileMediaPurist,
		Title:               "The Media Purist",
		Description:         "You're focused on pure comprehension to enjoy content.",
		DetailedDescription: "This is a powerful path to building massive vocabulary and native-like intuition. Your love for the culture and media will sustain you through the challenging periods.",
		Icon:                "🎬",
		Color:               "#7C3AED",
	},
	{
		ID:                  ProfileHeritageReconnector,
		Title:               "The Heritage Reconnector",
		Description:         "You're reconnecting with your roots.",
		DetailedDescription: "This emotional connection is a powerful motivator that will sustain you through challenges. Your family history gives you context and meaning that most learners lack.",
		Icon:                "🌳",
		Color:               "#059669",
	},
	{
		ID:                  ProfileAcademicAchiever,
		Title:               "The Academic Achiever",
		Description:         "You need language skills for educational success.",
		DetailedDescription: "Your structured approach and clear deadlines are advantages. You understand the value of systematic learning and have the discipline to follow through.",
		Icon:                "🎓",
		Color:               "#0891B2",
	},
	{
		ID:                  ProfileChallengeConqueror,
		Title:               "The Challenge Conqueror",
		Description:         "You're here to prove something to yourself.",
		DetailedDescription: "Your competitive nature and desire for personal growth will drive you to achieve things most people think are impossible. Use this drive wisely.",
		Icon:                "🏔️",
		Color:               "#B45309",
	},
	{
		ID:                  ProfileBalancedLearner,
		Title:               "The Balanced Learner",
		Description:         "You're building a well-rounded skill set.",
		DetailedDescription: "You're developing strong listening skills while preparing to speak. This balanced approach will serve you well in the long run, even if progress feels slower initially.",
		Icon:                "⚖️",
		Color:               "#6B7280",
	},
}
