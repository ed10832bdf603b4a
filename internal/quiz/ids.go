package quiz

// Question IDs. These are stable: stored assessments and the scoring rules
// refer to them.
const (
	QLanguageSelection       = "language-selection"
	QCurrentMethod           = "current-method"
	QMotivation              = "motivation"
	QTimeCommitment          = "time-commitment"
	QLifestyle               = "lifestyle"
	QCapabilityLevel         = "capability-level"
	QContentConsumption      = "content-consumption"
	QVocabularySystem        = "vocabulary-system"
	QGrammarApproach         = "grammar-approach"
	QTimelineExpectations    = "timeline-expectations"
	QAccentPriority          = "accent-priority"
	QSpeakingPriority        = "speaking-priority"
	QLearningObstacles       = "learning-obstacles"
	QCommunicationPreference = "communication-preference"
)

// speaking-priority values.
const (
	SpeakingInputFirst      = "input-first"
	SpeakingEventually      = "speak-eventually"
	SpeakingSurvival        = "survival-need"
	SpeakingAnxiety         = "speaking-anxiety"
	SpeakingAlreadySpeaking = "already-speaking"
)

// capability-level values.
const (
	LevelBeginner            = "beginner"
	LevelRecognizeWords      = "recognize-words"
	LevelBasicStories        = "basic-stories"
	LevelComprehendWell      = "comprehend-well"
	LevelComprehensionStrong = "comprehension-strong"
)

// motivation values.
const (
	MotivationEducation    = "education"
	MotivationCulture      = "culture"
	MotivationProductivity = "productivity"
	MotivationTravel       = "travel"
	MotivationCareer       = "career"
	MotivationEnjoyment    = "enjoyment"
	MotivationHeritage     = "heritage"
	MotivationChallenge    = "challenge"
)

// lifestyle values.
const (
	LifestyleCommuterTransport = "commuter-transport"
	LifestyleCommuterDriving   = "commuter-driving"
	LifestyleWorkFromHome      = "work-from-home"
	LifestyleStudent           = "student"
	LifestyleServiceIndustry   = "service-industry"
	LifestylePhysicalJob       = "physical-job"
	LifestyleParent            = "parent"
	LifestyleFlexible          = "flexible"
)

// timeline-expectations values.
const (
	Timeline3To6Months     = "3-6-months"
	Timeline6To12Months    = "6-12-months"
	Timeline1To2Years      = "1-2-years"
	Timeline2PlusYears     = "2-plus-years"
	TimelineProcessOverAll = "process-over-timeline"
)

// accent-priority values.
const (
	AccentDontCare          = "dont-care"
	AccentDecentNotObsessed = "decent-not-obsessed"
	AccentPrettyImportant   = "pretty-important"
	AccentNearNative        = "near-native"
	AccentPerfect           = "perfect-accent"
)

// content-consumption values.
const (
	ContentWhatContent       = "what-content"
	ContentAlwaysEnglishSubs = "always-english-subs"
	ContentAlternateSubs     = "alternate-subs"
	ContentWorkingToward     = "working-toward"
	ContentNoSubs            = "no-subs"
)

// vocabulary-system values.
const (
	VocabLookUpHope   = "look-up-hope"
	VocabNotebooks    = "notebooks"
	VocabAnkiSRS      = "anki-srs"
	VocabSaveNoReview = "save-no-review"
	VocabAvoidLookup  = "avoid-lookup"
	VocabInconsistent = "inconsistent"
)

// learning-obstacles values.
const (
	ObstacleDontKnowStart       = "dont-know-start"
	ObstacleCantFindContent     = "cant-find-content"
	ObstacleFrustratedQuit      = "frustrated-quit"
	ObstacleFallBackEnglish     = "fall-back-english"
	ObstacleNoConsistentRoutine = "no-consistent-routine"
	ObstacleDoingWell           = "doing-well"
)

// current-method values.
const (
	MethodDailyApps          = "daily-apps"
	MethodWeeklyClasses      = "weekly-classes"
	MethodSelfStudy          = "self-study"
	MethodConsumingMedia     = "consuming-media"
	MethodMixApproaches      = "mix-approaches"
	MethodJustGettingStarted = "just-getting-started"
)

// communication-preference values.
const (
	ToneGiveStraight         = "give-straight"
	ToneEncouragingRealistic = "encouraging-realistic"
	ToneFocusDoingRight      = "focus-doing-right"
	ToneChallengeBetter      = "challenge-better"
	ToneJustPlan             = "just-plan"
)

// language-selection timeline values.
const (
	StudyJustStarting   = "just-starting"
	StudyGrindingMonths = "grinding-months"
	StudyJourneyYears   = "journey-years"
	StudyStillHere      = "still-here"
)

// LanguageOther marks a language-selection answer that carries a custom
// language name.
const LanguageOther = "other"
