package quiz

// Option is one selectable answer of a question.
type Option struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
}

// Slider describes the bounds of a numeric question.
type Slider struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
	Unit    string  `json:"unit"`
}

// Question is one step of the assessment.
type Question struct {
	ID          string   `json:"id"`
	Kind        Kind     `json:"kind"`
	Title       string   `json:"title"`
	Explanation string   `json:"explanation"`
	Options     []Option `json:"options,omitempty"`
	Slider      *Slider  `json:"slider,omitempty"`

	// Languages lists the language choices of a KindLanguage question.
	// Options then holds the study-timeline choices.
	Languages []Option `json:"languages,omitempty"`
}

// HasOption reports whether id is one of the question's options.
func (q Question) HasOption(id string) bool {
	_, ok := q.Option(id)
	return ok
}

// Option returns the option with the given ID.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// HasLanguage reports whether code is one of the listed languages.
func (q Question) HasLanguage(code string) bool {
	for _, o := range q.Languages {
		if o.ID == code {
			return true
		}
	}
	return false
}

// Catalog returns the questions in the order they are asked. The returned
// slice is a copy.
func Catalog() []Question {
	out := make([]Question, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the question with the given ID.
func Lookup(id string) (Question, bool) {
	q, ok := catalogIndex[id]
	return q, ok
}

// OptionText returns the display text of an option, falling back to the
// raw value when the question or option is unknown.
func OptionText(questionID, value string) string {
	q, ok := Lookup(questionID)
	if !ok {
		return value
	}
	if q.Kind == KindLanguage {
		for _, o := range q.Languages {
			if o.ID == value {
				return o.Text
			}
		}
	}
	if o, ok := q.Option(value); ok {
		return o.Text
	}
	return value
}

var catalogIndex = func() map[string]Question {
	idx := make(map[string]Question, len(catalog))
	for _, q := range catalog {
		idx[q.ID] = q
	}
	return idx
}()

var catalog = []Question{
	{
		ID:          QLanguageSelection,
		Kind:        KindLanguage,
		Title:       "Which language are you learning, and how long have you been at this?",
		Explanation: "No judgment here. Whether you just discovered the language exists or you've been studying for years, we need to know where you're starting from. Time spent doesn't equal progress made.",
		Languages: []Option{
			{ID: "korean", Text: "Korean"},
			{ID: "japanese", Text: "Japanese"},
			{ID: "spanish", Text: "Spanish"},
			{ID: "french", Text: "French"},
			{ID: "german", Text: "German"},
			{ID: "italian", Text: "Italian"},
			{ID: "portuguese", Text: "Portuguese"},
			{ID: "chinese", Text: "Chinese (Mandarin)"},
			{ID: "arabic", Text: "Arabic"},
			{ID: LanguageOther, Text: "Other"},
		},
		Options: []Option{
			{ID: StudyJustStarting, Text: "Just getting started (less than 3 months)"},
			{ID: StudyGrindingMonths, Text: "I've been grinding for 3-12 months"},
			{ID: StudyJourneyYears, Text: "It's been 1-2 years of this journey"},
			{ID: StudyStillHere, Text: "2+ years and still here"},
		},
	},
	{
		ID:          QCurrentMethod,
		Kind:        KindSingle,
		Title:       "What does your current language learning actually look like?",
		Explanation: "What matters isn't what method you're using. It's understanding where you are so we can build from there.",
		Options: []Option{
			{ID: MethodDailyApps, Text: "Daily apps (Duolingo, Babbel, etc.)", Description: "I'm consistent with apps but not much else"},
			{ID: MethodWeeklyClasses, Text: "Weekly classes or tutoring sessions", Description: "I have structured lessons with a teacher"},
			{ID: MethodSelfStudy, Text: "Self-study with books and courses", Description: "I work through textbooks and online courses on my own"},
			{ID: MethodConsumingMedia, Text: "Consuming media in my target language", Description: "I watch shows, read content, listen to podcasts"},
			{ID: MethodMixApproaches, Text: "Mix of different approaches", Description: "I'm doing a bit of everything"},
			{ID: MethodJustGettingStarted, Text: "Just getting started with everything", Description: "I'm still figuring out what works for me"},
		},
	},
	{
		ID:          QMotivation,
		Kind:        KindMultiple,
		Title:       "What's driving you to learn [Target Language]? Check all that apply.",
		Explanation: "Your 'why' determines how intense you need to be and what content you should focus on. Be honest about what's really driving you.",
		Options: []Option{
			{ID: MotivationEducation, Text: "Support my education/studies", Description: "I need this for school, research, or academic goals"},
			{ID: MotivationCulture, Text: "Connect with people and culture", Description: "I want to build real relationships and understand perspectives"},
			{ID: MotivationProductivity, Text: "Spend time productively", Description: "I'm tired of scrolling and want to invest in something meaningful"},
			{ID: MotivationTravel, Text: "Prepare for travel or living abroad", Description: "I'll be visiting/moving and need to communicate"},
			{ID: MotivationCareer, Text: "Boost my career prospects", Description: "This language opens professional doors for me"},
			{ID: MotivationEnjoyment, Text: "Pure enjoyment and fun", Description: "I love the media, culture, and challenge of learning"},
			{ID: MotivationHeritage, Text: "Family/heritage connection", Description: "This connects me to my roots or loved ones"},
			{ID: MotivationChallenge, Text: "Personal challenge and growth", Description: "I want to prove to myself I can master something difficult"},
		},
	},
	{
		ID:          QTimeCommitment,
		Kind:        KindSlider,
		Title:       "How much focused time can you realistically commit daily?",
		Explanation: "Time you can actually protect from distractions: phone off, world out, brain fully engaged. Not time you hope to have someday.",
		Slider:      &Slider{Min: 30, Max: 480, Step: 15, Default: 60, Unit: "minutes"},
	},
	{
		ID:          QLifestyle,
		Kind:        KindSingle,
		Title:       "What does your typical day actually look like?",
		Explanation: "Most people have 2-4 hours of 'dead time' where their ears are free but they're listening to nothing productive.",
		Options: []Option{
			{ID: LifestyleCommuterTransport, Text: "Office commuter with public transport", Description: "I travel to work via train, bus, or carpool daily"},
			{ID: LifestyleCommuterDriving, Text: "Office commuter driving solo", Description: "I drive to work alone, 30+ minutes each way"},
			{ID: LifestyleWorkFromHome, Text: "Work/study from home", Description: "My day is flexible but structured around home-based tasks"},
			{ID: LifestyleStudent, Text: "Student with campus life", Description: "I'm in school with classes, walking between buildings"},
			{ID: LifestyleServiceIndustry, Text: "Service industry with irregular hours", Description: "Restaurant, retail, healthcare; schedule varies"},
			{ID: LifestylePhysicalJob, Text: "Physical job on my feet", Description: "Construction, warehouse, manual labor: hands busy, ears free"},
			{ID: LifestyleParent, Text: "Parent juggling kids and work", Description: "Driving to activities, waiting during lessons"},
			{ID: LifestyleFlexible, Text: "Flexible schedule with varied routine", Description: "My daily routine changes frequently, lots of free time"},
		},
	},
	{
		ID:          QCapabilityLevel,
		Kind:        KindSingle,
		Title:       "Where are you actually at with understanding your target language?",
		Explanation: "Your honest assessment determines whether we recommend kids' shows or drama deep dives. There are only wrong matches between your level and your content.",
		Options: []Option{
			{ID: LevelBeginner, Text: "Everything sounds like a foreign language (because it is)", Description: "I'm just starting and most content is incomprehensible"},
			{ID: LevelRecognizeWords, Text: "I recognize familiar words but miss the connections", Description: "Individual words make sense, but sentences are still challenging"},
			{ID: LevelBasicStories, Text: "I follow basic stories but natural speech is tough", Description: "Simple content works, but real conversations still challenge me"},
			{ID: LevelComprehendWell, Text: "I comprehend well but want to go deeper", Description: "I understand most content I watch but some subjects are still tough"},
			{ID: LevelComprehensionStrong, Text: "I'm comprehension-strong and ready for optimization", Description: "My understanding is solid, I want to refine my approach"},
		},
	},
	{
		ID:          QContentConsumption,
		Kind:        KindSingle,
		Title:       "How do you currently consume content in your target language?",
		Explanation: "Your subtitle relationship tells us whether you're training your ear or reading translations with foreign background noise.",
		Options: []Option{
			{ID: ContentWhatContent, Text: "What target language content?", Description: "I'm mostly consuming English content right now"},
			{ID: ContentAlwaysEnglishSubs, Text: "Always with English subtitles", Description: "I need the translation to follow what's happening"},
			{ID: ContentAlternateSubs, Text: "I alternate between English and target language subs", Description: "Depends on my mood and confidence level"},
			{ID: ContentWorkingToward, Text: "I'm working toward subtitle-free viewing", Description: "Getting more comfortable without text support"},
			{ID: ContentNoSubs, Text: "No subtitles, no problem", Description: "I prefer raw listening practice"},
		},
	},
	{
		ID:          QVocabularySystem,
		Kind:        KindSingle,
		Title:       "How do you handle new vocabulary when you encounter it?",
		Explanation: "Looking things up without a system is like filling a bucket with holes.",
		Options: []Option{
			{ID: VocabLookUpHope, Text: "I look it up and hope I remember", Description: "No system, just hoping words stick through exposure"},
			{ID: VocabNotebooks, Text: "I write words down in notebooks", Description: "Traditional vocabulary lists and physical notes"},
			{ID: VocabAnkiSRS, Text: "I use Anki or similar flashcard apps", Description: "I have a spaced repetition system running"},
			{ID: VocabSaveNoReview, Text: "I save words but don't review them", Description: "I collect vocabulary but lack a review system"},
			{ID: VocabAvoidLookup, Text: "I avoid looking things up", Description: "I try to understand from context without interrupting"},
			{ID: VocabInconsistent, Text: "I have a system but it's inconsistent", Description: "I know what works but struggle with daily habits"},
		},
	},
	{
		ID:          QGrammarApproach,
		Kind:        KindSingle,
		Title:       "What's your current relationship with grammar study and textbooks?",
		Explanation: "Your grammar approach reveals whether you use it as a tool for comprehension or as a roadblock to immersion.",
		Options: []Option{
			{ID: "obsessed-rules", Text: "I'm obsessed with understanding every rule", Description: "I won't move forward until I master each grammar point perfectly"},
			{ID: "regular-disconnected", Text: "I study grammar regularly but it feels disconnected", Description: "I know rules but struggle to recognize them in real content"},
			{ID: "reference-confused", Text: "I use grammar as a reference when confused", Description: "I look things up when I encounter patterns I don't understand"},
			{ID: "avoid-entirely", Text: "I avoid grammar study entirely", Description: "I believe immersion alone will teach me everything I need"},
			{ID: "tried-nothing-sticks", Text: "I've tried everything but nothing sticks", Description: "Grammar feels like information that disappears when I need it"},
			{ID: "sprint-big-picture", Text: "I sprint through grammar for the big picture", Description: "I learn patterns quickly then focus on finding them in real content"},
		},
	},
	{
		ID:          QTimelineExpectations,
		Kind:        KindSingle,
		Title:       "When would you like to reach conversational ability in your target language?",
		Explanation: "Your timeline expectations determine whether you'll celebrate progress or constantly feel behind.",
		Options: []Option{
			{ID: Timeline3To6Months, Text: "Within 3-6 months", Description: "I'd like to be having conversations by the end of this year"},
			{ID: Timeline6To12Months, Text: "6-12 months", Description: "I'm planning for significant progress over the next year"},
			{ID: Timeline1To2Years, Text: "1-2 years", Description: "I want real fluency but understand it takes time"},
			{ID: Timeline2PlusYears, Text: "2+ years for mastery", Description: "I'm committed to the full journey toward advanced ability"},
			{ID: TimelineProcessOverAll, Text: "Process over timeline", Description: "I care more about consistent progress than hitting specific dates"},
		},
	},
	{
		ID:          QAccentPriority,
		Kind:        KindSingle,
		Title:       "How important is accent development to you?",
		Explanation: "Your accent goals change your timeline and method. Someone who just wants to communicate needs different advice than someone aiming to pass as a native.",
		Options: []Option{
			{ID: AccentDontCare, Text: "I don't care about accent at all", Description: "Just want to be understood"},
			{ID: AccentDecentNotObsessed, Text: "Decent accent, but not obsessed", Description: "I want to sound respectable but won't stress about perfection"},
			{ID: AccentPrettyImportant, Text: "Accent is pretty important to me", Description: "I want people to take me seriously and be impressed when I speak"},
			{ID: AccentNearNative, Text: "I want to sound near-native", Description: "I want native friends to be genuinely impressed with my pronunciation"},
			{ID: AccentPerfect, Text: "Perfect accent is the goal", Description: "I want people to question where I'm actually from"},
		},
	},
	{
		ID:          QSpeakingPriority,
		Kind:        KindSingle,
		Title:       "How important is speaking right now for your situation?",
		Explanation: "This is about whether you need speaking skills immediately or can build a massive comprehension foundation first.",
		Options: []Option{
			{ID: SpeakingInputFirst, Text: "Input is King", Description: "I only care about understanding for now. I'll speak when I'm ready"},
			{ID: SpeakingEventually, Text: "I want to speak eventually", Description: "I'm not in a rush, but I'd like to start practicing speaking soon"},
			{ID: SpeakingSurvival, Text: "I need to speak for survival", Description: "It's a necessity for my life, work, or upcoming travel"},
			{ID: SpeakingAnxiety, Text: "Speaking gives me anxiety", Description: "I understand a lot but freeze when I try to talk"},
			{ID: SpeakingAlreadySpeaking, Text: "I'm already speaking but want improvement", Description: "I can have conversations but want to sound more natural"},
		},
	},
	{
		ID:          QLearningObstacles,
		Kind:        KindSingle,
		Title:       "What's your biggest obstacle to consistent daily immersion right now?",
		Explanation: "Be brutally honest. Your biggest barrier is usually something specific and solvable, not lack of time or talent.",
		Options: []Option{
			{ID: ObstacleDontKnowStart, Text: "I don't know where to start", Description: "The amount of content options feels overwhelming"},
			{ID: ObstacleCantFindContent, Text: "I can't find content I actually enjoy", Description: "Everything feels too boring or too difficult"},
			{ID: ObstacleFrustratedQuit, Text: "I get frustrated and give up easily", Description: "When I don't understand, I want to quit immediately"},
			{ID: ObstacleFallBackEnglish, Text: "I keep falling back to English content", Description: "Target language content requires too much effort"},
			{ID: ObstacleNoConsistentRoutine, Text: "I don't have a consistent routine", Description: "I do it when I feel motivated, which isn't often"},
			{ID: ObstacleDoingWell, Text: "I'm already doing pretty well", Description: "I have most things figured out, just want to optimize"},
		},
	},
	{
		ID:          QCommunicationPreference,
		Kind:        KindSingle,
		Title:       "How do you prefer to receive honest feedback about your language learning approach?",
		Explanation: "This determines how your results are delivered. Some people need tough love, others need encouragement to get past perfectionist paralysis.",
		Options: []Option{
			{ID: ToneGiveStraight, Text: "Give it to me straight", Description: "I want the honest truth, even if it's uncomfortable to hear"},
			{ID: ToneEncouragingRealistic, Text: "Be encouraging but realistic", Description: "I need motivation mixed with practical reality checks"},
			{ID: ToneFocusDoingRight, Text: "Focus on what I'm doing right", Description: "I respond better to positive reinforcement than criticism"},
			{ID: ToneChallengeBetter, Text: "Challenge me to do better", Description: "I need someone to push me outside my comfort zone"},
			{ID: ToneJustPlan, Text: "Just give me the plan", Description: "Skip the psychology, I just want to know what to do next"},
		},
	},
}
