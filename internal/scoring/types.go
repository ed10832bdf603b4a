package scoring

import "slices"

// ProfileID identifies a learner archetype.
type ProfileID string

const (
	ProfileImmersionDevotee    ProfileID = "immersion-devotee"
	ProfileSurvivalist         ProfileID = "survivalist"
	ProfileMediaPurist         ProfileID = "media-purist"
	ProfileHeritageReconnector ProfileID = "heritage-reconnector"
	ProfileAcademicAchiever    ProfileID = "academic-achiever"
	ProfileChallengeConqueror  ProfileID = "challenge-conqueror"
	ProfileBalancedLearner     ProfileID = "balanced-learner"
)

// LearnerProfile is one entry of the static profile catalog.
type LearnerProfile struct {
	ID                  ProfileID `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	DetailedDescription string    `json:"detailedDescription"`
	Icon                string    `json:"icon"`
	Color               string    `json:"color"`
}

// TimeAllocation splits the daily commitment into buckets. The three
// buckets always sum to TotalMinutes.
type TimeAllocation struct {
	ImmersionMinutes int `json:"immersionMinutes"`
	StudyMinutes     int `json:"studyMinutes"`
	OutputMinutes    int `json:"outputMinutes"`
	TotalMinutes     int `json:"totalMinutes"`
}

// PassiveTimeEstimate is the background-listening opportunity for a
// lifestyle.
type PassiveTimeEstimate struct {
	RangeLabel  string   `json:"rangeLabel" yaml:"range"`
	Description string   `json:"description" yaml:"description"`
	Activities  []string `json:"activities" yaml:"activities"`
}

// CheckKind categorizes a reality check.
type CheckKind string

const (
	CheckWarning      CheckKind = "warning"
	CheckReality      CheckKind = "reality"
	CheckOptimization CheckKind = "optimization"
	CheckHabit        CheckKind = "habit"
	CheckSystem       CheckKind = "system"
)

// Icon returns the display icon for the check kind.
func (k CheckKind) Icon() string {
	switch k {
	case CheckWarning:
		return "⚠️"
	case CheckReality:
		return "🎯"
	case CheckOptimization:
		return "⚙️"
	case CheckHabit:
		return "🔁"
	case CheckSystem:
		return "🗂️"
	default:
		return "•"
	}
}

// Priority ranks a reality check for display.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// RealityCheck is a cautionary message triggered by an answer combination.
type RealityCheck struct {
	Kind     CheckKind `json:"kind"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Priority Priority  `json:"priority"`
}

// SixMonthProjection describes the expected outcome of six months at the
// learner's intensity.
type SixMonthProjection struct {
	Level       string   `json:"level"`
	Description string   `json:"description"`
	Milestones  []string `json:"milestones"`
}

// ResultBundle is the complete output of one evaluation.
type ResultBundle struct {
	Profile         LearnerProfile      `json:"learnerProfile"`
	Allocation      TimeAllocation      `json:"timeAllocation"`
	Passive         PassiveTimeEstimate `json:"passiveTimeEstimate"`
	RealityChecks   []RealityCheck      `json:"realityChecks"`
	Recommendations []string            `json:"recommendations"`
	NextSteps       []string            `json:"nextSteps"`
	Intensity       int                 `json:"intensityLevel"`
	Insights        []string            `json:"personalizedInsights"`
	Projection      SixMonthProjection  `json:"sixMonthProjection"`
}

// Clone returns a copy of b that shares no slices with it.
func (b ResultBundle) Clone() ResultBundle {
	b.Passive.Activities = slices.Clone(b.Passive.Activities)
	b.RealityChecks = slices.Clone(b.RealityChecks)
	b.Recommendations = slices.Clone(b.Recommendations)
	b.NextSteps = slices.Clone(b.NextSteps)
	b.Insights = slices.Clone(b.Insights)
	b.Projection.Milestones = slices.Clone(b.Projection.Milestones)
	return b
}
