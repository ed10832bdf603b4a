package scoring

import (
	"math"

	"github.com/abhisek/fluentplan/internal/quiz"
)

// ratios is an immersion/study/output split of the daily budget.
type ratios struct {
	immersion, study, output float64
}

var baseRatios = ratios{immersion: 0.70, study: 0.20, output: 0.10}

var speakingRatios = map[string]ratios{
	quiz.SpeakingInputFirst:      {immersion: 0.90, study: 0.10, output: 0.00},
	quiz.SpeakingEventually:      {immersion: 0.70, study: 0.20, output: 0.10},
	quiz.SpeakingSurvival:        {immersion: 0.60, study: 0.20, output: 0.20},
	quiz.SpeakingAnxiety:         {immersion: 0.80, study: 0.15, output: 0.05},
	quiz.SpeakingAlreadySpeaking: {immersion: 0.60, study: 0.10, output: 0.30},
}

// beginnerShift moves this share of the budget from immersion to study.
const beginnerShift = 0.10

// AllocateTime splits the declared daily minutes into immersion, study and
// output time. Immersion and study are rounded to the nearest 5 minutes and
// output takes whatever is left, so the buckets always sum to the total.
func AllocateTime(rs quiz.ResponseSet) TimeAllocation {
	total, _ := dailyMinutes(rs)

	r := baseRatios
	if sp, ok := rs.Single(quiz.QSpeakingPriority); ok {
		if override, ok := speakingRatios[sp]; ok {
			r = override
		}
	}
	if level(rs, quiz.LevelBeginner) {
		shift := math.Min(beginnerShift, r.immersion)
		r.immersion -= shift
		r.study += shift
	}

	immersion := roundTo5(float64(total) * r.immersion)
	study := roundTo5(float64(total) * r.study)

	// Both buckets can round up past a small or odd total. Trim study
	// first, then immersion.
	if immersion+study > total {
		study = max(0, total-immersion)
		immersion = min(immersion, total)
	}

	return TimeAllocation{
		ImmersionMinutes: immersion,
		StudyMinutes:     study,
		OutputMinutes:    max(0, total-immersion-study),
		TotalMinutes:     total,
	}
}

func roundTo5(v float64) int {
	return int(math.Round(v/5)) * 5
}
