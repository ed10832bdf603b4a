package scoring

import (
	"fmt"
	"slices"

	"github.com/abhisek/fluentplan/internal/quiz"
)

const (
	MinIntensity = 1
	MaxIntensity = 9
)

// intensityBands maps minimum daily minutes to a base intensity, highest
// first.
var intensityBands = []struct {
	minutes, level int
}{
	{240, 8},
	{180, 7},
	{120, 6},
	{90, 5},
	{60, 4},
	{45, 3},
	{30, 2},
}

// Intensity rates the plan from 1 to 9. The base comes from the daily
// commitment, then strong comprehension and an input-first or survival
// speaking priority each add one while absolute beginners lose one.
func Intensity(rs quiz.ResponseSet) int {
	n := MinIntensity
	if m, ok := declaredMinutes(rs); ok {
		for _, b := range intensityBands {
			if m >= float64(b.minutes) {
				n = b.level
				break
			}
		}
	}

	switch {
	case level(rs, quiz.LevelComprehensionStrong):
		n++
	case level(rs, quiz.LevelBeginner):
		n = max(MinIntensity, n-1)
	}
	if speaking(rs, quiz.SpeakingInputFirst) || speaking(rs, quiz.SpeakingSurvival) {
		n++
	}
	return min(MaxIntensity, max(MinIntensity, n))
}

// IntensityLabel names an intensity level.
func IntensityLabel(n int) string {
	switch {
	case n >= 7:
		return "High Intensity"
	case n >= 4:
		return "Moderate Intensity"
	default:
		return "Foundation Level"
	}
}

// Insights returns short personalized observations about the answers.
func Insights(rs quiz.ResponseSet) []string {
	out := []string{}

	if m, ok := declaredMinutes(rs); ok {
		whole, _ := dailyMinutes(rs)
		switch {
		case m >= 180:
			out = append(out, fmt.Sprintf("With %s daily, you're in the top 5%% of language learners by commitment alone.", FormatMinutes(whole)))
		case m < 60:
			out = append(out, fmt.Sprintf("Your %s daily window is realistic - consistency will beat intensity every time.", FormatMinutes(whole)))
		}
	}

	switch {
	case level(rs, quiz.LevelBeginner):
		out = append(out, "You're at the foundation stage - every hour of comprehensible input now will compound exponentially.")
	case level(rs, quiz.LevelComprehensionStrong):
		out = append(out, "Your strong comprehension is your launching pad - it's time to leverage that foundation for rapid advancement.")
	}

	switch {
	case speaking(rs, quiz.SpeakingInputFirst):
		out = append(out, "Your input-first approach is scientifically sound - you're building the deep patterns that create intuitive fluency.")
	case speaking(rs, quiz.SpeakingSurvival):
		out = append(out, "Your practical focus means we're optimizing for immediate functionality - smart for your situation.")
	}

	switch {
	case rs.Is(quiz.QCurrentMethod, quiz.MethodDailyApps):
		out = append(out, "Apps got you started, but real media consumption will be your breakthrough moment.")
	case rs.Is(quiz.QCurrentMethod, quiz.MethodWeeklyClasses):
		out = append(out, "Your structured background gives you grammar awareness - now we add the immersion that makes it stick.")
	}

	if sel, ok := rs.Language(quiz.QLanguageSelection); ok {
		switch sel.Timeline {
		case quiz.StudyJustStarting:
			out = append(out, "Starting fresh means no bad habits to break - you're perfectly positioned for an optimized approach.")
		case quiz.StudyStillHere:
			out = append(out, "Your persistence through 2+ years shows real commitment - now let's make sure that dedication is efficiently channeled.")
		}
	}
	return out
}

var projections = []struct {
	minIntensity int
	projection   SixMonthProjection
}{
	{7, SixMonthProjection{
		Level:       "Advanced Immersion Mastery",
		Description: "At your intensity level, you'll achieve near-native comprehension in specialized areas.",
		Milestones: []string{
			"Month 1-2: Comfortable with 90% of everyday content",
			"Month 3-4: Following complex discussions and technical content",
			"Month 5-6: Thinking predominantly in your target language",
		},
	}},
	{5, SixMonthProjection{
		Level:       "Solid Intermediate Breakthrough",
		Description: "You'll break through the intermediate plateau and achieve conversational confidence.",
		Milestones: []string{
			"Month 1-2: Understanding 80% of casual conversations",
			"Month 3-4: Expressing complex ideas with confidence",
			"Month 5-6: Consuming native content without subtitles",
		},
	}},
	{3, SixMonthProjection{
		Level:       "Strong Foundation Builder",
		Description: "You'll build a solid foundation that sets you up for accelerated progress.",
		Milestones: []string{
			"Month 1-2: Following simple conversations and stories",
			"Month 3-4: Basic conversational ability in familiar topics",
			"Month 5-6: Ready to tackle intermediate content confidently",
		},
	}},
	{MinIntensity, SixMonthProjection{
		Level:       "Steady Progress Track",
		Description: "Consistent daily practice will create meaningful, measurable improvement.",
		Milestones: []string{
			"Month 1-2: Recognizing common phrases and patterns",
			"Month 3-4: Understanding simple conversations with context",
			"Month 5-6: Basic communication in everyday situations",
		},
	}},
}

// Projection returns the six-month outlook for an intensity level.
func Projection(intensity int) SixMonthProjection {
	p := projections[len(projections)-1].projection
	for _, c := range projections {
		if intensity >= c.minIntensity {
			p = c.projection
			break
		}
	}
	p.Milestones = slices.Clone(p.Milestones)
	return p
}

// FormatMinutes renders a duration in minutes as "45 min", "2h" or "1h 30m".
func FormatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%d min", m)
	}
	h, rem := m/60, m%60
	if rem == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, rem)
}
