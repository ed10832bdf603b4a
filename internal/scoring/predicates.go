package scoring

import (
	"math"

	"github.com/abhisek/fluentplan/internal/quiz"
)

// maxDailyMinutes caps the commitment at one day.
const maxDailyMinutes = 24 * 60

// declaredMinutes returns the daily commitment as answered, capped at
// maxDailyMinutes. Negative values count as unanswered.
func declaredMinutes(rs quiz.ResponseSet) (float64, bool) {
	v, ok := rs.Number(quiz.QTimeCommitment)
	if !ok || v < 0 {
		return 0, false
	}
	return math.Min(v, maxDailyMinutes), true
}

// dailyMinutes returns the declared commitment rounded to whole minutes.
// Thresholds compare declaredMinutes instead so a fractional answer never
// rounds across one.
func dailyMinutes(rs quiz.ResponseSet) (int, bool) {
	v, ok := declaredMinutes(rs)
	if !ok {
		return 0, false
	}
	return int(math.Round(v)), true
}

func atLeastMinutes(rs quiz.ResponseSet, n int) bool {
	m, ok := declaredMinutes(rs)
	return ok && m >= float64(n)
}

func atMostMinutes(rs quiz.ResponseSet, n int) bool {
	m, ok := declaredMinutes(rs)
	return ok && m <= float64(n)
}

func speaking(rs quiz.ResponseSet, v string) bool {
	return rs.Is(quiz.QSpeakingPriority, v)
}

func level(rs quiz.ResponseSet, v string) bool {
	return rs.Is(quiz.QCapabilityLevel, v)
}

func motivated(rs quiz.ResponseSet, v string) bool {
	return rs.Includes(quiz.QMotivation, v)
}

// answeredOtherThan reports whether single-choice question id has an answer
// that differs from v. An unanswered question yields false.
func answeredOtherThan(rs quiz.ResponseSet, id, v string) bool {
	got, ok := rs.Single(id)
	return ok && got != v
}
