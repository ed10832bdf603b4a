// Package scoring turns a completed questionnaire into a personalized
// immersion plan. Every function here is pure: no I/O, no shared mutable
// state, and no errors. Missing or unrecognized answers fall back to
// defaults.
package scoring

import (
	"github.com/abhisek/fluentplan/internal/quiz"
)

// RulesVersion identifies the current rule set. Stored results carry the
// version that produced them so they can be re-scored after rule changes.
const RulesVersion = "v1.1.0"

// Engine evaluates response sets. The zero value is not usable; use New.
type Engine struct {
	passive PassiveTable
}

// Option configures an Engine.
type Option func(*Engine)

// WithPassiveTable replaces the built-in passive-time table. The table must
// come from LoadPassiveTable so the flexible fallback is guaranteed.
func WithPassiveTable(t PassiveTable) Option {
	return func(e *Engine) {
		if t != nil {
			e.passive = t
		}
	}
}

// New returns an Engine using the built-in tables unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{passive: defaultPassive}
	for _, o := range opts {
		o(e)
	}
	return e
}

var defaultEngine = New()

// Evaluate runs every derivation over rs with the built-in tables.
func Evaluate(rs quiz.ResponseSet) ResultBundle {
	return defaultEngine.Evaluate(rs)
}

// EstimatePassiveTime looks up lifestyle in the engine's table.
func (e *Engine) EstimatePassiveTime(lifestyle string) PassiveTimeEstimate {
	return e.passive.lookup(lifestyle)
}

// Evaluate runs every derivation over rs. It never mutates rs and returns
// a value-equal bundle for value-equal input.
func (e *Engine) Evaluate(rs quiz.ResponseSet) ResultBundle {
	profile := ClassifyProfile(rs)
	lifestyle, _ := rs.Single(quiz.QLifestyle)
	intensity := Intensity(rs)

	return ResultBundle{
		Profile:         profile,
		Allocation:      AllocateTime(rs),
		Passive:         e.EstimatePassiveTime(lifestyle),
		RealityChecks:   GenerateRealityChecks(rs),
		Recommendations: Recommendations(rs, profile),
		NextSteps:       NextSteps(rs, profile),
		Intensity:       intensity,
		Insights:        Insights(rs),
		Projection:      Projection(intensity),
	}
}
