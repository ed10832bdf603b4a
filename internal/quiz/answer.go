package quiz

import (
	"math"
	"slices"
)

// Kind is the input type of a question, and therefore of its answer.
type Kind string

const (
	KindSingle   Kind = "single"
	KindMultiple Kind = "multiple"
	KindSlider   Kind = "slider"
	KindLanguage Kind = "language"
)

// Answer is one learner answer. The concrete type is one of SingleChoice,
// MultiChoice, Numeric or LanguageSelection.
type Answer interface {
	Kind() Kind
	isAnswer()
}

// SingleChoice is the selected option ID of a single-choice question.
type SingleChoice string

// MultiChoice is the set of selected option IDs of a multiple-choice
// question. Values built with NewMultiChoice are sorted and de-duplicated,
// so equal sets compare equal.
type MultiChoice []string

// Numeric is a slider value.
type Numeric float64

// LanguageSelection is the answer to the language question: which language
// and how long the learner has been studying it. CustomLanguage is only
// meaningful when Language is "other".
type LanguageSelection struct {
	Language       string `json:"language"`
	Timeline       string `json:"timeline"`
	CustomLanguage string `json:"customLanguage,omitempty"`
}

func (SingleChoice) Kind() Kind      { return KindSingle }
func (MultiChoice) Kind() Kind       { return KindMultiple }
func (Numeric) Kind() Kind           { return KindSlider }
func (LanguageSelection) Kind() Kind { return KindLanguage }

func (SingleChoice) isAnswer()      {}
func (MultiChoice) isAnswer()       {}
func (Numeric) isAnswer()           {}
func (LanguageSelection) isAnswer() {}

// NewMultiChoice returns a normalized set of the given values.
func NewMultiChoice(values ...string) MultiChoice {
	set := make(MultiChoice, 0, len(values))
	for _, v := range values {
		if v != "" {
			set = append(set, v)
		}
	}
	slices.Sort(set)
	return slices.Compact(set)
}

// Contains reports whether v is in the set.
func (m MultiChoice) Contains(v string) bool {
	return slices.Contains(m, v)
}

// Toggle returns a copy of the set with v added or removed.
func (m MultiChoice) Toggle(v string) MultiChoice {
	if m.Contains(v) {
		out := make(MultiChoice, 0, len(m))
		for _, x := range m {
			if x != v {
				out = append(out, x)
			}
		}
		return out
	}
	return NewMultiChoice(append(slices.Clone(m), v)...)
}

// ResponseSet maps question IDs to answers. A missing key means the
// question was not answered.
type ResponseSet map[string]Answer

// Single returns the option chosen for a single-choice question.
func (r ResponseSet) Single(id string) (string, bool) {
	a, ok := r[id].(SingleChoice)
	if !ok || a == "" {
		return "", false
	}
	return string(a), true
}

// Multi returns the selected options of a multiple-choice question, or nil.
func (r ResponseSet) Multi(id string) MultiChoice {
	a, _ := r[id].(MultiChoice)
	return a
}

// Number returns a slider value. NaN and infinities count as unanswered.
func (r ResponseSet) Number(id string) (float64, bool) {
	a, ok := r[id].(Numeric)
	if !ok {
		return 0, false
	}
	v := float64(a)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Language returns the language-selection answer.
func (r ResponseSet) Language(id string) (LanguageSelection, bool) {
	a, ok := r[id].(LanguageSelection)
	return a, ok
}

// Is reports whether single-choice question id was answered with value.
func (r ResponseSet) Is(id, value string) bool {
	v, ok := r.Single(id)
	return ok && v == value
}

// Includes reports whether multiple-choice question id includes value.
func (r ResponseSet) Includes(id, value string) bool {
	return r.Multi(id).Contains(value)
}

// Has reports whether question id has an answer of any kind.
func (r ResponseSet) Has(id string) bool {
	_, ok := r[id]
	return ok
}

// Clone returns a copy that shares no mutable state with r.
func (r ResponseSet) Clone() ResponseSet {
	out := make(ResponseSet, len(r))
	for id, a := range r {
		if m, ok := a.(MultiChoice); ok {
			a = slices.Clone(m)
		}
		out[id] = a
	}
	return out
}
