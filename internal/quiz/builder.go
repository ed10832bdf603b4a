package quiz

// Builder accumulates answers while the learner moves through the
// questionnaire. The zero value is ready to use.
type Builder struct {
	answers ResponseSet
}

// Set records the answer for question id, replacing any earlier answer.
// A nil answer clears the question.
func (b *Builder) Set(id string, a Answer) {
	if a == nil {
		b.Clear(id)
		return
	}
	if b.answers == nil {
		b.answers = make(ResponseSet)
	}
	b.answers[id] = a
}

// Clear forgets the answer for question id.
func (b *Builder) Clear(id string) {
	delete(b.answers, id)
}

// Get returns the current answer for question id.
func (b *Builder) Get(id string) (Answer, bool) {
	a, ok := b.answers[id]
	return a, ok
}

// Len returns the number of answered questions.
func (b *Builder) Len() int {
	return len(b.answers)
}

// Responses returns a snapshot of the answers. Later calls to Set do not
// affect the returned set.
func (b *Builder) Responses() ResponseSet {
	return b.answers.Clone()
}
