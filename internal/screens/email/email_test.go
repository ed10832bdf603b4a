package email

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fluentplan/internal/logging"
	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/router"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func saveRecord(t *testing.T, st *store.Store) string {
	t.Helper()
	rs := quiz.ResponseSet{
		quiz.QLanguageSelection: quiz.LanguageSelection{Language: "french", Timeline: quiz.StudyJustStarting},
	}
	rec := store.NewRecord(rs, scoring.Evaluate(rs), time.Minute)
	require.NoError(t, st.Assessments().Save(context.Background(), rec))
	return rec.ID
}

func typeText(s *EmailScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

var (
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	tab   = tea.KeyPressMsg{Code: tea.KeyTab}
)

func TestCapture(t *testing.T) {
	st := openTestStore(t)
	id := saveRecord(t, st)
	s := New(st.Assessments(), st.Deliveries(), id, logging.Discard())

	typeText(s, "Maya")
	s.Update(tab)
	typeText(s, "maya@example.com")

	_, cmd := s.Update(enter)
	require.NotNil(t, cmd)
	assert.True(t, s.sending)
	s.Update(cmd())

	assert.True(t, s.done)
	assert.False(t, s.failed)
	assert.Contains(t, s.View(80, 20), "maya@example.com")

	rec, err := st.Assessments().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "maya@example.com", rec.Email)
	assert.Equal(t, "Maya", rec.UserName)

	pending, err := st.Deliveries().Pending(context.Background(), time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].AssessmentID)

	_, cmd = s.Update(enter)
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PopScreenMsg)
	require.True(t, ok, "enter after capture goes back")
	assert.Equal(t, Sent{Address: "maya@example.com"}, msg.Result)
}

func TestInvalidAddress(t *testing.T) {
	st := openTestStore(t)
	s := New(st.Assessments(), st.Deliveries(), saveRecord(t, st), logging.Discard())

	s.Update(enter)
	assert.True(t, s.failed)
	assert.Equal(t, 1, s.focus, "focus jumps to the email field")
	assert.Contains(t, s.View(80, 20), "valid email")

	typeText(s, "not-an-address")
	_, cmd := s.Update(enter)
	assert.Nil(t, cmd)
	assert.False(t, s.sending)
}

func TestMissingAssessment(t *testing.T) {
	st := openTestStore(t)
	s := New(st.Assessments(), st.Deliveries(), "missing", logging.Discard())

	s.Update(tab)
	typeText(s, "sam@example.com")
	_, cmd := s.Update(enter)
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.False(t, s.done)
	assert.True(t, s.failed)
	assert.Contains(t, s.status, "couldn't find")
}

func TestEscPops(t *testing.T) {
	st := openTestStore(t)
	s := New(st.Assessments(), st.Deliveries(), "x", logging.Discard())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PopScreenMsg)
	require.True(t, ok)
	assert.Nil(t, msg.Result, "nothing was sent")
}
