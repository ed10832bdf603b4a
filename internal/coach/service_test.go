package coach

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/fluentplan/internal/llm"
	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
)

func sampleResponses(pref string) quiz.ResponseSet {
	rs := quiz.ResponseSet{
		quiz.QLanguageSelection: quiz.LanguageSelection{Language: "japanese", Timeline: quiz.StudyJustStarting},
		quiz.QTimeCommitment:    quiz.Numeric(90),
		quiz.QMotivation:        quiz.NewMultiChoice(quiz.MotivationEnjoyment),
		quiz.QSpeakingPriority:  quiz.SingleChoice(quiz.SpeakingInputFirst),
	}
	if pref != "" {
		rs[quiz.QCommunicationPreference] = quiz.SingleChoice(pref)
	}
	return rs
}

func TestToneFor(t *testing.T) {
	tests := []struct {
		pref string
		want Tone
	}{
		{quiz.ToneGiveStraight, ToneBlunt},
		{quiz.ToneEncouragingRealistic, ToneEncouraging},
		{quiz.ToneFocusDoingRight, TonePositive},
		{quiz.ToneChallengeBetter, TonePushy},
		{quiz.ToneJustPlan, TonePlan},
		{"", ToneEncouraging},
		{"sarcastic", ToneEncouraging},
	}
	for _, tt := range tests {
		if got := ToneFor(sampleResponses(tt.pref)); got != tt.want {
			t.Errorf("ToneFor(%q) = %q, want %q", tt.pref, got, tt.want)
		}
	}
}

func TestCompose(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"headline": "  Your anime habit is a study plan ",
		"message": "You already watch a lot. Make it count.",
		"focus": ["Rewatch one episode without subtitles", "", "Shadow two lines a day",
			"Mine five words", "Log your hours", "One more"]
	}`)})
	svc := NewService(mock, DefaultConfig())

	rs := sampleResponses(quiz.ToneGiveStraight)
	bundle := scoring.Evaluate(rs)
	note, err := svc.Compose(context.Background(), rs, bundle)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if note.Headline != "Your anime habit is a study plan" {
		t.Errorf("headline = %q", note.Headline)
	}
	if note.Tone != ToneBlunt {
		t.Errorf("tone = %q, want blunt", note.Tone)
	}
	if len(note.Focus) != maxFocus {
		t.Errorf("focus = %v, want %d non-empty items", note.Focus, maxFocus)
	}

	req := mock.Calls[0]
	if req.Schema != NoteSchema {
		t.Error("request did not ask for the note schema")
	}
	if !strings.Contains(req.System, toneInstructions[ToneBlunt]) {
		t.Errorf("system prompt missing tone: %q", req.System)
	}
	user := req.Messages[0].Content
	for _, want := range []string{
		"Target language: Japanese",
		bundle.Profile.Title,
		"1h 30m total",
		quiz.OptionText(quiz.QSpeakingPriority, quiz.SpeakingInputFirst),
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user message missing %q:\n%s", want, user)
		}
	}
	if strings.Contains(user, quiz.OptionText(quiz.QCommunicationPreference, quiz.ToneGiveStraight)) {
		t.Error("user message should not repeat the tone preference")
	}
}

func TestComposePlanToneDropsMessage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
		`{"headline":"Week one","message":"Some pep talk","focus":["Listen 30 min"]}`)})
	rs := sampleResponses(quiz.ToneJustPlan)
	note, err := NewService(mock, DefaultConfig()).Compose(context.Background(), rs, scoring.Evaluate(rs))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if note.Message != "" {
		t.Errorf("message = %q, want empty for plan tone", note.Message)
	}
}

func TestComposeErrors(t *testing.T) {
	rs := sampleResponses("")
	bundle := scoring.Evaluate(rs)

	if _, err := NewService(nil, DefaultConfig()).Compose(context.Background(), rs, bundle); !errors.Is(err, ErrDisabled) {
		t.Errorf("nil provider: err = %v, want ErrDisabled", err)
	}
	var zero *Service
	if zero.Enabled() {
		t.Error("nil service should be disabled")
	}

	failing := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	_, err := NewService(failing, DefaultConfig()).Compose(context.Background(), rs, bundle)
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Errorf("provider error not wrapped: %v", err)
	}

	blank := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"headline":" ","message":"","focus":[]}`)})
	if _, err := NewService(blank, DefaultConfig()).Compose(context.Background(), rs, bundle); err == nil {
		t.Error("expected error for empty headline")
	}
}
