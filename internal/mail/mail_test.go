package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/store"
)

func sampleData() EmailData {
	return EmailData{
		Email:           "ana@example.com",
		UserName:        "Ana",
		ProfileTitle:    "The Media Purist",
		Intensity:       6,
		TimeCommitment:  90,
		Language:        "Korean",
		Motivation:      []string{quiz.MotivationCareer, quiz.MotivationEnjoyment},
		Insights:        []string{"Insight one"},
		NextSteps:       []string{"First step", "Second step"},
		Recommendations: []string{"Watch <dramas> & listen"},
	}
}

func TestMotivationPhrase(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{quiz.MotivationCareer, quiz.MotivationEnjoyment}, "your love for the culture and media"},
		{[]string{quiz.MotivationTravel, quiz.MotivationCareer}, "your professional goals"},
		{[]string{quiz.MotivationHeritage}, "your family connection"},
		{[]string{quiz.MotivationChallenge, quiz.MotivationEducation}, "your academic pursuits"},
		{[]string{quiz.MotivationChallenge}, "your personal growth journey"},
		{nil, "your language learning goals"},
	}
	for _, tt := range tests {
		if got := MotivationPhrase(tt.in); got != tt.want {
			t.Errorf("MotivationPhrase(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPersonalizedSubject(t *testing.T) {
	d := sampleData()
	tmpl, err := Personalized(d)
	if err != nil {
		t.Fatalf("Personalized: %v", err)
	}
	if want := "Hey Ana, your Korean Immersion Roadmap is Ready! 🚀"; tmpl.Subject != want {
		t.Errorf("subject = %q, want %q", tmpl.Subject, want)
	}

	d.UserName = ""
	tmpl, err = Personalized(d)
	if err != nil {
		t.Fatalf("Personalized: %v", err)
	}
	if want := "Hey there, your Korean Immersion Roadmap is Ready! 🚀"; tmpl.Subject != want {
		t.Errorf("subject = %q, want %q", tmpl.Subject, want)
	}
	if !strings.Contains(tmpl.Text, "Based on your responses, you're ready to commit 1h 30m daily") {
		t.Errorf("text missing anonymous lead:\n%s", tmpl.Text)
	}
}

func TestPersonalizedBody(t *testing.T) {
	tmpl, err := Personalized(sampleData())
	if err != nil {
		t.Fatalf("Personalized: %v", err)
	}

	for _, want := range []string{
		"The Media Purist",
		"6/9</span> - Moderate Intensity",
		"1h 30m daily",
		"driven by your love for the culture and media",
		"<li>First step</li>",
		"Watch &lt;dramas&gt; &amp; listen",
		"Personalized Insights",
	} {
		if !strings.Contains(tmpl.HTML, want) {
			t.Errorf("html missing %q", want)
		}
	}
	if strings.Contains(tmpl.HTML, "<dramas>") {
		t.Error("html did not escape recommendation text")
	}

	for _, want := range []string{
		"PROFILE: The Media Purist",
		"INTENSITY LEVEL: 6/9 - Moderate Intensity",
		"ANA'S ASSESSMENT RESULTS:",
		"Ana, based on your responses, you're ready to commit 1h 30m daily to Korean learning",
		"• Insight one",
		"1. First step\n2. Second step",
		"• Watch <dramas> & listen",
	} {
		if !strings.Contains(tmpl.Text, want) {
			t.Errorf("text missing %q:\n%s", want, tmpl.Text)
		}
	}
}

func TestPersonalizedOmitsEmptyInsights(t *testing.T) {
	d := sampleData()
	d.Insights = nil
	tmpl, err := Personalized(d)
	if err != nil {
		t.Fatalf("Personalized: %v", err)
	}
	if strings.Contains(tmpl.HTML, "Personalized Insights") {
		t.Error("html should omit the insights box")
	}
	if strings.Contains(tmpl.Text, "PERSONALIZED INSIGHTS") {
		t.Error("text should omit the insights section")
	}
}

func TestFollowUp(t *testing.T) {
	tests := []struct {
		days    int
		subject string
		body    string
	}{
		{1, "Day 1: How's your Korean journey going? 🌟", "Day 1 Check-in"},
		{7, "Week 1: Your Korean progress update 📈", "Week 1 Progress Check"},
		{30, "Month 1: Time to level up your Korean game! 🚀", "Month 1 Milestone"},
		{14, "Your Korean journey continues... 💪", "Progress Check-in"},
	}
	for _, tt := range tests {
		tmpl, err := FollowUp(sampleData(), tt.days)
		if err != nil {
			t.Fatalf("FollowUp(%d): %v", tt.days, err)
		}
		if tmpl.Subject != tt.subject {
			t.Errorf("FollowUp(%d) subject = %q, want %q", tt.days, tmpl.Subject, tt.subject)
		}
		if !strings.Contains(tmpl.HTML, tt.body) {
			t.Errorf("FollowUp(%d) html missing %q", tt.days, tt.body)
		}
		if !strings.HasPrefix(tmpl.Text, tt.subject) || !strings.Contains(tmpl.Text, tt.body) {
			t.Errorf("FollowUp(%d) text = %q", tt.days, tmpl.Text)
		}
		if strings.Contains(tmpl.Text, "<p>") {
			t.Errorf("FollowUp(%d) text contains markup", tt.days)
		}
	}
}

func TestFromRecord(t *testing.T) {
	rs := quiz.ResponseSet{
		quiz.QLanguageSelection: quiz.LanguageSelection{Language: quiz.LanguageOther, CustomLanguage: "Tagalog", Timeline: quiz.StudyJustStarting},
		quiz.QTimeCommitment:    quiz.Numeric(60),
		quiz.QMotivation:        quiz.NewMultiChoice(quiz.MotivationHeritage),
	}
	rec := store.NewRecord(rs, scoring.Evaluate(rs), time.Minute)
	rec.Email = "a@example.com"
	rec.UserName = "Rosa"

	d := FromRecord(rec)
	if d.Language != "Tagalog" {
		t.Errorf("Language = %q, want Tagalog", d.Language)
	}
	if d.TimeCommitment != 60 {
		t.Errorf("TimeCommitment = %d, want 60", d.TimeCommitment)
	}
	if d.ProfileTitle != rec.Result.Profile.Title {
		t.Errorf("ProfileTitle = %q, want %q", d.ProfileTitle, rec.Result.Profile.Title)
	}
	if len(d.Motivation) != 1 || d.Motivation[0] != quiz.MotivationHeritage {
		t.Errorf("Motivation = %v", d.Motivation)
	}
	if len(d.NextSteps) != len(rec.Result.NextSteps) {
		t.Errorf("NextSteps = %d, want %d", len(d.NextSteps), len(rec.Result.NextSteps))
	}
}
