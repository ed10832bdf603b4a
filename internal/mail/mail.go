// Package mail renders the personalized results email and the follow-up
// check-ins sent after an assessment.
package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"slices"
	"strings"
	texttemplate "text/template"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/store"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.New("").Funcs(htmltemplate.FuncMap{
		"add1": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.New("").Funcs(texttemplate.FuncMap{
		"add1":  func(i int) int { return i + 1 },
		"upper": strings.ToUpper,
	}).ParseFS(templateFS, "templates/*.txt.tmpl"))
)

// Template is a rendered email.
type Template struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// EmailData is everything an email needs to know about one assessment.
type EmailData struct {
	Email           string
	UserName        string
	ProfileTitle    string
	Intensity       int
	TimeCommitment  int
	Language        string
	Motivation      []string
	Insights        []string
	NextSteps       []string
	Recommendations []string
}

// FromRecord extracts the email data of a stored assessment.
func FromRecord(rec *store.Record) EmailData {
	title := rec.Result.Profile.Title
	if title == "" {
		title = "Unknown"
	}
	return EmailData{
		Email:           rec.Email,
		UserName:        rec.UserName,
		ProfileTitle:    title,
		Intensity:       rec.Result.Intensity,
		TimeCommitment:  rec.Result.Allocation.TotalMinutes,
		Language:        rec.LanguageSelection().Display(),
		Motivation:      slices.Clone(rec.Responses.Multi(quiz.QMotivation)),
		Insights:        slices.Clone(rec.Result.Insights),
		NextSteps:       slices.Clone(rec.Result.NextSteps),
		Recommendations: slices.Clone(rec.Result.Recommendations),
	}
}

// motivationPhrases in precedence order.
var motivationPhrases = []struct {
	motivation, phrase string
}{
	{quiz.MotivationEnjoyment, "your love for the culture and media"},
	{quiz.MotivationCareer, "your professional goals"},
	{quiz.MotivationTravel, "your travel aspirations"},
	{quiz.MotivationHeritage, "your family connection"},
	{quiz.MotivationEducation, "your academic pursuits"},
	{quiz.MotivationChallenge, "your personal growth journey"},
}

// MotivationPhrase describes what drives the learner, picking the first
// matching motivation in a fixed precedence.
func MotivationPhrase(motivation []string) string {
	for _, m := range motivationPhrases {
		if slices.Contains(motivation, m.motivation) {
			return m.phrase
		}
	}
	return "your language learning goals"
}

func (d EmailData) language() string {
	if d.Language == "" {
		return "Language"
	}
	return d.Language
}

func greeting(name string) string {
	if name == "" {
		return "Hey there,"
	}
	return "Hey " + name + ","
}

func render(html, text string, data any) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&hb, html, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", html, err)
	}
	if err := textTemplates.ExecuteTemplate(&tb, text, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", text, err)
	}
	return hb.String(), tb.String(), nil
}

// personalizedView is the template input of the results email.
type personalizedView struct {
	EmailData
	Subject        string
	Owner          string
	Lead           string
	LanguageName   string
	IntensityLabel string
	IntensityWidth string
	Daily          string
	Motivation     string
}

// Personalized renders the results email for d.
func Personalized(d EmailData) (Template, error) {
	owner, lead := "Your", "Based on your responses,"
	if d.UserName != "" {
		owner = d.UserName + "'s"
		lead = d.UserName + ", based on your responses,"
	}
	v := personalizedView{
		EmailData:      d,
		Subject:        fmt.Sprintf("%s your %s Immersion Roadmap is Ready! 🚀", greeting(d.UserName), d.language()),
		Owner:          owner,
		Lead:           lead,
		LanguageName:   d.language(),
		IntensityLabel: scoring.IntensityLabel(d.Intensity),
		IntensityWidth: fmt.Sprintf("%.1f%%", float64(d.Intensity)/scoring.MaxIntensity*100),
		Daily:          scoring.FormatMinutes(d.TimeCommitment),
		Motivation:     MotivationPhrase(d.Motivation),
	}
	html, text, err := render("personalized.html.tmpl", "personalized.txt.tmpl", v)
	if err != nil {
		return Template{}, err
	}
	return Template{Subject: v.Subject, HTML: html, Text: text}, nil
}
