package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fluentplan/internal/router"
	"github.com/abhisek/fluentplan/internal/screens/questionnaire"
	"github.com/abhisek/fluentplan/internal/screens/welcome"
)

func TestStartsAtWelcome(t *testing.T) {
	m := newAppModel(Options{})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("first screen = %T, want welcome", m.router.Active())
	}
	if m.Init() == nil {
		t.Error("welcome should start its animation")
	}
}

func TestWelcomeLeadsToQuestionnaire(t *testing.T) {
	m := newAppModel(Options{})
	updated, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("keypress on welcome should transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}

	updated, _ = updated.Update(msg)
	app := updated.(AppModel)
	if _, ok := app.router.Active().(*questionnaire.QuestionnaireScreen); !ok {
		t.Fatalf("active = %T, want questionnaire", app.router.Active())
	}
	if app.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", app.router.Depth())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(Options{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestWindowSize(t *testing.T) {
	m := newAppModel(Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	app := updated.(AppModel)
	if app.width != 100 || app.height != 30 {
		t.Errorf("size = %dx%d", app.width, app.height)
	}
	// Rendering must not panic at normal and tiny sizes.
	app.View()
	tiny, _ := app.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	tiny.(AppModel).View()
}
