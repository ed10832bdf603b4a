package components

import (
	"slices"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestChoiceListSingle(t *testing.T) {
	c := NewChoiceList([]Choice{{ID: "a", Label: "Alpha"}, {ID: "b", Label: "Beta", Hint: "second"}}, false)

	c, _ = c.Update(key(tea.KeyUp))
	if c.Current() != "a" {
		t.Errorf("up at top moved cursor to %q", c.Current())
	}
	c, _ = c.Update(key(tea.KeyDown))
	c, _ = c.Update(key(tea.KeyDown))
	if c.Current() != "b" {
		t.Errorf("Current = %q, want b", c.Current())
	}
	c, _ = c.Update(key(tea.KeySpace))
	if len(c.Checked()) != 0 {
		t.Error("space should not toggle in single mode")
	}
	if !strings.Contains(c.View(), "second") {
		t.Error("hint of the cursor row should be shown")
	}
}

func TestChoiceListMulti(t *testing.T) {
	c := NewChoiceList([]Choice{{ID: "a"}, {ID: "b"}, {ID: "c"}}, true)
	c.SetChecked([]string{"c"})

	c, _ = c.Update(key(tea.KeySpace))
	c, _ = c.Update(key(tea.KeyDown))
	c, _ = c.Update(key(tea.KeySpace))
	c, _ = c.Update(key(tea.KeyUp))
	c, _ = c.Update(key(tea.KeySpace))

	if got, want := c.Checked(), []string{"c", "b"}; !slices.Equal(got, want) {
		t.Errorf("Checked = %v, want %v", got, want)
	}

	c.Select("c")
	if c.Cursor != 2 {
		t.Errorf("Select moved cursor to %d, want 2", c.Cursor)
	}
}

func TestSlider(t *testing.T) {
	s := NewSlider(15, 480, 15, 62, nil)
	if s.Value != 60 {
		t.Errorf("initial value = %v, want snapped 60", s.Value)
	}

	s, _ = s.Update(key(tea.KeyRight))
	if s.Value != 75 {
		t.Errorf("after right = %v, want 75", s.Value)
	}
	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModShift})
	if s.Value != 15 {
		t.Errorf("after shift+left = %v, want 15", s.Value)
	}
	s, _ = s.Update(key(tea.KeyLeft))
	if s.Value != 15 {
		t.Errorf("left at min = %v, want clamp at 15", s.Value)
	}
	s, _ = s.Update(key(tea.KeyEnd))
	if s.Value != 480 {
		t.Errorf("end = %v, want 480", s.Value)
	}
}

func TestProgressBarWidth(t *testing.T) {
	p := NewProgressBar("", 0.5, false, 20)
	if got := len([]rune(stripANSI(p.View()))); got != 20 {
		t.Errorf("bar width = %d, want 20", got)
	}
}

func TestMeterClamps(t *testing.T) {
	if got := strings.Count(stripANSI(Meter(12, 9)), "■"); got != 9 {
		t.Errorf("filled = %d, want 9", got)
	}
	if got := strings.Count(stripANSI(Meter(-1, 9)), "□"); got != 9 {
		t.Errorf("hollow = %d, want 9", got)
	}
}

// stripANSI removes SGR escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
