package components

import (
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentplan/internal/ui/theme"
)

// Choice is one row of a ChoiceList.
type Choice struct {
	ID    string
	Label string
	Hint  string
}

// ChoiceList is a vertical list of choices. In single mode the cursor is
// the selection; in multi mode space toggles the row under the cursor.
type ChoiceList struct {
	Choices []Choice
	Multi   bool
	Cursor  int
	checked []string
}

// NewChoiceList creates a list with the cursor on the first choice.
func NewChoiceList(choices []Choice, multi bool) ChoiceList {
	return ChoiceList{Choices: choices, Multi: multi}
}

// Select moves the cursor to the choice with id, if present.
func (c *ChoiceList) Select(id string) {
	for i, ch := range c.Choices {
		if ch.ID == id {
			c.Cursor = i
			return
		}
	}
}

// SetChecked replaces the checked set of a multi list.
func (c *ChoiceList) SetChecked(ids []string) {
	c.checked = slices.Clone(ids)
}

// Update handles cursor movement and toggling.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(c.Choices) == 0 {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Choices)-1 {
			c.Cursor++
		}
	case "space", " ":
		if c.Multi {
			c.toggle(c.Choices[c.Cursor].ID)
		}
	}
	return c, nil
}

func (c *ChoiceList) toggle(id string) {
	if i := slices.Index(c.checked, id); i >= 0 {
		c.checked = slices.Delete(c.checked, i, i+1)
		return
	}
	c.checked = append(c.checked, id)
}

// Current returns the ID under the cursor.
func (c ChoiceList) Current() string {
	if c.Cursor < 0 || c.Cursor >= len(c.Choices) {
		return ""
	}
	return c.Choices[c.Cursor].ID
}

// Checked returns the toggled IDs in the order they were checked.
func (c ChoiceList) Checked() []string {
	return slices.Clone(c.checked)
}

// View renders the list. Hints are shown for the row under the cursor only.
func (c ChoiceList) View() string {
	var b strings.Builder
	for i, ch := range c.Choices {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		if c.Multi {
			box := "[ ] "
			if slices.Contains(c.checked, ch.ID) {
				box = theme.Checked.Render("[✓]") + " "
			}
			prefix += box
		}

		style := theme.Unselected
		if i == c.Cursor {
			style = theme.Selected
		}
		b.WriteString(prefix + style.Render(ch.Label) + "\n")
		if i == c.Cursor && ch.Hint != "" {
			indent := strings.Repeat(" ", lipgloss.Width(prefix))
			b.WriteString(indent + theme.Hint.Render(ch.Hint) + "\n")
		}
	}
	return b.String()
}
