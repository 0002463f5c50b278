package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cmdk/protocol"
)

// actionPanel is the ctrl+k overlay listing every action in scope
type actionPanel struct {
	open    bool
	actions []protocol.Action
	cursor  int
}

func (a *actionPanel) show(actions []protocol.Action) {
	a.open = true
	a.actions = actions
	a.cursor = 0
}

func (a *actionPanel) close() {
	a.open = false
	a.actions = nil
}

// update returns the chosen action once the user confirms one
func (a *actionPanel) update(msg tea.KeyMsg) *protocol.Action {
	switch {
	case key.Matches(msg, pageKeys.Back), key.Matches(msg, pageKeys.Actions):
		a.close()
	case key.Matches(msg, pageKeys.Up):
		if len(a.actions) > 0 {
			a.cursor = (a.cursor - 1 + len(a.actions)) % len(a.actions)
		}
	case key.Matches(msg, pageKeys.Down):
		if len(a.actions) > 0 {
			a.cursor = (a.cursor + 1) % len(a.actions)
		}
	case key.Matches(msg, pageKeys.Primary):
		if a.cursor < len(a.actions) {
			chosen := a.actions[a.cursor]
			a.close()
			return &chosen
		}
	}
	return nil
}

func (a *actionPanel) view(width int) string {
	var b strings.Builder
	b.WriteString(overlayTitleStyle.Render("Actions"))
	if len(a.actions) == 0 {
		b.WriteString("\n" + emptyStyle.Render("No actions"))
	}
	for i, action := range a.actions {
		line := action.Title
		if action.Shortcut != nil {
			line += "  " + shortcutStyle.Render(action.Shortcut.String())
		}
		line = truncateStyled(line, width)
		if i == a.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString("\n" + line)
	}
	return overlayStyle.Width(width).Render(b.String())
}

// matchShortcut finds the action bound to the pressed key
func matchShortcut(actions []protocol.Action, msg tea.KeyMsg) *protocol.Action {
	pressed := msg.String()
	for i := range actions {
		if k := shortcutKey(actions[i].Shortcut); k != "" && k == pressed {
			return &actions[i]
		}
	}
	return nil
}
