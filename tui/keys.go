package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"cmdk/protocol"
)

// GlobalKeyMap is handled by the navigator before the top screen sees a key
type GlobalKeyMap struct {
	Quit      key.Binding
	CopyError key.Binding
}

var globalKeys = GlobalKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CopyError: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "copy error"),
	),
}

// PageKeyMap defines key bindings shared by every page state
type PageKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Primary key.Binding
	Actions key.Binding
	Reload  key.Binding
	Back    key.Binding
}

var pageKeys = PageKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Primary: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	Actions: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "actions"),
	),
	Reload: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reload"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

// FormKeyMap defines key bindings for forms and credential prompts
type FormKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Toggle key.Binding
	Left   key.Binding
	Right  key.Binding
}

var formKeys = FormKeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "submit"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "prev option"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next option"),
	),
}

// LauncherKeyMap defines key bindings for the history launcher
type LauncherKeyMap struct {
	Open    key.Binding
	CopyURL key.Binding
	Remove  key.Binding
	Quit    key.Binding
}

var launcherKeys = LauncherKeyMap{
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	CopyURL: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy url"),
	),
	Remove: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "remove"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "quit"),
	),
}

// shortcutKey maps an action shortcut onto bubbletea's key notation.
// cmd and ctrl both become ctrl; terminals have no command key.
//
//	{modifiers:[cmd], key:r}        -> ctrl+r
//	{modifiers:[opt, shift], key:d} -> alt+D
func shortcutKey(s *protocol.Shortcut) string {
	if s == nil || s.Key == "" {
		return ""
	}
	var ctrl, alt, shift bool
	for _, m := range s.Modifiers {
		switch strings.ToLower(m) {
		case "cmd", "ctrl":
			ctrl = true
		case "opt", "alt":
			alt = true
		case "shift":
			shift = true
		}
	}

	k := strings.ToLower(s.Key)
	if shift {
		if len(k) == 1 && !ctrl {
			k = strings.ToUpper(k)
		} else {
			k = "shift+" + k
		}
	}
	if ctrl {
		k = "ctrl+" + k
	}
	if alt {
		k = "alt+" + k
	}
	return k
}
