package tui

import (
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"cmdk/client"
	"cmdk/protocol"
)

// targeted messages belong to the screen that issued them, wherever it is in the stack
type targeted interface {
	target() int
}

// pageLoadedMsg is sent when a page fetch completes
type pageLoadedMsg struct {
	page  int
	token uint64
	req   client.Request
	doc   protocol.Page
	err   error

	// set when the fetch is a reload that must finish before something else happens
	then  *protocol.Command
	depth int
	focus bool
}

func (m pageLoadedMsg) target() int { return m.page }

// runDoneMsg is sent when a run command's POST completes
type runDoneMsg struct {
	page     int
	cmd      protocol.Command
	url      *url.URL
	next     *protocol.Command
	chainErr error // body was not a command; the run still succeeded
	depth    int
	err      error
}

func (m runDoneMsg) target() int { return m.page }

// queryMsg fires when the debounce for a dynamic list's search text expires
type queryMsg struct {
	page int
	seq  int
	text string
}

func (m queryMsg) target() int { return m.page }

// pushMsg asks the navigator to push a screen
type pushMsg struct {
	screen Screen
}

// popMsg asks the navigator to pop page and reload its parent first
type popMsg struct {
	page  int
	then  *protocol.Command
	depth int
}

// focusMsg is sent by a parent whose pop-reload landed; the navigator
// drops everything above it and hands it the pending chained command
type focusMsg struct {
	page  int
	then  *protocol.Command
	depth int
}

// backMsg pops the top screen without reloading anything
type backMsg struct{}

// toastMsg shows a notification
type toastMsg Toast

// clearToastMsg hides the notification with the given sequence number
type clearToastMsg struct {
	seq int
}

func push(s Screen) tea.Cmd {
	return func() tea.Msg { return pushMsg{screen: s} }
}

func back() tea.Msg { return backMsg{} }

func showToast(t Toast) tea.Cmd {
	return func() tea.Msg { return toastMsg(t) }
}
