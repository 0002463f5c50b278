// Package tui interprets page documents as bubbletea screens.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cmdk/client"
	"cmdk/store"
)

// DefaultMaxChainDepth bounds how many commands a server may chain after one action
const DefaultMaxChainDepth = 16

// Env holds the collaborators shared by every screen
type Env struct {
	Client  *client.Client
	Creds   *store.Credentials
	History *store.History
	Host    Host

	MaxChainDepth int
	QueryDebounce time.Duration // zero fetches on every keystroke
	ToastDuration time.Duration // zero keeps notifications until replaced

	Now func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) maxChainDepth() int {
	if e.MaxChainDepth <= 0 {
		return DefaultMaxChainDepth
	}
	return e.MaxChainDepth
}

// Screen is one entry of the navigation stack
type Screen interface {
	ID() int
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	Resize(width, height int)
	View() string
}

// focuser is implemented by screens that refresh when they become the top again
type focuser interface {
	Focus() tea.Cmd
}

var screenIDs atomic.Int64

func nextScreenID() int {
	return int(screenIDs.Add(1))
}
