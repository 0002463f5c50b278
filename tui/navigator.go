package tui

import (
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ToastStyle is the severity of a notification
type ToastStyle int

const (
	ToastInfo ToastStyle = iota
	ToastSuccess
	ToastFailure
)

// Toast is a one-line notification below the active screen.
// CopyText, when set, can be copied with ctrl+o while the toast is shown.
type Toast struct {
	Style    ToastStyle
	Title    string
	Message  string
	CopyText string
}

// Navigator is the root model: a stack of screens with the top one active
type Navigator struct {
	env      *Env
	stack    []Screen
	toast    *Toast
	toastSeq int
	width    int
	height   int
}

// NewNavigator creates a navigator with root at the bottom of the stack
func NewNavigator(env *Env, root Screen) *Navigator {
	return &Navigator{env: env, stack: []Screen{root}}
}

func (n *Navigator) Init() tea.Cmd {
	return n.stack[0].Init()
}

// Top returns the active screen
func (n *Navigator) Top() Screen {
	return n.stack[len(n.stack)-1]
}

// Depth returns the number of screens on the stack
func (n *Navigator) Depth() int {
	return len(n.stack)
}

// Toast returns the notification being shown, if any
func (n *Navigator) Toast() *Toast {
	return n.toast
}

func (n *Navigator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		n.width = msg.Width
		n.height = msg.Height
		for _, s := range n.stack {
			s.Resize(n.width, n.screenHeight())
		}
		return n, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, globalKeys.Quit):
			return n, tea.Quit
		case key.Matches(msg, globalKeys.CopyError) && n.toast != nil && n.toast.CopyText != "":
			return n, n.copyToast()
		}
		return n, n.Top().Update(msg)

	case pushMsg:
		return n, n.push(msg.screen)
	case backMsg:
		return n, n.back()
	case popMsg:
		return n, n.pop(msg)
	case focusMsg:
		return n, n.focus(msg)

	case toastMsg:
		return n, n.showToast(Toast(msg))
	case clearToastMsg:
		if msg.seq == n.toastSeq {
			n.toast = nil
		}
		return n, nil

	case spinner.TickMsg:
		// every page owns a spinner; each ignores ticks that are not its own
		var cmds []tea.Cmd
		for _, s := range n.stack {
			cmds = append(cmds, s.Update(msg))
		}
		return n, tea.Batch(cmds...)

	case targeted:
		i := n.indexOf(msg.target())
		if i < 0 {
			return n, nil // screen already popped
		}
		return n, n.stack[i].Update(msg)
	}
	return n, n.Top().Update(msg)
}

func (n *Navigator) screenHeight() int {
	return max(n.height-1, 1) // toast line
}

func (n *Navigator) indexOf(id int) int {
	for i, s := range n.stack {
		if s.ID() == id {
			return i
		}
	}
	return -1
}

func (n *Navigator) push(s Screen) tea.Cmd {
	if p, ok := s.(*Page); ok {
		_, p.hasParent = n.Top().(*Page)
	}
	s.Resize(n.width, n.screenHeight())
	n.stack = append(n.stack, s)
	log.Printf("navigator: push %s (depth %d)", s.Title(), len(n.stack))
	return s.Init()
}

// truncate closes and drops every screen above index i
func (n *Navigator) truncate(i int) {
	for _, s := range n.stack[i+1:] {
		if p, ok := s.(*Page); ok {
			p.Close()
		}
	}
	n.stack = n.stack[:i+1]
}

// back leaves the top screen without reloading anything; leaving the root quits
func (n *Navigator) back() tea.Cmd {
	if len(n.stack) == 1 {
		return tea.Quit
	}
	n.truncate(len(n.stack) - 2)
	if f, ok := n.Top().(focuser); ok {
		return f.Focus()
	}
	return nil
}

// pop reloads the parent of msg.page; the child stays visible until the
// reload lands and the parent asks for focus
func (n *Navigator) pop(msg popMsg) tea.Cmd {
	i := n.indexOf(msg.page)
	if i <= 0 {
		return nil
	}
	parent, ok := n.stack[i-1].(*Page)
	if !ok {
		return tea.Quit
	}
	return parent.load(msg.then, msg.depth, true)
}

func (n *Navigator) focus(msg focusMsg) tea.Cmd {
	i := n.indexOf(msg.page)
	if i < 0 {
		return nil
	}
	n.truncate(i)
	if msg.then == nil {
		return nil
	}
	if p, ok := n.stack[i].(*Page); ok {
		return p.dispatch(*msg.then, msg.depth)
	}
	return nil
}

func (n *Navigator) showToast(t Toast) tea.Cmd {
	n.toastSeq++
	n.toast = &t
	if n.env.ToastDuration <= 0 {
		return nil
	}
	seq := n.toastSeq
	return tea.Tick(n.env.ToastDuration, func(time.Time) tea.Msg { return clearToastMsg{seq: seq} })
}

func (n *Navigator) copyToast() tea.Cmd {
	text := n.toast.CopyText
	host := n.env.Host
	return func() tea.Msg {
		if err := host.Copy(text); err != nil {
			return toastMsg(errorToast(err))
		}
		return toastMsg(Toast{Style: ToastSuccess, Title: "Copied message"})
	}
}

func (n *Navigator) View() string {
	return n.Top().View() + "\n" + n.viewToast()
}

func (n *Navigator) viewToast() string {
	if n.toast == nil {
		return ""
	}
	var line string
	switch n.toast.Style {
	case ToastFailure:
		line = toastFailureStyle.Render("✗ " + n.toast.Title)
	case ToastSuccess:
		line = toastSuccessStyle.Render("✓ " + n.toast.Title)
	default:
		line = toastInfoStyle.Render("• " + n.toast.Title)
	}
	if msg := strings.Join(strings.Fields(n.toast.Message), " "); msg != "" {
		line += "  " + msg
	}
	if n.toast.CopyText != "" {
		line += "  " + helpBar("ctrl+o", "copy")
	}
	return truncateStyled(line, n.width)
}
