package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cmdk/client"
	"cmdk/store"
)

// authView prompts for the credential a 401 challenge asked for
type authView struct {
	scheme client.Scheme
	origin string
	inputs []textinput.Model
	labels []string
	focus  int
	err    string
}

func newAuthView(scheme client.Scheme, origin string) authView {
	v := authView{scheme: scheme, origin: origin}
	switch scheme {
	case client.SchemeBasic:
		user := newTextInput("username")
		pass := newTextInput("password")
		pass.EchoMode = textinput.EchoPassword
		pass.EchoCharacter = '•'
		v.inputs = []textinput.Model{user, pass}
		v.labels = []string{"Username", "Password"}
	default:
		token := newTextInput("token")
		token.EchoMode = textinput.EchoPassword
		token.EchoCharacter = '•'
		v.inputs = []textinput.Model{token}
		v.labels = []string{"Token"}
	}
	v.inputs[0].Focus()
	return v
}

func (v *authView) setSize(width int) {
	for i := range v.inputs {
		v.inputs[i].Width = max(width-4, 10)
	}
}

// update handles a key and reports whether the prompt was submitted
func (v *authView) update(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, formKeys.Submit):
		return nil, true
	case key.Matches(msg, formKeys.Next):
		return v.moveFocus(1), false
	case key.Matches(msg, formKeys.Prev):
		return v.moveFocus(-1), false
	case msg.Type == tea.KeyEnter:
		if v.focus == len(v.inputs)-1 {
			return nil, true
		}
		return v.moveFocus(1), false
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd, false
}

func (v *authView) moveFocus(delta int) tea.Cmd {
	v.inputs[v.focus].Blur()
	v.focus = (v.focus + delta + len(v.inputs)) % len(v.inputs)
	return v.inputs[v.focus].Focus()
}

// credential builds the credential to store; empty input is rejected
func (v *authView) credential() (store.Credential, bool) {
	if v.scheme == client.SchemeBasic {
		user := strings.TrimSpace(v.inputs[0].Value())
		pass := v.inputs[1].Value()
		if user == "" || pass == "" {
			v.err = "Username and password are required"
			return store.Credential{}, false
		}
		return store.BasicCredential(user, pass), true
	}
	token := strings.TrimSpace(v.inputs[0].Value())
	if token == "" {
		v.err = "Token is required"
		return store.Credential{}, false
	}
	return store.BearerCredential(token), true
}

func (v *authView) view() string {
	var b strings.Builder
	title := "Bearer token required"
	if v.scheme == client.SchemeBasic {
		title = "Sign in required"
	}
	b.WriteString(labelStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(urlStyle.Render(v.origin))
	b.WriteString("\n\n")
	for i := range v.inputs {
		label := fieldLabelStyle.Render(v.labels[i])
		if i == v.focus {
			label = focusedLabelStyle.Render(v.labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n  ")
		b.WriteString(v.inputs[i].View())
		b.WriteString("\n\n")
	}
	if v.err != "" {
		b.WriteString(errorStyle.Render(v.err))
	}
	return strings.TrimRight(b.String(), "\n")
}
