package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"cmdk/client"
	"cmdk/protocol"
)

// ChainDepthError stops a server from chaining commands indefinitely
type ChainDepthError struct {
	Depth int
	Limit int
}

func (e *ChainDepthError) Error() string {
	return fmt.Sprintf("command chain too deep: %d commands (limit %d)", e.Depth, e.Limit)
}

// HandleCommand dispatches a command triggered by the user on this page
func (p *Page) HandleCommand(cmd protocol.Command) tea.Cmd {
	return p.dispatch(cmd, 0)
}

// dispatch runs cmd. depth counts the server-chained commands that led here.
func (p *Page) dispatch(cmd protocol.Command, depth int) tea.Cmd {
	if limit := p.env.maxChainDepth(); depth > limit {
		err := &ChainDepthError{Depth: depth, Limit: limit}
		log.Printf("page: %s: %v", p.url, err)
		return showToast(errorToast(err))
	}
	log.Printf("page: %s: dispatch %s (depth %d)", p.url, cmd, depth)

	host := p.env.Host
	switch cmd.Type {
	case protocol.CommandPush:
		u, err := protocol.Resolve(p.url, cmd.Page)
		if err != nil {
			return showToast(errorToast(err))
		}
		return push(NewPage(p.env, u, PageOptions{}))

	case protocol.CommandOpen:
		target := cmd.URL
		return func() tea.Msg {
			if err := host.OpenURL(target); err != nil {
				return toastMsg(errorToast(err))
			}
			return tea.Quit()
		}

	case protocol.CommandCopy:
		text := cmd.Text
		return func() tea.Msg {
			if err := host.Copy(text); err != nil {
				return toastMsg(errorToast(err))
			}
			return tea.Quit()
		}

	case protocol.CommandRun:
		u, err := protocol.Resolve(p.url, cmd.Target)
		if err != nil {
			return showToast(errorToast(err))
		}
		return p.run(u, cmd, depth)
	}

	log.Printf("page: %s: ignoring unknown command type %q", p.url, cmd.Type)
	return showToast(Toast{Style: ToastInfo, Title: "Unsupported command", Message: string(cmd.Type)})
}

func (p *Page) run(target *url.URL, cmd protocol.Command, depth int) tea.Cmd {
	p.running++
	id, c := p.id, p.env.Client
	return func() tea.Msg {
		res, err := c.Run(context.Background(), target, cmd.Data)
		return runDoneMsg{page: id, cmd: cmd, url: target, next: res.Next, chainErr: res.ChainErr, depth: depth, err: err}
	}
}

// handleRunDone applies a run command's onSuccess effect, then any command
// the server sent back. A response that is not a command is reported but
// never cancels the onSuccess effect.
func (p *Page) handleRunDone(msg runDoneMsg) tea.Cmd {
	p.running = max(p.running-1, 0)

	if msg.err != nil {
		var unauthorized *client.UnauthorizedError
		if errors.As(msg.err, &unauthorized) {
			prev, inAuth := p.state, p.state == StateAuthBasic || p.state == StateAuthBearer
			p.enterAuth(unauthorized.Scheme, protocol.Origin(msg.url))
			if p.doc != nil && !inAuth {
				p.resume, p.canResume = prev, true
			}
			return nil
		}
		log.Printf("page: run %s: %v", msg.url, msg.err)
		return showToast(errorToast(msg.err))
	}

	var notice tea.Cmd
	chainErr := msg.chainErr
	var chain *protocol.Command
	if msg.next != nil {
		next, err := msg.next.Resolve(p.url)
		if err != nil {
			chainErr = err
		} else {
			chain = &next
		}
	}
	if chainErr != nil {
		log.Printf("page: run %s: ignoring response: %v", msg.url, chainErr)
		notice = showToast(errorToast(chainErr))
	}
	depth := msg.depth + 1

	switch msg.cmd.OnSuccess {
	case protocol.OnSuccessReload:
		return tea.Batch(notice, p.load(chain, depth, false))
	case protocol.OnSuccessPop:
		if p.hasParent {
			id := p.id
			return tea.Batch(notice, func() tea.Msg { return popMsg{page: id, then: chain, depth: depth} })
		}
		if chain != nil {
			return tea.Sequence(p.dispatch(*chain, depth), tea.Quit)
		}
		return tea.Quit
	}
	if chain != nil {
		return p.dispatch(*chain, depth)
	}
	return notice
}

// submitForm turns the form's values into the submission its document asks for
func (p *Page) submitForm() tea.Cmd {
	values, err := p.form.values()
	if err != nil {
		return showToast(Toast{Style: ToastFailure, Title: "Invalid form", Message: err.Error()})
	}

	sub := p.form.doc.OnSubmit
	ref := sub.URL
	if ref == "" {
		ref = p.url.String()
	}
	target, err := protocol.Resolve(p.url, ref)
	if err != nil {
		return showToast(errorToast(err))
	}

	switch sub.Type {
	case protocol.SubmitPush:
		q := target.Query()
		for k, v := range values {
			if s, ok := v.(string); ok {
				q.Set(k, s)
				continue
			}
			data, err := json.Marshal(v)
			if err != nil {
				return showToast(errorToast(err))
			}
			q.Set(k, string(data))
		}
		target.RawQuery = q.Encode()
		return push(NewPage(p.env, target, PageOptions{}))
	case protocol.SubmitRun:
		return p.HandleCommand(protocol.Command{
			Type:      protocol.CommandRun,
			Target:    target.String(),
			Data:      values,
			OnSuccess: sub.OnSuccess,
		})
	}
	return nil
}
