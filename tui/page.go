package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cmdk/client"
	"cmdk/protocol"
)

// State is what a page is currently showing
type State int

const (
	StateLoading State = iota
	StateAuthBasic
	StateAuthBearer
	StateList
	StateDetail
	StateForm
	StateUnsupported
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthBasic:
		return "auth-basic"
	case StateAuthBearer:
		return "auth-bearer"
	case StateList:
		return "list"
	case StateDetail:
		return "detail"
	case StateForm:
		return "form"
	case StateUnsupported:
		return "unsupported"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// PageOptions overrides how a page requests its document
type PageOptions struct {
	Method string // defaults to GET
	Body   map[string]any
}

// Page fetches one page document and interprets it
type Page struct {
	id        int
	env       *Env
	url       *url.URL
	method    string
	body      map[string]any
	hasParent bool

	state    State
	doc      protocol.Page
	err      error
	query    string
	querySeq int

	// token identifies the newest fetch; results carrying an older one are dropped
	token   uint64
	cancel  context.CancelFunc
	loading bool
	running int

	list    listView
	detail  detailView
	form    formView
	auth    authView
	panel   actionPanel

	// resume is the state a dismissed auth prompt returns to, when the
	// prompt came from a run on a page that still has its document
	resume    State
	canResume bool
	spinner spinner.Model

	width  int
	height int
}

// NewPage creates a page for u. Nothing is fetched until Init.
func NewPage(env *Env, u *url.URL, opts PageOptions) *Page {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	return &Page{
		id:      nextScreenID(),
		env:     env,
		url:     u,
		method:  method,
		body:    opts.Body,
		state:   StateLoading,
		list:    newListView(),
		spinner: sp,
	}
}

func (p *Page) ID() int { return p.id }
func (p *Page) URL() *url.URL { return p.url }
func (p *Page) State() State { return p.state }
func (p *Page) Document() protocol.Page { return p.doc }
func (p *Page) Err() error { return p.err }

func (p *Page) Title() string {
	if p.doc != nil && p.doc.PageTitle() != "" {
		return p.doc.PageTitle()
	}
	return p.url.String()
}

func (p *Page) Init() tea.Cmd {
	return tea.Batch(p.load(nil, 0, false), p.spinner.Tick)
}

// Reload refetches the current document, superseding any fetch in flight
func (p *Page) Reload() tea.Cmd {
	return p.load(nil, 0, false)
}

// Close abandons any fetch in flight
func (p *Page) Close() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Page) request() client.Request {
	u := *p.url
	if p.query != "" {
		q := u.Query()
		q.Set("query", p.query)
		u.RawQuery = q.Encode()
	}
	req := client.Request{Method: p.method, URL: &u}
	if p.body != nil {
		req.Body = p.body
	}
	return req
}

// load starts a fetch. then is dispatched once the result lands; focus asks
// the navigator to return to this page first.
func (p *Page) load(then *protocol.Command, depth int, focus bool) tea.Cmd {
	p.Close()
	p.token++
	token := p.token
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.loading = true
	if p.doc == nil || p.state == StateAuthBasic || p.state == StateAuthBearer {
		p.state = StateLoading
	}

	id := p.id
	env := p.env
	req := p.request()
	return func() tea.Msg {
		doc, err := env.Client.FetchPage(ctx, req)
		if err == nil && req.IsRead() && env.History != nil {
			if herr := env.History.Record(req.URL.String(), doc.PageTitle(), doc.PageIcon(), env.now()); herr != nil {
				log.Printf("page: recording history for %s: %v", req.URL, herr)
			}
		}
		return pageLoadedMsg{page: id, token: token, req: req, doc: doc, err: err, then: then, depth: depth, focus: focus}
	}
}

func (p *Page) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		return p.handleLoaded(msg)
	case runDoneMsg:
		return p.handleRunDone(msg)
	case queryMsg:
		if msg.seq != p.querySeq {
			return nil
		}
		p.query = msg.text
		return p.load(nil, 0, false)
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *Page) handleLoaded(msg pageLoadedMsg) tea.Cmd {
	var cmds []tea.Cmd
	if msg.token == p.token {
		p.loading = false
		p.cancel = nil
		cmds = append(cmds, p.apply(msg.doc, msg.err))
	} else {
		log.Printf("page: dropping stale result for %s", msg.req.URL)
	}

	switch {
	case msg.focus:
		id, then, depth := p.id, msg.then, msg.depth
		cmds = append(cmds, func() tea.Msg { return focusMsg{page: id, then: then, depth: depth} })
	case msg.then != nil:
		cmds = append(cmds, p.dispatch(*msg.then, msg.depth))
	}
	return tea.Batch(cmds...)
}

// apply installs a fetch result
func (p *Page) apply(doc protocol.Page, err error) tea.Cmd {
	var (
		unauthorized *client.UnauthorizedError
		malformed    *protocol.ParseError
	)
	switch {
	case err == nil:
		p.setDocument(doc)
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	case errors.As(err, &unauthorized):
		p.enterAuth(unauthorized.Scheme, protocol.Origin(p.url))
		return nil
	case errors.As(err, &malformed):
		log.Printf("page: %s: %v", p.url, err)
		p.state = StateUnsupported
		p.doc = nil
		p.err = err
		return nil
	}

	log.Printf("page: %s: %v", p.url, err)
	if p.doc == nil || p.state == StateLoading {
		p.state = StateError
		p.err = err
	}
	return showToast(errorToast(err))
}

func (p *Page) setDocument(doc protocol.Page) {
	p.doc = doc
	p.err = nil
	p.canResume = false
	switch d := doc.(type) {
	case *protocol.List:
		p.state = StateList
		p.list.set(d)
	case *protocol.Detail:
		p.state = StateDetail
		p.detail.set(d)
	case *protocol.Form:
		p.state = StateForm
		p.form = newFormView(d)
		p.form.setSize(p.width)
	default:
		p.state = StateUnsupported
	}
}

func (p *Page) enterAuth(scheme client.Scheme, origin string) {
	p.panel.close()
	p.canResume = false
	p.state = StateAuthBearer
	if scheme == client.SchemeBasic {
		p.state = StateAuthBasic
	}
	p.auth = newAuthView(scheme, origin)
	p.auth.setSize(p.width)
	log.Printf("page: %s requires %s credentials for %s", p.url, scheme, origin)
}

// submitAuth stores the captured credential and refetches once
func (p *Page) submitAuth() tea.Cmd {
	cred, ok := p.auth.credential()
	if !ok {
		return nil
	}
	if err := p.env.Creds.Set(p.auth.origin, cred); err != nil {
		p.auth.err = err.Error()
		return nil
	}
	p.state = StateLoading
	p.canResume = false
	return p.load(nil, 0, false)
}

// actions is everything the actions panel offers in the current state
func (p *Page) actions() []protocol.Action {
	switch p.state {
	case StateList:
		return p.list.actions()
	case StateDetail:
		if d, ok := p.doc.(*protocol.Detail); ok {
			return d.Actions
		}
	}
	return nil
}

func (p *Page) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.panel.open {
		if a := p.panel.update(msg); a != nil {
			return p.HandleCommand(a.OnAction)
		}
		return nil
	}

	switch p.state {
	case StateAuthBasic, StateAuthBearer:
		if key.Matches(msg, pageKeys.Back) {
			if p.canResume {
				p.state = p.resume
				p.canResume = false
				return nil
			}
			return back
		}
		cmd, submit := p.auth.update(msg)
		if submit {
			return p.submitAuth()
		}
		return cmd
	}

	if key.Matches(msg, pageKeys.Reload) {
		return p.Reload()
	}
	if msg.Type != tea.KeyRunes || msg.Alt {
		if a := matchShortcut(p.actions(), msg); a != nil {
			return p.HandleCommand(a.OnAction)
		}
	}

	switch p.state {
	case StateList:
		return p.handleListKey(msg)
	case StateDetail:
		return p.handleDetailKey(msg)
	case StateForm:
		if key.Matches(msg, pageKeys.Back) {
			return back
		}
		cmd, submit := p.form.update(msg)
		if submit {
			return p.submitForm()
		}
		return cmd
	}
	if key.Matches(msg, pageKeys.Back) {
		return back
	}
	return nil
}

func (p *Page) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, pageKeys.Back):
		if p.list.clearSearch() {
			if p.list.doc != nil && p.list.doc.Dynamic {
				return p.scheduleQuery("")
			}
			return nil
		}
		return back
	case key.Matches(msg, pageKeys.Up):
		p.list.move(-1)
	case key.Matches(msg, pageKeys.Down):
		p.list.move(1)
	case key.Matches(msg, pageKeys.Primary):
		if actions := p.list.actions(); len(actions) > 0 {
			return p.HandleCommand(actions[0].OnAction)
		}
	case key.Matches(msg, pageKeys.Actions):
		p.panel.show(p.list.actions())
	default:
		cmd, changed := p.list.updateSearch(msg)
		if changed && p.list.doc != nil && p.list.doc.Dynamic {
			return tea.Batch(cmd, p.scheduleQuery(p.list.search.Value()))
		}
		return cmd
	}
	return nil
}

func (p *Page) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, pageKeys.Back):
		return back
	case key.Matches(msg, pageKeys.Primary):
		if actions := p.actions(); len(actions) > 0 {
			return p.HandleCommand(actions[0].OnAction)
		}
		return nil
	case key.Matches(msg, pageKeys.Actions):
		p.panel.show(p.actions())
		return nil
	}
	return p.detail.update(msg)
}

// scheduleQuery refetches a dynamic list once typing pauses
func (p *Page) scheduleQuery(text string) tea.Cmd {
	p.querySeq++
	if p.env.QueryDebounce <= 0 {
		p.query = text
		return p.load(nil, 0, false)
	}
	id, seq := p.id, p.querySeq
	return tea.Tick(p.env.QueryDebounce, func(time.Time) tea.Msg {
		return queryMsg{page: id, seq: seq, text: text}
	})
}

func (p *Page) Resize(width, height int) {
	p.width = width
	p.height = height
	body := max(height-2, 1)
	p.list.setSize(width, body)
	p.detail.setSize(width, body)
	p.form.setSize(width)
	p.auth.setSize(width)
}

func (p *Page) View() string {
	header := titleStyle.Render(truncate(p.Title(), max(p.width/2, 10)))
	if p.doc != nil {
		header += " " + urlStyle.Render(p.url.String())
	}
	if p.loading || p.running > 0 {
		header += "  " + p.spinner.View()
	}

	bodyHeight := max(p.height-2, 1)
	body := lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(p.viewBody())
	if p.panel.open {
		body = placeOverlay(p.width, bodyHeight, p.panel.view(max(p.width*3/5, 20)), body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, p.viewHelpBar())
}

func (p *Page) viewBody() string {
	switch p.state {
	case StateLoading:
		return loadingStyle.Render(p.spinner.View() + " Loading " + p.url.String())
	case StateAuthBasic, StateAuthBearer:
		return p.auth.view()
	case StateList:
		return p.list.view()
	case StateDetail:
		return p.detail.view()
	case StateForm:
		return p.form.view()
	case StateUnsupported:
		if p.err != nil {
			return errorStyle.Render("Malformed document") + "\n\n" + p.err.Error()
		}
		return errorStyle.Render(fmt.Sprintf("Unsupported page type %q", string(p.doc.Type())))
	case StateError:
		return errorStyle.Render("Failed to load "+p.url.String()) + "\n\n" + describeError(p.err)
	}
	return ""
}

func (p *Page) viewHelpBar() string {
	if p.panel.open {
		return helpBar("enter", "run", "↑/↓", "nav", "esc", "close")
	}
	switch p.state {
	case StateList:
		return helpBar("enter", "run", "ctrl+k", "actions", "ctrl+r", "reload", "esc", "back")
	case StateDetail:
		return helpBar("enter", "run", "ctrl+k", "actions", "↑/↓", "scroll", "esc", "back")
	case StateForm:
		return helpBar("ctrl+s", "submit", "tab", "next", "space", "toggle", "esc", "back")
	case StateAuthBasic, StateAuthBearer:
		if p.canResume {
			return helpBar("enter", "sign in", "tab", "next", "esc", "cancel")
		}
		return helpBar("enter", "sign in", "tab", "next", "esc", "back")
	}
	return helpBar("ctrl+r", "reload", "esc", "back")
}

func describeError(err error) string {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		body := strings.TrimSpace(httpErr.Body)
		if body == "" {
			body = http.StatusText(httpErr.StatusCode)
		}
		return fmt.Sprintf("HTTP %d\n%s", httpErr.StatusCode, body)
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func errorToast(err error) Toast {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		body := strings.TrimSpace(httpErr.Body)
		if body == "" {
			body = http.StatusText(httpErr.StatusCode)
		}
		return Toast{Style: ToastFailure, Title: fmt.Sprintf("Error %d", httpErr.StatusCode), Message: body, CopyText: body}
	}
	return Toast{Style: ToastFailure, Title: "Error", Message: err.Error(), CopyText: err.Error()}
}
