package tui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/mux"

	"cmdk/client"
	"cmdk/store"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeHost struct {
	opened []string
	copied []string
	err    error
	onCopy func(text string)
}

func (h *fakeHost) OpenURL(target string) error {
	if h.err != nil {
		return h.err
	}
	h.opened = append(h.opened, target)
	return nil
}

func (h *fakeHost) Copy(text string) error {
	if h.err != nil {
		return h.err
	}
	if h.onCopy != nil {
		h.onCopy(text)
	}
	h.copied = append(h.copied, text)
	return nil
}

func newTestEnv(t *testing.T) (*Env, *fakeHost) {
	t.Helper()
	db, err := store.Open("")
	if err != nil {
		t.Fatal(err)
	}
	creds := store.NewCredentials(db)
	host := &fakeHost{}
	return &Env{
		Client:  client.New(creds, client.Options{Timeout: 5 * time.Second}),
		Creds:   creds,
		History: store.NewHistory(db),
		Host:    host,
		Now:     func() time.Time { return testNow },
	}, host
}

// testServer counts requests per "METHOD /path" and remembers Authorization headers
type testServer struct {
	*httptest.Server
	mu    sync.Mutex
	hits  map[string]int
	auths []string
}

func newTestServer(t *testing.T, routes func(r *mux.Router)) *testServer {
	t.Helper()
	s := &testServer{hits: make(map[string]int)}
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s.mu.Lock()
			s.hits[req.Method+" "+req.URL.Path]++
			s.auths = append(s.auths, req.Header.Get("Authorization"))
			s.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	routes(r)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func (s *testServer) Hits(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

func (s *testServer) LastAuth() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.auths) == 0 {
		return ""
	}
	return s.auths[len(s.auths)-1]
}

func (s *testServer) url(t *testing.T, path string) *url.URL {
	t.Helper()
	u, err := url.Parse(s.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func document(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}
}

// pump runs cmd and everything it leads to, feeding each message to update.
// Spinner ticks are dropped so animation never keeps the loop alive.
func pump(cmd tea.Cmd, update func(tea.Msg) tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			out = append(out, msg)
			queue = append(queue, update(msg))
		}
	}
	return out
}

// harness drives a navigator the way the bubbletea runtime would
type harness struct {
	t   *testing.T
	nav *Navigator
}

func newHarness(t *testing.T, env *Env, root Screen) *harness {
	t.Helper()
	h := &harness{t: t, nav: NewNavigator(env, root)}
	h.nav.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.run(h.nav.Init())
	return h
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	_, cmd := h.nav.Update(msg)
	return cmd
}

func (h *harness) run(cmd tea.Cmd) []tea.Msg {
	return pump(cmd, h.update)
}

func (h *harness) send(msg tea.Msg) []tea.Msg {
	return h.run(h.update(msg))
}

func (h *harness) press(k string) []tea.Msg {
	return h.send(keyMsg(k))
}

func (h *harness) top() *Page {
	h.t.Helper()
	p, ok := h.nav.Top().(*Page)
	if !ok {
		h.t.Fatalf("top screen is %T, want *Page", h.nav.Top())
	}
	return p
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func hasQuit(msgs []tea.Msg) bool {
	for _, m := range msgs {
		if _, ok := m.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}
