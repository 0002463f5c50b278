package tui

import (
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"cmdk/store"
)

func seedHistory(t *testing.T, env *Env, entries ...store.HistoryEntry) {
	t.Helper()
	for _, e := range entries {
		if err := env.History.Set(e); err != nil {
			t.Fatal(err)
		}
	}
}

func ms(t time.Time) int64 { return t.UnixMilli() }

func TestLauncher_RanksAndFilters(t *testing.T) {
	env, _ := newTestEnv(t)
	seedHistory(t, env,
		store.HistoryEntry{URL: "https://old.example", Title: "Old", Timestamp: ms(testNow.AddDate(0, -6, 0)), Visits: 20},
		store.HistoryEntry{URL: "https://busy.example", Title: "Busy", Timestamp: ms(testNow.Add(-time.Hour)), Visits: 5},
		store.HistoryEntry{URL: "https://fresh.example", Title: "Fresh", Timestamp: ms(testNow.Add(-time.Minute)), Visits: 1},
	)
	l := NewLauncher(env)
	h := newHarness(t, env, l)

	var got []string
	for _, row := range l.rows {
		got = append(got, row.entry.Title)
	}
	want := []string{"Busy", "Old", "Fresh"}
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	}

	t.Run("fuzzy filter keeps rank order", func(t *testing.T) {
		h.send(keyMsg("e"))
		var titles []string
		for _, row := range l.rows {
			titles = append(titles, row.entry.Title)
		}
		// every entry contains an "e" in its URL
		if len(titles) != 3 || titles[0] != "Busy" {
			t.Errorf("rows = %v", titles)
		}
		h.press("esc")
		if l.input.Value() != "" || h.nav.Depth() != 1 {
			t.Error("esc did not clear the search")
		}
	})

	t.Run("no match", func(t *testing.T) {
		h.send(keyMsg("zzz"))
		if len(l.rows) != 0 {
			t.Errorf("rows = %d, want 0", len(l.rows))
		}
		h.press("esc")
	})
}

func TestLauncher_OpenURLRow(t *testing.T) {
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/", document(`{"type":"detail","title":"Welcome"}`)).Methods(http.MethodGet)
	})
	env, _ := newTestEnv(t)
	l := NewLauncher(env)
	h := newHarness(t, env, l)

	h.send(keyMsg(srv.URL + "/"))
	if len(l.rows) == 0 || !l.rows[0].direct || l.rows[0].entry.Title != "Open URL" {
		t.Fatalf("rows = %+v", l.rows)
	}

	h.press("enter")

	if h.nav.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", h.nav.Depth())
	}
	if page := h.top(); page.State() != StateDetail {
		t.Errorf("state = %s", page.State())
	}
	entry, ok := env.History.Get(srv.URL + "/")
	if !ok || entry.Title != "Welcome" || entry.Visits != 1 {
		t.Errorf("history = %+v, %v", entry, ok)
	}

	t.Run("back refreshes history", func(t *testing.T) {
		h.press("esc")
		if h.nav.Depth() != 1 {
			t.Fatalf("depth = %d", h.nav.Depth())
		}
		if len(l.entries) != 1 {
			t.Errorf("entries = %d, want 1", len(l.entries))
		}
	})
}

func TestLauncher_OpenEntryCountsVisit(t *testing.T) {
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/docs", document(`{"type":"detail","title":"Docs"}`))
	})
	env, _ := newTestEnv(t)
	target := srv.URL + "/docs"
	seedHistory(t, env, store.HistoryEntry{URL: target, Title: "Docs", Timestamp: ms(testNow.Add(-48 * time.Hour)), Visits: 2})
	h := newHarness(t, env, NewLauncher(env))

	h.press("enter")

	entry, _ := env.History.Get(target)
	if entry.Visits != 3 {
		t.Errorf("visits = %d, want 3", entry.Visits)
	}
	if entry.Timestamp != ms(testNow) {
		t.Errorf("timestamp = %d, want %d", entry.Timestamp, ms(testNow))
	}
	if h.nav.Depth() != 2 {
		t.Errorf("depth = %d, want 2", h.nav.Depth())
	}
}

func TestLauncher_CopyAndRemove(t *testing.T) {
	env, host := newTestEnv(t)
	seedHistory(t, env,
		store.HistoryEntry{URL: "https://a.example", Title: "A", Timestamp: ms(testNow), Visits: 3},
		store.HistoryEntry{URL: "https://b.example", Title: "B", Timestamp: ms(testNow), Visits: 1},
	)
	l := NewLauncher(env)
	h := newHarness(t, env, l)

	msgs := h.press("ctrl+y")
	if len(host.copied) != 1 || host.copied[0] != "https://a.example" {
		t.Errorf("copied = %v", host.copied)
	}
	if hasQuit(msgs) {
		t.Error("copying a URL closed the launcher")
	}

	h.press("ctrl+x")
	if _, ok := env.History.Get("https://a.example"); ok {
		t.Error("entry not removed")
	}
	if len(l.rows) != 1 || l.rows[0].entry.URL != "https://b.example" {
		t.Errorf("rows = %+v", l.rows)
	}
	if toast := h.nav.Toast(); toast == nil || toast.Style != ToastSuccess {
		t.Errorf("toast = %+v", toast)
	}
}

func TestLauncher_EscQuits(t *testing.T) {
	env, _ := newTestEnv(t)
	h := newHarness(t, env, NewLauncher(env))
	if msgs := h.press("esc"); !hasQuit(msgs) {
		t.Error("esc did not quit")
	}
}
