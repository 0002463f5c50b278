package tui

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"cmdk/protocol"
	"cmdk/store"
)

// historySource matches history entries on "title url"
type historySource []store.HistoryEntry

func (s historySource) String(i int) string { return s[i].Title + " " + s[i].URL }
func (s historySource) Len() int { return len(s) }

type launcherRow struct {
	entry   store.HistoryEntry
	direct  bool // typed URL, not from history
	matched []int
}

// Launcher lists visited pages by frecency and opens typed URLs
type Launcher struct {
	id      int
	env     *Env
	input   textinput.Model
	entries []store.HistoryEntry
	rows    []launcherRow
	cursor  int
	offset  int
	width   int
	height  int
}

// NewLauncher creates the history launcher
func NewLauncher(env *Env) *Launcher {
	ti := newTextInput("Search history or enter a URL...")
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.CharLimit = 2048
	ti.Focus()
	return &Launcher{id: nextScreenID(), env: env, input: ti}
}

func (l *Launcher) ID() int { return l.id }
func (l *Launcher) Title() string { return "cmdk" }

func (l *Launcher) Init() tea.Cmd {
	l.refresh()
	return nil
}

// Focus reloads history when the launcher is shown again
func (l *Launcher) Focus() tea.Cmd {
	l.refresh()
	return nil
}

func (l *Launcher) refresh() {
	l.entries = l.env.History.Ranked(l.env.now())
	l.filter()
}

// filter keeps frecency order; fuzzy matching only narrows it
func (l *Launcher) filter() {
	l.rows = l.rows[:0]
	text := strings.TrimSpace(l.input.Value())
	if protocol.IsURL(text) {
		l.rows = append(l.rows, launcherRow{entry: store.HistoryEntry{URL: text, Title: "Open URL"}, direct: true})
	}
	if text == "" {
		for _, e := range l.entries {
			l.rows = append(l.rows, launcherRow{entry: e})
		}
	} else {
		for _, m := range fuzzy.FindFromNoSort(text, historySource(l.entries)) {
			l.rows = append(l.rows, launcherRow{entry: l.entries[m.Index], matched: m.MatchedIndexes})
		}
	}
	l.cursor = min(l.cursor, max(len(l.rows)-1, 0))
	l.ensureVisible()
}

func (l *Launcher) selected() *launcherRow {
	if l.cursor < 0 || l.cursor >= len(l.rows) {
		return nil
	}
	return &l.rows[l.cursor]
}

func (l *Launcher) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(km, launcherKeys.Quit):
		if l.input.Value() != "" {
			l.input.SetValue("")
			l.cursor = 0
			l.filter()
			return nil
		}
		return tea.Quit
	case key.Matches(km, pageKeys.Up):
		if len(l.rows) > 0 {
			l.cursor = (l.cursor - 1 + len(l.rows)) % len(l.rows)
			l.ensureVisible()
		}
		return nil
	case key.Matches(km, pageKeys.Down):
		if len(l.rows) > 0 {
			l.cursor = (l.cursor + 1) % len(l.rows)
			l.ensureVisible()
		}
		return nil
	case key.Matches(km, launcherKeys.Open):
		return l.open()
	case key.Matches(km, launcherKeys.CopyURL):
		return l.copyURL()
	case key.Matches(km, launcherKeys.Remove):
		return l.remove()
	}

	before := l.input.Value()
	var cmd tea.Cmd
	l.input, cmd = l.input.Update(km)
	if l.input.Value() != before {
		l.cursor = 0
		l.offset = 0
		l.filter()
	}
	return cmd
}

func (l *Launcher) open() tea.Cmd {
	row := l.selected()
	if row == nil {
		return nil
	}
	u, err := url.Parse(row.entry.URL)
	if err != nil || !u.IsAbs() {
		return showToast(Toast{Style: ToastFailure, Title: "Invalid URL", Message: row.entry.URL})
	}
	if !row.direct {
		if err := l.env.History.Visit(row.entry.URL, l.env.now()); err != nil {
			log.Printf("launcher: recording visit to %s: %v", row.entry.URL, err)
		}
	}
	return push(NewPage(l.env, u, PageOptions{}))
}

func (l *Launcher) copyURL() tea.Cmd {
	row := l.selected()
	if row == nil {
		return nil
	}
	text, host := row.entry.URL, l.env.Host
	return func() tea.Msg {
		if err := host.Copy(text); err != nil {
			return toastMsg(errorToast(err))
		}
		return toastMsg(Toast{Style: ToastSuccess, Title: "Copied URL", Message: text})
	}
}

func (l *Launcher) remove() tea.Cmd {
	row := l.selected()
	if row == nil || row.direct {
		return nil
	}
	removed := row.entry.URL
	if err := l.env.History.Delete(removed); err != nil {
		return showToast(errorToast(err))
	}
	l.refresh()
	return showToast(Toast{Style: ToastSuccess, Title: "Removed", Message: removed})
}

func (l *Launcher) Resize(width, height int) {
	l.width = width
	l.height = height
	l.input.Width = max(width-4, 10)
	l.ensureVisible()
}

func (l *Launcher) visibleRows() int {
	return max(l.height-4, 1) // title, search, rule, help
}

func (l *Launcher) ensureVisible() {
	n := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+n {
		l.offset = l.cursor - n + 1
	}
	l.offset = max(l.offset, 0)
}

func (l *Launcher) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("cmdk"))
	b.WriteString("\n")
	b.WriteString(l.input.View())
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", max(l.width, 1))))
	b.WriteString("\n")

	var lines []string
	switch {
	case len(l.rows) == 0 && len(l.entries) == 0:
		lines = append(lines, emptyStyle.Render("No history yet. Type a URL to open a page."))
	case len(l.rows) == 0:
		lines = append(lines, emptyStyle.Render(fmt.Sprintf("No matches for %q", l.input.Value())))
	}
	end := min(l.offset+l.visibleRows(), len(l.rows))
	for i := l.offset; i < end; i++ {
		row := l.rows[i]
		line := renderItemLine(row.entry.Icon, row.entry.Title, row.entry.URL, row.matched, l.width)
		if i == l.cursor {
			line = cursorStyle.Render(lipgloss.NewStyle().Width(l.width).Render(line))
		}
		lines = append(lines, line)
	}

	height := l.visibleRows()
	b.WriteString(lipgloss.NewStyle().Height(height).MaxHeight(height).Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(helpBar("enter", "open", "ctrl+y", "copy url", "ctrl+x", "remove", "esc", "quit"))
	return b.String()
}
