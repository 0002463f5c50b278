package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"cmdk/protocol"
)

// listSource adapts list items to fuzzy matching over "title subtitle"
type listSource []protocol.ListItem

func (s listSource) String(i int) string {
	if s[i].Subtitle == "" {
		return s[i].Title
	}
	return s[i].Title + " " + s[i].Subtitle
}

func (s listSource) Len() int { return len(s) }

type listRow struct {
	index   int
	matched []int
}

// listView renders a list document with a search bar
type listView struct {
	doc    *protocol.List
	search textinput.Model
	rows   []listRow
	cursor int
	offset int
	width  int
	height int
}

func newListView() listView {
	ti := newTextInput("Search...")
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.CharLimit = 256
	ti.Focus()
	return listView{search: ti}
}

// set installs a freshly fetched document. The search text survives, and the
// cursor stays on the same item id when the item still exists.
func (l *listView) set(doc *protocol.List) {
	var selectedID string
	if item := l.selected(); item != nil {
		selectedID = item.ID
	}
	l.doc = doc
	l.filter()

	if selectedID == "" {
		l.cursor = min(l.cursor, max(len(l.rows)-1, 0))
	} else {
		l.cursor = 0
		for i, row := range l.rows {
			if doc.Items[row.index].ID == selectedID {
				l.cursor = i
				break
			}
		}
	}
	l.ensureVisible()
}

// filter rebuilds the visible rows. Dynamic lists are filtered by the server.
func (l *listView) filter() {
	l.rows = l.rows[:0]
	if l.doc == nil {
		return
	}
	query := strings.TrimSpace(l.search.Value())
	if l.doc.Dynamic || query == "" {
		for i := range l.doc.Items {
			l.rows = append(l.rows, listRow{index: i})
		}
		return
	}
	for _, m := range fuzzy.FindFrom(query, listSource(l.doc.Items)) {
		l.rows = append(l.rows, listRow{index: m.Index, matched: m.MatchedIndexes})
	}
}

// updateSearch feeds a key to the search bar and reports whether its text changed
func (l *listView) updateSearch(msg tea.Msg) (tea.Cmd, bool) {
	before := l.search.Value()
	var cmd tea.Cmd
	l.search, cmd = l.search.Update(msg)
	if l.search.Value() == before {
		return cmd, false
	}
	l.filter()
	l.cursor = 0
	l.offset = 0
	return cmd, true
}

func (l *listView) clearSearch() bool {
	if l.search.Value() == "" {
		return false
	}
	l.search.SetValue("")
	l.filter()
	l.cursor = 0
	l.offset = 0
	return true
}

func (l *listView) selected() *protocol.ListItem {
	if l.doc == nil || l.cursor < 0 || l.cursor >= len(l.rows) {
		return nil
	}
	return &l.doc.Items[l.rows[l.cursor].index]
}

// actions returns the selected item's actions followed by the list's own
func (l *listView) actions() []protocol.Action {
	if l.doc == nil {
		return nil
	}
	var actions []protocol.Action
	if item := l.selected(); item != nil {
		actions = append(actions, item.Actions...)
	}
	return append(actions, l.doc.Actions...)
}

func (l *listView) move(delta int) {
	if len(l.rows) == 0 {
		return
	}
	l.cursor = (l.cursor + delta + len(l.rows)) % len(l.rows)
	l.ensureVisible()
}

func (l *listView) setSize(width, height int) {
	l.width = width
	l.height = height
	l.search.Width = max(width-4, 10)
	l.ensureVisible()
}

func (l *listView) visibleRows() int {
	return max(l.height-2, 1) // search bar and its rule
}

func (l *listView) ensureVisible() {
	n := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+n {
		l.offset = l.cursor - n + 1
	}
	l.offset = max(l.offset, 0)
}

func (l *listView) view() string {
	var b strings.Builder
	b.WriteString(l.search.View())
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", max(l.width, 1))))
	b.WriteString("\n")

	listWidth := l.width
	showDetail := l.doc != nil && l.doc.IsShowingDetail
	if showDetail {
		listWidth = l.width * 2 / 5
	}

	rows := l.renderRows(listWidth)
	if !showDetail {
		b.WriteString(rows)
		return b.String()
	}

	sep := separatorStyle.Render(" │ ")
	detailWidth := l.width - listWidth - lipgloss.Width(sep)
	var detail string
	if item := l.selected(); item != nil && item.Detail != nil {
		detail = renderDocument(item.Detail.Markdown, item.Detail.Metadata, detailWidth)
	}
	height := l.visibleRows()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Height(height).MaxHeight(height).Render(rows),
		sep,
		lipgloss.NewStyle().Width(detailWidth).Height(height).MaxHeight(height).Render(detail),
	))
	return b.String()
}

func (l *listView) renderRows(width int) string {
	if l.doc == nil {
		return ""
	}
	if len(l.rows) == 0 {
		if len(l.doc.Items) == 0 {
			return emptyStyle.Render("No items")
		}
		return emptyStyle.Render(fmt.Sprintf("No matches for %q", l.search.Value()))
	}

	end := min(l.offset+l.visibleRows(), len(l.rows))
	var lines []string
	for i := l.offset; i < end; i++ {
		row := l.rows[i]
		item := l.doc.Items[row.index]
		line := renderItemLine(item.Icon, item.Title, item.Subtitle, row.matched, width)
		if i == l.cursor {
			line = cursorStyle.Render(lipgloss.NewStyle().Width(width).Render(line))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderItemLine highlights fuzzy matches within the title
func renderItemLine(icon, title, subtitle string, matched []int, width int) string {
	var b strings.Builder
	if icon != "" && len([]rune(icon)) <= 2 {
		b.WriteString(icon + " ")
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	for i, r := range title {
		if hit[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	if subtitle != "" {
		b.WriteString("  " + subtitleStyle.Render(subtitle))
	}
	return truncateStyled(b.String(), width)
}

func truncateStyled(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
