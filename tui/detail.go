package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"cmdk/protocol"
)

// detailView shows a detail document in a scrollable viewport
type detailView struct {
	doc      *protocol.Detail
	viewport viewport.Model
	ready    bool
}

func (d *detailView) set(doc *protocol.Detail) {
	d.doc = doc
	d.render()
}

func (d *detailView) setSize(width, height int) {
	if !d.ready {
		d.viewport = viewport.New(width, height)
		d.ready = true
	} else {
		d.viewport.Width = width
		d.viewport.Height = height
	}
	d.render()
}

func (d *detailView) render() {
	if !d.ready || d.doc == nil {
		return
	}
	d.viewport.SetContent(renderDocument(d.doc.Markdown, d.doc.Metadata, d.viewport.Width))
}

func (d *detailView) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd
}

func (d *detailView) view() string {
	if !d.ready {
		if d.doc == nil {
			return ""
		}
		return renderDocument(d.doc.Markdown, d.doc.Metadata, 0)
	}
	return d.viewport.View()
}
