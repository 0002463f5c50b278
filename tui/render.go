package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cmdk/protocol"
)

// renderMarkdown styles the block-level parts of markdown a terminal can show:
// headings, fenced code, quotes and bullets. Inline markup is left as typed.
func renderMarkdown(md string, width int) string {
	wrap := lipgloss.NewStyle()
	if width > 0 {
		wrap = wrap.Width(width)
	}

	var out []string
	inCode := false
	for _, line := range strings.Split(strings.ReplaceAll(md, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			continue
		}
		switch {
		case inCode:
			out = append(out, codeStyle.Render("  "+line))
		case strings.HasPrefix(trimmed, "#"):
			out = append(out, headingStyle.Render(strings.TrimSpace(strings.TrimLeft(trimmed, "#"))))
		case strings.HasPrefix(trimmed, ">"):
			out = append(out, quoteStyle.Render("│ "+strings.TrimSpace(strings.TrimPrefix(trimmed, ">"))))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			out = append(out, wrap.Render("• "+trimmed[2:]))
		default:
			out = append(out, wrap.Render(line))
		}
	}
	return strings.Join(out, "\n")
}

// renderMetadata renders metadata entries top to bottom in document order
func renderMetadata(items []protocol.MetadataItem, width int) string {
	var lines []string
	for _, item := range items {
		switch item.Type {
		case protocol.MetadataSeparator:
			lines = append(lines, separatorStyle.Render(strings.Repeat("─", max(width, 1))))
		case protocol.MetadataLink:
			text := item.Text
			if text == "" {
				text = item.URL
			}
			lines = append(lines, labelStyle.Render(item.Title))
			lines = append(lines, "  "+linkStyle.Render(text))
			if item.Text != "" && item.URL != item.Text {
				lines = append(lines, "  "+urlStyle.Render(item.URL))
			}
		default:
			lines = append(lines, labelStyle.Render(item.Title))
			lines = append(lines, "  "+valueStyle.Render(item.Text))
		}
	}
	return strings.Join(lines, "\n")
}

// renderDocument lays out markdown with metadata as a sidebar when there is room
func renderDocument(md string, meta []protocol.MetadataItem, width int) string {
	if len(meta) == 0 {
		return renderMarkdown(md, width)
	}
	if md == "" {
		return renderMetadata(meta, width)
	}
	if width < 60 {
		return renderMarkdown(md, width) + "\n\n" + renderMetadata(meta, width)
	}

	sep := separatorStyle.Render(" │ ")
	metaWidth := width / 3
	mdWidth := width - metaWidth - lipgloss.Width(sep)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(mdWidth).Render(renderMarkdown(md, mdWidth)),
		sep,
		lipgloss.NewStyle().Width(metaWidth).Render(renderMetadata(meta, metaWidth)),
	)
}

func helpBar(pairs ...string) string {
	var parts []string
	for i := 0; i < len(pairs)-1; i += 2 {
		parts = append(parts, helpKeyStyle.Render(pairs[i])+":"+helpDescStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

// placeOverlay composites a foreground panel centered on top of a background.
// The overlay replaces background lines.
func placeOverlay(bgWidth, bgHeight int, overlay, background string) string {
	bgLines := strings.Split(background, "\n")
	for len(bgLines) < bgHeight {
		bgLines = append(bgLines, "")
	}
	fgLines := strings.Split(overlay, "\n")

	startX := max((bgWidth-lipgloss.Width(overlay))/2, 0)
	startY := max((bgHeight-len(fgLines))/2, 0)

	for i, fgLine := range fgLines {
		row := startY + i
		if row >= len(bgLines) {
			break
		}
		right := ""
		if pad := bgWidth - startX - lipgloss.Width(fgLine); pad > 0 {
			right = strings.Repeat(" ", pad)
		}
		bgLines[row] = strings.Repeat(" ", startX) + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 1 || len(r) <= 1 {
		return "…"
	}
	if len(r) > width-1 {
		r = r[:width-1]
	}
	return string(r) + "…"
}
