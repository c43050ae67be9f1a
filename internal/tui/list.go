package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chat-export-viewer/internal/search"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

func (b browser) renderList(width, height int) string {
	if len(b.results) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
	}

	visible := height / linesPerItem
	end := min(b.offset+visible, len(b.results))
	lines := make([]string, 0, height)
	for i := b.offset; i < end; i++ {
		lines = append(lines, formatResultLine(b.results[i], width, i == b.cursor)...)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatResultLine formats a single result as two lines:
//
//	line 1: [>] kind  date  title
//	line 2:    sender: snippet (dimmed)
func formatResultLine(r search.Result, width int, selected bool) []string {
	// hits show when the message was sent, listings when the chat last moved
	date := r.Ts
	if len(date) >= 10 {
		date = date[:10]
	}

	// "> " + kind + " " + date + " "
	title := fit(r.Title, width-2-len(r.Kind)-len(date)-2)
	head := fmt.Sprintf("%s %s %s", kindBadge(r.Kind), date, title)
	if selected {
		head = cursorStyle.Render("> ") + head
	} else {
		head = "  " + head
	}

	snippet := strings.NewReplacer(">>>", "", "<<<", "").Replace(r.Snippet)
	if r.Sender != "" {
		snippet = r.Sender + ": " + snippet
	}
	body := "    " + mutedStyle.Render(fit(snippet, width-4))

	return []string{head, body}
}

// fit flattens s onto one line and truncates it to width columns.
func fit(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "")
	}
	return s
}

// scrollToCursor keeps the cursor inside the visible part of the list.
func (b *browser) scrollToCursor() {
	visible := max(b.layout().panelH/linesPerItem, 1)
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+visible {
		b.offset = b.cursor - visible + 1
	}
}
