package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type geometry struct {
	listW    int
	previewW int
	panelH   int
}

// layout splits the screen 40/60 between list and preview; each panel loses
// four columns to its border and padding, and the input row, status bar and
// borders take six rows.
func (b browser) layout() geometry {
	l := geometry{listW: 40, previewW: 60, panelH: 20}
	if b.width > 0 {
		l.listW = max(b.width*40/100-4, 20)
		l.previewW = max(b.width*60/100-4, 20)
	}
	if b.height > 0 {
		l.panelH = max(b.height-6, 5)
	}
	return l
}

func (b browser) View() string {
	if b.done || !b.ready {
		return ""
	}
	l := b.layout()

	badge := "search"
	if b.mode == modeChats {
		badge = "chats"
	}
	inputRow := modeStyle.Render("["+badge+"] ") + b.input.View()

	list := listFrame.Width(l.listW).Height(l.panelH).Render(b.renderList(l.listW, l.panelH))

	b.preview.Width = l.previewW
	b.preview.Height = l.panelH
	preview := previewFrame.Width(l.previewW).Height(l.panelH).Render(b.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, list, preview)
	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, b.statusBar())
}

func (b browser) statusBar() string {
	parts := []string{fmt.Sprintf("%d results", len(b.results))}
	for _, k := range keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return statusStyle.Render(strings.Join(parts, " | "))
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
// Row 0 is the input, row 1 the panels' top border.
func (b browser) hitTest(x, y int) (mouseRegion, int) {
	l := b.layout()
	top := 2
	if y < top || y >= top+l.panelH {
		return regionNone, -1
	}
	switch {
	case x >= 1 && x <= l.listW:
		return regionList, b.offset + (y-top)/linesPerItem
	case x > l.listW+2:
		return regionPreview, -1
	}
	return regionNone, -1
}
