package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("12")  // bright blue
	colorArchive = lipgloss.Color("10")  // bright green
	colorMuted   = lipgloss.Color("240") // gray
	colorCursor  = lipgloss.Color("11")  // bright yellow
	colorFrame   = lipgloss.Color("238") // dark gray

	promptStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	modeStyle   = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(colorCursor).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	statusStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	kindStyles = map[string]lipgloss.Style{
		"txt": lipgloss.NewStyle().Foreground(colorAccent),
		"zip": lipgloss.NewStyle().Foreground(colorArchive),
	}

	listFrame    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFrame)
	previewFrame = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent)
)

func kindBadge(kind string) string {
	if s, ok := kindStyles[kind]; ok {
		return s.Render(kind)
	}
	return kind
}
