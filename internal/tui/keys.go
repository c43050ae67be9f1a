package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Copy     key.Binding
	Edit     key.Binding
	Mode     key.Binding
	Lang     key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("up/C-k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("dn/C-j", "down")),
	Copy:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "copy message")),
	Edit:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("C-o", "open in editor")),
	Mode:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "search/chats")),
	Lang:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("C-l", "language")),
	HalfUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("C-u", "preview up")),
	HalfDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("C-d", "preview down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "preview page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "preview page down")),
	Quit:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("Esc", "quit")),
}

// ShortHelp lists the bindings shown in the status bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mode, k.Copy, k.Edit, k.Lang, k.HalfDown, k.Quit}
}
