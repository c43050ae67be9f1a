package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (b browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.ready = true
		l := b.layout()
		b.preview = newViewport(l.previewW, l.panelH)
		b.shown = ""
		return b, b.loadPreview()

	case tea.KeyMsg:
		return b.onKey(msg)

	case tea.MouseMsg:
		return b.onMouse(msg)

	case debounceTickMsg:
		// the query moved on while the timer ran
		if msg.query != b.query {
			return b, nil
		}
		return b, b.fetch(msg.query)

	case resultsMsg:
		return b.onResults(msg)

	case previewRenderedMsg:
		return b.onPreview(msg)
	}
	return b, nil
}

func (b browser) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := b.layout()
	switch {
	case key.Matches(msg, keys.Quit):
		b.done = true
		return b, tea.Quit

	case key.Matches(msg, keys.Copy):
		return b.choose(actionCopy)

	case key.Matches(msg, keys.Edit):
		return b.choose(actionEdit)

	case key.Matches(msg, keys.Up):
		return b.move(-1)

	case key.Matches(msg, keys.Down):
		return b.move(1)

	case key.Matches(msg, keys.HalfUp):
		b.preview.LineUp(l.panelH / 2)
		return b, nil

	case key.Matches(msg, keys.HalfDown):
		b.preview.LineDown(l.panelH / 2)
		return b, nil

	case key.Matches(msg, keys.PageUp):
		b.preview.LineUp(l.panelH)
		return b, nil

	case key.Matches(msg, keys.PageDown):
		b.preview.LineDown(l.panelH)
		return b, nil

	case key.Matches(msg, keys.Mode):
		if b.mode == modeChats {
			b.setMode(modeSearch)
		} else {
			b.setMode(modeChats)
		}
		b.results, b.cursor, b.offset = nil, 0, 0
		b.shown = ""
		b.preview.SetContent("")
		return b, b.fetch(b.query)

	case key.Matches(msg, keys.Lang):
		if b.renderOpts.Lang == "ar" {
			b.renderOpts.Lang = "en"
		} else {
			b.renderOpts.Lang = "ar"
		}
		b.shown = ""
		return b, b.loadPreview()
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	if q := b.input.Value(); q != b.query {
		b.query = q
		return b, tea.Batch(cmd, b.debounce(q))
	}
	return b, cmd
}

func (b browser) choose(a action) (tea.Model, tea.Cmd) {
	r, ok := b.selected()
	if !ok {
		return b, nil
	}
	b.chosen = &r
	b.action = a
	b.done = true
	return b, tea.Quit
}

func (b browser) move(delta int) (tea.Model, tea.Cmd) {
	next := b.cursor + delta
	if next < 0 || next >= len(b.results) {
		return b, nil
	}
	b.cursor = next
	b.scrollToCursor()
	return b, b.loadPreview()
}

func (b browser) onMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !b.ready || len(b.results) == 0 {
		return b, nil
	}
	region, item := b.hitTest(msg.X, msg.Y)
	wheel := msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown

	switch region {
	case regionList:
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			b.offset = max(b.offset-1, 0)
		case msg.Button == tea.MouseButtonWheelDown:
			maxOffset := max(len(b.results)-b.layout().panelH/linesPerItem, 0)
			b.offset = min(b.offset+1, maxOffset)
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if item >= 0 && item < len(b.results) && item != b.cursor {
				b.cursor = item
				b.scrollToCursor()
				return b, b.loadPreview()
			}
		}
		return b, nil

	case regionPreview:
		if wheel {
			var cmd tea.Cmd
			b.preview, cmd = b.preview.Update(msg)
			return b, cmd
		}
	}
	return b, nil
}

func (b browser) onResults(msg resultsMsg) (tea.Model, tea.Cmd) {
	// stale: typed on, or switched modes, since the fetch started
	if msg.query != b.query || msg.mode != b.mode {
		return b, nil
	}
	b.results, b.cursor, b.offset = msg.results, 0, 0
	b.shown = ""
	if msg.err != nil {
		b.results = nil
		b.preview.SetContent("Error: " + msg.err.Error())
		return b, nil
	}
	if len(b.results) == 0 {
		b.preview.SetContent("")
		return b, nil
	}
	return b, b.loadPreview()
}

func (b browser) onPreview(msg previewRenderedMsg) (tea.Model, tea.Cmd) {
	k := previewKey(msg.chatKey, msg.msgID, msg.lang)
	if r, ok := b.selected(); !ok || previewKey(r.ChatKey, r.MsgID, b.renderOpts.Lang) != k {
		return b, nil // the cursor moved on
	}
	if msg.err != nil {
		b.preview.SetContent("Preview error: " + msg.err.Error())
	} else {
		b.preview.SetContent(msg.content)
		if msg.hitLine > 0 {
			b.preview.SetYOffset(msg.hitLine)
		} else {
			b.preview.GotoTop()
		}
	}
	b.shown = k
	return b, nil
}
