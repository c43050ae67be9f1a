package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chat-export-viewer/internal/render"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	chatKey string
	msgID   int
	lang    string
	content string
	hitLine int
	err     error
}

func previewKey(chatKey string, msgID int, lang string) string {
	return fmt.Sprintf("%s:%d:%s", chatKey, msgID, lang)
}

// loadPreview renders the chat around the selected result off the UI
// goroutine. It returns nil when that preview is already on screen.
func (b browser) loadPreview() tea.Cmd {
	r, ok := b.selected()
	if !ok || previewKey(r.ChatKey, r.MsgID, b.renderOpts.Lang) == b.shown {
		return nil
	}

	db := b.db
	opts := b.renderOpts
	opts.HitID = r.MsgID
	opts.Context = -1
	opts.Width = b.layout().previewW
	opts.Query = b.query
	if b.mode == modeChats {
		opts.Query = "" // the filter matched the title, not the text
	}
	return func() tea.Msg {
		content, hitLine, err := render.RenderConversation(db, r.ChatKey, opts)
		return previewRenderedMsg{
			chatKey: r.ChatKey,
			msgID:   r.MsgID,
			lang:    opts.Lang,
			content: content,
			hitLine: hitLine,
			err:     err,
		}
	}
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = listFrame
	return vp
}
