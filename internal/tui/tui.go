// Package tui is the interactive browser over indexed chats: a result list
// on the left and the conversation around the selected hit on the right.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chat-export-viewer/internal/index"
	"github.com/Zuo-Peng/chat-export-viewer/internal/open"
	"github.com/Zuo-Peng/chat-export-viewer/internal/render"
	"github.com/Zuo-Peng/chat-export-viewer/internal/search"
)

const debounceDelay = 200 * time.Millisecond

type mode int

const (
	modeSearch mode = iota // query searches message text
	modeChats              // query filters chat titles
)

type action int

const (
	actionNone action = iota
	actionCopy
	actionEdit
)

type resultsMsg struct {
	mode    mode
	query   string
	results []search.Result
	err     error
}

type debounceTickMsg struct {
	query string
}

type browser struct {
	db         *index.DB
	searchOpts search.Options
	renderOpts render.Options

	mode    mode
	query   string
	results []search.Result
	cursor  int
	offset  int // first visible result

	input   textinput.Model
	preview viewport.Model
	shown   string // preview key on screen, see previewKey

	width, height int
	ready         bool
	done          bool

	action action
	chosen *search.Result
}

func newBrowser(db *index.DB, m mode, query string, opts search.Options, ropts render.Options) browser {
	ti := textinput.New()
	ti.Focus()
	ti.SetValue(query)
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = promptStyle
	ti.CharLimit = 256

	b := browser{
		db:         db,
		searchOpts: opts,
		renderOpts: ropts,
		query:      query,
		input:      ti,
		preview:    viewport.New(0, 0),
	}
	b.setMode(m)
	return b
}

func (b *browser) setMode(m mode) {
	b.mode = m
	if m == modeChats {
		b.input.Placeholder = "Filter chats..."
	} else {
		b.input.Placeholder = "Search messages..."
	}
}

// Run starts the browser in search mode and blocks until it exits.
func Run(db *index.DB, query string, opts search.Options, ropts render.Options) error {
	return run(db, newBrowser(db, modeSearch, query, opts, ropts))
}

// RunList starts the browser on the chat list, newest chat first.
func RunList(db *index.DB, opts search.Options, ropts render.Options) error {
	return run(db, newBrowser(db, modeChats, "", opts, ropts))
}

func run(db *index.DB, b browser) error {
	p := tea.NewProgram(b, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fb := final.(browser)
	if fb.chosen == nil {
		return nil
	}
	switch fb.action {
	case actionEdit:
		return open.OpenChat(db, fb.chosen.ChatKey, fb.chosen.MsgID)
	case actionCopy:
		return copySelection(db, *fb.chosen)
	}
	return nil
}

// copySelection copies the hit message text, or the export path for a chat
// listing, to the clipboard. Without a clipboard it prints instead.
func copySelection(db *index.DB, r search.Result) error {
	text, err := selectionText(db, r)
	if err != nil {
		return err
	}

	if err := clipboard.WriteAll(text); err != nil {
		fmt.Printf("%s\n", text)
		return nil
	}

	fmt.Printf("Copied to clipboard: %s\n", firstLine(text))
	return nil
}

func selectionText(db *index.DB, r search.Result) (string, error) {
	if r.MsgID >= 0 {
		msgs, _, _, _, err := db.GetMessagesWindow(r.ChatKey, r.MsgID, 0)
		if err != nil {
			return "", fmt.Errorf("get message: %w", err)
		}
		if len(msgs) == 1 {
			return msgs[0].Text, nil
		}
	}
	chat, err := db.GetChatByKey(r.ChatKey)
	if err != nil {
		return "", fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return "", fmt.Errorf("chat not found: %s", r.ChatKey)
	}
	return chat.FilePath, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func (b browser) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if b.mode == modeChats || b.query != "" {
		cmds = append(cmds, b.fetch(b.query))
	}
	return tea.Batch(cmds...)
}

// fetch loads results for query in the current mode.
func (b browser) fetch(query string) tea.Cmd {
	db := b.db
	m := b.mode
	opts := b.searchOpts
	opts.Query = query
	return func() tea.Msg {
		if m == modeChats {
			results, err := search.ListAll(db, opts)
			return resultsMsg{mode: m, query: query, results: results, err: err}
		}
		if strings.TrimSpace(query) == "" {
			return resultsMsg{mode: m, query: query}
		}
		results, err := search.Search(db, opts)
		return resultsMsg{mode: m, query: query, results: results, err: err}
	}
}

func (b browser) debounce(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (b browser) selected() (search.Result, bool) {
	if b.cursor < 0 || b.cursor >= len(b.results) {
		return search.Result{}, false
	}
	return b.results[b.cursor], true
}
