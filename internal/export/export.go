// Package export writes and reads the structured document form of a parsed
// conversation: {"messages": [{"id", "time", "sender", "text"}, ...]}.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
)

// DefaultName is the file name used when the caller gives none.
const DefaultName = "whatsapp_export.json"

type Document struct {
	Messages []parse.Message `json:"messages"`
}

func Write(w io.Writer, msgs []parse.Message) error {
	if msgs == nil {
		msgs = []parse.Message{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Document{Messages: msgs}); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

func WriteFile(path string, msgs []parse.Message) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, msgs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func Read(r io.Reader) ([]parse.Message, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc.Messages, nil
}

func ReadFile(path string) ([]parse.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
