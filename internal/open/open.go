package open

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/chat-export-viewer/internal/index"
	"github.com/Zuo-Peng/chat-export-viewer/internal/media"
	"github.com/Zuo-Peng/chat-export-viewer/internal/session"
)

// ErrArchive is returned when asked to edit a zipped export; the editor
// cannot seek into an archive member.
var ErrArchive = errors.New("archive exports cannot be opened in an editor")

func OpenChat(db *index.DB, chatKey string, hitMsgID int) error {
	chat, err := db.GetChatByKey(chatKey)
	if err != nil {
		return fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return fmt.Errorf("chat not found: %s", chatKey)
	}
	if chat.Kind == string(session.KindArchive) {
		return fmt.Errorf("%s: %w", chat.FilePath, ErrArchive)
	}

	filePath := chat.FilePath
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	// find line number for the hit message
	lineNum := 1
	if hitMsgID >= 0 {
		msgs, err := db.GetMessages(chatKey)
		if err == nil {
			for _, m := range msgs {
				if m.MsgID == hitMsgID {
					lineNum = m.LineNumber
					break
				}
			}
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	return run(editorCommand(editor, filePath, lineNum))
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		return exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less") || strings.Contains(editor, "nano"):
		return exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		return exec.Command(editor, filePath)
	}
}

// Media hands an extracted blob to the desktop viewer, or $CEV_OPENER
// when set.
func Media(blob *media.Blob) error {
	if _, err := os.Stat(blob.File); err != nil {
		return fmt.Errorf("media not available: %w", err)
	}
	cmd := openerCommand(runtime.GOOS, os.Getenv("CEV_OPENER"), blob.File)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	return cmd.Wait()
}

func openerCommand(goos, opener, file string) *exec.Cmd {
	if opener != "" {
		return exec.Command(opener, file)
	}
	switch goos {
	case "darwin":
		return exec.Command("open", file)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", file)
	default:
		return exec.Command("xdg-open", file)
	}
}

func run(cmd *exec.Cmd) error {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
