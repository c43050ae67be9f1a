package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-export-viewer/internal/index"
	"github.com/Zuo-Peng/chat-export-viewer/internal/render"
)

func previewCmd() *cobra.Command {
	var hitMsgID int
	var context int
	var query string
	var width int

	cmd := &cobra.Command{
		Use:   "preview <chatKey|file>",
		Short: "Preview an indexed chat with context around a hit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			chatKey, err := resolveChatKey(db, args[0])
			if err != nil {
				return err
			}

			opts := renderOptions(cfg)
			opts.HitID = hitMsgID
			opts.Context = context
			opts.Query = query
			opts.Width = width
			out, _, err := render.RenderConversation(db, chatKey, opts)
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&hitMsgID, "hit", -1, "Message ID to highlight")
	cmd.Flags().IntVar(&context, "context", 10, "Messages before/after hit to show")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = no wrap)")

	return cmd
}

// resolveChatKey accepts either a chat key or the path of an indexed export.
func resolveChatKey(db *index.DB, arg string) (string, error) {
	if _, err := os.Stat(arg); err != nil {
		return arg, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	for _, p := range []string{arg, abs} {
		chat, err := db.GetChatByPath(p)
		if err != nil {
			return "", fmt.Errorf("get chat: %w", err)
		}
		if chat != nil {
			return chat.ChatKey, nil
		}
	}
	return "", fmt.Errorf("not indexed: %s (run 'cev index' first)", arg)
}
