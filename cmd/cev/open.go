package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-export-viewer/internal/index"
	"github.com/Zuo-Peng/chat-export-viewer/internal/open"
)

func openCmd() *cobra.Command {
	var hitMsgID int

	cmd := &cobra.Command{
		Use:   "open <chatKey|file>",
		Short: "Open the original .txt export in $EDITOR at the hit line",
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
			return open.OpenChat(db, chatKey, hitMsgID)
		},
	}

	cmd.Flags().IntVar(&hitMsgID, "hit", -1, "Message ID to jump to")

	return cmd
}
