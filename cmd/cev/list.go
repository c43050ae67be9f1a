package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chat-export-viewer/internal/search"
	"github.com/Zuo-Peng/chat-export-viewer/internal/tui"
)

func listCmd() *cobra.Command {
	var kind, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all chats sorted by last message",
		Long:  `Opens a TUI panel showing all indexed chats sorted by their last message (newest first). Type to search message text.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openIndex(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := search.Options{
				Kind:  kind,
				Since: since,
				Limit: limit,
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.RunList(db, opts, renderOptions(cfg))
			}

			results, err := search.ListAll(db, opts)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%s\t%s\t%s\t%s\t%s\n", r.ChatKey, r.UpdatedAt, r.Kind, tsvField(r.Title), r.Snippet)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by export kind (txt/zip)")
	cmd.Flags().StringVar(&since, "since", "", "Filter chats active since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
