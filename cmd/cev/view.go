package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chat-export-viewer/internal/render"
	"github.com/Zuo-Peng/chat-export-viewer/internal/search"
	"github.com/Zuo-Peng/chat-export-viewer/internal/session"
)

func viewCmd() *cobra.Command {
	var query string
	var width int

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Load a .txt or .zip export and print the conversation",
		Long:  `Loads the export directly (no index), extracts its media and prints every message. --query keeps only messages whose text or sender contains the query.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			loader := session.NewLoader(cfg.SessionOptions())
			defer loader.Close()

			s, err := loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if width == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
					width = w
				}
			}

			opts := renderOptions(cfg)
			opts.Query = query
			opts.Width = width
			opts.Context = -1
			opts.Media = s

			msgs := search.FilterMessages(s.Messages, query)
			out, _ := render.Conversation(filepath.Base(s.Source), msgs, opts)
			fmt.Print(out)
			fmt.Fprintln(os.Stderr, render.Summarize(s.Messages, s))
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Only show messages containing this text")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = terminal width)")

	return cmd
}
