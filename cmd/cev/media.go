package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chat-export-viewer/internal/open"
	"github.com/Zuo-Peng/chat-export-viewer/internal/session"
)

func mediaCmd() *cobra.Command {
	var printBytes bool

	cmd := &cobra.Command{
		Use:   "media <file> <filename>",
		Short: "Resolve an attachment name inside a .zip export and open it",
		Long: `Loads the archive, resolves filename the way message attachments are
resolved and opens the match with the desktop viewer ($CEV_OPENER overrides).
--print writes the media bytes to stdout instead. Extracted media is removed
when the command exits.`,
		Args: cobra.ExactArgs(2),
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

			blob, ok := s.ResolveMedia(args[1])
			if !ok {
				return fmt.Errorf("no media matches %q in %s", args[1], args[0])
			}

			if printBytes {
				f, err := os.Open(blob.File)
				if err != nil {
					return err
				}
				defer f.Close()
				_, err = io.Copy(os.Stdout, f)
				return err
			}

			fmt.Fprintf(os.Stderr, "%s → %s\n", blob.Source, blob.File)
			if err := open.Media(blob); err != nil {
				return err
			}
			// desktop openers return before the viewer has read the file
			if term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Fprint(os.Stderr, "Press Enter to release the media...")
				bufio.NewReader(os.Stdin).ReadString('\n')
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printBytes, "print", false, "Write the media bytes to stdout")

	return cmd
}
