package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-export-viewer/internal/export"
	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
	"github.com/Zuo-Peng/chat-export-viewer/internal/session"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the parsed messages of an export as JSON",
		Long:  `Parses a .txt or .zip export and writes {"messages":[{id,time,sender,text}]}. Use -o - for stdout.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			raw, err := session.ReadText(args[0])
			if err != nil {
				return err
			}
			msgs := parse.Assembler{Normalizer: cfg.Normalizer()}.Parse(raw)

			if output == "-" {
				return export.Write(os.Stdout, msgs)
			}
			if err := export.WriteFile(output, msgs); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %d messages to %s\n", len(msgs), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", export.DefaultName, "Output file (- for stdout)")

	return cmd
}
