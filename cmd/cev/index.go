package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-export-viewer/internal/index"
	"github.com/Zuo-Peng/chat-export-viewer/internal/logging"
	"github.com/Zuo-Peng/chat-export-viewer/internal/watch"
)

func indexCmd() *cobra.Command {
	var watchRoot bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Scan and index chat exports under the export root",
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

			fmt.Fprintf(os.Stderr, "Scanning %s...\n", cfg.ExportRoot)

			opts := indexOptions(cfg)
			stats, err := index.IndexAll(db, cfg.ExportRoot, opts)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)

			if !watchRoot {
				return nil
			}

			log := logging.With("component", "watch")
			w, err := watch.New(cfg.ExportRoot, log)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", cfg.ExportRoot)
			return w.Run(ctx, 500*time.Millisecond, func() {
				stats, err := index.IndexAll(db, cfg.ExportRoot, opts)
				if err != nil {
					log.Error("reindex failed", "err", err)
					return
				}
				fmt.Fprintf(os.Stderr, "Reindexed. %s\n", stats)
			})
		},
	}

	cmd.Flags().BoolVar(&watchRoot, "watch", false, "Keep running and reindex when exports change")

	return cmd
}
