package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-export-viewer/internal/index"
	"github.com/Zuo-Peng/chat-export-viewer/internal/scan"
	"github.com/Zuo-Peng/chat-export-viewer/internal/session"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify export root, DB, FTS5, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// check roots
			fmt.Println("=== Roots ===")
			checkDir("Exports", cfg.ExportRoot)
			checkDir("Cache", cfg.CacheDir)
			fmt.Printf("  Timezone: %s\n", cfg.Location())

			// scan file counts
			fmt.Println("\n=== File Scan ===")
			files, err := scan.ScanRoot(cfg.ExportRoot, cfg.Exclude)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				var textCount, zipCount int
				var total int64
				for _, f := range files {
					if f.Kind == session.KindArchive {
						zipCount++
					} else {
						textCount++
					}
					total += f.Size
				}
				fmt.Printf("  .txt exports: %d\n", textCount)
				fmt.Printf("  .zip exports: %d\n", zipCount)
				fmt.Printf("  Total size:   %s\n", humanize.Bytes(uint64(total)))
			}

			// check DB
			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'cev index' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			chatCount, err := db.ChatCount()
			if err != nil {
				return fmt.Errorf("count chats: %w", err)
			}

			messageCount, err := db.MessageCount()
			if err != nil {
				return fmt.Errorf("count messages: %w", err)
			}

			fmt.Printf("  Chats:    %s\n", humanize.Comma(int64(chatCount)))
			fmt.Printf("  Messages: %s\n", humanize.Comma(int64(messageCount)))

			// check FTS5
			fmt.Println("\n=== FTS5 ===")
			ftsCount, err := db.FTSCount()
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", ftsCount)
				if ftsCount == messageCount {
					fmt.Println("  Status: OK (synced)")
				} else {
					fmt.Printf("  Status: MISMATCH (messages=%d, fts=%d)\n", messageCount, ftsCount)
				}
			}

			// check DB file size
			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("\n=== DB Size: %s (modified %s) ===\n",
					humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
