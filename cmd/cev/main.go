package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-export-viewer/internal/config"
	"github.com/Zuo-Peng/chat-export-viewer/internal/index"
	"github.com/Zuo-Peng/chat-export-viewer/internal/logging"
	"github.com/Zuo-Peng/chat-export-viewer/internal/render"
)

var version = "dev"

var logLevel string

func main() {
	rootCmd := &cobra.Command{
		Use:           "cev",
		Short:         "Chat Export Viewer - browse and search WhatsApp chat exports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug/info/warn/error), overrides config")

	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(mediaCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config and installs the logger it describes.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logging.Setup(level, cfg.LogFormat)
	return cfg, nil
}

func indexOptions(cfg *config.Config) index.Options {
	return index.Options{
		Exclude:    cfg.Exclude,
		Normalizer: cfg.Normalizer(),
		Logger:     logging.With("component", "index"),
	}
}

func renderOptions(cfg *config.Config) render.Options {
	return render.Options{
		HitID:     -1,
		Lang:      cfg.Lang,
		SelfNames: cfg.SelfNames,
		Location:  cfg.Location(),
	}
}

// openIndex opens the database and brings it up to date with the export root.
func openIndex(cfg *config.Config) (*index.DB, error) {
	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := index.IndexAll(db, cfg.ExportRoot, indexOptions(cfg)); err != nil {
		logging.With("component", "index").Warn("auto index failed", "err", err)
	}
	return db, nil
}
