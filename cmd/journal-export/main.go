// ABOUTME: Entry point for the journal-export tool
// ABOUTME: Renders a date range of journal entries into an HTML document

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/2389/journal/internal/export"
	"github.com/2389/journal/internal/store"
)

const banner = `
    ╭────────────────────────────╮
    │       journal-export       │
    ╰────────────────────────────╯
`

// getConfigPath returns the path to the export tool config file.
// Priority: JOURNAL_EXPORT_CONFIG env var > XDG_CONFIG_HOME/journal/export.toml > ~/.config/journal/export.toml
func getConfigPath() string {
	if envPath := os.Getenv("JOURNAL_EXPORT_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "export.toml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "journal", "export.toml")
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		fromFlag = flag.String("from", "", "start date (YYYY-MM-DD), default: 30 days ago")
		toFlag   = flag.String("to", "", "end date (YYYY-MM-DD), default: today")
		nameFlag = flag.String("name", "", "output file name, default derived from the range")
	)
	flag.Parse()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	cfg, err := LoadOrDefault(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelOrDefault(cfg.Logging.Level))); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	to := store.Day(time.Now())
	if *toFlag != "" {
		if to, err = time.Parse(store.DayFormat, *toFlag); err != nil {
			return fmt.Errorf("bad -to date %q (want YYYY-MM-DD)", *toFlag)
		}
	}
	from := to.AddDate(0, 0, -30)
	if *fromFlag != "" {
		if from, err = time.Parse(store.DayFormat, *fromFlag); err != nil {
			return fmt.Errorf("bad -from date %q (want YYYY-MM-DD)", *fromFlag)
		}
	}
	if from.After(to) {
		return fmt.Errorf("-from %s is after -to %s", from.Format(store.DayFormat), to.Format(store.DayFormat))
	}

	name := *nameFlag
	if name == "" {
		name = "journal-" + from.Format(store.DayFormat) + "-" + to.Format(store.DayFormat)
	}

	s, err := store.OpenShared(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	exporter := export.New(s, cfg.Export.OutputDir)
	path, err := exporter.ExportRange(context.Background(), from, to, name)
	if err != nil {
		return err
	}

	color.Green("Exported %s – %s to %s\n", from.Format(store.DayFormat), to.Format(store.DayFormat), path)
	return nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
