// ABOUTME: Entry point for the journal CLI
// ABOUTME: Dispatches subcommands for writing, browsing, stats and export

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/2389/journal/internal/analytics"
	"github.com/2389/journal/internal/auth"
	"github.com/2389/journal/internal/config"
	"github.com/2389/journal/internal/export"
	"github.com/2389/journal/internal/store"
)

// version is overridden at build time via -ldflags.
var version = "dev"

const banner = `
    _                               _
   (_) ___  _   _ _ __ _ __   __ _| |
   | |/ _ \| | | | '__| '_ \ / _' | |
   | | (_) | |_| | |  | | | | (_| | |
  _/ |\___/ \__,_|_|  |_| |_|\__,_|_|
 |__/
`

// getConfigPath returns the path to the journal config file.
// Priority: JOURNAL_CONFIG env var > XDG_CONFIG_HOME/journal/journal.yaml > ~/.config/journal/journal.yaml
func getConfigPath() string {
	if envPath := os.Getenv("JOURNAL_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "journal.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "journal", "journal.yaml")
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadOrDefault(getConfigPath())
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	app := &app{cfg: cfg}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "write":
		err = app.cmdWrite(args)
	case "edit":
		err = app.cmdEdit(args)
	case "show":
		err = app.cmdShow(args)
	case "list":
		err = app.cmdList(args)
	case "search":
		err = app.cmdSearch(args)
	case "delete":
		err = app.cmdDelete(args)
	case "mood":
		err = app.cmdMood(args)
	case "tag":
		err = app.cmdTag(args)
	case "moods":
		err = app.cmdMoods()
	case "tags":
		err = app.cmdTags()
	case "stats":
		err = app.cmdStats(args)
	case "streak":
		err = app.cmdStreak()
	case "export":
		err = app.cmdExport(args)
	case "lock":
		err = app.cmdLock(args)
	case "unlock":
		err = app.cmdUnlock(args)
	case "version":
		fmt.Println("journal", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(banner)
	fmt.Println(`Usage: journal <command> [arguments]

Writing:
  write [date] -t <title>     Create today's entry (content read from stdin)
  edit <id> [-t <title>]      Replace an entry's content (read from stdin)
  delete <id>                 Delete an entry and its moods/tags
  mood <id> <primary> [secondary...]
                              Set an entry's moods by name (max 2 secondary)
  tag <id> <name>...          Set an entry's tags by name

Browsing:
  show [date]                 Show one entry (default: today)
  list [from] [to]            List entries, newest first
  search <term>               Search titles and content
  moods                       List the mood catalog
  tags                        List the tag catalog

Insights:
  stats [from] [to]           Mood mix, tag frequency, word-count trend
  streak                      Writing streak and missed days

Export:
  export <from> <to> [name]   Export a date range to an HTML document

Security:
  lock set|off|status         Manage the PIN lock
  unlock                      Unlock and print a session token

Dates are YYYY-MM-DD, or "today"/"yesterday".`)
}

// app bundles the pieces every subcommand needs.
type app struct {
	cfg *config.Config
}

func (a *app) openStore() (*store.SQLiteStore, error) {
	return store.OpenShared(a.cfg.Database.Path)
}

func (a *app) authService(s *store.SQLiteStore) *auth.Service {
	secret := a.cfg.Auth.TokenSecret
	if secret == "" {
		secret = "journal-local-session"
	}
	return auth.NewService(s, []byte(secret))
}

// requireAuthorized consults the PIN-lock gate before any mutating
// operation. Without a lock configured every caller is authorized.
func (a *app) requireAuthorized(ctx context.Context, s *store.SQLiteStore) error {
	user, err := s.GetDefaultUser(ctx)
	if err != nil {
		return err
	}

	svc := a.authService(s)
	enabled, err := svc.LockEnabled(ctx, user.ID)
	if err != nil {
		return err
	}

	var gate auth.Authorizer = auth.AllowAll{}
	if enabled {
		gate = svc.Session(os.Getenv("JOURNAL_SESSION"))
	}
	if !gate.IsAuthorized(ctx) {
		return fmt.Errorf("journal is locked: run 'journal unlock' and export JOURNAL_SESSION")
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	switch s {
	case "today":
		return store.Day(time.Now()), nil
	case "yesterday":
		return store.Day(time.Now().AddDate(0, 0, -1)), nil
	}
	d, err := time.Parse(store.DayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

func (a *app) cmdWrite(args []string) error {
	date := store.Day(time.Now())
	title := ""

	rest := args
	for len(rest) > 0 {
		switch rest[0] {
		case "-t", "--title":
			if len(rest) < 2 {
				return fmt.Errorf("missing value for %s", rest[0])
			}
			title = rest[1]
			rest = rest[2:]
		default:
			d, err := parseDate(rest[0])
			if err != nil {
				return err
			}
			date = d
			rest = rest[1:]
		}
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.requireAuthorized(ctx, s); err != nil {
		return err
	}

	fmt.Println("Write your entry, then close stdin (Ctrl-D):")
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading entry content: %w", err)
	}

	entry := &store.Entry{
		Date:      date,
		Title:     title,
		Content:   string(content),
		WordCount: countWords(string(content)),
	}
	if err := s.CreateEntry(ctx, entry); err != nil {
		return err
	}

	color.Green("Created entry #%d for %s (%d words)\n", entry.ID, date.Format(store.DayFormat), entry.WordCount)
	return nil
}

func (a *app) cmdEdit(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: journal edit <id> [-t title]")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad entry id %q", args[0])
	}

	title := ""
	titleSet := false
	rest := args[1:]
	for len(rest) > 0 {
		switch rest[0] {
		case "-t", "--title":
			if len(rest) < 2 {
				return fmt.Errorf("missing value for %s", rest[0])
			}
			title = rest[1]
			titleSet = true
			rest = rest[2:]
		default:
			return fmt.Errorf("unknown argument %q", rest[0])
		}
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.requireAuthorized(ctx, s); err != nil {
		return err
	}

	entry, err := s.GetEntryByID(ctx, id)
	if err != nil {
		return err
	}

	fmt.Println("Write the replacement content, then close stdin (Ctrl-D):")
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading entry content: %w", err)
	}

	entry.Content = string(content)
	entry.WordCount = countWords(string(content))
	if titleSet {
		entry.Title = title
	}
	if err := s.UpdateEntry(ctx, entry); err != nil {
		return err
	}

	color.Green("Updated entry #%d (%d words)\n", entry.ID, entry.WordCount)
	return nil
}

func (a *app) cmdShow(args []string) error {
	date := store.Day(time.Now())
	if len(args) > 0 {
		d, err := parseDate(args[0])
		if err != nil {
			return err
		}
		date = d
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	user, err := s.GetDefaultUser(ctx)
	if err != nil {
		return err
	}
	entry, err := s.GetEntryByDate(ctx, user.ID, date)
	if err != nil {
		return err
	}

	return a.printEntry(ctx, s, entry)
}

func (a *app) printEntry(ctx context.Context, s *store.SQLiteStore, entry *store.Entry) error {
	bold := color.New(color.Bold)
	bold.Printf("#%d  %s", entry.ID, entry.Date.Format("Monday, January 2, 2006"))
	if entry.Title != "" {
		fmt.Printf("  —  %s", entry.Title)
	}
	fmt.Println()

	primary, err := s.GetPrimaryMood(ctx, entry.ID)
	if err != nil {
		return err
	}
	if primary != nil {
		fmt.Printf("Mood: %s %s", primary.Emoji, primary.Name)
		secondary, err := s.GetSecondaryMoods(ctx, entry.ID)
		if err != nil {
			return err
		}
		for _, m := range secondary {
			fmt.Printf(", %s %s", m.Emoji, m.Name)
		}
		fmt.Println()
	}

	tags, err := s.GetTagsForEntry(ctx, entry.ID)
	if err != nil {
		return err
	}
	if len(tags) > 0 {
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = t.Name
		}
		fmt.Printf("Tags: %s\n", strings.Join(names, ", "))
	}

	fmt.Printf("\n%s\n", entry.Content)
	return nil
}

func (a *app) cmdList(args []string) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	var entries []*store.Entry
	switch len(args) {
	case 0:
		entries, err = s.ListAllEntries(ctx)
	case 2:
		var from, to time.Time
		if from, err = parseDate(args[0]); err != nil {
			return err
		}
		if to, err = parseDate(args[1]); err != nil {
			return err
		}
		entries, err = s.ListEntriesInRange(ctx, from, to)
	default:
		return fmt.Errorf("usage: journal list [from to]")
	}
	if err != nil {
		return err
	}

	return printEntryTable(entries)
}

func (a *app) cmdSearch(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: journal search <term>")
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}

	entries, err := s.SearchEntries(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printEntryTable(entries)
}

func printEntryTable(entries []*store.Entry) error {
	if len(entries) == 0 {
		fmt.Println("No entries.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tWORDS\tTITLE")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", e.ID, e.Date.Format(store.DayFormat), e.WordCount, e.Title)
	}
	return w.Flush()
}

func (a *app) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: journal delete <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad entry id %q", args[0])
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.requireAuthorized(ctx, s); err != nil {
		return err
	}

	if err := s.DeleteEntry(ctx, id); err != nil {
		return err
	}
	color.Green("Deleted entry #%d\n", id)
	return nil
}

func (a *app) cmdMood(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: journal mood <id> <primary> [secondary...]")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad entry id %q", args[0])
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.requireAuthorized(ctx, s); err != nil {
		return err
	}

	moods, err := s.ListMoods(ctx)
	if err != nil {
		return err
	}
	byName := map[string]int64{}
	for _, m := range moods {
		byName[strings.ToLower(m.Name)] = m.ID
	}

	resolve := func(name string) (int64, error) {
		moodID, ok := byName[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown mood %q (see 'journal moods')", name)
		}
		return moodID, nil
	}

	primaryID, err := resolve(args[1])
	if err != nil {
		return err
	}
	var secondaryIDs []int64
	for _, name := range args[2:] {
		moodID, err := resolve(name)
		if err != nil {
			return err
		}
		secondaryIDs = append(secondaryIDs, moodID)
	}

	if len(secondaryIDs) > store.MaxSecondaryMoods {
		color.Yellow("Only the first %d secondary moods are kept.\n", store.MaxSecondaryMoods)
	}

	if err := s.SetEntryMoods(ctx, id, primaryID, secondaryIDs); err != nil {
		return err
	}
	color.Green("Updated moods for entry #%d\n", id)
	return nil
}

func (a *app) cmdTag(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: journal tag <id> <name>...")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad entry id %q", args[0])
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.requireAuthorized(ctx, s); err != nil {
		return err
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		return err
	}
	byName := map[string]int64{}
	for _, t := range tags {
		byName[strings.ToLower(t.Name)] = t.ID
	}

	var tagIDs []int64
	seen := map[int64]bool{}
	for _, name := range args[1:] {
		tagID, ok := byName[strings.ToLower(name)]
		if !ok {
			// Unknown tags are created on the fly
			tag := &store.Tag{Name: name}
			if err := s.AddTag(ctx, tag); err != nil {
				return err
			}
			tagID = tag.ID
			byName[strings.ToLower(name)] = tagID
		}
		if seen[tagID] {
			continue
		}
		seen[tagID] = true
		tagIDs = append(tagIDs, tagID)
	}

	if err := s.SetEntryTags(ctx, id, tagIDs); err != nil {
		return err
	}
	color.Green("Updated tags for entry #%d\n", id)
	return nil
}

func (a *app) cmdMoods() error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	moods, err := s.ListMoods(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tEMOJI")
	for _, m := range moods {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.Category, m.Emoji)
	}
	return w.Flush()
}

func (a *app) cmdTags() error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	tags, err := s.ListTags(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tCOLOR")
	for _, t := range tags {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.Category, t.Color)
	}
	return w.Flush()
}

func (a *app) cmdStats(args []string) error {
	var start, end *time.Time
	if len(args) == 2 {
		from, err := parseDate(args[0])
		if err != nil {
			return err
		}
		to, err := parseDate(args[1])
		if err != nil {
			return err
		}
		start, end = &from, &to
	} else if len(args) != 0 {
		return fmt.Errorf("usage: journal stats [from to]")
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}

	engine := analytics.NewEngine(s)
	summary, err := engine.Summary(context.Background(), start, end)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)

	bold.Println("Mood mix")
	for _, category := range []store.MoodCategory{store.CategoryPositive, store.CategoryNeutral, store.CategoryNegative} {
		fmt.Printf("  %-10s %d\n", category, summary.MoodDistribution[category])
	}
	if summary.MostFrequentMood != "" {
		fmt.Printf("  Most frequent: %s\n", summary.MostFrequentMood)
	}

	if len(summary.TagFrequency) > 0 {
		bold.Println("Tags")
		for _, tc := range summary.TagFrequency {
			fmt.Printf("  %-12s %d\n", tc.Name, tc.Count)
		}
	}

	if len(summary.WordCountTrend) > 0 {
		bold.Println("Word count by day")
		for _, p := range summary.WordCountTrend {
			fmt.Printf("  %s  %.0f\n", p.Day.Format(store.DayFormat), p.AverageWordCount)
		}
	}

	fmt.Printf("\nTotal entries: %d\n", summary.Streak.TotalEntries)
	return nil
}

func (a *app) cmdStreak() error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	engine := analytics.NewEngine(s)
	streak, err := engine.Streak(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Current streak: %d day(s)\n", streak.Current)
	fmt.Printf("Longest streak: %d day(s)\n", streak.Longest)
	fmt.Printf("Total entries:  %d\n", streak.TotalEntries)
	if len(streak.MissedDays) > 0 {
		fmt.Printf("Missed days:    %d", len(streak.MissedDays))
		if len(streak.MissedDays) <= 10 {
			days := make([]string, len(streak.MissedDays))
			for i, d := range streak.MissedDays {
				days[i] = d.Format(store.DayFormat)
			}
			fmt.Printf(" (%s)", strings.Join(days, ", "))
		}
		fmt.Println()
	}
	return nil
}

func (a *app) cmdExport(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: journal export <from> <to> [name]")
	}
	from, err := parseDate(args[0])
	if err != nil {
		return err
	}
	to, err := parseDate(args[1])
	if err != nil {
		return err
	}
	name := "journal-" + from.Format(store.DayFormat) + "-" + to.Format(store.DayFormat)
	if len(args) > 2 {
		name = args[2]
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}

	exporter := export.New(s, a.cfg.Export.OutputDir)
	path, err := exporter.ExportRange(context.Background(), from, to, name)
	if err != nil {
		return err
	}

	color.Green("Exported to %s\n", path)
	return nil
}

func (a *app) cmdLock(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: journal lock set|off|status")
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	user, err := s.GetDefaultUser(ctx)
	if err != nil {
		return err
	}
	svc := a.authService(s)

	switch args[0] {
	case "set":
		pin, err := promptPIN("New PIN: ")
		if err != nil {
			return err
		}
		if err := svc.SetPIN(ctx, user.ID, pin); err != nil {
			return err
		}
		color.Green("PIN lock enabled\n")
	case "off":
		if err := a.requireAuthorized(ctx, s); err != nil {
			return err
		}
		if err := svc.DisableLock(ctx, user.ID); err != nil {
			return err
		}
		color.Green("PIN lock disabled\n")
	case "status":
		enabled, err := svc.LockEnabled(ctx, user.ID)
		if err != nil {
			return err
		}
		if enabled {
			fmt.Println("PIN lock is on")
		} else {
			fmt.Println("PIN lock is off")
		}
	default:
		return fmt.Errorf("usage: journal lock set|off|status")
	}
	return nil
}

func (a *app) cmdUnlock(args []string) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	user, err := s.GetDefaultUser(ctx)
	if err != nil {
		return err
	}

	pin, err := promptPIN("PIN: ")
	if err != nil {
		return err
	}

	token, err := a.authService(s).Unlock(ctx, user.ID, pin)
	if err != nil {
		return err
	}

	fmt.Println("Unlocked. Export the session token:")
	fmt.Printf("  export JOURNAL_SESSION=%s\n", token)
	return nil
}

func promptPIN(prompt string) (string, error) {
	fmt.Print(prompt)
	var pin string
	if _, err := fmt.Scanln(&pin); err != nil {
		return "", fmt.Errorf("reading pin: %w", err)
	}
	return pin, nil
}
