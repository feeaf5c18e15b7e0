// ABOUTME: HTML document export for ranges of journal entries
// ABOUTME: Reads entries with their moods and tags, renders markdown via goldmark

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/2389/journal/internal/store"
)

// ErrNoEntries is returned when the requested range holds no entries.
var ErrNoEntries = errors.New("no entries found for those dates")

// EntryReader is the slice of the journal store the exporter needs:
// ranged entry reads plus per-entry mood and tag lookups. It performs
// no writes.
type EntryReader interface {
	ListEntriesInRange(ctx context.Context, start, end time.Time) ([]*store.Entry, error)
	GetPrimaryMood(ctx context.Context, entryID int64) (*store.Mood, error)
	GetSecondaryMoods(ctx context.Context, entryID int64) ([]*store.Mood, error)
	GetTagsForEntry(ctx context.Context, entryID int64) ([]*store.Tag, error)
}

// Exporter writes ranges of entries to standalone HTML documents.
type Exporter struct {
	reader EntryReader
	outDir string
	logger *slog.Logger
}

// New creates an exporter writing documents under outDir.
func New(reader EntryReader, outDir string) *Exporter {
	return &Exporter{
		reader: reader,
		outDir: outDir,
		logger: slog.Default().With("component", "export"),
	}
}

// entryData bundles an entry with its resolved moods and tags.
type entryData struct {
	entry          *store.Entry
	primaryMood    *store.Mood
	secondaryMoods []*store.Mood
	tags           []*store.Tag
}

// ExportRange renders every entry in [start, end] into one HTML document
// named fileName (".html" appended if missing) and returns the written
// path. An empty range is ErrNoEntries.
func (e *Exporter) ExportRange(ctx context.Context, start, end time.Time, fileName string) (string, error) {
	entries, err := e.reader.ListEntriesInRange(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("reading entries: %w", err)
	}
	if len(entries) == 0 {
		return "", ErrNoEntries
	}

	data := make([]entryData, 0, len(entries))
	for _, entry := range entries {
		primary, err := e.reader.GetPrimaryMood(ctx, entry.ID)
		if err != nil {
			return "", fmt.Errorf("reading primary mood: %w", err)
		}
		secondary, err := e.reader.GetSecondaryMoods(ctx, entry.ID)
		if err != nil {
			return "", fmt.Errorf("reading secondary moods: %w", err)
		}
		tags, err := e.reader.GetTagsForEntry(ctx, entry.ID)
		if err != nil {
			return "", fmt.Errorf("reading tags: %w", err)
		}
		data = append(data, entryData{entry: entry, primaryMood: primary, secondaryMoods: secondary, tags: tags})
	}

	doc, err := renderDocument(start, end, data)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.outDir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	if !strings.HasSuffix(fileName, ".html") {
		fileName += ".html"
	}
	path := filepath.Join(e.outDir, fileName)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}

	e.logger.Info("exported entries", "count", len(entries), "path", path)
	return path, nil
}

func renderDocument(start, end time.Time, data []entryData) (string, error) {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>Journal Entries (%s – %s)</title>\n",
		start.Format("Jan 02, 2006"), end.Format("Jan 02, 2006"))
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>Journal Entries (%s – %s)</h1>\n",
		start.Format("Jan 02, 2006"), end.Format("Jan 02, 2006"))

	for _, d := range data {
		b.WriteString("<article>\n")
		fmt.Fprintf(&b, "<h2>%s</h2>\n", d.entry.Date.Format("Monday, January 2, 2006"))
		if d.entry.Title != "" {
			fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(d.entry.Title))
		}

		if d.primaryMood != nil {
			b.WriteString("<p class=\"moods\">Mood: ")
			b.WriteString(moodLabel(d.primaryMood))
			for _, m := range d.secondaryMoods {
				b.WriteString(", ")
				b.WriteString(moodLabel(m))
			}
			b.WriteString("</p>\n")
		}

		if len(d.tags) > 0 {
			names := make([]string, len(d.tags))
			for i, t := range d.tags {
				names[i] = html.EscapeString(t.Name)
			}
			fmt.Fprintf(&b, "<p class=\"tags\">Tags: %s</p>\n", strings.Join(names, ", "))
		}

		var content bytes.Buffer
		if err := goldmark.Convert([]byte(d.entry.Content), &content); err != nil {
			return "", fmt.Errorf("rendering entry %d: %w", d.entry.ID, err)
		}
		b.WriteString("<div class=\"content\">\n")
		b.Write(content.Bytes())
		b.WriteString("</div>\n</article>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

func moodLabel(m *store.Mood) string {
	if m.Emoji != "" {
		return m.Emoji + " " + html.EscapeString(m.Name)
	}
	return html.EscapeString(m.Name)
}
