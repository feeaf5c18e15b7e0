// ABOUTME: Tests for HTML export of entry ranges
// ABOUTME: Verifies document contents, mood/tag lines, and the empty-range error

package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/journal/internal/store"
)

func setupExporter(t *testing.T) (*Exporter, *store.SQLiteStore, string) {
	t.Helper()
	tmpDir := t.TempDir()

	s, err := store.NewSQLiteStore(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.SeedDefaultMoods(ctx))
	require.NoError(t, s.SeedDefaultTags(ctx))
	require.NoError(t, s.EnsureDefaultUser(ctx))

	outDir := filepath.Join(tmpDir, "exports")
	return New(s, outDir), s, outDir
}

func day(s string) time.Time {
	d, _ := time.Parse(store.DayFormat, s)
	return d
}

func TestExportRange(t *testing.T) {
	exporter, s, outDir := setupExporter(t)
	ctx := context.Background()

	entry := &store.Entry{
		Date:      day("2024-04-01"),
		Title:     "A good <day>",
		Content:   "Walked in the park.\n\nRead **two** chapters.",
		WordCount: 8,
	}
	require.NoError(t, s.CreateEntry(ctx, entry))

	moods, err := s.ListMoods(ctx)
	require.NoError(t, err)
	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SetEntryMoods(ctx, entry.ID, moods[0].ID, []int64{moods[6].ID}))
	require.NoError(t, s.SetEntryTags(ctx, entry.ID, []int64{tags[0].ID}))

	path, err := exporter.ExportRange(ctx, day("2024-04-01"), day("2024-04-30"), "april")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "april.html"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(raw)

	assert.Contains(t, doc, "Monday, April 1, 2024")
	assert.Contains(t, doc, "A good &lt;day&gt;", "titles are HTML-escaped")
	assert.Contains(t, doc, "<strong>two</strong>", "content renders as markdown")
	assert.Contains(t, doc, moods[0].Name)
	assert.Contains(t, doc, moods[6].Name)
	assert.Contains(t, doc, "Tags: "+tags[0].Name)
}

func TestExportRange_NoEntries(t *testing.T) {
	exporter, _, _ := setupExporter(t)

	_, err := exporter.ExportRange(context.Background(), day("1999-01-01"), day("1999-01-31"), "empty")
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestExportRange_OnlyRangeIncluded(t *testing.T) {
	exporter, s, _ := setupExporter(t)
	ctx := context.Background()

	inside := &store.Entry{Date: day("2024-04-10"), Title: "inside", Content: "in range"}
	outside := &store.Entry{Date: day("2024-05-10"), Title: "outside", Content: "out of range"}
	require.NoError(t, s.CreateEntry(ctx, inside))
	require.NoError(t, s.CreateEntry(ctx, outside))

	path, err := exporter.ExportRange(ctx, day("2024-04-01"), day("2024-04-30"), "april.html")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(raw), "inside"))
	assert.False(t, strings.Contains(string(raw), "outside"))
}
