// ABOUTME: Tests for mood distribution, frequency, and word-count trend
// ABOUTME: Uses a real temporary SQLite store seeded with the default catalogs

package analytics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/journal/internal/store"
)

func setupEngine(t *testing.T) (*Engine, *store.SQLiteStore) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.SeedDefaultMoods(ctx))
	require.NoError(t, s.SeedDefaultTags(ctx))
	require.NoError(t, s.EnsureDefaultUser(ctx))

	return NewEngine(s), s
}

func day(s string) time.Time {
	d, err := time.Parse(store.DayFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func addEntry(t *testing.T, s *store.SQLiteStore, date string, words int) *store.Entry {
	t.Helper()
	entry := &store.Entry{Date: day(date), Title: "entry " + date, Content: "c", WordCount: words}
	require.NoError(t, s.CreateEntry(context.Background(), entry))
	return entry
}

func moodByName(t *testing.T, s *store.SQLiteStore, name string) *store.Mood {
	t.Helper()
	moods, err := s.ListMoods(context.Background())
	require.NoError(t, err)
	for _, m := range moods {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("mood %q not found in catalog", name)
	return nil
}

func tagByName(t *testing.T, s *store.SQLiteStore, name string) *store.Tag {
	t.Helper()
	tags, err := s.ListTags(context.Background())
	require.NoError(t, err)
	for _, tag := range tags {
		if tag.Name == name {
			return tag
		}
	}
	t.Fatalf("tag %q not found in catalog", name)
	return nil
}

func TestMoodDistribution(t *testing.T) {
	engine, s := setupEngine(t)
	ctx := context.Background()

	happy := moodByName(t, s, "Happy")
	sad := moodByName(t, s, "Sad")

	e1 := addEntry(t, s, "2024-02-01", 10)
	e2 := addEntry(t, s, "2024-02-02", 10)
	addEntry(t, s, "2024-02-03", 10) // no primary mood set

	require.NoError(t, s.SetEntryMoods(ctx, e1.ID, happy.ID, nil))
	require.NoError(t, s.SetEntryMoods(ctx, e2.ID, sad.ID, nil))

	distribution, err := engine.MoodDistribution(ctx, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, distribution[store.CategoryPositive])
	assert.Equal(t, 0, distribution[store.CategoryNeutral], "empty categories still appear with count 0")
	assert.Equal(t, 1, distribution[store.CategoryNegative])
}

func TestMoodDistribution_Empty(t *testing.T) {
	engine, _ := setupEngine(t)

	distribution, err := engine.MoodDistribution(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, distribution, 3)
	for category, count := range distribution {
		assert.Zero(t, count, "category %s", category)
	}
}

func TestMostFrequentMood(t *testing.T) {
	engine, s := setupEngine(t)
	ctx := context.Background()

	happy := moodByName(t, s, "Happy")
	sad := moodByName(t, s, "Sad")

	e1 := addEntry(t, s, "2024-02-01", 10)
	e2 := addEntry(t, s, "2024-02-02", 10)
	e3 := addEntry(t, s, "2024-02-03", 10)

	require.NoError(t, s.SetEntryMoods(ctx, e1.ID, happy.ID, nil))
	require.NoError(t, s.SetEntryMoods(ctx, e2.ID, happy.ID, nil))
	require.NoError(t, s.SetEntryMoods(ctx, e3.ID, sad.ID, nil))

	name, err := engine.MostFrequentMood(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Happy", name)
}

func TestMostFrequentMood_TieIsDeterministic(t *testing.T) {
	engine, s := setupEngine(t)
	ctx := context.Background()

	happy := moodByName(t, s, "Happy")
	sad := moodByName(t, s, "Sad")

	// One of each; entries come back date-descending, so Sad (2024-02-02)
	// is encountered first and wins the tie.
	e1 := addEntry(t, s, "2024-02-01", 10)
	e2 := addEntry(t, s, "2024-02-02", 10)
	require.NoError(t, s.SetEntryMoods(ctx, e1.ID, happy.ID, nil))
	require.NoError(t, s.SetEntryMoods(ctx, e2.ID, sad.ID, nil))

	for i := 0; i < 5; i++ {
		name, err := engine.MostFrequentMood(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "Sad", name)
	}
}

func TestMostFrequentMood_Empty(t *testing.T) {
	engine, _ := setupEngine(t)

	name, err := engine.MostFrequentMood(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestTagFrequency(t *testing.T) {
	engine, s := setupEngine(t)
	ctx := context.Background()

	work := tagByName(t, s, "Work")
	health := tagByName(t, s, "Health")

	e1 := addEntry(t, s, "2024-02-01", 10)
	e2 := addEntry(t, s, "2024-02-02", 10)
	e3 := addEntry(t, s, "2024-02-03", 10)

	require.NoError(t, s.SetEntryTags(ctx, e1.ID, []int64{work.ID, health.ID}))
	require.NoError(t, s.SetEntryTags(ctx, e2.ID, []int64{work.ID}))
	require.NoError(t, s.SetEntryTags(ctx, e3.ID, []int64{work.ID}))

	frequency, err := engine.TagFrequency(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, frequency, 2)
	assert.Equal(t, TagCount{Name: "Work", Count: 3}, frequency[0])
	assert.Equal(t, TagCount{Name: "Health", Count: 1}, frequency[1])
}

func TestWordCountTrend(t *testing.T) {
	engine, s := setupEngine(t)
	ctx := context.Background()

	addEntry(t, s, "2024-02-03", 150)
	addEntry(t, s, "2024-02-01", 300)

	trend, err := engine.WordCountTrend(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, trend, 2, "no point is synthesized for 2024-02-02")

	assert.Equal(t, day("2024-02-01"), trend[0].Day)
	assert.Equal(t, 300.0, trend[0].AverageWordCount)
	assert.Equal(t, day("2024-02-03"), trend[1].Day)
	assert.Equal(t, 150.0, trend[1].AverageWordCount)
}

func TestWordCountTrend_RangeFilter(t *testing.T) {
	engine, s := setupEngine(t)
	ctx := context.Background()

	addEntry(t, s, "2024-02-01", 100)
	addEntry(t, s, "2024-02-05", 200)
	addEntry(t, s, "2024-02-09", 300)

	start, end := day("2024-02-02"), day("2024-02-08")
	trend, err := engine.WordCountTrend(ctx, &start, &end)
	require.NoError(t, err)
	require.Len(t, trend, 1)
	assert.Equal(t, day("2024-02-05"), trend[0].Day)
}

func TestSummary(t *testing.T) {
	engine, s := setupEngine(t)
	ctx := context.Background()
	engine.now = func() time.Time { return day("2024-02-03") }

	happy := moodByName(t, s, "Happy")
	work := tagByName(t, s, "Work")

	e1 := addEntry(t, s, "2024-02-01", 120)
	e2 := addEntry(t, s, "2024-02-02", 80)
	require.NoError(t, s.SetEntryMoods(ctx, e1.ID, happy.ID, nil))
	require.NoError(t, s.SetEntryMoods(ctx, e2.ID, happy.ID, nil))
	require.NoError(t, s.SetEntryTags(ctx, e1.ID, []int64{work.ID}))

	summary, err := engine.Summary(ctx, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.MoodDistribution[store.CategoryPositive])
	assert.Equal(t, "Happy", summary.MostFrequentMood)
	require.Len(t, summary.TagFrequency, 1)
	assert.Equal(t, "Work", summary.TagFrequency[0].Name)
	require.Len(t, summary.WordCountTrend, 2)
	assert.Equal(t, 2, summary.Streak.Current, "yesterday's run counts while today is unwritten")
	assert.Equal(t, 2, summary.Streak.TotalEntries)
}
