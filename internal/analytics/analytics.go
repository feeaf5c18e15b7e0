// ABOUTME: Read-side aggregation over the journal store
// ABOUTME: Computes mood distribution, tag frequency, word-count trend and summaries

package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/2389/journal/internal/store"
)

// Engine computes statistics as pure functions of the entry set plus
// junction lookups. It holds no state across calls, never mutates the
// store, and surfaces store read failures unchanged. Empty input always
// yields zero-valued results, never an error.
type Engine struct {
	store  store.Store
	logger *slog.Logger

	// now is the clock used for streak math; overridden in tests.
	now func() time.Time
}

// NewEngine creates an analytics engine reading through the given store.
func NewEngine(s store.Store) *Engine {
	return &Engine{
		store:  s,
		logger: slog.Default().With("component", "analytics"),
		now:    time.Now,
	}
}

// TagCount is one row of a tag frequency ranking.
type TagCount struct {
	Name  string
	Count int
}

// TrendPoint is the average word count for one calendar day.
// With the one-entry-per-day invariant the average degenerates to that
// entry's word count, but it is computed as a mean so the result stays
// correct if the invariant is ever relaxed.
type TrendPoint struct {
	Day              time.Time
	AverageWordCount float64
}

// Summary bundles every statistic for a dashboard in one read pass.
type Summary struct {
	MoodDistribution map[store.MoodCategory]int
	MostFrequentMood string
	TagFrequency     []TagCount
	WordCountTrend   []TrendPoint
	Streak           Streak
}

// Summary computes all statistics over the optional date range
// (nil bounds mean all time). Streaks are always all-time regardless of
// the range.
func (e *Engine) Summary(ctx context.Context, start, end *time.Time) (*Summary, error) {
	entries, err := e.entriesFor(ctx, start, end)
	if err != nil {
		return nil, err
	}

	distribution, err := e.moodDistribution(ctx, entries)
	if err != nil {
		return nil, err
	}
	mostFrequent, err := e.mostFrequentMood(ctx, entries)
	if err != nil {
		return nil, err
	}
	tagFrequency, err := e.tagFrequency(ctx, entries)
	if err != nil {
		return nil, err
	}
	streak, err := e.Streak(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		MoodDistribution: distribution,
		MostFrequentMood: mostFrequent,
		TagFrequency:     tagFrequency,
		WordCountTrend:   wordCountTrend(entries),
		Streak:           streak,
	}, nil
}

// MoodDistribution counts entries in the range by their primary mood's
// category. All three categories appear even with count 0. Entries with
// no primary mood, or an unrecognized stored category, are excluded from
// every bucket.
func (e *Engine) MoodDistribution(ctx context.Context, start, end *time.Time) (map[store.MoodCategory]int, error) {
	entries, err := e.entriesFor(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return e.moodDistribution(ctx, entries)
}

func (e *Engine) moodDistribution(ctx context.Context, entries []*store.Entry) (map[store.MoodCategory]int, error) {
	distribution := map[store.MoodCategory]int{
		store.CategoryPositive: 0,
		store.CategoryNeutral:  0,
		store.CategoryNegative: 0,
	}

	for _, entry := range entries {
		primary, err := e.store.GetPrimaryMood(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("resolving primary mood: %w", err)
		}
		if primary == nil {
			continue
		}
		if !primary.Category.Valid() {
			e.logger.Debug("skipping unrecognized mood category",
				"entry", entry.ID, "category", string(primary.Category))
			continue
		}
		distribution[primary.Category]++
	}

	return distribution, nil
}

// MostFrequentMood returns the primary-mood name occurring most often in
// the range. Ties break deterministically toward the name first
// encountered in the store's date-descending entry order. Returns the
// empty string when no entry has a primary mood.
func (e *Engine) MostFrequentMood(ctx context.Context, start, end *time.Time) (string, error) {
	entries, err := e.entriesFor(ctx, start, end)
	if err != nil {
		return "", err
	}
	return e.mostFrequentMood(ctx, entries)
}

func (e *Engine) mostFrequentMood(ctx context.Context, entries []*store.Entry) (string, error) {
	counts := map[string]int{}
	var order []string

	for _, entry := range entries {
		primary, err := e.store.GetPrimaryMood(ctx, entry.ID)
		if err != nil {
			return "", fmt.Errorf("resolving primary mood: %w", err)
		}
		if primary == nil {
			continue
		}
		if _, seen := counts[primary.Name]; !seen {
			order = append(order, primary.Name)
		}
		counts[primary.Name]++
	}

	best := ""
	for _, name := range order {
		if best == "" || counts[name] > counts[best] {
			best = name
		}
	}
	return best, nil
}

// TagFrequency counts tag occurrences across the range's entries,
// ordered by count descending; ties keep first-encountered order.
func (e *Engine) TagFrequency(ctx context.Context, start, end *time.Time) ([]TagCount, error) {
	entries, err := e.entriesFor(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return e.tagFrequency(ctx, entries)
}

func (e *Engine) tagFrequency(ctx context.Context, entries []*store.Entry) ([]TagCount, error) {
	counts := map[string]int{}
	var order []string

	for _, entry := range entries {
		tags, err := e.store.GetTagsForEntry(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("resolving entry tags: %w", err)
		}
		for _, tag := range tags {
			if _, seen := counts[tag.Name]; !seen {
				order = append(order, tag.Name)
			}
			counts[tag.Name]++
		}
	}

	frequency := make([]TagCount, 0, len(order))
	for _, name := range order {
		frequency = append(frequency, TagCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(frequency, func(i, j int) bool {
		return frequency[i].Count > frequency[j].Count
	})
	return frequency, nil
}

// WordCountTrend groups the range's entries by calendar day and averages
// word counts per day, ordered by date ascending. Days without entries
// are not synthesized.
func (e *Engine) WordCountTrend(ctx context.Context, start, end *time.Time) ([]TrendPoint, error) {
	entries, err := e.entriesFor(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return wordCountTrend(entries), nil
}

func wordCountTrend(entries []*store.Entry) []TrendPoint {
	type bucket struct {
		total   int
		entries int
	}
	byDay := map[time.Time]*bucket{}

	for _, entry := range entries {
		d := store.Day(entry.Date)
		b, ok := byDay[d]
		if !ok {
			b = &bucket{}
			byDay[d] = b
		}
		b.total += entry.WordCount
		b.entries++
	}

	trend := make([]TrendPoint, 0, len(byDay))
	for d, b := range byDay {
		trend = append(trend, TrendPoint{
			Day:              d,
			AverageWordCount: float64(b.total) / float64(b.entries),
		})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Day.Before(trend[j].Day) })
	return trend
}

// entriesFor fetches the entry set for an optional date range. Nil
// bounds widen to all time.
func (e *Engine) entriesFor(ctx context.Context, start, end *time.Time) ([]*store.Entry, error) {
	if start == nil && end == nil {
		return e.store.ListAllEntries(ctx)
	}

	from := time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	return e.store.ListEntriesInRange(ctx, from, to)
}
