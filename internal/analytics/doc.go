// Package analytics computes journal statistics from the store.
//
// The Engine is pure read-side aggregation: it never mutates the store,
// holds no state across calls, and is safe to use concurrently with
// itself and with store writers (it sees either the pre- or post-state
// of an in-flight write, per the store's transaction guarantees).
//
// Every method accepts an optional date range (nil bounds mean all
// time), except Streak which is always all-time. Ordered results come
// back as slices, not maps:
//
//   - MoodDistribution: entries per primary-mood category, all three
//     categories present even at zero
//   - MostFrequentMood: deterministic tie-break toward the name first
//     encountered in date-descending order
//   - TagFrequency: counts ordered descending
//   - WordCountTrend: per-day averages ordered ascending
//   - Streak: current/longest consecutive-day runs and missed days
//
// Store read failures pass through unchanged; empty input yields
// zero-valued results, never an error.
package analytics
