// ABOUTME: Writing-streak and missed-day computation over entry days
// ABOUTME: Always all-time, independent of any date range filter

package analytics

import (
	"context"
	"time"

	"github.com/2389/journal/internal/store"
)

// Streak describes consecutive-day writing statistics.
type Streak struct {
	Current      int
	Longest      int
	TotalEntries int
	MissedDays   []time.Time
}

// Streak computes current/longest streaks and missed days over the
// distinct set of calendar days that have an entry. It always operates
// all-time. An empty journal yields all zeros and no missed days.
func (e *Engine) Streak(ctx context.Context) (Streak, error) {
	entries, err := e.store.ListAllEntries(ctx)
	if err != nil {
		return Streak{}, err
	}
	if len(entries) == 0 {
		return Streak{MissedDays: []time.Time{}}, nil
	}

	days := map[time.Time]bool{}
	earliest := store.Day(entries[0].Date)
	for _, entry := range entries {
		d := store.Day(entry.Date)
		days[d] = true
		if d.Before(earliest) {
			earliest = d
		}
	}

	today := store.Day(e.now())
	return Streak{
		Current:      currentStreak(days, today),
		Longest:      longestStreak(days),
		TotalEntries: len(entries),
		MissedDays:   missedDays(days, earliest, today),
	}, nil
}

// currentStreak counts consecutive entry days backward from today, or
// from yesterday when today has no entry yet. Zero when neither day has
// an entry.
func currentStreak(days map[time.Time]bool, today time.Time) int {
	check := today
	if !days[check] {
		check = today.AddDate(0, 0, -1)
		if !days[check] {
			return 0
		}
	}

	streak := 0
	for days[check] {
		streak++
		check = check.AddDate(0, 0, -1)
	}
	return streak
}

// longestStreak finds the longest run of consecutive entry days.
// A single entry day yields 1.
func longestStreak(days map[time.Time]bool) int {
	longest := 0
	for d := range days {
		// Only start counting at the beginning of a run
		if days[d.AddDate(0, 0, -1)] {
			continue
		}
		run := 1
		for next := d.AddDate(0, 0, 1); days[next]; next = next.AddDate(0, 0, 1) {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// missedDays lists every calendar day from the earliest entry day
// through today, inclusive, that has no entry.
func missedDays(days map[time.Time]bool, earliest, today time.Time) []time.Time {
	missed := []time.Time{}
	for d := earliest; !d.After(today); d = d.AddDate(0, 0, 1) {
		if !days[d] {
			missed = append(missed, d)
		}
	}
	return missed
}
