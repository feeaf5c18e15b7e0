// ABOUTME: Seed catalogs for predefined moods and tags
// ABOUTME: Idempotent inserts that no-op when the tables already hold rows

package store

import (
	"context"
	"fmt"
	"time"
)

// defaultMoods is the fixed predefined mood catalog: 6 positive,
// 4 neutral, 5 negative. Changing it is a code change, not
// configuration.
var defaultMoods = []Mood{
	{Name: "Happy", Category: CategoryPositive, Emoji: "😊"},
	{Name: "Excited", Category: CategoryPositive, Emoji: "🎉"},
	{Name: "Grateful", Category: CategoryPositive, Emoji: "🙏"},
	{Name: "Peaceful", Category: CategoryPositive, Emoji: "😌"},
	{Name: "Loved", Category: CategoryPositive, Emoji: "❤️"},
	{Name: "Confident", Category: CategoryPositive, Emoji: "💪"},

	{Name: "Calm", Category: CategoryNeutral, Emoji: "😐"},
	{Name: "Tired", Category: CategoryNeutral, Emoji: "😴"},
	{Name: "Thoughtful", Category: CategoryNeutral, Emoji: "🤔"},
	{Name: "Busy", Category: CategoryNeutral, Emoji: "📋"},

	{Name: "Sad", Category: CategoryNegative, Emoji: "😢"},
	{Name: "Anxious", Category: CategoryNegative, Emoji: "😰"},
	{Name: "Stressed", Category: CategoryNegative, Emoji: "😫"},
	{Name: "Angry", Category: CategoryNegative, Emoji: "😠"},
	{Name: "Lonely", Category: CategoryNegative, Emoji: "😔"},
}

// defaultTags is the fixed predefined tag catalog.
var defaultTags = []Tag{
	{Name: "Work", Category: "Professional", Color: "#3B82F6"},
	{Name: "Health", Category: "Wellness", Color: "#10B981"},
	{Name: "Travel", Category: "Lifestyle", Color: "#F59E0B"},
	{Name: "Fitness", Category: "Wellness", Color: "#EF4444"},
	{Name: "Family", Category: "Personal", Color: "#EC4899"},
	{Name: "Friends", Category: "Personal", Color: "#8B5CF6"},
	{Name: "Learning", Category: "Growth", Color: "#06B6D4"},
	{Name: "Finance", Category: "Professional", Color: "#84CC16"},
}

// SeedDefaultMoods inserts the predefined mood catalog. It is a no-op
// when the moods table already holds any rows, so repeated calls leave
// exactly one catalog.
func (s *SQLiteStore) SeedDefaultMoods(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM moods`).Scan(&count); err != nil {
		return fmt.Errorf("counting moods: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, m := range defaultMoods {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO moods (name, category, emoji, predefined)
			VALUES (?, ?, ?, 1)
		`, m.Name, string(m.Category), m.Emoji); err != nil {
			return fmt.Errorf("seeding mood %q: %w", m.Name, err)
		}
	}

	s.logger.Info("seeded default moods", "count", len(defaultMoods))
	return nil
}

// SeedDefaultTags inserts the predefined tag catalog. No-op when the
// tags table already holds any rows.
func (s *SQLiteStore) SeedDefaultTags(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`).Scan(&count); err != nil {
		return fmt.Errorf("counting tags: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := formatTime(time.Now())
	for _, t := range defaultTags {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO tags (name, category, color, predefined, created_at)
			VALUES (?, ?, ?, 1, ?)
		`, t.Name, t.Category, t.Color, now); err != nil {
			return fmt.Errorf("seeding tag %q: %w", t.Name, err)
		}
	}

	s.logger.Info("seeded default tags", "count", len(defaultTags))
	return nil
}
