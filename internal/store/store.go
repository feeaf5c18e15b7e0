// ABOUTME: Store interface and entity types for journal persistence
// ABOUTME: Defines User, Entry, Mood, Tag records and the junction contracts

package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateEntry is returned when creating a second entry for a day
// that already has one. Use errors.Is to match; the concrete error is a
// *DuplicateEntryError carrying the offending date.
var ErrDuplicateEntry = errors.New("entry already exists for date")

// ErrInvalidInput is returned for structurally invalid arguments,
// such as a non-positive id where an id is required.
var ErrInvalidInput = errors.New("invalid input")

// ErrInUse is returned when deleting a mood or tag that journal
// entries still reference, or a predefined catalog record.
var ErrInUse = errors.New("record is in use")

// DuplicateEntryError reports the date that already has an entry.
type DuplicateEntryError struct {
	Date time.Time
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("entry already exists for %s", e.Date.Format(DayFormat))
}

func (e *DuplicateEntryError) Unwrap() error { return ErrDuplicateEntry }

// DayFormat is the storage format for entry dates. Entries are keyed by
// calendar day, not instant.
const DayFormat = "2006-01-02"

// MaxSecondaryMoods caps the number of secondary moods per entry.
// Extra ids passed to SetEntryMoods are silently dropped, first two kept.
const MaxSecondaryMoods = 2

// MoodCategory is the closed set of mood buckets.
type MoodCategory string

const (
	CategoryPositive MoodCategory = "Positive"
	CategoryNeutral  MoodCategory = "Neutral"
	CategoryNegative MoodCategory = "Negative"
)

// Valid reports whether the category is one of the three known buckets.
// Unrecognized stored values are tolerated at read time; aggregation
// excludes them rather than failing.
func (c MoodCategory) Valid() bool {
	switch c {
	case CategoryPositive, CategoryNeutral, CategoryNegative:
		return true
	}
	return false
}

// MoodRole distinguishes the one primary mood from secondary moods on
// the entry-mood junction.
type MoodRole string

const (
	RolePrimary   MoodRole = "Primary"
	RoleSecondary MoodRole = "Secondary"
)

// User is a journal owner. Single-tenant in practice; the schema allows
// more than one.
type User struct {
	ID        int64
	Name      string
	Email     string
	Theme     string // "light" or "dark"
	CreatedAt time.Time
}

// Entry is one user's journal record for a single calendar day.
// Date carries day granularity only; at most one entry exists per
// (UserID, Date day).
type Entry struct {
	ID        int64
	UserID    int64
	Date      time.Time
	Title     string
	Content   string // markdown from the editor
	WordCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Mood is a mood catalog record attachable to entries.
type Mood struct {
	ID         int64
	Name       string
	Category   MoodCategory
	Emoji      string
	Predefined bool
}

// Tag is a free-form label attachable to entries.
type Tag struct {
	ID         int64
	Name       string
	Category   string
	Color      string // hex color for display
	Predefined bool
	CreatedAt  time.Time
}

// SecuritySettings holds the per-user PIN lock state. Owned by the auth
// layer; the store only persists it.
type SecuritySettings struct {
	ID             int64
	UserID         int64
	PINHash        string
	Enabled        bool
	FailedAttempts int
	UpdatedAt      time.Time
}

// EntryFilter narrows FilterEntries results. Nil/empty fields mean no
// constraint. Mood and tag filters match entries having any junction row
// whose mood/tag id is in the respective list.
type EntryFilter struct {
	Start   *time.Time
	End     *time.Time
	MoodIDs []int64
	TagIDs  []int64
}

// Store defines journal persistence. The store is the sole writer and
// reader of the six tables; junction rows are never exposed directly,
// only resolved to full Mood/Tag records.
type Store interface {
	// Entries
	CreateEntry(ctx context.Context, entry *Entry) error
	UpdateEntry(ctx context.Context, entry *Entry) error
	DeleteEntry(ctx context.Context, id int64) error
	GetEntryByID(ctx context.Context, id int64) (*Entry, error)
	GetEntryByDate(ctx context.Context, userID int64, date time.Time) (*Entry, error)
	ListAllEntries(ctx context.Context) ([]*Entry, error)
	ListEntriesInRange(ctx context.Context, start, end time.Time) ([]*Entry, error)
	SearchEntries(ctx context.Context, term string) ([]*Entry, error)
	FilterEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)
	CountEntries(ctx context.Context) (int, error)

	// Moods and the entry-mood junction
	ListMoods(ctx context.Context) ([]*Mood, error)
	AddMood(ctx context.Context, mood *Mood) error
	DeleteMood(ctx context.Context, id int64) error
	SetEntryMoods(ctx context.Context, entryID, primaryMoodID int64, secondaryMoodIDs []int64) error
	GetPrimaryMood(ctx context.Context, entryID int64) (*Mood, error)
	GetSecondaryMoods(ctx context.Context, entryID int64) ([]*Mood, error)
	GetMoodsForEntry(ctx context.Context, entryID int64) ([]*Mood, error)

	// Tags and the entry-tag junction
	ListTags(ctx context.Context) ([]*Tag, error)
	AddTag(ctx context.Context, tag *Tag) error
	DeleteTag(ctx context.Context, id int64) error
	SetEntryTags(ctx context.Context, entryID int64, tagIDs []int64) error
	GetTagsForEntry(ctx context.Context, entryID int64) ([]*Tag, error)

	// Users
	EnsureDefaultUser(ctx context.Context) error
	GetDefaultUser(ctx context.Context) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	UpdateUser(ctx context.Context, user *User) error

	// Security settings (persisted for the auth layer)
	GetSecuritySettings(ctx context.Context, userID int64) (*SecuritySettings, error)
	SaveSecuritySettings(ctx context.Context, settings *SecuritySettings) error

	// Seed catalogs
	SeedDefaultMoods(ctx context.Context) error
	SeedDefaultTags(ctx context.Context) error

	// Close releases the underlying database handle
	Close() error
}

// Day truncates t to its calendar day in UTC. All per-day comparisons in
// the store and analytics go through this.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
