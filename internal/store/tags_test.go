// ABOUTME: Tests for the tag catalog and entry-tag junction
// ABOUTME: Covers seeding, replace-set round trips and deletion policy

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SeedDefaultTags_Idempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedDefaultTags(ctx))
	require.NoError(t, store.SeedDefaultTags(ctx))

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 8)
	for _, tag := range tags {
		assert.True(t, tag.Predefined)
		assert.NotEmpty(t, tag.Color)
	}
}

func TestStore_SetEntryTags_RoundTrip(t *testing.T) {
	store := setupSeededStore(t)
	ctx := context.Background()

	entry := createTestEntry(t, store, "2024-03-15", "tagged", 10)
	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	t1, t2, t3 := tags[0].ID, tags[1].ID, tags[2].ID

	require.NoError(t, store.SetEntryTags(ctx, entry.ID, []int64{t1, t2}))

	got, err := store.GetTagsForEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, t1, got[0].ID)
	assert.Equal(t, t2, got[1].ID)

	// A second set replaces the whole junction set
	require.NoError(t, store.SetEntryTags(ctx, entry.ID, []int64{t3}))

	got, err = store.GetTagsForEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, t3, got[0].ID)

	// Empty set clears all tags
	require.NoError(t, store.SetEntryTags(ctx, entry.ID, nil))
	got, err = store.GetTagsForEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_SetEntryTags_InvalidInput(t *testing.T) {
	store := setupSeededStore(t)
	ctx := context.Background()

	err := store.SetEntryTags(ctx, -3, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	entry := createTestEntry(t, store, "2024-03-15", "x", 1)
	err = store.SetEntryTags(ctx, entry.ID, []int64{0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStore_AddTag(t *testing.T) {
	store := setupSeededStore(t)
	ctx := context.Background()

	tag := &Tag{Name: "Gardening", Category: "Lifestyle", Color: "#22C55E"}
	require.NoError(t, store.AddTag(ctx, tag))
	assert.Greater(t, tag.ID, int64(0))
	assert.False(t, tag.CreatedAt.IsZero())

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 9)
}

func TestStore_DeleteTag_Policies(t *testing.T) {
	store := setupSeededStore(t)
	ctx := context.Background()

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)

	err = store.DeleteTag(ctx, tags[0].ID)
	assert.ErrorIs(t, err, ErrInUse, "predefined tags refuse deletion")

	custom := &Tag{Name: "Sailing"}
	require.NoError(t, store.AddTag(ctx, custom))
	entry := createTestEntry(t, store, "2024-03-15", "at sea", 10)
	require.NoError(t, store.SetEntryTags(ctx, entry.ID, []int64{custom.ID}))

	err = store.DeleteTag(ctx, custom.ID)
	assert.ErrorIs(t, err, ErrInUse, "referenced tags refuse deletion")

	require.NoError(t, store.SetEntryTags(ctx, entry.ID, nil))
	require.NoError(t, store.DeleteTag(ctx, custom.ID))

	err = store.DeleteTag(ctx, custom.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SecuritySettings_Upsert(t *testing.T) {
	store := setupSeededStore(t)
	ctx := context.Background()

	_, err := store.GetSecuritySettings(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	settings := &SecuritySettings{UserID: 1, PINHash: "hash-one", Enabled: true}
	require.NoError(t, store.SaveSecuritySettings(ctx, settings))

	got, err := store.GetSecuritySettings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "hash-one", got.PINHash)
	assert.True(t, got.Enabled)
	assert.Equal(t, 0, got.FailedAttempts)

	// Saving again updates the same row
	got.FailedAttempts = 3
	require.NoError(t, store.SaveSecuritySettings(ctx, got))

	again, err := store.GetSecuritySettings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, again.FailedAttempts)
	assert.Equal(t, got.ID, again.ID)
}
