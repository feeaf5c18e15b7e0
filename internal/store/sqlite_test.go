// ABOUTME: Tests for SQLite store initialization and shared handle
// ABOUTME: Covers schema creation, directory creation, and user bootstrap

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "journal.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	// Verify the database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "journal.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestEnsureDefaultUser_Idempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.EnsureDefaultUser(ctx); err != nil {
		t.Fatalf("EnsureDefaultUser failed: %v", err)
	}
	if err := store.EnsureDefaultUser(ctx); err != nil {
		t.Fatalf("second EnsureDefaultUser failed: %v", err)
	}

	user, err := store.GetDefaultUser(ctx)
	if err != nil {
		t.Fatalf("GetDefaultUser failed: %v", err)
	}
	if user.Name != "Default User" {
		t.Errorf("Name mismatch: got %q, want %q", user.Name, "Default User")
	}
	if user.Theme != "light" {
		t.Errorf("Theme mismatch: got %q, want %q", user.Theme, "light")
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("counting users: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 user, got %d", count)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetUser(context.Background(), 999)
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.EnsureDefaultUser(ctx); err != nil {
		t.Fatalf("EnsureDefaultUser failed: %v", err)
	}
	user, err := store.GetDefaultUser(ctx)
	if err != nil {
		t.Fatalf("GetDefaultUser failed: %v", err)
	}

	user.Name = "Avery"
	user.Email = "avery@example.com"
	user.Theme = "dark"
	if err := store.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	got, err := store.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Name != "Avery" || got.Email != "avery@example.com" || got.Theme != "dark" {
		t.Errorf("user not updated: got %+v", got)
	}
}

func TestOpenShared_ReturnsSameHandle(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "shared.db")

	first, err := OpenShared(dbPath)
	if err != nil {
		t.Fatalf("OpenShared failed: %v", err)
	}
	second, err := OpenShared(filepath.Join(tmpDir, "ignored.db"))
	if err != nil {
		t.Fatalf("second OpenShared failed: %v", err)
	}
	if first != second {
		t.Error("OpenShared returned different handles")
	}

	// The shared open runs the seed sequence exactly once.
	moods, err := first.ListMoods(context.Background())
	if err != nil {
		t.Fatalf("ListMoods failed: %v", err)
	}
	if len(moods) != 15 {
		t.Errorf("expected 15 seeded moods, got %d", len(moods))
	}
}
