// Package store provides persistent storage for the journal using SQLite.
//
// # Architecture
//
// The Store interface is implemented by a single SQLiteStore struct, with
// one file per entity family:
//
//   - entries.go: journal entry CRUD, search and filtering
//   - moods.go: mood catalog and the role-typed entry-mood junction
//   - tags.go: tag catalog and the entry-tag junction
//   - users.go: journal owner records
//   - security.go: PIN lock settings persisted for the auth package
//   - seed.go: predefined mood/tag catalogs
//
// The store is the sole writer and reader of all six tables. Junction
// rows are never handed out; callers get full Mood/Tag records through
// entry-centric queries.
//
// # Invariants
//
//   - At most one entry per (user, calendar day); CreateEntry fails with
//     a *DuplicateEntryError otherwise.
//   - Exactly one Primary and at most two Secondary entry-mood rows per
//     entry, maintained by SetEntryMoods' transactional replace-set.
//   - DeleteEntry removes junction rows and the entry in one
//     transaction; no orphan junction rows survive a delete.
//   - Referential integrity is enforced here in application logic, not
//     delegated to the storage engine.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: requested record does not exist
//   - ErrDuplicateEntry: second entry attempted for an occupied day
//   - ErrInvalidInput: structurally invalid argument (non-positive id)
//   - ErrInUse: mood/tag deletion refused while entries reference it
//
// All methods accept context.Context.
//
// # Shared handle
//
// OpenShared opens the process-wide handle lazily and runs the
// schema-create/seed sequence at most once under concurrent first calls.
// Tests construct stores directly with NewSQLiteStore and a temp path.
package store
