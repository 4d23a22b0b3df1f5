package domain

import (
	"context"
	"io"
)

// JournalStore is an open cursor over the system journal. The current match
// set and cursor position are its only state. A store must not be used by
// two operations at once.
type JournalStore interface {
	io.Closer

	// AddMatch appends a "FIELD=value" predicate. Matches on the same field
	// are OR-ed together, and matches on different fields are AND-ed.
	AddMatch(match string) error
	// FlushMatches removes every predicate.
	FlushMatches()

	// Next moves to the next (newer) matching entry. It returns false when there is none.
	Next() (bool, error)
	// Previous moves to the previous (older) matching entry. It returns false when there is none.
	Previous() (bool, error)
	PreviousSkip(skip uint64) (bool, error)
	NextSkip(skip uint64) (bool, error)

	SeekHead() error
	SeekTail() error
	// SeekRealtime positions the cursor at usec. The following Previous lands
	// on the newest entry at or before usec.
	SeekRealtime(usec uint64) error

	// RealtimeUsec returns the receipt time of the current entry.
	RealtimeUsec() (uint64, error)
	// Field returns the value of one field of the current entry.
	Field(name string) (string, error)
	// EnumerateField returns the next field of the current entry, or
	// ErrEndOfData once every field has been returned.
	EnumerateField() (name, value string, err error)
	// RestartFields rewinds EnumerateField to the first field.
	RestartFields()
}

// OpenOptions selects which journal files a store reads. The toggles are
// independent and combined when the store is opened.
type OpenOptions struct {
	// LocalOnly restricts the store to files generated on this machine.
	LocalOnly bool
	// RuntimeOnly restricts the store to volatile files.
	RuntimeOnly bool
	// System includes system services and the kernel.
	System bool
	// CurrentUser includes the current user's journal.
	CurrentUser bool
	// Directory, if set, reads journal files from this directory instead.
	Directory string
}

// DefaultOpenOptions returns local-only access to system and current user files.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{LocalOnly: true, System: true, CurrentUser: true}
}

// StoreOpener opens a fresh JournalStore. Callers own the returned store and must close it.
type StoreOpener func(opts OpenOptions) (JournalStore, error)

// UnitLister lists installed service unit files.
type UnitLister interface {
	ListUnits(ctx context.Context) ([]Unit, error)
}

// BootLister lists the boots recorded in the journal, newest first.
type BootLister interface {
	ListBoots(ctx context.Context) ([]Boot, error)
}

// EntryCache stores full records keyed by their receipt timestamp.
type EntryCache interface {
	// Get returns the cached record. The bool is false on a miss.
	Get(ctx context.Context, timestamp uint64) (*FullRecord, bool, error)
	Set(ctx context.Context, timestamp uint64, record *FullRecord) error
}

// APIKeyRepository defines the interface for validating API keys.
type APIKeyRepository interface {
	// IsValid checks if the provided API key is valid and active.
	// Implementations should handle caching to reduce database load.
	IsValid(ctx context.Context, key string) (bool, error)
}

// QueryAuditRepository records executed queries.
type QueryAuditRepository interface {
	Record(ctx context.Context, entry QueryAuditEntry) error
}
