package collection

import "errors"

// Sentinel errors forming the Collection subsystem's error taxonomy. Wrap
// these with fmt.Errorf("...: %w") when adding context; callers match with
// errors.Is. The root package re-exports these unchanged so application
// code never needs to import this package directly to classify an error.
var (
	// ErrStorage wraps any failure surfaced by the underlying key-value
	// store (I/O, map full, lock contention).
	ErrStorage = errors.New("ledb: storage error")

	// ErrSerialization wraps any failure encoding or decoding a document.
	ErrSerialization = errors.New("ledb: serialization error")

	// ErrMissingIdentifier is returned by Put and Load when a document does
	// not carry a primary identifier.
	ErrMissingIdentifier = errors.New("ledb: document is missing its identifier")

	// ErrMissingIndex is returned by Find when asked to order by a field
	// path that has no index.
	ErrMissingIndex = errors.New("ledb: missing index for field")

	// ErrLockPoisoned completes the error taxonomy for a panic recovered
	// while the index list's reader-writer lock was held. Go's
	// sync.RWMutex has no poisoning behavior (unlike, say, a Rust Mutex):
	// a panicking goroutine that holds state.mu simply never reaches its
	// deferred Unlock, so every other goroutine blocks forever rather than
	// observing a poisoned lock. Nothing in this package currently
	// recovers such a panic, so this error is never actually returned; it
	// is kept so the taxonomy names the failure mode rather than silently
	// omitting it.
	ErrLockPoisoned = errors.New("ledb: index list lock poisoned")

	// ErrConcurrentModification is a retriable error surfaced when update
	// or remove snapshots an id and then finds the document gone by the
	// time the mutating transaction opens.
	ErrConcurrentModification = errors.New("ledb: document changed concurrently")

	// ErrCollectionClosed is returned by the document and query operations
	// of a Collection handle that has itself been closed, even while other
	// clones remain open. The index-management methods do not check it.
	ErrCollectionClosed = errors.New("ledb: collection closed")
)
