package ledb

import (
	"errors"

	"github.com/asaidimu/ledb/core/collection"
)

// Sentinel errors forming the taxonomy described by the collection
// subsystem's error handling design. The collection-level kinds are
// re-exported unchanged from core/collection, which is where the
// MutationEngine and QueryEngine actually produce them; wrap these with
// fmt.Errorf("...: %w") when adding context, and match with errors.Is.
var (
	// ErrStorage wraps any failure surfaced by the underlying key-value
	// store (I/O, map full, lock contention).
	ErrStorage = collection.ErrStorage

	// ErrSerialization wraps any failure encoding or decoding a document.
	ErrSerialization = collection.ErrSerialization

	// ErrMissingIdentifier is returned by Put and Load when a document does
	// not carry a primary identifier.
	ErrMissingIdentifier = collection.ErrMissingIdentifier

	// ErrMissingIndex is returned by Find when asked to order by a field
	// path that has no index.
	ErrMissingIndex = collection.ErrMissingIndex

	// ErrLockPoisoned names the failure mode of a panic while the
	// reader-writer lock guarding a collection's index list is held. No
	// operation currently returns it; see core/collection.ErrLockPoisoned.
	ErrLockPoisoned = collection.ErrLockPoisoned

	// ErrConcurrentModification is a retriable error surfaced when update
	// or remove snapshots an id and then finds the document gone by the
	// time the mutating transaction opens (concurrent delete raced it).
	ErrConcurrentModification = collection.ErrConcurrentModification

	// ErrCollectionClosed is returned by the document and query operations
	// of a Collection handle that has itself been closed, even while other
	// clones remain open. The index-management methods do not check it.
	ErrCollectionClosed = collection.ErrCollectionClosed

	// ErrCollectionExists is returned by Database.Create when a collection
	// of that name is already open.
	ErrCollectionExists = errors.New("ledb: collection already exists")

	// ErrCollectionNotFound is returned by Database.Collection and
	// Database.Drop when no collection of that name is open.
	ErrCollectionNotFound = errors.New("ledb: collection not found")
)
