package index

import (
	"fmt"

	"github.com/asaidimu/ledb/core/storage"
)

// IndexKind distinguishes indexes that admit at most one document per key
// from those that admit many. The root package and core/collection both
// re-export this type unchanged.
type IndexKind int

const (
	Unique IndexKind = iota
	NonUnique
)

func (k IndexKind) String() string {
	if k == Unique {
		return "unique"
	}
	return "non-unique"
}

// Direction selects ascending or descending iteration order for Scan.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Index is the IndexManager collaborator's per-field backing store: a
// bbolt bucket mapping an order-preserving encoding of a field's extracted
// value (Unique), or of (value, primary) pairs (NonUnique), to the primary
// ids that carry that value.
//
// Unique indexes keep the value alone as the bucket key and the encoded
// primary as the stored value, so a duplicate value silently overwrites the
// previous id: there is no unique-constraint-violation error kind defined
// for this subsystem, so last-writer-wins is the only definable behavior
// here.
type Index struct {
	bucket string
	kind   IndexKind
	key    KeyType
}

// New builds an Index bound to the given bucket name. bucket is expected to
// already be unique per (collection, field path, serial) via
// IndexDef.BucketName.
func New(bucket string, kind IndexKind, key KeyType) *Index {
	return &Index{bucket: bucket, kind: kind, key: key}
}

// Bucket returns the bbolt database name this index is stored under.
func (ix *Index) Bucket() string { return ix.bucket }

// Kind reports whether this index admits at most one id per value.
func (ix *Index) Kind() IndexKind { return ix.kind }

// KeyType reports the Go-level type this index's values are encoded from.
func (ix *Index) KeyType() KeyType { return ix.key }

// Put records that id carries value under this index.
func (ix *Index) Put(access *storage.Access, value any, id Primary) error {
	if ix.kind == Unique {
		k, err := encodeValue(ix.key, value)
		if err != nil {
			return err
		}
		return access.Put(ix.bucket, k, encodePrimary(id))
	}
	k, err := compositeKey(ix.key, value, id)
	if err != nil {
		return err
	}
	return access.Put(ix.bucket, k, []byte{})
}

// Remove deletes the (value, id) mapping this index holds, if present.
func (ix *Index) Remove(access *storage.Access, value any, id Primary) error {
	if ix.kind == Unique {
		k, err := encodeValue(ix.key, value)
		if err != nil {
			return err
		}
		stored, err := access.Get(ix.bucket, k)
		if err != nil && err != storage.ErrNoSuchBucket {
			return err
		}
		if stored == nil {
			return nil
		}
		cur, err := decodePrimary(stored)
		if err != nil {
			return err
		}
		if cur != id {
			// a newer id has since overwritten this value; leave it alone.
			return nil
		}
		return access.Del(ix.bucket, k)
	}
	k, err := compositeKey(ix.key, value, id)
	if err != nil {
		return err
	}
	return access.Del(ix.bucket, k)
}

// UpdateIndex moves id's entry from oldValue to newValue. It is a plain
// Remove+Put pair, so callers can invoke it unconditionally; when
// oldValue and newValue compare equal under this index's KeyType, callers
// should skip the call entirely rather than pay for a pointless rewrite.
func (ix *Index) UpdateIndex(access *storage.Access, oldValue, newValue any, id Primary) error {
	if err := ix.Remove(access, oldValue, id); err != nil {
		return err
	}
	return ix.Put(access, newValue, id)
}

// Purge empties this index's bucket in place, keeping the bucket itself so
// a write transaction in flight still sees a usable (empty) database. Used
// by Collection.Purge.
func (ix *Index) Purge(access *storage.Access) error {
	return access.Clear(ix.bucket)
}

// Drop physically removes this index's bucket. Collection.DropIndex calls
// it right after taking the index out of the collection's index list; it
// does not wait for other handles of the collection to be closed.
func (ix *Index) Drop(access *storage.Access) error {
	return access.Drop(ix.bucket)
}

// Scan walks every entry in this index in key order (ascending or
// descending), returning the primary ids in that order. For a NonUnique
// index, ids that share a value are returned in ascending id order within
// that value's run, descending order reverses the run's internal order as
// well as the outer value order (matching a plain key-bytes reversal).
func (ix *Index) Scan(txn *storage.ReadTransaction, dir Direction) ([]Primary, error) {
	cur, err := txn.Cursor(ix.bucket)
	if err != nil {
		if err == storage.ErrNoSuchBucket {
			return nil, nil
		}
		return nil, err
	}

	var ids []Primary
	step := func(k, v []byte) error {
		id, err := ix.idFromEntry(k, v)
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	}

	if dir == Ascending {
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			if err := step(k, v); err != nil {
				return nil, err
			}
		}
	} else {
		for k, v := cur.Last(); k != nil; k, v = cur.Prev() {
			if err := step(k, v); err != nil {
				return nil, err
			}
		}
	}
	return ids, nil
}

func (ix *Index) idFromEntry(k, v []byte) (Primary, error) {
	if ix.kind == Unique {
		return decodePrimary(v)
	}
	if len(k) < 8 {
		return 0, fmt.Errorf("index: truncated composite key in bucket %q", ix.bucket)
	}
	return decodePrimary(k[len(k)-8:])
}
