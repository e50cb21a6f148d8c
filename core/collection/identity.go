package collection

import (
	"fmt"

	"github.com/asaidimu/ledb/core/storage"
)

// LastID opens a read transaction and returns the Primary of the last
// entry in the primary map in key order, or 0 if the collection is empty.
func (c *Collection) LastID() (Primary, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	rt, err := storage.NewReadTransaction(c.state.storage)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rt.Rollback()

	cur, err := rt.Cursor(c.state.def.BucketName())
	if err != nil {
		if err == storage.ErrNoSuchBucket {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	k, _ := cur.Last()
	if k == nil {
		return 0, nil
	}
	return decodePrimaryKey(k)
}

// NewID returns LastID()+1. Overflow as Primary approaches 2^64-1 is not
// defended against.
func (c *Collection) NewID() (Primary, error) {
	last, err := c.LastID()
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

// nextIDLocked computes the next id from within an already-open write
// transaction's cursor, rather than a separate read transaction. bbolt
// serializes write transactions, so this is the only computation of a new
// id that is safe against two concurrent Insert calls racing to read the
// same LastID(): reading LastID() in one transaction and writing in a
// later, separate one would let two inserts observe the same last id and
// collide.
func nextIDLocked(access *storage.Access, bucket string) (Primary, error) {
	cur, err := access.Cursor(bucket)
	if err != nil {
		if err == storage.ErrNoSuchBucket {
			return 1, nil
		}
		return 0, err
	}
	k, _ := cur.Last()
	if k == nil {
		return 1, nil
	}
	last, err := decodePrimaryKey(k)
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}
