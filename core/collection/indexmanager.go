package collection

import (
	"fmt"

	"github.com/asaidimu/ledb/core/index"
	"github.com/asaidimu/ledb/core/storage"
)

// HasIndex reports whether an index exists for the given dotted field path.
func (c *Collection) HasIndex(path string) bool {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	_, ok := c.findIndexLocked(path)
	return ok
}

// GetIndexes returns the (path, kind, key) triple for every index currently
// attached to this collection.
func (c *Collection) GetIndexes() []KeyField {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()

	out := make([]KeyField, 0, len(c.state.indexes))
	for _, bi := range c.state.indexes {
		out = append(out, KeyField{Path: bi.def.Path, Kind: bi.def.Kind, Key: bi.def.Key})
	}
	return out
}

// findIndexLocked does a linear scan by path equality; callers must hold
// state.mu for read or write.
func (c *Collection) findIndexLocked(path string) (*boundIndex, bool) {
	for _, bi := range c.state.indexes {
		if bi.def.Path == path {
			return bi, true
		}
	}
	return nil, false
}

// notifyIndexChange calls the registered OnIndexChange hook, if any, with
// a snapshot of the current index definitions. Must be called without
// state.mu held.
func (c *Collection) notifyIndexChange() error {
	c.state.mu.RLock()
	fn := c.state.onIndexChange
	defs := make([]IndexDef, 0, len(c.state.indexes))
	for _, bi := range c.state.indexes {
		defs = append(defs, bi.def)
	}
	c.state.mu.RUnlock()

	if fn == nil {
		return nil
	}
	return fn(defs)
}

// EnsureIndex guarantees an index for path exists with the given kind and
// key type. It is a no-op (returning false) if a matching index already
// exists; if an index exists with a different kind or key, it is dropped
// and recreated; otherwise a new index is created. Reports whether it
// changed anything.
func (c *Collection) EnsureIndex(path string, kind IndexKind, key KeyType) (bool, error) {
	c.state.mu.RLock()
	bi, ok := c.findIndexLocked(path)
	c.state.mu.RUnlock()

	if ok {
		if bi.def.Kind == kind && bi.def.Key == key {
			return false, nil
		}
		if _, err := c.DropIndex(path); err != nil {
			return false, err
		}
	}

	return c.CreateIndex(path, kind, key)
}

// CreateIndex builds a new index over path and backfills it from every
// document currently in the collection. Returns false without error if an
// index for path already exists.
func (c *Collection) CreateIndex(path string, kind IndexKind, key KeyType) (bool, error) {
	c.state.mu.RLock()
	_, exists := c.findIndexLocked(path)
	c.state.mu.RUnlock()
	if exists {
		return false, nil
	}

	serial, err := c.state.storage.Enumerate()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	def := IndexDef{Serial: serial, Collection: c.state.def.Name, Path: path, Kind: kind, Key: key}
	idx := index.New(def.BucketName(), kind, key)

	if err := c.backfill(idx, path); err != nil {
		return false, err
	}

	c.state.mu.Lock()
	c.state.indexes = append(c.state.indexes, &boundIndex{def: def, idx: idx})
	c.state.mu.Unlock()

	if err := c.notifyIndexChange(); err != nil {
		return true, err
	}
	return true, nil
}

// backfill opens a single write transaction and populates the new index
// from every (id, document) pair currently in the primary map, in primary
// key order. It scans through the write transaction's own cursor rather
// than pairing it with a concurrent read transaction: bbolt serializes
// write-transaction startup behind its mmap lock, and an open read
// transaction on the same goroutine would hold that lock while the write
// transaction waits on it.
func (c *Collection) backfill(idx *index.Index, path string) error {
	wt, err := storage.NewWriteTransaction(c.state.storage)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	access := wt.Access()
	cur, err := access.Cursor(c.state.def.BucketName())
	if err != nil && err != storage.ErrNoSuchBucket {
		_ = wt.Rollback()
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if cur != nil {
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			doc, derr := FromBin(v).IntoDoc()
			if derr != nil {
				_ = wt.Rollback()
				return derr
			}
			val, ok := fieldAt(doc, path)
			if !ok {
				continue
			}
			id, _ := decodePrimaryKey(k)
			if err := idx.Put(access, val, id); err != nil {
				_ = wt.Rollback()
				return fmt.Errorf("%w: %v", ErrStorage, err)
			}
		}
	}

	if err := wt.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// DropIndex removes the index on path from the list and then deletes its
// bucket in a write transaction of its own. The deletion is not deferred:
// a query that looked the index up before the removal and scans it after
// the commit sees an empty index. Returns false without error if no such
// index exists.
func (c *Collection) DropIndex(path string) (bool, error) {
	c.state.mu.RLock()
	_, exists := c.findIndexLocked(path)
	c.state.mu.RUnlock()
	if !exists {
		return false, nil
	}

	c.state.mu.Lock()
	var removed *boundIndex
	kept := c.state.indexes[:0]
	for _, bi := range c.state.indexes {
		if bi.def.Path == path && removed == nil {
			removed = bi
			continue
		}
		kept = append(kept, bi)
	}
	c.state.indexes = kept
	c.state.mu.Unlock()

	if removed == nil {
		return false, nil
	}

	wt, err := storage.NewWriteTransaction(c.state.storage)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := removed.idx.Drop(wt.Access()); err != nil {
		_ = wt.Rollback()
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := wt.Commit(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := c.notifyIndexChange(); err != nil {
		return true, err
	}
	return true, nil
}

// SetIndexes calls EnsureIndex for each field. This is additive: fields
// not mentioned keep whatever index they already had; it never drops an
// index absent from fields. See DESIGN.md for why this asymmetry (named
// "set", behaving as "ensure") is deliberate rather than a bug.
func (c *Collection) SetIndexes(fields KeyFields) error {
	for _, f := range fields {
		if _, err := c.EnsureIndex(f.Path, f.Kind, f.Key); err != nil {
			return err
		}
	}
	return nil
}
