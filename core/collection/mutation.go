package collection

import (
	"fmt"

	"github.com/asaidimu/ledb/core/modify"
	"github.com/asaidimu/ledb/core/storage"
	"github.com/asaidimu/ledb/core/utils"
)

// Insert assigns a fresh Primary to doc and writes it, returning the
// assigned id. The returned id is one more than the highest id currently
// stored, so it is greater than every id present; gaps left by deletes
// below the highest id are not reused, but once the highest-id document
// is deleted (or the collection purged) its id is assigned again.
func (c *Collection) Insert(doc Document) (Primary, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	wt, err := storage.NewWriteTransaction(c.state.storage)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	access := wt.Access()

	id, err := nextIDLocked(access, c.state.def.BucketName())
	if err != nil {
		_ = wt.Rollback()
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	rd, err := FromDoc(doc)
	if err != nil {
		_ = wt.Rollback()
		return 0, err
	}
	rd = rd.WithID(id)

	if err := access.Put(c.state.def.BucketName(), encodePrimaryKey(id), rd.ToBin()); err != nil {
		_ = wt.Rollback()
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := c.diffIndexes(access, nil, doc, id); err != nil {
		_ = wt.Rollback()
		return 0, err
	}

	if err := wt.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return id, nil
}

// Put writes doc at its own Primary, replacing any prior document and
// diff-updating every index. Fails with ErrMissingIdentifier if doc
// carries no Primary.
func (c *Collection) Put(doc Document) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	rd, err := FromDoc(doc)
	if err != nil {
		return err
	}
	id, err := rd.ReqID()
	if err != nil {
		return err
	}

	wt, err := storage.NewWriteTransaction(c.state.storage)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	access := wt.Access()

	oldDoc, err := c.readLocked(access, id)
	if err != nil {
		_ = wt.Rollback()
		return err
	}

	if err := access.Put(c.state.def.BucketName(), encodePrimaryKey(id), rd.ToBin()); err != nil {
		_ = wt.Rollback()
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := c.diffIndexes(access, oldDoc, doc, id); err != nil {
		_ = wt.Rollback()
		return err
	}

	return wrapCommit(wt)
}

// Get fetches the document at id, if present.
func (c *Collection) Get(id Primary) (Document, bool, error) {
	if err := c.checkOpen(); err != nil {
		return nil, false, err
	}

	rt, err := storage.NewReadTransaction(c.state.storage)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rt.Rollback()

	raw, err := rt.Access().Get(c.state.def.BucketName(), encodePrimaryKey(id))
	if err != nil && err != storage.ErrNoSuchBucket {
		return nil, false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if raw == nil {
		return nil, false, nil
	}
	doc, err := FromBin(raw).WithID(id).IntoDoc()
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// Has reports whether id is present in the collection.
func (c *Collection) Has(id Primary) (bool, error) {
	_, ok, err := c.Get(id)
	return ok, err
}

// Delete removes the document at id, returning false (no error) if it was
// already absent.
func (c *Collection) Delete(id Primary) (bool, error) {
	if err := c.checkOpen(); err != nil {
		return false, err
	}

	wt, err := storage.NewWriteTransaction(c.state.storage)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	access := wt.Access()

	oldDoc, err := c.readLocked(access, id)
	if err != nil {
		_ = wt.Rollback()
		return false, err
	}
	if oldDoc == nil {
		_ = wt.Rollback()
		return false, nil
	}

	if err := access.Del(c.state.def.BucketName(), encodePrimaryKey(id)); err != nil {
		_ = wt.Rollback()
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := c.diffIndexes(access, oldDoc, nil, id); err != nil {
		_ = wt.Rollback()
		return false, err
	}

	if err := wt.Commit(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return true, nil
}

// Update snapshots the ids matching filter in a separate read transaction,
// then opens one write transaction in which it applies modify to each
// matched document in turn. Returns the number of documents changed.
//
// The two-phase pattern (snapshot ids, then mutate) is required to avoid
// invalidating a cursor mid-scan; it also means a document deleted between
// the snapshot and the mutation surfaces as ErrConcurrentModification
// rather than silently skipping.
func (c *Collection) Update(f Filter, m modify.Modify) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	ids, err := c.FindIds(f)
	if err != nil {
		return 0, err
	}

	wt, err := storage.NewWriteTransaction(c.state.storage)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	access := wt.Access()

	count := 0
	for id := range ids {
		oldDoc, err := c.readLocked(access, id)
		if err != nil {
			_ = wt.Rollback()
			return 0, err
		}
		if oldDoc == nil {
			_ = wt.Rollback()
			return 0, fmt.Errorf("%w: id %d vanished before update", ErrConcurrentModification, id)
		}

		newDoc := m.Apply(oldDoc)
		newDoc[IDField] = id

		rd, err := FromDoc(newDoc)
		if err != nil {
			_ = wt.Rollback()
			return 0, err
		}

		if err := access.Put(c.state.def.BucketName(), encodePrimaryKey(id), rd.ToBin()); err != nil {
			_ = wt.Rollback()
			return 0, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if err := c.diffIndexes(access, oldDoc, newDoc, id); err != nil {
			_ = wt.Rollback()
			return 0, err
		}
		count++
	}

	if err := wt.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return count, nil
}

// Remove snapshots the ids matching filter, then deletes each of them in a
// single write transaction, diff-updating every index. Returns the number
// removed. A document deleted between the snapshot and the mutation
// surfaces as ErrConcurrentModification, as in Update.
func (c *Collection) Remove(f Filter) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	ids, err := c.FindIds(f)
	if err != nil {
		return 0, err
	}

	wt, err := storage.NewWriteTransaction(c.state.storage)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	access := wt.Access()

	count := 0
	for id := range ids {
		oldDoc, err := c.readLocked(access, id)
		if err != nil {
			_ = wt.Rollback()
			return 0, err
		}
		if oldDoc == nil {
			_ = wt.Rollback()
			return 0, fmt.Errorf("%w: id %d vanished before remove", ErrConcurrentModification, id)
		}
		if err := access.Del(c.state.def.BucketName(), encodePrimaryKey(id)); err != nil {
			_ = wt.Rollback()
			return 0, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if err := c.diffIndexes(access, oldDoc, nil, id); err != nil {
			_ = wt.Rollback()
			return 0, err
		}
		count++
	}

	if err := wt.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return count, nil
}

// Purge clears every index and the primary map in a single write
// transaction.
func (c *Collection) Purge() error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	wt, err := storage.NewWriteTransaction(c.state.storage)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	access := wt.Access()

	c.state.mu.RLock()
	for _, bi := range c.state.indexes {
		if err := bi.idx.Purge(access); err != nil {
			c.state.mu.RUnlock()
			_ = wt.Rollback()
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	c.state.mu.RUnlock()

	if err := access.Clear(c.state.def.BucketName()); err != nil {
		_ = wt.Rollback()
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return wrapCommit(wt)
}

// Load purges the collection, then writes every document in docs, each of
// which must already carry a Primary. Returns the number loaded.
func (c *Collection) Load(docs []Document) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	if err := c.Purge(); err != nil {
		return 0, err
	}

	wt, err := storage.NewWriteTransaction(c.state.storage)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	access := wt.Access()

	for _, doc := range docs {
		rd, err := FromDoc(doc)
		if err != nil {
			_ = wt.Rollback()
			return 0, err
		}
		id, err := rd.ReqID()
		if err != nil {
			_ = wt.Rollback()
			return 0, err
		}
		if err := access.Put(c.state.def.BucketName(), encodePrimaryKey(id), rd.ToBin()); err != nil {
			_ = wt.Rollback()
			return 0, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if err := c.diffIndexes(access, nil, doc, id); err != nil {
			_ = wt.Rollback()
			return 0, err
		}
	}

	if err := wt.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return len(docs), nil
}

// readLocked fetches and decodes the document at id within an in-flight
// write transaction's access object, returning (nil, nil) if absent.
func (c *Collection) readLocked(access *storage.Access, id Primary) (Document, error) {
	raw, err := access.Get(c.state.def.BucketName(), encodePrimaryKey(id))
	if err != nil && err != storage.ErrNoSuchBucket {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if raw == nil {
		return nil, nil
	}
	return FromBin(raw).WithID(id).IntoDoc()
}

// diffIndexes updates every attached index to reflect the transition from
// oldDoc to newDoc for id. Either document may be nil (insert has no old
// value; delete has no new value). Held under the index list's read lock:
// this is a read with respect to the list itself (no index is added or
// removed), even though it mutates index bucket contents.
func (c *Collection) diffIndexes(access *storage.Access, oldDoc, newDoc Document, id Primary) error {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()

	for _, bi := range c.state.indexes {
		oldVal, oldOk := fieldAtDoc(oldDoc, bi.def.Path)
		newVal, newOk := fieldAtDoc(newDoc, bi.def.Path)

		switch {
		case !oldOk && !newOk:
			continue
		case oldOk && !newOk:
			if err := bi.idx.Remove(access, oldVal, id); err != nil {
				return fmt.Errorf("%w: %v", ErrStorage, err)
			}
		case !oldOk && newOk:
			if err := bi.idx.Put(access, newVal, id); err != nil {
				return fmt.Errorf("%w: %v", ErrStorage, err)
			}
		default:
			if utils.CompareValues(oldVal, newVal) == 0 {
				continue
			}
			if err := bi.idx.UpdateIndex(access, oldVal, newVal, id); err != nil {
				return fmt.Errorf("%w: %v", ErrStorage, err)
			}
		}
	}
	return nil
}

func fieldAtDoc(doc Document, path string) (any, bool) {
	if doc == nil {
		return nil, false
	}
	return fieldAt(doc, path)
}

func wrapCommit(wt *storage.WriteTransaction) error {
	if err := wt.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
