package collection

import (
	"fmt"
	"sort"

	"github.com/asaidimu/ledb/core/filter"
	"github.com/asaidimu/ledb/core/index"
	"github.com/asaidimu/ledb/core/storage"
)

// Filter mirrors the core/filter collaborator's contract: evaluated
// against a Collection, it yields a Selection of matching ids.
type Filter = filter.Filter

// Each visits every (id, document) pair currently in the primary map under
// a single read transaction, letting Collection satisfy filter.
// DocumentSource without core/filter ever depending on this package.
func (c *Collection) Each(fn func(id Primary, doc Document) bool) error {
	rt, err := storage.NewReadTransaction(c.state.storage)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rt.Rollback()

	cur, err := rt.Cursor(c.state.def.BucketName())
	if err != nil {
		if err == storage.ErrNoSuchBucket {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		id, err := decodePrimaryKey(k)
		if err != nil {
			return err
		}
		doc, err := FromBin(v).WithID(id).IntoDoc()
		if err != nil {
			return err
		}
		if !fn(id, doc) {
			break
		}
	}
	return nil
}

// FindIds resolves filter to the set of matching Primary values. A nil
// filter means "every id currently in the collection". A non-inverted
// selection is returned directly (O(1) beyond evaluating the filter
// itself); an inverted selection requires a full scan of the primary map
// to materialize its complement.
func (c *Collection) FindIds(f Filter) (map[Primary]struct{}, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	if f == nil {
		ids := map[Primary]struct{}{}
		err := c.Each(func(id Primary, _ Document) bool {
			ids[id] = struct{}{}
			return true
		})
		return ids, err
	}

	sel, err := f.Apply(c)
	if err != nil {
		return nil, err
	}
	if !sel.Inv {
		return sel.Ids, nil
	}

	out := map[Primary]struct{}{}
	err = c.Each(func(id Primary, _ Document) bool {
		if sel.Has(id) {
			out[id] = struct{}{}
		}
		return true
	})
	return out, err
}

// Find composes filter and order into a DocumentsIterator, following the
// (filter, order) cross-product: no filter scans the chosen order's id
// source directly; a filter without inversion sorts its own id set rather
// than scanning the full key space; an inverted filter (or a named index
// order) still has to walk a stream and keep what the selection admits.
func (c *Collection) Find(f Filter, ord Order) (*DocumentsIterator, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	ids, err := c.resolveIds(f, ord)
	if err != nil {
		return nil, err
	}
	return newDocumentsIterator(c, ids), nil
}

// FindAll is Find(...).Collect().
func (c *Collection) FindAll(f Filter, ord Order) ([]Document, error) {
	it, err := c.Find(f, ord)
	if err != nil {
		return nil, err
	}
	return it.Collect()
}

// Dump is Find(nil, DefaultOrder()).
func (c *Collection) Dump() (*DocumentsIterator, error) {
	return c.Find(nil, DefaultOrder())
}

func (c *Collection) resolveIds(f Filter, ord Order) ([]Primary, error) {
	if ord.byPrimary() {
		return c.resolveIdsByPrimary(f, ord.Kind)
	}
	return c.resolveIdsByField(f, ord)
}

func (c *Collection) resolveIdsByPrimary(f Filter, kind OrderKind) ([]Primary, error) {
	if f == nil {
		it, err := newPrimaryIterator(c, kind)
		if err != nil {
			return nil, err
		}
		defer it.Close()
		return it.Collect()
	}

	sel, err := f.Apply(c)
	if err != nil {
		return nil, err
	}

	if sel.Inv {
		it, err := newPrimaryIterator(c, kind)
		if err != nil {
			return nil, err
		}
		defer it.Close()
		all, err := it.Collect()
		if err != nil {
			return nil, err
		}
		return sel.Filter(all), nil
	}

	ids := make([]Primary, 0, len(sel.Ids))
	for id := range sel.Ids {
		ids = append(ids, id)
	}
	if kind == Asc {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	} else {
		sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	}
	return ids, nil
}

func (c *Collection) resolveIdsByField(f Filter, ord Order) ([]Primary, error) {
	c.state.mu.RLock()
	bi, ok := c.findIndexLocked(ord.Field)
	c.state.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingIndex, ord.Field)
	}

	rt, err := storage.NewReadTransaction(c.state.storage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rt.Rollback()

	dir := index.Ascending
	if ord.Kind == Desc {
		dir = index.Descending
	}
	stream, err := bi.idx.Scan(rt, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if f == nil {
		return stream, nil
	}
	sel, err := f.Apply(c)
	if err != nil {
		return nil, err
	}
	return sel.Filter(stream), nil
}
