package collection

import (
	"fmt"

	"github.com/asaidimu/ledb/core/storage"
)

// primaryIterState tracks a PrimaryIterator's position relative to its
// first Next call.
type primaryIterState int

const (
	uninitialized primaryIterState = iota
	positioned
	exhausted
)

// PrimaryIterator is a stateful forward/reverse cursor over a collection's
// primary map. The first Next call seeks to the first (ascending) or last
// (descending) entry; subsequent calls step forward or backward. The
// iterator owns the read transaction its cursor borrows from, and releases
// it on Close.
type PrimaryIterator struct {
	rt    *storage.ReadTransaction
	cur   storage.Cursor
	kind  OrderKind
	state primaryIterState
}

// newPrimaryIterator opens a fresh read transaction over coll's primary
// map. An empty (never-written) primary map yields an iterator that is
// immediately exhausted.
func newPrimaryIterator(c *Collection, kind OrderKind) (*PrimaryIterator, error) {
	rt, err := storage.NewReadTransaction(c.state.storage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	cur, err := rt.Cursor(c.state.def.BucketName())
	if err != nil {
		if err == storage.ErrNoSuchBucket {
			return &PrimaryIterator{rt: rt, kind: kind, state: exhausted}, nil
		}
		_ = rt.Rollback()
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return &PrimaryIterator{rt: rt, cur: cur, kind: kind}, nil
}

// Next advances the iterator and returns the next Primary, or (0, false,
// nil) once exhausted.
func (p *PrimaryIterator) Next() (Primary, bool, error) {
	if p.state == exhausted {
		return 0, false, nil
	}

	var k []byte
	if p.state == uninitialized {
		p.state = positioned
		if p.kind == Asc {
			k, _ = p.cur.First()
		} else {
			k, _ = p.cur.Last()
		}
	} else if p.kind == Asc {
		k, _ = p.cur.Next()
	} else {
		k, _ = p.cur.Prev()
	}

	if k == nil {
		p.state = exhausted
		return 0, false, nil
	}
	id, err := decodePrimaryKey(k)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Collect drains the iterator into a slice in traversal order.
func (p *PrimaryIterator) Collect() ([]Primary, error) {
	var out []Primary
	for {
		id, ok, err := p.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, id)
	}
}

// Close releases the iterator's read transaction.
func (p *PrimaryIterator) Close() error {
	if p.rt == nil {
		return nil
	}
	return p.rt.Rollback()
}

// DocumentsIterator lazily materializes documents from an id source. For
// each id it opens a fresh read transaction, fetches the bytes at that id,
// and decodes them — deliberately refreshing the read snapshot per
// document rather than reusing one transaction across the whole iteration.
// An id that has vanished since the source was captured is skipped rather
// than surfaced as an error.
type DocumentsIterator struct {
	coll *Collection
	ids  []Primary
	pos  int
}

// newDocumentsIterator wraps a fully-materialized id vector. Because the
// source is already a concrete slice, Len is always exact.
func newDocumentsIterator(c *Collection, ids []Primary) *DocumentsIterator {
	return &DocumentsIterator{coll: c, ids: ids}
}

// Len reports how many ids remain to be materialized.
func (d *DocumentsIterator) Len() int {
	return len(d.ids) - d.pos
}

// Next materializes the next document, or returns (nil, false, nil) once
// every id has been consumed.
func (d *DocumentsIterator) Next() (Document, bool, error) {
	for d.pos < len(d.ids) {
		id := d.ids[d.pos]
		d.pos++
		doc, ok, err := d.coll.Get(id)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		return doc, true, nil
	}
	return nil, false, nil
}

// Collect drains the iterator into a slice.
func (d *DocumentsIterator) Collect() ([]Document, error) {
	out := make([]Document, 0, d.Len())
	for {
		doc, ok, err := d.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, doc)
	}
}
