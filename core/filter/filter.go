// Package filter implements the Filter collaborator: a small struct-based
// predicate combinator that evaluates against a collection's documents and
// yields a Selection, without going anywhere near a string expression
// or declarative query language.
package filter

import (
	"github.com/asaidimu/ledb/core/utils"
)

// Primary mirrors the root package's Primary type. Declared locally to
// avoid a dependency cycle back into the root package (which itself
// depends on filter for the Filter type).
type Primary = uint64

// DocumentSource is the minimal view a Filter needs of a collection: the
// ability to visit every (id, document) pair currently stored in its
// primary map. core/collection.Collection satisfies this.
type DocumentSource interface {
	Each(fn func(id Primary, doc map[string]any) bool) error
}

// Selection is the result of evaluating a Filter: a set of ids plus an
// inverted flag. Inv=false means "matches iff id is in Ids"; Inv=true means
// "matches iff id is absent from Ids".
type Selection struct {
	Ids map[Primary]struct{}
	Inv bool
}

// Has reports whether id is selected, honoring inversion.
func (s Selection) Has(id Primary) bool {
	_, in := s.Ids[id]
	if s.Inv {
		return !in
	}
	return in
}

// Filter applies membership-with-inversion to a stream of ids, preserving
// order and emitting only the ids that are selected.
func (s Selection) Filter(ids []Primary) []Primary {
	out := make([]Primary, 0, len(ids))
	for _, id := range ids {
		if s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Filter evaluates a predicate against a document source, producing a
// Selection.
type Filter interface {
	Apply(src DocumentSource) (Selection, error)
}

// fieldEq selects documents whose value at Path equals Value.
type fieldEq struct {
	Path  string
	Value any
}

// Eq builds a Filter matching documents whose field at path equals value.
func Eq(path string, value any) Filter {
	return fieldEq{Path: path, Value: value}
}

func (f fieldEq) Apply(src DocumentSource) (Selection, error) {
	ids := map[Primary]struct{}{}
	err := src.Each(func(id Primary, doc map[string]any) bool {
		v, ok := fieldAt(doc, f.Path)
		if ok && compareValues(v, f.Value) == 0 {
			ids[id] = struct{}{}
		}
		return true
	})
	if err != nil {
		return Selection{}, err
	}
	return Selection{Ids: ids}, nil
}

// fieldRange selects documents whose value at Path falls within [Min, Max].
// A nil bound means unbounded on that side.
type fieldRange struct {
	Path     string
	Min, Max any
}

// Range builds a Filter matching documents whose field at path falls
// within [min, max]. Either bound may be nil for an open range.
func Range(path string, min, max any) Filter {
	return fieldRange{Path: path, Min: min, Max: max}
}

func (f fieldRange) Apply(src DocumentSource) (Selection, error) {
	ids := map[Primary]struct{}{}
	err := src.Each(func(id Primary, doc map[string]any) bool {
		v, ok := fieldAt(doc, f.Path)
		if !ok {
			return true
		}
		if f.Min != nil && compareValues(v, f.Min) < 0 {
			return true
		}
		if f.Max != nil && compareValues(v, f.Max) > 0 {
			return true
		}
		ids[id] = struct{}{}
		return true
	})
	if err != nil {
		return Selection{}, err
	}
	return Selection{Ids: ids}, nil
}

// not inverts a Selection without rescanning the document source.
type not struct {
	inner Filter
}

// Not builds a Filter that matches exactly the documents f does not.
func Not(f Filter) Filter {
	return not{inner: f}
}

func (n not) Apply(src DocumentSource) (Selection, error) {
	sel, err := n.inner.Apply(src)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Ids: sel.Ids, Inv: !sel.Inv}, nil
}

// and intersects two selections, honoring inversion via De Morgan's laws so
// that an all-inverted conjunction never has to materialize the full key
// space either.
type and struct {
	left, right Filter
}

// And builds a Filter matching documents selected by every given Filter.
func And(filters ...Filter) Filter {
	return variadic(filters, func(a, b Filter) Filter { return and{left: a, right: b} })
}

func (a and) Apply(src DocumentSource) (Selection, error) {
	l, err := a.left.Apply(src)
	if err != nil {
		return Selection{}, err
	}
	r, err := a.right.Apply(src)
	if err != nil {
		return Selection{}, err
	}
	return intersect(l, r), nil
}

// or unions two selections, honoring inversion symmetrically to and.
type or struct {
	left, right Filter
}

// Or builds a Filter matching documents selected by any given Filter.
func Or(filters ...Filter) Filter {
	return variadic(filters, func(a, b Filter) Filter { return or{left: a, right: b} })
}

func (o or) Apply(src DocumentSource) (Selection, error) {
	l, err := o.left.Apply(src)
	if err != nil {
		return Selection{}, err
	}
	r, err := o.right.Apply(src)
	if err != nil {
		return Selection{}, err
	}
	return union(l, r), nil
}

func variadic(filters []Filter, combine func(a, b Filter) Filter) Filter {
	if len(filters) == 0 {
		return fieldRange{} // matches nothing meaningful; callers shouldn't pass zero filters
	}
	acc := filters[0]
	for _, f := range filters[1:] {
		acc = combine(acc, f)
	}
	return acc
}

// intersect combines two selections as a logical AND, applying De Morgan's
// laws so a conjunction of two inverted selections stays inverted (and
// therefore never forces a full scan downstream).
func intersect(l, r Selection) Selection {
	switch {
	case !l.Inv && !r.Inv:
		return Selection{Ids: setIntersect(l.Ids, r.Ids)}
	case l.Inv && !r.Inv:
		return Selection{Ids: setDifference(r.Ids, l.Ids)}
	case !l.Inv && r.Inv:
		return Selection{Ids: setDifference(l.Ids, r.Ids)}
	default: // both inverted: NOT a AND NOT b == NOT (a OR b)
		return Selection{Ids: setUnion(l.Ids, r.Ids), Inv: true}
	}
}

// union combines two selections as a logical OR.
func union(l, r Selection) Selection {
	switch {
	case !l.Inv && !r.Inv:
		return Selection{Ids: setUnion(l.Ids, r.Ids)}
	case l.Inv && !r.Inv:
		return Selection{Ids: setDifference(l.Ids, r.Ids), Inv: true}
	case !l.Inv && r.Inv:
		return Selection{Ids: setDifference(r.Ids, l.Ids), Inv: true}
	default: // both inverted: NOT a OR NOT b == NOT (a AND b)
		return Selection{Ids: setIntersect(l.Ids, r.Ids), Inv: true}
	}
}

func setIntersect(a, b map[Primary]struct{}) map[Primary]struct{} {
	out := map[Primary]struct{}{}
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for id := range small {
		if _, ok := big[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func setUnion(a, b map[Primary]struct{}) map[Primary]struct{} {
	out := make(map[Primary]struct{}, len(a)+len(b))
	for id := range a {
		out[id] = struct{}{}
	}
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

func setDifference(a, b map[Primary]struct{}) map[Primary]struct{} {
	out := map[Primary]struct{}{}
	for id := range a {
		if _, ok := b[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// fieldAt resolves a dotted field path against a document.
func fieldAt(doc map[string]any, path string) (any, bool) {
	cur := any(doc)
	for _, seg := range splitPath(path) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

func splitPath(path string) []string {
	var segs []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			segs = append(segs, path[start:i])
			start = i + 1
		}
	}
	segs = append(segs, path[start:])
	return segs
}

// compareValues orders two extracted field values, used by both equality
// and range filters. Delegates to utils.CompareValues, the same comparison
// core/collection uses to decide whether an indexed field's value changed.
// Index key order itself comes from core/index's byte encoding, not from
// this function.
func compareValues(a, b any) int {
	return utils.CompareValues(a, b)
}
