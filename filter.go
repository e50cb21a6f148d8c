package ledb

import "github.com/asaidimu/ledb/core/filter"

// Filter is a value that, evaluated against a collection, yields a
// Selection: a set of ids plus an inverted flag. It is deliberately a
// small struct-based combinator tree rather than a string expression
// language — declarative query languages are out of scope for this
// module.
type Filter = filter.Filter

// Selection is the result of evaluating a Filter.
type Selection = filter.Selection

// Eq builds a Filter matching documents whose field at path equals value.
func Eq(path string, value any) Filter { return filter.Eq(path, value) }

// Range builds a Filter matching documents whose field at path falls
// within [min, max]. Either bound may be nil for an open range.
func Range(path string, min, max any) Filter { return filter.Range(path, min, max) }

// Not builds a Filter that matches exactly the documents f does not.
func Not(f Filter) Filter { return filter.Not(f) }

// And builds a Filter matching documents selected by every given Filter.
func And(filters ...Filter) Filter { return filter.And(filters...) }

// Or builds a Filter matching documents selected by any given Filter.
func Or(filters ...Filter) Filter { return filter.Or(filters...) }
