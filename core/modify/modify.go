// Package modify implements the Modify collaborator: a pure document-to-
// document transform applied by Collection.Update to each matched document.
package modify

import "github.com/asaidimu/ledb/core/utils"

// Document mirrors the root package's Document type. Declared locally to
// avoid a dependency cycle back into the root package.
type Document = map[string]any

// Modify is a pure transform from one document value to another. It must
// not retain or mutate its input; MutationEngine always passes a fresh
// decode of the stored bytes.
type Modify interface {
	Apply(doc Document) Document
}

// Func adapts a plain function to the Modify interface.
type Func func(doc Document) Document

func (f Func) Apply(doc Document) Document { return f(doc) }

// Set returns a Modify that assigns value at path, creating intermediate
// maps as needed for a dotted path.
func Set(path string, value any) Modify {
	return Func(func(doc Document) Document {
		out := utils.CopyDocument(doc)
		assignPath(out, path, value)
		return out
	})
}

// Unset returns a Modify that removes the field at path (top-level only;
// nested removal is deliberately out of scope, see DESIGN.md).
func Unset(path string) Modify {
	return Func(func(doc Document) Document {
		out := utils.CopyDocument(doc)
		delete(out, path)
		return out
	})
}

// Chain applies each Modify in order, feeding each one's output to the
// next.
func Chain(mods ...Modify) Modify {
	return Func(func(doc Document) Document {
		cur := doc
		for _, m := range mods {
			cur = m.Apply(cur)
		}
		return cur
	})
}

func assignPath(doc Document, path string, value any) {
	segs := splitPath(path)
	cur := doc
	for i, seg := range segs {
		if i == len(segs)-1 {
			cur[seg] = value
			return
		}
		next, ok := cur[seg].(Document)
		if !ok {
			next = Document{}
			cur[seg] = next
		}
		cur = next
	}
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
