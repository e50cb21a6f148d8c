package ledb

import "github.com/asaidimu/ledb/core/modify"

// Modify is a pure transform applied by Update to each matched document.
type Modify = modify.Modify

// Set returns a Modify that assigns value at path.
func Set(path string, value any) Modify { return modify.Set(path, value) }

// Unset returns a Modify that removes the top-level field at path.
func Unset(path string) Modify { return modify.Unset(path) }

// Chain applies each Modify in order, feeding each one's output to the
// next.
func Chain(mods ...Modify) Modify { return modify.Chain(mods...) }
