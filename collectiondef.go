package ledb

import "github.com/asaidimu/ledb/core/collection"

// CollectionDef identifies a collection by a globally unique serial plus
// its human-readable name. The serial is assigned once, when the
// collection is first created, and is what makes the derived bucket name
// stable across renames-that-never-happen and restarts.
type CollectionDef = collection.CollectionDef
