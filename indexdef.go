package ledb

import "github.com/asaidimu/ledb/core/collection"

// IndexKind distinguishes indexes that admit at most one document per key
// from those that admit many.
type IndexKind = collection.IndexKind

const (
	Unique    = collection.Unique
	NonUnique = collection.NonUnique
)

// KeyType tags the Go type an index's extracted values are expected to
// have, so they can be encoded into an order-preserving byte string.
type KeyType = collection.KeyType

const (
	KeyInt    = collection.KeyInt
	KeyUInt   = collection.KeyUInt
	KeyFloat  = collection.KeyFloat
	KeyString = collection.KeyString
	KeyBool   = collection.KeyBool
)

// IndexDef names a secondary index: the collection it belongs to, the
// dotted field path it indexes, its kind, and the type of the values it
// extracts.
type IndexDef = collection.IndexDef

// KeyField is the (path, kind, key) triple exposed by Collection.GetIndexes
// and consumed by Collection.SetIndexes / EnsureIndex.
type KeyField = collection.KeyField

// KeyFields is a convenience slice type for bulk index declarations.
type KeyFields = collection.KeyFields
