package collection

import (
	"fmt"

	"github.com/asaidimu/ledb/core/index"
)

// IndexKind distinguishes indexes that admit at most one document per key
// from those that admit many.
type IndexKind = index.IndexKind

const (
	Unique    = index.Unique
	NonUnique = index.NonUnique
)

// KeyType tags the Go type an index's extracted values are expected to
// have, so they can be encoded into an order-preserving byte string.
type KeyType = index.KeyType

const (
	KeyInt    = index.KeyInt
	KeyUInt   = index.KeyUInt
	KeyFloat  = index.KeyFloat
	KeyString = index.KeyString
	KeyBool   = index.KeyBool
)

// IndexDef names a secondary index: the collection it belongs to, the
// dotted field path it indexes, its kind, and the type of the values it
// extracts.
type IndexDef struct {
	Serial     uint64
	Collection string
	Path       string
	Kind       IndexKind
	Key        KeyType
}

// BucketName derives the deterministic bbolt bucket name this index's
// entries are stored under. The serial guarantees uniqueness even if an
// index on the same path is dropped and recreated.
func (d IndexDef) BucketName() string {
	return fmt.Sprintf("idx:%d:%s:%s", d.Serial, d.Collection, d.Path)
}

// KeyField is the (path, kind, key) triple exposed by GetIndexes and
// consumed by SetIndexes / EnsureIndex.
type KeyField struct {
	Path string
	Kind IndexKind
	Key  KeyType
}

// KeyFields is a convenience slice type for bulk index declarations.
type KeyFields []KeyField
