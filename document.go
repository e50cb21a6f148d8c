package ledb

import "github.com/asaidimu/ledb/core/collection"

// Primary is the unsigned 64-bit document identifier, unique within a
// collection. Zero is reserved to mean "absent".
type Primary = uint64

// IDField is the reserved document key carrying a document's Primary once
// it has been assigned.
const IDField = collection.IDField

// Document is a schemaless record: an arbitrary, JSON-object-shaped value.
// Collections never interpret a document's shape beyond the dotted field
// paths named by their indexes.
type Document = map[string]any

// RawDocument is an opaque, partially-materialized document: a byte-encoded
// body plus an optional Primary. Collection subsystem logic (insert, put,
// load) lives in core/collection; this is a re-export so application code
// never needs to import that package directly.
type RawDocument = collection.RawDocument

// FromDoc captures doc's identifier (if the reserved "id" field is present)
// and encodes the remainder of the document to bytes.
func FromDoc(doc Document) (RawDocument, error) { return collection.FromDoc(doc) }

// FromBin wraps previously-encoded bytes without decoding them.
func FromBin(data []byte) RawDocument { return collection.FromBin(data) }
