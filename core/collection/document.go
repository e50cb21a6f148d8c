// Package collection implements the Collection subsystem: the engine that
// turns document-level operations into correctly-ordered transactions
// against a bbolt-backed primary map while keeping every secondary index
// consistent with it.
package collection

import (
	"fmt"

	"github.com/asaidimu/ledb/core/codec"
)

// Primary is the unsigned 64-bit document identifier, unique within a
// collection. Zero is reserved to mean "absent".
type Primary = uint64

// IDField is the reserved document key carrying a document's Primary once
// it has been assigned.
const IDField = "id"

// Document is a schemaless record: an arbitrary, JSON-object-shaped value.
type Document = map[string]any

// RawDocument is an opaque, partially-materialized document: a byte-encoded
// body plus an optional Primary. Once persisted, its Primary is set and
// equals its key in the collection's primary map.
type RawDocument struct {
	id    Primary
	bytes []byte
}

// FromDoc captures doc's identifier (if the reserved "id" field is present)
// and encodes the remainder of the document to bytes.
func FromDoc(doc Document) (RawDocument, error) {
	id, _ := primaryOf(doc[IDField])

	body := make(Document, len(doc))
	for k, v := range doc {
		if k == IDField {
			continue
		}
		body[k] = v
	}

	b, err := codec.Marshal(body)
	if err != nil {
		return RawDocument{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	return RawDocument{id: id, bytes: b}, nil
}

// FromBin wraps previously-encoded bytes without decoding them.
func FromBin(data []byte) RawDocument {
	return RawDocument{bytes: data}
}

// WithID returns a copy of rd carrying the given Primary.
func (rd RawDocument) WithID(id Primary) RawDocument {
	rd.id = id
	return rd
}

// ReqID returns rd's Primary, or ErrMissingIdentifier if none was set.
func (rd RawDocument) ReqID() (Primary, error) {
	if rd.id == 0 {
		return 0, ErrMissingIdentifier
	}
	return rd.id, nil
}

// ToBin returns rd's on-disk byte representation.
func (rd RawDocument) ToBin() []byte {
	return rd.bytes
}

// IntoDoc decodes rd's bytes into a Document and, if rd carries a Primary,
// re-embeds it under IDField.
func (rd RawDocument) IntoDoc() (Document, error) {
	doc, err := codec.Unmarshal(rd.bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if rd.id != 0 {
		doc[IDField] = rd.id
	}
	return doc, nil
}

// primaryOf coerces a decoded or caller-supplied value into a Primary. It
// accepts every numeric representation msgpack round-tripping or direct Go
// literals might produce.
func primaryOf(v any) (Primary, bool) {
	switch n := v.(type) {
	case Primary:
		return n, true
	case int:
		return Primary(n), true
	case int32:
		return Primary(n), true
	case int64:
		return Primary(n), true
	case uint:
		return Primary(n), true
	case uint32:
		return Primary(n), true
	case float32:
		return Primary(n), true
	case float64:
		return Primary(n), true
	default:
		return 0, false
	}
}
