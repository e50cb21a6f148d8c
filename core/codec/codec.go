// Package codec materializes documents to and from bytes using msgpack.
//
// Documents are schemaless (map[string]any), so msgpack's native map
// encoding is a direct fit with no schema or reflection-based struct tags
// required.
package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Marshal encodes a document to its on-disk byte representation.
func Marshal(doc map[string]any) ([]byte, error) {
	b, err := msgpack.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal: %w", err)
	}
	return b, nil
}

// Unmarshal decodes bytes previously produced by Marshal back into a
// document.
func Unmarshal(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec: unmarshal: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
