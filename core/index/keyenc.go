// Package index implements the IndexManager collaborator's backing store: a
// secondary map from an order-preserving encoding of an extracted field
// value to one or more primary ids, held in its own bbolt bucket.
package index

import (
	"encoding/binary"
	"fmt"

	"github.com/google/orderedcode"
)

// Primary is the unsigned 64-bit document identifier this package encodes
// into ordered index keys.
type Primary = uint64

// KeyType tags the Go type an index's extracted values are expected to
// have, so they can be encoded into an order-preserving byte string. The
// root package and core/collection both re-export this type unchanged.
type KeyType int

const (
	KeyInt KeyType = iota
	KeyUInt
	KeyFloat
	KeyString
	KeyBool
)

func (t KeyType) String() string {
	switch t {
	case KeyInt:
		return "int"
	case KeyUInt:
		return "uint"
	case KeyFloat:
		return "float"
	case KeyString:
		return "string"
	case KeyBool:
		return "bool"
	default:
		return "unknown"
	}
}

// encodeValue converts an extracted field value into an order-preserving
// byte string using orderedcode, the same library ostafen/clover relies on
// for its own field indexes. Every KeyType maps to exactly one orderedcode
// item type so that lexicographic byte order matches value order.
func encodeValue(kind KeyType, v any) ([]byte, error) {
	switch kind {
	case KeyInt:
		n, err := asInt64(v)
		if err != nil {
			return nil, err
		}
		return orderedcode.Append(nil, n)
	case KeyUInt:
		n, err := asUint64(v)
		if err != nil {
			return nil, err
		}
		return orderedcode.Append(nil, n)
	case KeyFloat:
		f, err := asFloat64(v)
		if err != nil {
			return nil, err
		}
		return orderedcode.Append(nil, f)
	case KeyString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("index: value %v is not a string", v)
		}
		return orderedcode.Append(nil, s)
	case KeyBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("index: value %v is not a bool", v)
		}
		var n uint64
		if b {
			n = 1
		}
		return orderedcode.Append(nil, n)
	default:
		return nil, fmt.Errorf("index: unknown key type %d", kind)
	}
}

// encodePrimary big-endian encodes a primary id so that appending it after
// an encoded value preserves (value, primary) ordering within a composite
// NonUnique index key, and so that the standalone 8-byte form sorts
// numerically when used as a Unique index's stored value.
func encodePrimary(id Primary) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

func decodePrimary(b []byte) (Primary, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("index: malformed primary encoding (%d bytes)", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// compositeKey builds the NonUnique bucket key: the encoded value followed
// by the encoded primary id, so a forward cursor scan over a value's prefix
// yields every id sharing that value in ascending id order.
func compositeKey(kind KeyType, v any, id Primary) ([]byte, error) {
	enc, err := encodeValue(kind, v)
	if err != nil {
		return nil, err
	}
	return append(enc, encodePrimary(id)...), nil
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("index: value %v is not an integer", v)
	}
}

func asUint64(v any) (uint64, error) {
	n, err := asInt64(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("index: value %v is negative, not a uint", v)
	}
	return uint64(n), nil
}

func asFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("index: value %v is not a number", v)
	}
}
