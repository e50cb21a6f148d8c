package collection

import (
	"encoding/binary"
	"fmt"
)

// encodePrimaryKey big-endian encodes a Primary for use as a bbolt bucket
// key. bbolt orders keys by raw byte comparison, so big-endian is the
// encoding that preserves numeric ordering on this backend; see DESIGN.md.
func encodePrimaryKey(id Primary) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

// decodePrimaryKey reverses encodePrimaryKey.
func decodePrimaryKey(k []byte) (Primary, error) {
	if len(k) != 8 {
		return 0, fmt.Errorf("collection: malformed primary key (%d bytes)", len(k))
	}
	return binary.BigEndian.Uint64(k), nil
}

// fieldAt resolves a dotted field path against a decoded document.
func fieldAt(doc Document, path string) (any, bool) {
	cur := any(doc)
	for _, seg := range splitPath(path) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
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
