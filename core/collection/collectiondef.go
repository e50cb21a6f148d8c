package collection

import "fmt"

// CollectionDef identifies a collection by a globally unique serial plus
// its human-readable name. The serial is assigned once, when the
// collection is first created, and is what makes the derived bucket name
// stable across renames-that-never-happen and restarts.
type CollectionDef struct {
	Serial uint64
	Name   string
}

// BucketName derives the deterministic bbolt bucket name this collection's
// primary map is stored under.
func (d CollectionDef) BucketName() string {
	return fmt.Sprintf("c:%d:%s", d.Serial, d.Name)
}
