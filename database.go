package ledb

import (
	"fmt"
	"sync"

	"github.com/asaidimu/ledb/core/codec"
	"github.com/asaidimu/ledb/core/collection"
	"github.com/asaidimu/ledb/core/storage"
)

// catalogBucket holds one entry per collection ever created, keyed by
// collection name, so Open can reconstruct every Collection's identity and
// index list without a full bucket scan.
const catalogBucket = "__catalog__"

// catalogEntry is the persisted record of a collection's identity and
// index definitions.
type catalogEntry struct {
	Def     CollectionDef
	Indexes []IndexDef
}

// Database is the top-level facade mapping collection names to Collection
// handles, backed by a single Storage file. Its own logic is deliberately
// thin: it owns the catalog of known collections and their index
// definitions, and delegates everything else to core/collection.
type Database struct {
	storage *storage.Storage

	mu    sync.Mutex
	table map[string]*Collection
}

// Open opens or creates a database file at path and reconstructs every
// previously-created collection from its persisted catalog entry.
func Open(path string, opts *Options) (*Database, error) {
	st, err := storage.Open(path, opts.toStorageOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	db := &Database{storage: st, table: map[string]*Collection{}}

	entries, err := db.loadCatalog()
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	for _, e := range entries {
		c, err := collection.Open(st, e.Def, e.Indexes)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		db.registerIndexSync(c, e.Def)
		db.table[e.Def.Name] = c
	}

	return db, nil
}

// registerIndexSync wires c's OnIndexChange hook so that every subsequent
// CreateIndex/DropIndex/EnsureIndex call re-persists the catalog entry for
// def with the collection's up-to-date index list. Without this, the
// catalog entry written at Create time (with an empty index list) would
// never reflect indexes added afterwards, and they would silently vanish
// across a Close/Open cycle.
func (db *Database) registerIndexSync(c *Collection, def CollectionDef) {
	c.OnIndexChange(func(indexes []IndexDef) error {
		return db.persistCatalogEntry(catalogEntry{Def: def, Indexes: indexes})
	})
}

// Create opens a brand new, empty collection named name. Fails with
// ErrCollectionExists if a collection of that name is already open.
func (db *Database) Create(name string) (*Collection, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.table[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrCollectionExists, name)
	}

	serial, err := db.storage.Enumerate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	def := CollectionDef{Serial: serial, Name: name}

	c, err := collection.Open(db.storage, def, nil)
	if err != nil {
		return nil, err
	}
	if err := db.persistCatalogEntry(catalogEntry{Def: def}); err != nil {
		return nil, err
	}
	db.registerIndexSync(c, def)

	db.table[name] = c
	return c.Clone(), nil
}

// Collection returns a new handle onto the named collection, incrementing
// its reference count. Callers must Close the returned handle when done
// with it.
func (db *Database) Collection(name string) (*Collection, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, ok := db.table[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCollectionNotFound, name)
	}
	return c.Clone(), nil
}

// Collections lists the names of every collection currently known to the
// database.
func (db *Database) Collections() []string {
	db.mu.Lock()
	defer db.mu.Unlock()

	names := make([]string, 0, len(db.table))
	for name := range db.table {
		names = append(names, name)
	}
	return names
}

// Drop removes the named collection from the catalog and marks it for
// physical deletion. The physical bucket removal itself is deferred until
// every outstanding handle (including ones other callers still hold) has
// been closed.
func (db *Database) Drop(name string) error {
	db.mu.Lock()
	c, ok := db.table[name]
	if !ok {
		db.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrCollectionNotFound, name)
	}
	delete(db.table, name)
	db.mu.Unlock()

	if err := db.removeCatalogEntry(name); err != nil {
		return err
	}
	c.ToDelete()
	return c.Close()
}

// Close releases every collection handle the Database itself holds and
// closes the underlying storage file.
func (db *Database) Close() error {
	db.mu.Lock()
	table := db.table
	db.table = nil
	db.mu.Unlock()

	for _, c := range table {
		_ = c.Close()
	}
	return db.storage.Close()
}

func (db *Database) loadCatalog() ([]catalogEntry, error) {
	rt, err := storage.NewReadTransaction(db.storage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rt.Rollback()

	cur, err := rt.Cursor(catalogBucket)
	if err != nil {
		if err == storage.ErrNoSuchBucket {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	var entries []catalogEntry
	for _, v := cur.First(); v != nil; _, v = cur.Next() {
		doc, err := codec.Unmarshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		entries = append(entries, decodeCatalogEntry(doc))
	}
	return entries, nil
}

func (db *Database) persistCatalogEntry(e catalogEntry) error {
	wt, err := storage.NewWriteTransaction(db.storage)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	b, err := codec.Marshal(encodeCatalogEntry(e))
	if err != nil {
		_ = wt.Rollback()
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := wt.Access().Put(catalogBucket, []byte(e.Def.Name), b); err != nil {
		_ = wt.Rollback()
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := wt.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

func (db *Database) removeCatalogEntry(name string) error {
	wt, err := storage.NewWriteTransaction(db.storage)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := wt.Access().Del(catalogBucket, []byte(name)); err != nil {
		_ = wt.Rollback()
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := wt.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// encodeCatalogEntry / decodeCatalogEntry round-trip a catalogEntry
// through the same map[string]any shape the document codec already
// handles, rather than teaching codec a second value shape.
func encodeCatalogEntry(e catalogEntry) Document {
	idxs := make([]any, 0, len(e.Indexes))
	for _, ix := range e.Indexes {
		idxs = append(idxs, Document{
			"serial": ix.Serial,
			"path":   ix.Path,
			"kind":   int(ix.Kind),
			"key":    int(ix.Key),
		})
	}
	return Document{
		"serial":  e.Def.Serial,
		"name":    e.Def.Name,
		"indexes": idxs,
	}
}

func decodeCatalogEntry(doc Document) catalogEntry {
	e := catalogEntry{Def: CollectionDef{
		Serial: toUint64(doc["serial"]),
		Name:   toString(doc["name"]),
	}}
	raw, _ := doc["indexes"].([]any)
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		e.Indexes = append(e.Indexes, IndexDef{
			Serial:     toUint64(m["serial"]),
			Collection: e.Def.Name,
			Path:       toString(m["path"]),
			Kind:       IndexKind(toUint64(m["kind"])),
			Key:        KeyType(toUint64(m["key"])),
		})
	}
	return e
}

// toUint64 coerces a decoded catalog field into a uint64, accepting every
// numeric representation msgpack round-tripping might produce.
func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int64:
		return uint64(n)
	case uint:
		return uint64(n)
	case int:
		return uint64(n)
	case float64:
		return uint64(n)
	default:
		return 0
	}
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}
