package collection

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/asaidimu/ledb/core/index"
	"github.com/asaidimu/ledb/core/storage"
)

// boundIndex pairs an IndexDef with the live index.Index backing it.
type boundIndex struct {
	def IndexDef
	idx *index.Index
}

// collectionState is the shared, reference-counted state every clone of a
// Collection points at: the storage handle, the collection's identity, and
// its index list. Physical removal of the backing buckets happens exactly
// once, when refs reaches zero with toDelete set.
type collectionState struct {
	storage *storage.Storage
	def     CollectionDef

	mu      sync.RWMutex
	indexes []*boundIndex

	// onIndexChange, if set, is invoked with the full current index list
	// whenever it changes, so a caller (the root Database facade) can keep
	// a persisted catalog entry in sync with CreateIndex/DropIndex.
	onIndexChange func([]IndexDef) error

	refs     int32
	toDelete atomic.Bool
}

// Collection is a cloneable handle onto a named document collection. Every
// clone shares one collectionState; the physical backing database is
// removed only once the deletion flag has been set (via ToDelete) and the
// last clone has been released (via Close).
type Collection struct {
	state  *collectionState
	closed atomic.Bool
}

// Open constructs a Collection from its identity and index definitions,
// binding each IndexDef to a live index.Index. It performs no I/O beyond
// what building an index.Index requires (none; buckets materialize lazily
// on first write).
func Open(st *storage.Storage, def CollectionDef, indexDefs []IndexDef) (*Collection, error) {
	bound := make([]*boundIndex, 0, len(indexDefs))
	for _, id := range indexDefs {
		bound = append(bound, &boundIndex{
			def: id,
			idx: index.New(id.BucketName(), id.Kind, id.Key),
		})
	}

	state := &collectionState{
		storage: st,
		def:     def,
		indexes: bound,
		refs:    1,
	}
	return &Collection{state: state}, nil
}

// OnIndexChange registers fn to be called with the collection's complete
// index definition list every time CreateIndex or DropIndex changes it.
// Registering a new fn replaces any previous one. There is no unregister;
// callers that stop caring should simply let the Collection (and its
// state) be garbage collected.
func (c *Collection) OnIndexChange(fn func([]IndexDef) error) {
	c.state.mu.Lock()
	c.state.onIndexChange = fn
	c.state.mu.Unlock()
}

// Clone returns a new handle sharing this Collection's underlying state,
// incrementing its reference count. Each returned handle must eventually
// be released with Close.
func (c *Collection) Clone() *Collection {
	atomic.AddInt32(&c.state.refs, 1)
	return &Collection{state: c.state}
}

// Name returns the collection's human-readable name.
func (c *Collection) Name() string { return c.state.def.Name }

// Def returns the collection's identity.
func (c *Collection) Def() CollectionDef { return c.state.def }

// Bucket returns the bbolt database name the primary map is stored under.
func (c *Collection) Bucket() string { return c.state.def.BucketName() }

// ToDelete marks the collection for physical removal once every clone has
// released its handle. It performs no I/O itself.
func (c *Collection) ToDelete() {
	c.state.toDelete.Store(true)
}

// Storage exposes the backing Storage handle, for the root Database facade
// and tests that need to open their own transactions alongside Collection
// operations.
func (c *Collection) Storage() *storage.Storage { return c.state.storage }

// Close releases this handle. Calling Close on an already-closed handle is
// a no-op. When the last outstanding handle is closed and ToDelete was
// called at some point in the collection's lifetime, the primary map and
// every index bucket are physically removed; failures during that removal
// are logged, not returned, since the handle is already gone by then.
func (c *Collection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	remaining := atomic.AddInt32(&c.state.refs, -1)
	if remaining > 0 {
		return nil
	}
	if !c.state.toDelete.Load() {
		return nil
	}

	if err := c.state.storage.DeleteBucket(c.state.def.BucketName()); err != nil {
		log.Printf("ledb: physical delete of collection %q failed: %v", c.state.def.Name, err)
	}
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	for _, bi := range c.state.indexes {
		if err := c.state.storage.DeleteBucket(bi.idx.Bucket()); err != nil {
			log.Printf("ledb: physical delete of index %q on %q failed: %v", bi.def.Path, c.state.def.Name, err)
		}
	}
	return nil
}

// checkOpen returns ErrCollectionClosed if this specific handle has already
// been closed. A shared state with other live clones remains fully usable
// through those clones; only the closed handle itself is rejected.
func (c *Collection) checkOpen() error {
	if c.closed.Load() {
		return fmt.Errorf("%w: collection %q", ErrCollectionClosed, c.state.def.Name)
	}
	return nil
}
