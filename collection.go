package ledb

import "github.com/asaidimu/ledb/core/collection"

// Collection is a cloneable handle onto a named document collection. It
// exposes the full Collection subsystem surface — insert, put, get, has,
// delete, update, remove, find, find_all, find_ids, dump, load, purge,
// last_id, new_id, get_indexes, set_indexes, ensure_index, has_index,
// create_index, drop_index — implemented in core/collection.
type Collection = collection.Collection
