package ledb

import "github.com/asaidimu/ledb/core/collection"

// OrderKind selects ascending or descending iteration.
type OrderKind = collection.OrderKind

const (
	// Asc iterates from the smallest key to the largest.
	Asc = collection.Asc
	// Desc iterates from the largest key to the smallest.
	Desc = collection.Desc
)

// Order selects how Find materializes its id stream: by primary key, or by
// a named secondary index's key.
type Order = collection.Order

// OrderPrimary orders a query by primary key.
func OrderPrimary(kind OrderKind) Order { return collection.OrderPrimary(kind) }

// OrderByField orders a query by a named index's key.
func OrderByField(path string, kind OrderKind) Order {
	return collection.OrderByField(path, kind)
}

// DefaultOrder is the order used by Dump: primary ascending.
func DefaultOrder() Order { return collection.DefaultOrder() }
