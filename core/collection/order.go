package collection

// OrderKind selects ascending or descending iteration.
type OrderKind int

const (
	// Asc iterates from the smallest key to the largest.
	Asc OrderKind = iota
	// Desc iterates from the largest key to the smallest.
	Desc
)

// Order selects how Find materializes its id stream: by primary key, or by
// a named secondary index's key.
type Order struct {
	// Field is the dotted path of the index to order by. Empty means
	// order by primary key.
	Field string
	Kind  OrderKind
}

// OrderPrimary orders a query by primary key.
func OrderPrimary(kind OrderKind) Order {
	return Order{Kind: kind}
}

// OrderByField orders a query by a named index's key.
func OrderByField(path string, kind OrderKind) Order {
	return Order{Field: path, Kind: kind}
}

// byPrimary reports whether this order scans the primary map rather than a
// named index.
func (o Order) byPrimary() bool {
	return o.Field == ""
}

// DefaultOrder is the order used by Dump: primary ascending.
func DefaultOrder() Order {
	return OrderPrimary(Asc)
}
