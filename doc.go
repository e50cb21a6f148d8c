// Package ledb is an embedded, schemaless document database built on
// go.etcd.io/bbolt.
//
// A Database is a single on-disk file holding any number of named
// Collections. Each document is a schemaless map[string]any addressed by
// an auto-assigned, monotonically increasing Primary within its
// collection. Collections support secondary indexes over dotted field
// paths, filtered and ordered queries via Filter and Order, document
// transforms via Modify, and bulk Dump/Load.
//
//	db, err := ledb.Open("my.db", ledb.DefaultOptions())
//	users, err := db.Create("users")
//	id, err := users.Insert(ledb.Document{"name": "Ada"})
//	_, err = users.EnsureIndex("name", ledb.NonUnique, ledb.KeyString)
//	docs, err := users.FindAll(ledb.Eq("name", "Ada"), ledb.OrderByField("name", ledb.Asc))
//
// There is no declarative query language, no schema enforcement, no
// cross-collection transaction, and no network server exposure — a
// Collection's write path is a single bbolt write transaction, and
// composing writes across collections is left to the caller.
package ledb
