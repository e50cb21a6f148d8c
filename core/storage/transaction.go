package storage

import (
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// ErrNoSuchBucket is returned by Access.Get and Access.Cursor when the named
// database handle has never been written to. Callers treat it the same as
// "empty" rather than a hard failure.
var ErrNoSuchBucket = errors.New("storage: no such database")

// Cursor walks a named database's keys in byte order. Re-exported so
// downstream packages (core/collection, core/index) never need to import
// bbolt directly.
type Cursor = *bolt.Cursor

// ReadTransaction is a snapshot view over Storage. Every cursor or access
// object obtained from it must not outlive the transaction.
type ReadTransaction struct {
	tx *bolt.Tx
}

// NewReadTransaction opens a new read-only snapshot transaction.
func NewReadTransaction(s *Storage) (*ReadTransaction, error) {
	tx, err := s.db.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("storage: begin read transaction: %w", err)
	}
	return &ReadTransaction{tx: tx}, nil
}

// Access returns a read-only accessor bound to this transaction.
func (rt *ReadTransaction) Access() *Access {
	return &Access{tx: rt.tx}
}

// Cursor returns a forward/reverse cursor over the named database. It
// returns ErrNoSuchBucket if the database has never been created.
func (rt *ReadTransaction) Cursor(name string) (Cursor, error) {
	b := rt.tx.Bucket([]byte(name))
	if b == nil {
		return nil, ErrNoSuchBucket
	}
	return b.Cursor(), nil
}

// Rollback releases the transaction. Read transactions never commit state,
// so this is the only way to end one.
func (rt *ReadTransaction) Rollback() error {
	return rt.tx.Rollback()
}

// WriteTransaction is a single read-write transaction. bbolt serializes
// write transactions, so at most one WriteTransaction is ever in flight.
type WriteTransaction struct {
	tx *bolt.Tx
}

// NewWriteTransaction opens a new write transaction, blocking until any
// other write transaction on this Storage has committed or rolled back.
func NewWriteTransaction(s *Storage) (*WriteTransaction, error) {
	tx, err := s.db.Begin(true)
	if err != nil {
		return nil, fmt.Errorf("storage: begin write transaction: %w", err)
	}
	return &WriteTransaction{tx: tx}, nil
}

// Access returns a read-write accessor bound to this transaction.
func (wt *WriteTransaction) Access() *Access {
	return &Access{tx: wt.tx}
}

// Cursor returns a cursor over the named database, creating it first if it
// does not yet exist (write transactions always see a usable database).
func (wt *WriteTransaction) Cursor(name string) (Cursor, error) {
	b, err := wt.tx.CreateBucketIfNotExists([]byte(name))
	if err != nil {
		return nil, err
	}
	return b.Cursor(), nil
}

// Commit atomically applies every write made through this transaction's
// Access objects.
func (wt *WriteTransaction) Commit() error {
	return wt.tx.Commit()
}

// Rollback discards every write made through this transaction.
func (wt *WriteTransaction) Rollback() error {
	return wt.tx.Rollback()
}

// Access performs get/put/delete operations against named databases within
// a bound transaction. A read-only Access (from ReadTransaction) will fail
// any mutating call with bolt.ErrTxNotWritable, surfaced unchanged.
type Access struct {
	tx *bolt.Tx
}

// Get reads the value stored at key in the named database. It returns
// (nil, nil) if the database exists but the key is absent, and
// ErrNoSuchBucket if the database itself has never been created.
func (a *Access) Get(dbName string, key []byte) ([]byte, error) {
	b := a.tx.Bucket([]byte(dbName))
	if b == nil {
		return nil, ErrNoSuchBucket
	}
	v := b.Get(key)
	if v == nil {
		return nil, nil
	}
	// bbolt's returned slice is only valid for the lifetime of the
	// transaction; copy it so callers may hold onto it afterwards.
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put writes value at key in the named database, creating the database if
// necessary.
func (a *Access) Put(dbName string, key, value []byte) error {
	b, err := a.tx.CreateBucketIfNotExists([]byte(dbName))
	if err != nil {
		return err
	}
	return b.Put(key, value)
}

// Del removes key from the named database. It is a no-op if the database or
// the key does not exist.
func (a *Access) Del(dbName string, key []byte) error {
	b := a.tx.Bucket([]byte(dbName))
	if b == nil {
		return nil
	}
	return b.Delete(key)
}

// Clear removes every entry from the named database without removing the
// database itself.
func (a *Access) Clear(dbName string) error {
	if err := a.tx.DeleteBucket([]byte(dbName)); err != nil && err != bolt.ErrBucketNotFound {
		return err
	}
	_, err := a.tx.CreateBucketIfNotExists([]byte(dbName))
	return err
}

// Cursor returns a cursor over the named database for read access during a
// write transaction (e.g. index backfill scanning the primary map).
func (a *Access) Cursor(dbName string) (Cursor, error) {
	b := a.tx.Bucket([]byte(dbName))
	if b == nil {
		return nil, ErrNoSuchBucket
	}
	return b.Cursor(), nil
}

// Drop physically removes the named database within this transaction. It
// is a no-op if the database does not exist.
func (a *Access) Drop(dbName string) error {
	err := a.tx.DeleteBucket([]byte(dbName))
	if err == bolt.ErrBucketNotFound {
		return nil
	}
	return err
}
