// Package storage wraps go.etcd.io/bbolt to provide the transactional,
// memory-mapped key-value store that collections and indexes are built on.
//
// This package is deliberately thin: it exposes just enough of bbolt's
// transaction and bucket model for the collection subsystem to drive, and
// adds a single global serial enumerator used to assign stable, unique
// identifiers to collections and indexes.
package storage

import (
	"fmt"
	"os"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Serial is a globally unique counter value handed out by Storage.Enumerate,
// used to make bucket names for collections and indexes stable across
// restarts even if their human-readable names repeat.
type Serial = uint64

// serialBucket holds the monotonic counter used by Enumerate.
var serialBucket = []byte("__serials__")

// serialKey is not read or written: Enumerate uses serialBucket's own
// bbolt sequence counter instead of a stored key.
var serialKey = []byte("next")

// Options configures how a Storage opens its backing file.
type Options struct {
	// FileMode is the permission bits used when creating a new file.
	FileMode os.FileMode
	// Timeout bounds how long Open waits to acquire the file lock. Zero
	// means wait indefinitely, matching bbolt's own default.
	Timeout time.Duration
	// ReadOnly opens the database without ever starting a write
	// transaction; useful for inspecting a store another process owns.
	ReadOnly bool
}

// DefaultOptions returns the options used when none are supplied.
func DefaultOptions() *Options {
	return &Options{FileMode: 0600}
}

// Storage owns a single bbolt database file and the serial counter shared
// by every collection and index built on top of it.
type Storage struct {
	db *bolt.DB

	mu sync.Mutex
}

// Open creates or opens a bbolt-backed storage file at path.
func Open(path string, opts *Options) (*Storage, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	mode := opts.FileMode
	if mode == 0 {
		mode = 0600
	}

	db, err := bolt.Open(path, mode, &bolt.Options{
		Timeout:  opts.Timeout,
		ReadOnly: opts.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", path, err)
	}

	s := &Storage{db: db}

	if !opts.ReadOnly {
		if err := db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(serialBucket)
			return err
		}); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("storage: init serial bucket: %w", err)
		}
	}

	return s, nil
}

// Close releases the underlying file and its memory mapping.
func (s *Storage) Close() error {
	return s.db.Close()
}

// DB returns the underlying bbolt handle, for a caller that needs it
// directly. Nothing in this module calls it; physical bucket deletion goes
// through DeleteBucket.
func (s *Storage) DB() *bolt.DB {
	return s.db
}

// Enumerate returns the next globally unique serial, persisted so it
// survives restarts. Collections and indexes use this to build stable
// bucket names independent of their (reusable) human-readable names.
func (s *Storage) Enumerate() (Serial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(serialBucket)
		if err != nil {
			return err
		}
		next, err = b.NextSequence()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("storage: enumerate: %w", err)
	}
	return next, nil
}

// DeleteBucket physically removes a named bucket, used when a collection or
// index is dropped. It is a no-op if the bucket does not exist.
func (s *Storage) DeleteBucket(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(name))
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}
