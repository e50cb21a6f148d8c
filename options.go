package ledb

import (
	"os"
	"time"

	"github.com/asaidimu/ledb/core/storage"
)

// Options configures how Open opens a database file.
type Options struct {
	// FileMode is the permission bits used when creating a new file.
	FileMode os.FileMode
	// Timeout bounds how long Open waits to acquire the file lock. Zero
	// means wait indefinitely.
	Timeout time.Duration
	// ReadOnly opens the database without ever starting a write
	// transaction.
	ReadOnly bool
}

// DefaultOptions returns the options used when Open is called with nil.
func DefaultOptions() *Options {
	return &Options{FileMode: 0600}
}

func (o *Options) toStorageOptions() *storage.Options {
	if o == nil {
		return storage.DefaultOptions()
	}
	return &storage.Options{
		FileMode: o.FileMode,
		Timeout:  o.Timeout,
		ReadOnly: o.ReadOnly,
	}
}
