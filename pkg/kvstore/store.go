// Package kvstore provides the durable string key-value stores that timer
// snapshots are written to.
//
// All backends implement Store. Values are opaque strings; the persistence
// package stores one JSON document under a single key and replaces it on
// every save.
package kvstore

import (
	"errors"
	"fmt"
)

// Store errors.
var (
	ErrNotFound      = errors.New("key not found")
	ErrClosed        = errors.New("store closed")
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Close releases the store's resources.
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory  = "memory"
	DriverFile    = "file"
	DriverSQLite  = "sqlite"
	DriverBadger  = "badger"
	DriverLevelDB = "leveldb"
)

// Drivers lists the supported driver names.
var Drivers = []string{DriverMemory, DriverFile, DriverSQLite, DriverBadger, DriverLevelDB}

// Open opens a store by driver name. Path is ignored by the memory driver;
// for badger and leveldb an empty path selects in-memory storage.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFileStore(path), nil
	case DriverSQLite:
		return NewSQLiteStore(path)
	case DriverBadger:
		return NewBadgerStore(path)
	case DriverLevelDB:
		return NewLevelDBStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
