package kvstore

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
)

// LevelDBStore persists keys in a LevelDB database.
type LevelDBStore struct {
	db *leveldb.DB
}

// NewLevelDBStore opens the database directory at path.
// An empty path opens a memory-backed database.
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(leveldbStorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, &leveldbOpt.Options{})
	}
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &LevelDBStore{db: db}, nil
}

// Get returns the value for key.
func (s *LevelDBStore) Get(key string) (string, error) {
	switch b, err := s.db.Get([]byte(key), nil); {
	case err == nil:
		return string(b), nil
	case errors.Is(err, leveldb.ErrNotFound):
		return "", ErrNotFound
	case errors.Is(err, leveldb.ErrClosed):
		return "", ErrClosed
	default:
		return "", fmt.Errorf("get %q: %w", key, err)
	}
}

// Set stores value under key with a synced write.
func (s *LevelDBStore) Set(key, value string) error {
	switch err := s.db.Put([]byte(key), []byte(value), &leveldbOpt.WriteOptions{Sync: true}); {
	case err == nil:
		return nil
	case errors.Is(err, leveldb.ErrClosed):
		return ErrClosed
	default:
		return fmt.Errorf("set %q: %w", key, err)
	}
}

// Close closes the database. Closing twice is not an error.
func (s *LevelDBStore) Close() error {
	switch err := s.db.Close(); {
	case err == nil, errors.Is(err, leveldb.ErrClosed):
		return nil
	default:
		return err
	}
}

// Compile-time interface satisfaction check.
var _ Store = (*LevelDBStore)(nil)
