// Package badgerstore persists cluster expand/collapse state in an
// embedded BadgerDB key-value store, so session state survives process
// restarts without an external database.
package badgerstore

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Store implements cluster.Store on BadgerDB.
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

// Open opens (or creates) a Badger store at path. An empty path opens
// an in-memory store, used in tests and when persistence is disabled.
func Open(path string, logger *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logging is too chatty; zap covers ours
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// Get reads one key. The second return reports presence.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set writes one key.
func (s *Store) Set(key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Delete removes one key.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
