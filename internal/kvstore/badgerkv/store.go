// Package badgerkv implements kvstore.Store on BadgerDB for durable client state.
package badgerkv

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/salesmatrix/sales-matrix/internal/kvstore"
)

// Store persists JSON values in a BadgerDB instance.
type Store struct {
	db *badger.DB
}

// Open creates or opens a store at dir. An empty dir opens an in-memory
// instance (ephemeral, used when no data directory is configured).
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(key string, dest any) bool {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		// badger.ErrKeyNotFound and read failures alike: caller keeps its default.
		return false
	}
	// Corrupt content reads as absent; the caller keeps its default.
	return kvstore.Decode(raw, dest)
}

func (s *Store) Set(key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
}

func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}
