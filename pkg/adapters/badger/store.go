package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/stylist/pkg/ports"
	backend "github.com/dgraph-io/badger/v4"
)

// Store implements ports.KVStore on an embedded BadgerDB.
// Badger iterates keys in byte order, so List is naturally sorted.
type Store struct {
	db *backend.DB
}

// Open opens (or creates) a Badger database at dir.
func Open(dir string) (*Store, error) {
	db, err := backend.Open(backend.DefaultOptions(dir).WithLoggingLevel(backend.ERROR))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// NewFromDB wraps an already opened database.
func NewFromDB(db *backend.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *backend.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *backend.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, backend.ErrKeyNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(txn *backend.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// List runs a key-only prefix scan.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := s.db.View(func(txn *backend.Txn) error {
		opts := backend.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(opts.Prefix); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
