package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "history/"

// BadgerStore persists score series in an embedded BadgerDB, one key per
// entity. Badger transactions give atomic read-modify-write per key; the
// keyed mutex on top serializes same-entity appends so they never conflict.
type BadgerStore struct {
	db *badger.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// OpenBadger opens (or creates) a persistent store at the given directory.
func OpenBadger(path string) (*BadgerStore, error) {
	if path == "" {
		return nil, errors.New("history: badger path is required")
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("history: open badger at %s: %w", path, err)
	}
	return &BadgerStore{db: db, locks: make(map[string]*sync.Mutex)}, nil
}

// OpenBadgerInMemory opens a store that lives entirely in memory. Useful for
// tests and one-shot CLI runs without a data directory.
func OpenBadgerInMemory() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("history: open in-memory badger: %w", err)
	}
	return &BadgerStore{db: db, locks: make(map[string]*sync.Mutex)}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) entityLock(entity string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[entity]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[entity] = lock
	}
	return lock
}

// Append implements Store.
func (s *BadgerStore) Append(ctx context.Context, entity string, rec Record) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := s.entityLock(entity)
	lock.Lock()
	defer lock.Unlock()

	key := []byte(keyPrefix + entity)
	var prior []Record

	err := s.db.Update(func(txn *badger.Txn) error {
		current, err := readSeries(txn, key)
		if err != nil {
			return err
		}
		prior = current

		updated := appendTrimmed(current, rec)
		encoded, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("encode series: %w", err)
		}
		return txn.Set(key, encoded)
	})
	if err != nil {
		return nil, fmt.Errorf("history: append for %s: %w", entity, err)
	}
	return prior, nil
}

// Series implements Store.
func (s *BadgerStore) Series(ctx context.Context, entity string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(keyPrefix + entity)
	var series []Record

	err := s.db.View(func(txn *badger.Txn) error {
		current, err := readSeries(txn, key)
		if err != nil {
			return err
		}
		series = current
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("history: series for %s: %w", entity, err)
	}
	return series, nil
}

func readSeries(txn *badger.Txn, key []byte) ([]Record, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var series []Record
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &series)
	})
	if err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}
	return series, nil
}
