package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/sarthakjha889/go-prefix-trie/internal/logger"
)

const badgerKeyPrefix = "snapshot/"

// BadgerStore keeps snapshots as values in a badger database.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens or creates a badger database in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions(dir))
}

// OpenBadgerInMemory opens a badger database that lives only in memory.
func OpenBadgerInMemory() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true))
}

func openBadger(opt badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opt.WithLogger(badgerLogger{}))
	if err != nil {
		return nil, fmt.Errorf("store: open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func badgerKey(name string) []byte { return []byte(badgerKeyPrefix + name) }

// Save stores data under name, replacing any previous snapshot.
func (s *BadgerStore) Save(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(name), data)
	})
	if err != nil {
		return fmt.Errorf("store: save %q: %w", name, err)
	}
	return nil
}

// Load returns a copy of the snapshot stored under name.
func (s *BadgerStore) Load(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(name))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load %q: %w", name, err)
	}
	return value, nil
}

// Names lists the saved snapshots in key order.
func (s *BadgerStore) Names() ([]string, error) {
	names := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, string(it.Item().Key()[len(badgerKeyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return names, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's own messages to the package logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logger.Logger.Printf("badger ERROR: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logger.Logger.Printf("badger WARNING: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logger.Logger.Printf("badger INFO: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logger.Logger.Printf("badger DEBUG: "+format, args...)
}
