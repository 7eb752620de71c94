// Package store persists trie snapshots. A snapshot is the byte output of
// (*trie.Trie).Serialize, saved under a name.
package store

import (
	"errors"
	"fmt"
	"strings"

	trie "github.com/sarthakjha889/go-prefix-trie"
)

var (
	// ErrNotFound is returned by Load when no snapshot has been saved under the name.
	ErrNotFound = errors.New("store: snapshot not found")
	// ErrInvalidName is returned for empty names and names containing a path separator.
	ErrInvalidName = errors.New("store: invalid snapshot name")
)

// Store saves and loads snapshots by name.
type Store interface {
	Save(name string, data []byte) error
	Load(name string) ([]byte, error)
	// Names lists the saved snapshots in ascending order.
	Names() ([]string, error)
	Close() error
}

// SaveTrie serializes t and saves it under name.
func SaveTrie(s Store, name string, t *trie.Trie) error {
	data, err := t.Serialize()
	if err != nil {
		return err
	}
	return s.Save(name, data)
}

// LoadTrie loads the snapshot saved under name and rebuilds the trie.
func LoadTrie(s Store, name string) (*trie.Trie, error) {
	data, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	t, err := trie.LoadFromSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("store: snapshot %q: %w", name, err)
	}
	return t, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
