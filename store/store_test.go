package store

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trie "github.com/sarthakjha889/go-prefix-trie"
)

func testStore(t *testing.T, s Store) {
	t.Run("no names", func(t *testing.T) {
		names, err := s.Names()
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.Load("absent")
		assert.True(t, errors.Is(err, ErrNotFound), err)
	})

	t.Run("invalid name", func(t *testing.T) {
		for _, name := range []string{"", "..", "a/b", `a\b`} {
			assert.True(t, errors.Is(s.Save(name, []byte("x")), ErrInvalidName), name)
			_, err := s.Load(name)
			assert.True(t, errors.Is(err, ErrInvalidName), name)
		}
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, s.Save("raw", []byte("first")))
		require.NoError(t, s.Save("raw", []byte("second")))
		data, err := s.Load("raw")
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("empty value", func(t *testing.T) {
		require.NoError(t, s.Save("empty", nil))
		data, err := s.Load("empty")
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("trie", func(t *testing.T) {
		tr := trie.BuildFromWords([]string{"apple", "app", "banana", "car"})
		require.NoError(t, SaveTrie(s, "words", tr))

		restored, err := LoadTrie(s, "words")
		require.NoError(t, err)
		assert.Equal(t, tr.Autocomplete(""), restored.Autocomplete(""))
		assert.True(t, restored.Search("app"))
		assert.False(t, restored.Search("appl"))
	})

	t.Run("corrupt trie", func(t *testing.T) {
		require.NoError(t, s.Save("corrupt", []byte("version: 1\n")))
		tr, err := LoadTrie(s, "corrupt")
		assert.Nil(t, tr)
		assert.True(t, errors.Is(err, trie.ErrMalformedSnapshot), err)
	})
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	defer s.Close()

	testStore(t, s)

	names, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"corrupt", "empty", "raw", "words"}, names)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
	_, err = os.Stat(s.Path("words"))
	assert.NoError(t, err)
}

func TestBadgerStore(t *testing.T) {
	s, err := OpenBadgerInMemory()
	require.NoError(t, err)
	defer s.Close()

	testStore(t, s)

	names, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"corrupt", "empty", "raw", "words"}, names)
}

func TestBadgerStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save("words", []byte("data")))
	require.NoError(t, s.Close())

	s, err = OpenBadger(dir)
	require.NoError(t, err)
	defer s.Close()
	data, err := s.Load("words")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}
