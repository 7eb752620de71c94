package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "words-file: words.txt")
	assert.Contains(t, string(data), "snapshot-name: words")

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: badger\nlimit: 3\ncase-sensitive: false\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StoreBadger, c.Store)
	assert.Equal(t, 3, c.Limit)
	assert.False(t, c.CaseSensitive)
	assert.Equal(t, "words.txt", c.WordsFile)
	assert.Equal(t, "snapshots", c.StoreDir)
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":      "store: [file\n",
		"unknown store": "store: redis\n",
		"empty dir":     "store-dir: \"\"\n",
		"empty name":    "snapshot-name: \"\"\n",
		"negative":      "limit: -1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
