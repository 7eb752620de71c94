// Package config loads the settings of the autocomplete example command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	StoreFile   = "file"
	StoreBadger = "badger"
)

const (
	defaultWordsFile     = "words.txt"
	defaultStore         = StoreFile
	defaultStoreDir      = "snapshots"
	defaultSnapshotName  = "words"
	defaultCaseSensitive = true
	defaultNormalised    = false
	defaultLimit         = 10
	defaultRebuild       = false
)

// Config is read from a YAML file with kebab-case keys.
type Config struct {
	WordsFile     string `yaml:"words-file"`     // line-delimited word list used when building
	Store         string `yaml:"store"`          // file or badger
	StoreDir      string `yaml:"store-dir"`      // directory for the snapshot store
	SnapshotName  string `yaml:"snapshot-name"`  // name the snapshot is saved under
	CaseSensitive bool   `yaml:"case-sensitive"` // applied only when building from words
	Normalised    bool   `yaml:"normalised"`     // applied only when building from words
	Limit         int    `yaml:"limit"`          // maximum suggestions per query, 0 for all
	Rebuild       bool   `yaml:"rebuild"`        // ignore an existing snapshot
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		WordsFile:     defaultWordsFile,
		Store:         defaultStore,
		StoreDir:      defaultStoreDir,
		SnapshotName:  defaultSnapshotName,
		CaseSensitive: defaultCaseSensitive,
		Normalised:    defaultNormalised,
		Limit:         defaultLimit,
		Rebuild:       defaultRebuild,
	}
}

// Load reads the configuration at path. If the file does not exist it is
// created with the defaults. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		c := Default()
		if err := Write(path, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	c := Default()
	if err := yaml.Unmarshal(buf, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Store != StoreFile && c.Store != StoreBadger:
		return fmt.Errorf("config: unknown store %q", c.Store)
	case c.StoreDir == "":
		return errors.New("config: store-dir is empty")
	case c.SnapshotName == "":
		return errors.New("config: snapshot-name is empty")
	case c.Limit < 0:
		return fmt.Errorf("config: negative limit %d", c.Limit)
	}
	return nil
}

// Write saves c to path.
func Write(path string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
