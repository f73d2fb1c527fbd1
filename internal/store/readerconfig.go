package store

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ReaderConfig is the shape of an optional readers.yaml file listing which
// reader plugins to build, in what order, and with what root — the static
// registration mechanism spec.md §9 Design Notes recommends as an
// alternative to environment-wide scanning.
type ReaderConfig struct {
	Readers []ReaderEntry `yaml:"readers"`
}

type ReaderEntry struct {
	Name  string            `yaml:"name"`
	Root  string            `yaml:"root"`
	Extra map[string]string `yaml:"extra"`
}

// LoadReaderConfig parses a readers.yaml file. The caller is responsible for
// turning each ReaderEntry into a concrete Reader (this package only knows
// how to build the "file" entry itself; "kv" and "firestore" entries are
// wired by cmd/ callers that import those packages, avoiding an import
// cycle).
func LoadReaderConfig(path string) (*ReaderConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg ReaderConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultOptionsFromEntry builds Options for a ReaderEntry.
func DefaultOptionsFromEntry(e ReaderEntry) Options {
	return Options{Root: e.Root, Extra: e.Extra}
}
