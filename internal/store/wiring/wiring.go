// Package wiring builds a store.Registry from an optional readers.yaml
// static-registration file, constructing the "kv" (internal/store/kvstore)
// and "firestore" (internal/store/firestorereader) readers it names.
// internal/store/readerconfig.go cannot do this itself: kvstore and
// firestorereader both import internal/store, so building them there would
// be an import cycle. cmd/validator and cmd/file2quilt are the two binaries
// that read containers from a Registry, so both call BuildRegistry instead
// of duplicating this switch.
package wiring

import (
	"context"
	"fmt"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/dlr-sp/provtool-go/internal/config"
	"github.com/dlr-sp/provtool-go/internal/store"
	"github.com/dlr-sp/provtool-go/internal/store/firestorereader"
	"github.com/dlr-sp/provtool-go/internal/store/kvstore"
)

// BuildRegistry always registers the filesystem reader first, then layers
// in any reader named by a readers.yaml file at cfg.ReaderConfigPath
// (spec.md §9 Design Notes: "static registration... or an explicit config
// file"). With no ReaderConfigPath set, the registry carries only the
// filesystem reader.
func BuildRegistry(cfg config.Config) (*store.Registry, error) {
	registry := store.NewRegistry()
	registry.RegisterReader(store.NewFileReader())

	if cfg.ReaderConfigPath == "" {
		return registry, nil
	}
	readerCfg, err := store.LoadReaderConfig(cfg.ReaderConfigPath)
	if err != nil {
		return nil, fmt.Errorf("wiring: load reader config %s: %w", cfg.ReaderConfigPath, err)
	}
	for _, entry := range readerCfg.Readers {
		switch entry.Name {
		case "file":
			registry.RegisterReader(store.NewFileReader())
		case "kv":
			reader, err := buildKVReader(entry)
			if err != nil {
				return nil, err
			}
			registry.RegisterReader(reader)
		case "firestore":
			reader, err := buildFirestoreReader(entry)
			if err != nil {
				return nil, err
			}
			registry.RegisterReader(reader)
		default:
			return nil, fmt.Errorf("wiring: unknown reader %q in %s", entry.Name, cfg.ReaderConfigPath)
		}
	}
	return registry, nil
}

func buildKVReader(entry store.ReaderEntry) (*kvstore.Reader, error) {
	backend := entry.Extra["backend"]
	if backend == "" {
		backend = "goleveldb"
	}
	name := entry.Extra["db"]
	if name == "" {
		name = "provtool"
	}
	db, err := dbm.NewDB(name, dbm.BackendType(backend), entry.Root)
	if err != nil {
		return nil, fmt.Errorf("wiring: open kv reader (backend %s, root %s): %w", backend, entry.Root, err)
	}
	return kvstore.New(db), nil
}

func buildFirestoreReader(entry store.ReaderEntry) (*firestorereader.Reader, error) {
	cfg := firestorereader.DefaultConfig()
	cfg.Enabled = true
	if v := entry.Extra["collection"]; v != "" {
		cfg.Collection = v
	}
	if v := entry.Extra["project_id"]; v != "" {
		cfg.ProjectID = v
	}
	if v := entry.Extra["credentials_file"]; v != "" {
		cfg.CredentialsFile = v
	}
	reader, err := firestorereader.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("wiring: open firestore reader: %w", err)
	}
	return reader, nil
}
