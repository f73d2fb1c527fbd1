package store

import (
	"sync"
)

// Registry holds an ordered list of Reader plugins, discovered at process
// start from static registration (compile-time RegisterReader calls) or an
// explicit readers.yaml file, never from environment-wide scanning (spec.md
// §9 Design Notes). It mirrors the donor's pkg/strategy.Registry shape:
// RWMutex-guarded maps plus a package-level singleton reached through
// sync.Once.
type Registry struct {
	mu      sync.RWMutex
	ordered []Reader
	byName  map[string]Reader
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Reader)}
}

// RegisterReader appends r to the end of the discovery order. Re-registering
// a name already present replaces it in place without changing order.
func (r *Registry) RegisterReader(reader Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[reader.Name()]; exists {
		for i, existing := range r.ordered {
			if existing.Name() == reader.Name() {
				r.ordered[i] = reader
				break
			}
		}
	} else {
		r.ordered = append(r.ordered, reader)
	}
	r.byName[reader.Name()] = reader
}

func (r *Registry) HasReader(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

func (r *Registry) GetReader(name string) (Reader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reader, ok := r.byName[name]
	return reader, ok
}

func (r *Registry) ListReaders() []Reader {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Reader, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Read iterates registered readers in discovery order and returns the first
// one that resolves cid without error. Per-plugin errors are swallowed
// because container integrity is verified independently by
// the hash checks inside each Reader; only if every reader fails is
// ErrMissingContainer returned.
func (r *Registry) Read(opts Options, cid string) (rawProv, payload []byte, err error) {
	for _, reader := range r.ListReaders() {
		raw, pl, rerr := reader.Read(opts, cid)
		if rerr == nil {
			return raw, pl, nil
		}
	}
	return nil, nil, ErrMissingContainer
}

// Search concatenates Search results across every registered reader,
// swallowing individual plugin errors (spec.md §4.3 label search, mirroring
// search.py's original behavior).
func (r *Registry) Search(opts Options, label string) []string {
	var out []string
	for _, reader := range r.ListReaders() {
		paths, err := reader.Search(opts, label)
		if err != nil {
			continue
		}
		out = append(out, paths...)
	}
	return out
}

var (
	globalRegistry     *Registry
	globalRegistryOnce sync.Once
)

// GetGlobalRegistry returns the process-wide Registry singleton, lazily
// seeded with the default file Reader on first use.
func GetGlobalRegistry() *Registry {
	globalRegistryOnce.Do(func() {
		globalRegistry = NewRegistry()
		globalRegistry.RegisterReader(NewFileReader())
	})
	return globalRegistry
}

// SetGlobalRegistry overrides the singleton; intended for tests.
func SetGlobalRegistry(r *Registry) {
	globalRegistry = r
	globalRegistryOnce.Do(func() {})
}
