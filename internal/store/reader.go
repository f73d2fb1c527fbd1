// Package store implements the pluggable Reader/Store interface (spec.md
// §4.3): resolving (directory, container-id) to (raw_prov_bytes,
// payload_bytes, err), plus label search. The registry discovery pattern is
// grounded on the donor's pkg/strategy/registry.go Registry (sync.RWMutex +
// maps + a sync.Once global singleton), generalized from strategy lookup to
// an ordered list of Reader plugins, since first-non-error-wins order
// matters here in a way it doesn't for the donor's keyed strategy lookup.
package store

// Options carries per-call configuration for a Reader: always a search
// root, plus whatever plugin-specific keys a concrete Reader understands
// (populated from file2quilt's repeatable --reader key=value flags, or from
// a readers.yaml static registration file — spec.md §9 Design Notes).
type Options struct {
	Root  string
	Extra map[string]string
}

func (o Options) Get(key, fallback string) string {
	if o.Extra == nil {
		return fallback
	}
	if v, ok := o.Extra[key]; ok {
		return v
	}
	return fallback
}

// Reader is the capability every Store backend implements: resolve a
// container id to its raw provenance bytes and payload bytes, and search by
// label.
type Reader interface {
	// Name identifies this reader in the registry (e.g. "file", "kv",
	// "firestore"). The Validator deliberately only consults the reader
	// literally named "file" (spec.md's original behavior, preserved here).
	Name() string
	Read(opts Options, cid string) (rawProv []byte, payload []byte, err error)
	Search(opts Options, label string) ([]string, error)
}
