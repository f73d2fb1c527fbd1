package model

// Entity describes one payload: its display label, its PROV type (always
// "File" in this system, per spec.md §3.1) and the hash of its bytes.
type Entity struct {
	Label    string
	Type     string
	DataHash string
}

func NewFileEntity(label, dataHash string) *Entity {
	return &Entity{Label: label, Type: "File", DataHash: dataHash}
}

// Attrs returns the bit-exact container attribute map for this entity.
func (e *Entity) Attrs() map[string]interface{} {
	return map[string]interface{}{
		"prov:label":        e.Label,
		"prov:type":         e.Type,
		"provtool:datahash": e.DataHash,
	}
}
