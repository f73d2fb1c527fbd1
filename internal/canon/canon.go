// Package canon implements the single canonical JSON serializer that every
// hashing, signing and comparison path in this module flows through.
//
// The contract (see SPEC_FULL.md / spec.md §4.1): UTF-8 bytes, every mapping
// key sorted in byte order, non-ASCII characters left untouched (never
// \uXXXX-escaped), and no insignificant whitespace. Grounded on the sorted-key
// recursive canonicalization in pkg/commitment/commitment.go of the donor
// codebase, generalized to a full JSON value tree instead of one flat map.
package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Marshal serializes v (anything encoding/json can decode into a generic
// interface{} tree, or an already-decoded interface{} tree) into canonical
// bytes: sorted keys, compact, non-ASCII preserved.
func Marshal(v interface{}) ([]byte, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, err
	}
	return encode(normalized)
}

// CanonicalizeJSON re-serializes raw JSON bytes into canonical form.
func CanonicalizeJSON(raw []byte) ([]byte, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("canon: invalid json: %w", err)
	}
	return Marshal(v)
}

// normalize round-trips v through encoding/json so that Go structs with json
// tags, map[string]interface{}, and already-decoded interface{} trees are all
// handled uniformly by canonicalizeValue.
func normalize(v interface{}) (interface{}, error) {
	switch v.(type) {
	case string, float64, bool, nil, json.Number:
		return canonicalizeValue(v), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canon: marshal: %w", err)
	}
	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("canon: re-decode: %w", err)
	}
	return canonicalizeValue(generic), nil
}

// canonicalizeValue recursively sorts map keys; array order is preserved.
func canonicalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, child := range val {
			out[k] = canonicalizeValue(child)
		}
		return sortedMap(out)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, child := range val {
			out[i] = canonicalizeValue(child)
		}
		return out
	default:
		return val
	}
}

// sortedMap is a thin wrapper that records key order for encode to walk;
// encoding/json itself would re-sort a map[string]interface{} for us, but we
// keep this explicit so the encoder contract (no whitespace, no HTML
// escaping) never relies on the standard encoder's default map behavior.
type sortedMap map[string]interface{}

func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case sortedMap:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeValue(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []interface{}:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case string:
		return encodeString(buf, val)
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case json.Number:
		buf.WriteString(val.String())
		return nil
	case float64:
		enc, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(enc)
		return nil
	default:
		return fmt.Errorf("canon: unsupported value type %T", v)
	}
}

// encodeString writes a JSON string with HTML-escaping disabled: only the
// characters the JSON grammar requires (", \, and control characters) are
// escaped. Everything else, including all non-ASCII runes, is copied
// literally so UTF-8 multi-byte sequences survive untouched.
func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	var tmp bytes.Buffer
	tmpEnc := json.NewEncoder(&tmp)
	tmpEnc.SetEscapeHTML(false)
	if err := tmpEnc.Encode(s); err != nil {
		return err
	}
	// json.Encoder.Encode appends a trailing newline; strip it.
	b := tmp.Bytes()
	if len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	buf.Write(b)
	return nil
}

// SortUsed returns a copy of used sorted lexicographically. Callers hash
// Activity.Used only after passing it through this so that permuting the
// input order is invisible to Activity identity (spec.md §4.1).
func SortUsed(used []string) []string {
	out := make([]string, len(used))
	copy(out, used)
	sort.Strings(out)
	return out
}
