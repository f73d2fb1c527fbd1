// Package comparator implements the normalized set-diff described in
// spec.md §4.6: parse every container in two collections, normalize away
// incidental differences (timestamps, ids), hash the result, and outer-join
// on (provenance_hash, data_hash) to report matching vs. non-matching rows.
//
// Grounded on the donor's pkg/anchor_proof verification helpers for the
// parse-then-normalize-then-hash shape, and directly on
// provtoolval/comparator.py's `_gather`/`dircompare` for the exact fields
// normalized (this module has no blockchain-comparison analogue in the
// donor, so the normalization rules are taken from the original Python
// almost verbatim, re-expressed in the donor's Go idiom).
package comparator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dlr-sp/provtool-go/internal/canon"
	"github.com/dlr-sp/provtool-go/internal/schema"
)

const defaultTimestamp = "1970-01-01T00:00:00+0000"

// PayloadCallback optionally rewrites a payload before hashing, keyed by
// the entity's label (e.g. to strip comments before comparing generated
// files). A nil callback hashes the payload unchanged.
type PayloadCallback func(label string, payload []byte) ([]byte, error)

// Row is one normalized container's comparison key, mirroring one row of
// the donor's _gather() result list.
type Row struct {
	Filename        string
	Label           string
	ProvenanceHash  string
	DataHash        string
	ValidContainer  bool
}

// DiffRow is one outer-joined result: Left and Right are nil when the row
// was only present on the other side.
type DiffRow struct {
	Left     *Row
	Right    *Row
	Matching bool
}

// Gather parses and normalizes every *.prov file in provPaths, mirroring
// provtoolval.comparator._gather. Schema-invalid containers are kept with
// ValidContainer=false rather than raised, matching spec.md §4.6 step 1.
func Gather(provPaths []string, callback PayloadCallback) ([]Row, error) {
	rows := make([]Row, 0, len(provPaths))
	for _, path := range provPaths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("comparator: read %s: %w", path, err)
		}
		row, err := gatherOne(path, raw, callback)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func gatherOne(path string, raw []byte, callback PayloadCallback) (Row, error) {
	valid := schema.ValidateContainer(raw) == nil

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Row{Filename: filepath.Base(path), ValidContainer: false}, nil
	}

	entityMap, _ := doc["entity"].(map[string]interface{})
	if len(entityMap) != 1 {
		return Row{Filename: filepath.Base(path), ValidContainer: false}, nil
	}
	var entityKey string
	var entityAttrs map[string]interface{}
	for k, v := range entityMap {
		entityKey = k
		entityAttrs, _ = v.(map[string]interface{})
	}
	expectedKey := strings.TrimSuffix(filepath.Base(path), ".prov")
	if entityKey != expectedKey {
		valid = false
	}
	label, _ := entityAttrs["prov:label"].(string)

	dir := filepath.Dir(path)
	dataHash, _ := entityAttrs["provtool:datahash"].(string)
	payload, rerr := os.ReadFile(filepath.Join(dir, dataHash))
	if rerr != nil {
		return Row{Filename: filepath.Base(path), Label: label, ValidContainer: false}, nil
	}

	normalized := normalize(doc, entityAttrs)

	if callback != nil {
		rewritten, cerr := callback(label, payload)
		if cerr != nil {
			return Row{}, fmt.Errorf("comparator: callback for %s: %w", label, cerr)
		}
		payload = rewritten
	}
	normalizedDataHash := sha256Hex(payload)
	setEntityDataHash(normalized, normalizedDataHash)

	canonBytes, err := canon.Marshal(normalized)
	if err != nil {
		return Row{}, fmt.Errorf("comparator: canonicalize %s: %w", path, err)
	}

	return Row{
		Filename:       filepath.Base(path),
		Label:          label,
		ProvenanceHash: sha256Hex(canonBytes),
		DataHash:       normalizedDataHash,
		ValidContainer: valid,
	}, nil
}

// normalize implements spec.md §4.6 step 2: rekey entity/activity to
// placeholders, blank out timestamps, rewrite used/wasAssociatedWith/
// wasStartedBy relation keys.
func normalize(doc map[string]interface{}, entityAttrs map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	activityMap, _ := doc["activity"].(map[string]interface{})
	var activityAttrs map[string]interface{}
	for _, v := range activityMap {
		attrsCopy := copyMap(v.(map[string]interface{}))
		attrsCopy["prov:startTime"] = defaultTimestamp
		attrsCopy["prov:endTime"] = defaultTimestamp
		activityAttrs = attrsCopy
	}
	out["activity"] = map[string]interface{}{"act_placeholder": activityAttrs}
	out["entity"] = map[string]interface{}{"ent_placeholder": copyMap(entityAttrs)}

	if wgb, ok := doc["wasGeneratedBy"].(map[string]interface{}); ok {
		for _, v := range wgb {
			rel := copyMap(v.(map[string]interface{}))
			rel["prov:activity"] = "act_placeholder"
			rel["prov:entity"] = "ent_placeholder"
			out["wasGeneratedBy"] = map[string]interface{}{"wGB_placeholder": rel}
			break
		}
	}

	if used, ok := doc["used"].(map[string]interface{}); ok {
		var entities []string
		for _, v := range used {
			rel, _ := v.(map[string]interface{})
			if ent, ok := rel["prov:entity"].(string); ok {
				entities = append(entities, ent)
			}
		}
		sort.Strings(entities)
		out["used"] = strings.Join(entities, "")
	}

	if waw, ok := doc["wasAssociatedWith"].(map[string]interface{}); ok {
		newWaw := make(map[string]interface{}, len(waw))
		for k, v := range waw {
			rel := copyMap(v.(map[string]interface{}))
			if _, has := rel["prov:activity"]; has {
				rel["prov:activity"] = "act_placeholder"
			}
			newWaw[k] = rel
		}
		out["wasAssociatedWith"] = newWaw
	}

	if wsb, ok := doc["wasStartedBy"].(map[string]interface{}); ok {
		for k, v := range wsb {
			rel := copyMap(v.(map[string]interface{}))
			rel["prov:activity"] = "act_placeholder"
			rel["prov:starter"] = "starter_placeholder"
			wsb[k] = rel
		}
		out["wasStartedBy"] = wsb
	}

	return out
}

func setEntityDataHash(doc map[string]interface{}, hash string) {
	entity, _ := doc["entity"].(map[string]interface{})
	attrs, _ := entity["ent_placeholder"].(map[string]interface{})
	attrs["provtool:datahash"] = hash
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// FilesCompare outer-joins two explicit lists of *.prov file paths on
// (provenance_hash, data_hash), mirroring provtoolval.comparator.filescompare.
func FilesCompare(leftPaths, rightPaths []string, callback PayloadCallback) ([]DiffRow, error) {
	left, err := Gather(leftPaths, callback)
	if err != nil {
		return nil, err
	}
	right, err := Gather(rightPaths, callback)
	if err != nil {
		return nil, err
	}
	return join(left, right), nil
}

// DirCompare recursively finds *.prov files under dirLeft/dirRight and
// outer-joins them, mirroring provtoolval.comparator.dircompare.
func DirCompare(dirLeft, dirRight string, callback PayloadCallback) ([]DiffRow, error) {
	leftPaths, err := findProvFiles(dirLeft)
	if err != nil {
		return nil, err
	}
	rightPaths, err := findProvFiles(dirRight)
	if err != nil {
		return nil, err
	}
	return FilesCompare(leftPaths, rightPaths, callback)
}

func findProvFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}
	var out []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".prov") {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

type joinKey struct{ provHash, dataHash string }

// join performs the outer-join on (provenance_hash, data_hash), keeping
// rows with invalid containers as one-sided rows exactly as the donor's
// dircompare does by concatenating the invalid subset before the matching
// flag is computed.
func join(left, right []Row) []DiffRow {
	matchedRight := map[int]bool{}
	rightIndex := map[joinKey][]int{}
	for i, r := range right {
		if !r.ValidContainer {
			continue
		}
		k := joinKey{r.ProvenanceHash, r.DataHash}
		rightIndex[k] = append(rightIndex[k], i)
	}

	var out []DiffRow
	for _, l := range left {
		if !l.ValidContainer {
			lCopy := l
			out = append(out, DiffRow{Left: &lCopy, Matching: false})
			continue
		}
		k := joinKey{l.ProvenanceHash, l.DataHash}
		idxs := rightIndex[k]
		if len(idxs) == 0 {
			lCopy := l
			out = append(out, DiffRow{Left: &lCopy, Matching: false})
			continue
		}
		for _, idx := range idxs {
			if matchedRight[idx] {
				continue
			}
			matchedRight[idx] = true
			lCopy, rCopy := l, right[idx]
			out = append(out, DiffRow{Left: &lCopy, Right: &rCopy, Matching: true})
			break
		}
	}
	for i, r := range right {
		if !r.ValidContainer {
			rCopy := r
			out = append(out, DiffRow{Right: &rCopy, Matching: false})
			continue
		}
		if !matchedRight[i] {
			rCopy := r
			out = append(out, DiffRow{Right: &rCopy, Matching: false})
		}
	}
	return out
}
