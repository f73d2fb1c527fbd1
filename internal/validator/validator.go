// Package validator implements the recursive chain verification described in
// spec.md §4.5: a memoized depth-first walk over an entity's used edges that
// produces a flat report, never raising on a missing or invalid ancestor —
// failure is recorded, not propagated (spec.md §7 propagation policy).
//
// Grounded on provtoolval/validator.py's check()/_check() closure; the
// step-accumulating report shape additionally echoes the donor's
// pkg/anchor_proof/verifier.go Verify() pattern (a flat []string of
// failures accumulated across steps), generalized here to a recursive,
// memoized walk rather than a fixed verification pipeline.
package validator

import (
	"encoding/json"
	"errors"

	"github.com/dlr-sp/provtool-go/internal/metrics"
	"github.com/dlr-sp/provtool-go/internal/store"
)

// ReportEntry is one row of the flat validation report.
type ReportEntry struct {
	Entity    string
	Data      string
	Name      string
	Valid     bool
	UsedBy    []string
	Activity  string
	StartTime string
	EndTime   string
	Used      []string
}

// Validator reads containers through a Registry's "file"-named reader only
// (the donor's original behavior: the validator never consults plugins
// other than the one literally named "file").
type Validator struct {
	registry *store.Registry
	opts     store.Options
}

func New(registry *store.Registry, opts store.Options) *Validator {
	return &Validator{registry: registry, opts: opts}
}

// Check walks the dependency chain rooted at cid and returns a flat,
// deduplicated report. Dedup is by entity alone, merging used_by lists
// across every path that reaches the same entity (spec.md §9 Design Notes
// recommendation; see SPEC_FULL.md Open Question resolution 5 for why this
// diverges from the donor's entity+name+valid composite key).
func (v *Validator) Check(cid string) []ReportEntry {
	known := map[string]*ReportEntry{}
	order := []string{}
	v.check(cid, "", known, &order)

	out := make([]ReportEntry, 0, len(order))
	for _, id := range order {
		out = append(out, *known[id])
	}
	return out
}

func (v *Validator) check(cid, usedBy string, known map[string]*ReportEntry, order *[]string) bool {
	if entry, seen := known[cid]; seen {
		if usedBy != "" {
			entry.UsedBy = appendUnique(entry.UsedBy, usedBy)
		}
		return entry.Valid
	}

	entry := &ReportEntry{Entity: cid, Valid: false}
	if usedBy != "" {
		entry.UsedBy = []string{usedBy}
	}
	known[cid] = entry
	*order = append(*order, cid)
	metrics.ValidatorNodesChecked.Inc()

	reader, ok := v.readerByName("file")
	if !ok {
		return false
	}
	raw, payload, err := reader.Read(v.opts, cid)
	if err != nil {
		metrics.ReaderMisses.WithLabelValues(reader.Name()).Inc()
		if errors.Is(err, store.ErrHashMismatch) {
			metrics.HashMismatches.Inc()
		}
		metrics.ValidatorNodesInvalid.Inc()
		return false
	}
	metrics.ReaderHits.WithLabelValues(reader.Name()).Inc()

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		metrics.ValidatorNodesInvalid.Inc()
		return false
	}

	entry.Data = sha256Hex(payload)
	fillFromDoc(entry, doc)

	allValid := true
	for _, usedEntity := range entry.Used {
		if !v.check(usedEntity, cid, known, order) {
			allValid = false
		}
	}
	entry.Valid = allValid
	if !allValid {
		metrics.ValidatorNodesInvalid.Inc()
	}
	return allValid
}

func (v *Validator) readerByName(name string) (store.Reader, bool) {
	return v.registry.GetReader(name)
}

func fillFromDoc(entry *ReportEntry, doc map[string]interface{}) {
	entityMap, _ := doc["entity"].(map[string]interface{})
	for _, v := range entityMap {
		attrs, _ := v.(map[string]interface{})
		entry.Name, _ = attrs["prov:label"].(string)
	}
	activityMap, _ := doc["activity"].(map[string]interface{})
	for actID, v := range activityMap {
		attrs, _ := v.(map[string]interface{})
		entry.Activity = actID
		entry.StartTime, _ = attrs["prov:startTime"].(string)
		entry.EndTime, _ = attrs["prov:endTime"].(string)
	}
	if usedMap, ok := doc["used"].(map[string]interface{}); ok {
		for _, v := range usedMap {
			rel, _ := v.(map[string]interface{})
			if ent, ok := rel["prov:entity"].(string); ok {
				entry.Used = append(entry.Used, ent)
			}
		}
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
