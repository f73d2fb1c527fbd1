// Package container implements the two-phase self-referential content
// addressing codec (spec.md §4.2) and the full container assembly that binds
// an Entity, an Activity and an Agent chain into the single persisted
// document shape (spec.md §3.2, §6.1).
package container

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dlr-sp/provtool-go/internal/canon"
	"github.com/dlr-sp/provtool-go/internal/model"
)

// selfKey is the placeholder entity key used during the raw phase (spec.md
// §4.2 step 1).
const selfKey = "self"

// defaultPrefixes is the fixed PROV/provtool namespace table every container
// carries (spec.md §6.1's relation attribute names all come from these).
var defaultPrefixes = map[string]interface{}{
	"prov":     "http://www.w3.org/ns/prov#",
	"provtool": "https://github.com/dlr-sp/provtool#",
	"person":   "https://github.com/dlr-sp/provtool/person#",
	"creative": "http://creativecommons.org/ns#",
	"software": "http://schema.org/",
}

// Builder assembles a raw provenance document from model types. It mirrors
// the donor's pkg/anchor_proof Builder: private fields, fluent With*
// setters, a private validate(), and Build() (*Container, error).
type Builder struct {
	entity      *model.Entity
	activity    *model.Activity
	rootAgent   model.Agent
	forcedActID string
	starterID   string
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) WithEntity(e *model.Entity) *Builder       { b.entity = e; return b }
func (b *Builder) WithActivity(a *model.Activity) *Builder   { b.activity = a; return b }
func (b *Builder) WithAgent(a model.Agent) *Builder          { b.rootAgent = a; return b }
func (b *Builder) WithForcedActivityID(id string) *Builder   { b.forcedActID = id; return b }
func (b *Builder) WithStartedBy(activityID string) *Builder  { b.starterID = activityID; return b }

func (b *Builder) validate() error {
	if b.entity == nil {
		return fmt.Errorf("container: builder: entity is required")
	}
	if b.activity == nil {
		return fmt.Errorf("container: builder: activity is required")
	}
	if b.rootAgent == nil {
		return model.ErrNoAgentDefined
	}
	return nil
}

// Build produces a Container: both the raw ("self"-keyed) and container
// (cid-keyed) canonical forms.
func (b *Builder) Build() (*Container, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	if b.starterID != "" {
		b.activity.StartedBy = b.starterID
	}
	activityID := b.activity.ID()
	if b.forcedActID != "" {
		activityID = b.forcedActID
	}

	chain, err := model.Chain(b.rootAgent)
	if err != nil {
		return nil, err
	}

	doc := map[string]interface{}{
		"prefix":   defaultPrefixes,
		"entity":   map[string]interface{}{selfKey: b.entity.Attrs()},
		"activity": map[string]interface{}{activityID: b.activity.Attrs()},
		"agent":    agentMap(chain),
	}

	doc["wasGeneratedBy"] = map[string]interface{}{
		"_1": map[string]interface{}{"prov:activity": activityID, "prov:entity": selfKey},
	}

	if len(b.activity.Used) > 0 {
		used := map[string]interface{}{}
		for i, entID := range canon.SortUsed(b.activity.Used) {
			used[fmt.Sprintf("_%d", i+1)] = map[string]interface{}{
				"prov:activity": activityID,
				"prov:entity":   entID,
			}
		}
		doc["used"] = used
	}

	doc["wasAssociatedWith"] = wasAssociatedWith(activityID, chain)

	if edges := actedOnBehalfOf(chain); len(edges) > 0 {
		doc["actedOnBehalfOf"] = edges
	}

	if b.activity.StartedBy != "" {
		doc["wasStartedBy"] = map[string]interface{}{
			"_1": map[string]interface{}{
				"prov:activity": activityID,
				"prov:starter":  b.activity.StartedBy,
			},
		}
	}

	return fromRawDoc(doc)
}

// Container is the pair of canonical serializations of one provenance
// document: Raw (entity keyed "self", what gets signed) and the on-disk
// container form (entity keyed by CID, what gets written as <cid>.prov).
type Container struct {
	Raw       []byte
	RawDoc    map[string]interface{}
	Container []byte
	Doc       map[string]interface{}
	CID       string
}

func fromRawDoc(doc map[string]interface{}) (*Container, error) {
	raw, err := canon.Marshal(doc)
	if err != nil {
		return nil, err
	}
	cid := ComputeCID(raw)
	containerDoc, err := ToContainerForm(doc, cid)
	if err != nil {
		return nil, err
	}
	containerBytes, err := canon.Marshal(containerDoc)
	if err != nil {
		return nil, err
	}
	return &Container{
		Raw:       raw,
		RawDoc:    doc,
		Container: containerBytes,
		Doc:       containerDoc,
		CID:       cid,
	}, nil
}

// ComputeCID hashes raw canonical bytes into a content id (spec.md §4.2 step 2).
func ComputeCID(rawBytes []byte) string {
	sum := sha256.Sum256(rawBytes)
	return hex.EncodeToString(sum[:])
}

// ToContainerForm replaces the entity's "self" placeholder key with cid
// (spec.md §4.2 step 3). Fails with ErrMissingSelf if the placeholder is
// absent.
func ToContainerForm(rawDoc map[string]interface{}, cid string) (map[string]interface{}, error) {
	entity, _ := rawDoc["entity"].(map[string]interface{})
	attrs, ok := entity[selfKey]
	if !ok {
		return nil, ErrMissingSelf
	}
	if _, hasHash := attrs.(map[string]interface{})["provtool:datahash"]; !hasHash {
		return nil, ErrMissingDataHash
	}
	out := make(map[string]interface{}, len(rawDoc))
	for k, v := range rawDoc {
		out[k] = v
	}
	newEntity := make(map[string]interface{}, len(entity))
	for k, v := range entity {
		if k == selfKey {
			newEntity[cid] = v
			continue
		}
		newEntity[k] = v
	}
	out["entity"] = newEntity
	return out, nil
}

// ToRawForm is the inverse of ToContainerForm: it swaps the single entity key
// back to the literal "self" placeholder so the raw-form hash (and therefore
// the cid) can be recomputed and checked against a container read from disk.
// This is how the Reader reconciles spec.md §4.2 ("container_bytes is what
// gets written to disk") with Invariant 1, which is defined over the raw
// form (see SPEC_FULL.md Open Question resolution 1).
func ToRawForm(containerDoc map[string]interface{}) (map[string]interface{}, string, error) {
	entity, _ := containerDoc["entity"].(map[string]interface{})
	if len(entity) != 1 {
		return nil, "", fmt.Errorf("container: entity must have exactly one key, has %d", len(entity))
	}
	var cid string
	var attrs interface{}
	for k, v := range entity {
		cid = k
		attrs = v
	}
	out := make(map[string]interface{}, len(containerDoc))
	for k, v := range containerDoc {
		out[k] = v
	}
	out["entity"] = map[string]interface{}{selfKey: attrs}
	return out, cid, nil
}

func agentMap(chain []model.Agent) map[string]interface{} {
	out := make(map[string]interface{}, len(chain))
	for _, a := range chain {
		out[a.ID()] = a.Attrs()
	}
	return out
}

func wasAssociatedWith(activityID string, chain []model.Agent) map[string]interface{} {
	out := make(map[string]interface{}, len(chain))
	for i, a := range chain {
		out[fmt.Sprintf("_%d", i+1)] = map[string]interface{}{
			"prov:activity": activityID,
			"prov:agent":    a.ID(),
		}
	}
	return out
}

func actedOnBehalfOf(chain []model.Agent) map[string]interface{} {
	out := map[string]interface{}{}
	n := 0
	for i := 0; i < len(chain)-1; i++ {
		n++
		out[fmt.Sprintf("_%d", n)] = map[string]interface{}{
			"prov:delegate":    chain[i].ID(),
			"prov:responsible": chain[i+1].ID(),
		}
	}
	return out
}
