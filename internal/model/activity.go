package model

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/dlr-sp/provtool-go/internal/canon"
	"github.com/google/uuid"
)

// Activity is the single activity a container's entity was generated by.
//
// Identity is a pure function of {start_time, location, label, means, used}
// plus the started_by activity's id (if any) — never of end_time, so a
// long-running activity can be referenced before it finishes (spec.md §3.1,
// Invariant 4). used is hashed as an unordered set: permuting its input order
// never changes the id (Invariant 3).
//
// Deterministic controls whether identity is a pure function of content
// (required for plain2prov and the Standalone Builder, both of which must
// reproduce the same id across independent invocations) or additionally
// mixes in a random nonce, matching the donor tool's default behavior for
// ad-hoc Activity construction. See SPEC_FULL.md Open Question resolution 2.
type Activity struct {
	StartTime      string
	EndTime        string // empty means in-progress / absent
	Location       string
	Label          string
	Means          string
	Used           []string
	StartedBy      string // activity id of the parent, referenced by id only
	AdditionalProp map[string]interface{}
	Deterministic  bool

	nonce string
}

// NewActivity constructs an Activity. When deterministic is false, a random
// nonce is generated once and mixed into the identity, matching the donor
// default where two Activities with identical descriptive fields get
// different ids unless built deterministically.
func NewActivity(startTime, endTime, location, label, means string, used []string, deterministic bool) *Activity {
	a := &Activity{
		StartTime:     startTime,
		EndTime:       endTime,
		Location:      location,
		Label:         label,
		Means:         means,
		Used:          canon.SortUsed(used),
		Deterministic: deterministic,
	}
	if !deterministic {
		a.nonce = uuid.NewString()
	}
	return a
}

// ID returns the content-hash identity of this activity.
func (a *Activity) ID() string {
	m := map[string]interface{}{
		"start_time": a.StartTime,
		"location":   a.Location,
		"label":      a.Label,
		"means":      a.Means,
		"used":       toInterfaceSlice(canon.SortUsed(a.Used)),
	}
	if a.StartedBy != "" {
		m["started_by"] = a.StartedBy
	}
	if !a.Deterministic {
		m["nonce"] = a.nonce
	}
	raw, err := canon.Marshal(m)
	if err != nil {
		panic(err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Attrs returns the bit-exact container attribute map for this activity.
func (a *Activity) Attrs() map[string]interface{} {
	m := map[string]interface{}{
		"prov:startTime": a.StartTime,
		"prov:endTime":   a.EndTime,
		"prov:label":     a.Label,
		"prov:location":  a.Location,
		"provtool:means": a.Means,
	}
	for k, v := range a.AdditionalProp {
		m[k] = v
	}
	return m
}

func toInterfaceSlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
