// Package model implements the provenance data model: Entities, Activities
// and the four Agent variants, and the relation records that bind them into
// a container (spec.md §3).
//
// Grounded in the donor's pkg/anchor_proof/types.go composition style (small
// typed structs, a Verify()-style invariant check at construction) but with
// content-hash identity instead of a chain-anchored hash.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dlr-sp/provtool-go/internal/canon"
)

// Agent is the common interface for Person, Organization, ActingSoftware and
// Machine. Identity is the SHA-256 hex digest of the canonical JSON of the
// agent's own descriptive attributes, with acted_on_behalf_of (where present)
// included by value, recursively.
type Agent interface {
	// ID returns the content-hash identity of this agent.
	ID() string
	// Kind returns the PROV type discriminator ("person", "organization",
	// "software", "machine").
	Kind() string
	// Attrs returns the bit-exact container attribute map for this agent
	// (spec.md §6.1), e.g. {"prov:type": "prov:Person", ...}.
	Attrs() map[string]interface{}
	// DelegateOf returns the agent this one acts on behalf of, or nil.
	DelegateOf() Agent
}

func identityHash(kind string, own map[string]interface{}, delegate Agent) string {
	m := map[string]interface{}{"type": kind}
	for k, v := range own {
		m[k] = v
	}
	if delegate != nil {
		m["acted_on_behalf_of"] = delegateIdentityValue(delegate)
	}
	raw, err := canon.Marshal(m)
	if err != nil {
		// canon.Marshal only fails on unsupported Go types, which this
		// package never constructs; a panic here means a programming error.
		panic(fmt.Errorf("model: identity hash: %w", err))
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// delegateIdentityValue recurses into a delegate agent's own identity
// attributes so that the whole acted_on_behalf_of chain is included by value.
func delegateIdentityValue(a Agent) map[string]interface{} {
	switch v := a.(type) {
	case *Person:
		m := map[string]interface{}{
			"type":        "person",
			"family_name": v.FamilyName,
			"given_name":  v.GivenName,
		}
		if v.ActedOnBehalfOf != nil {
			m["acted_on_behalf_of"] = delegateIdentityValue(v.ActedOnBehalfOf)
		}
		return m
	case *Organization:
		return map[string]interface{}{"type": "organization", "label": v.Label}
	case *ActingSoftware:
		m := map[string]interface{}{
			"type":     "software",
			"creator":  v.Creator,
			"version":  v.Version,
			"location": v.Location,
			"label":    v.Label,
		}
		if v.ActedOnBehalfOf != nil {
			m["acted_on_behalf_of"] = delegateIdentityValue(v.ActedOnBehalfOf)
		}
		return m
	case *Machine:
		m := map[string]interface{}{"type": "machine", "label": v.Label}
		if v.ActedOnBehalfOf != nil {
			m["acted_on_behalf_of"] = delegateIdentityValue(v.ActedOnBehalfOf)
		}
		return m
	default:
		panic(fmt.Errorf("model: unknown agent variant %T", a))
	}
}

// Person is a human agent.
type Person struct {
	GivenName       string
	FamilyName      string
	ActedOnBehalfOf Agent
}

func NewPerson(givenName, familyName string, actedOnBehalfOf Agent) *Person {
	return &Person{GivenName: givenName, FamilyName: familyName, ActedOnBehalfOf: actedOnBehalfOf}
}

func (p *Person) ID() string {
	return identityHash("person", map[string]interface{}{
		"family_name": p.FamilyName,
		"given_name":  p.GivenName,
	}, p.ActedOnBehalfOf)
}

func (p *Person) Kind() string       { return "person" }
func (p *Person) DelegateOf() Agent  { return p.ActedOnBehalfOf }
func (p *Person) Attrs() map[string]interface{} {
	return map[string]interface{}{
		"prov:type":          "prov:Person",
		"person:givenName":   p.GivenName,
		"person:familyName":  p.FamilyName,
		"prov:label":         fmt.Sprintf("%s %s", p.GivenName, p.FamilyName),
	}
}

// Organization is a non-human institutional agent.
type Organization struct {
	Label string
}

func NewOrganization(label string) *Organization { return &Organization{Label: label} }

func (o *Organization) ID() string {
	return identityHash("organization", map[string]interface{}{"label": o.Label}, nil)
}

func (o *Organization) Kind() string      { return "organization" }
func (o *Organization) DelegateOf() Agent { return nil }
func (o *Organization) Attrs() map[string]interface{} {
	return map[string]interface{}{
		"prov:type":  "prov:Organization",
		"prov:label": o.Label,
	}
}

// ActingSoftware is a prov:SoftwareAgent. It must always act on behalf of a
// principal (a human or organization); constructing one without a delegate
// fails with ErrInvalidAgent (spec.md §3.1 invariant).
type ActingSoftware struct {
	Creator         string
	Version         string
	Location        string
	Label           string
	ActedOnBehalfOf Agent
}

func NewActingSoftware(creator, version, location, label string, actedOnBehalfOf Agent) (*ActingSoftware, error) {
	if actedOnBehalfOf == nil {
		return nil, ErrInvalidAgent
	}
	return &ActingSoftware{
		Creator:         creator,
		Version:         version,
		Location:        location,
		Label:           label,
		ActedOnBehalfOf: actedOnBehalfOf,
	}, nil
}

func (s *ActingSoftware) ID() string {
	return identityHash("software", map[string]interface{}{
		"creator":  s.Creator,
		"version":  s.Version,
		"location": s.Location,
		"label":    s.Label,
	}, s.ActedOnBehalfOf)
}

func (s *ActingSoftware) Kind() string      { return "software" }
func (s *ActingSoftware) DelegateOf() Agent { return s.ActedOnBehalfOf }
func (s *ActingSoftware) Attrs() map[string]interface{} {
	return map[string]interface{}{
		"prov:type":                "prov:SoftwareAgent",
		"creative:creator":        s.Creator,
		"software:softwareVersion": s.Version,
		"prov:location":           s.Location,
		"prov:label":              s.Label,
	}
}

// Machine is a provtool:Machine agent (e.g. a CI runner or build host).
type Machine struct {
	Label           string
	ActedOnBehalfOf Agent
}

func NewMachine(label string, actedOnBehalfOf Agent) *Machine {
	return &Machine{Label: label, ActedOnBehalfOf: actedOnBehalfOf}
}

func (m *Machine) ID() string {
	return identityHash("machine", map[string]interface{}{"label": m.Label}, m.ActedOnBehalfOf)
}

func (m *Machine) Kind() string      { return "machine" }
func (m *Machine) DelegateOf() Agent { return m.ActedOnBehalfOf }
func (m *Machine) Attrs() map[string]interface{} {
	return map[string]interface{}{
		"prov:type":  "provtool:Machine",
		"prov:label": m.Label,
	}
}

// Chain walks a's acted_on_behalf_of edges and returns the ordered list of
// agents from a to the root principal (inclusive of a). It is bounded by
// maxAgentChainWalk and fails with ErrCyclicAgentChain if exceeded.
func Chain(a Agent) ([]Agent, error) {
	var out []Agent
	cur := a
	for i := 0; cur != nil; i++ {
		if i >= maxAgentChainWalk {
			return nil, ErrCyclicAgentChain
		}
		out = append(out, cur)
		cur = cur.DelegateOf()
	}
	return out, nil
}

// SpliceTail attaches tail to the end of head's acted_on_behalf_of chain by
// setting the last agent's delegate in place, and returns head. If head is
// nil, tail is returned unchanged (and may itself be nil). If the last agent
// of head's chain is an Organization, head is returned as is and tail is not
// attached. Used by the Directory Wrapper to combine the
// config agent with the agentinfo agent (spec.md §4.4).
func SpliceTail(head, tail Agent) (Agent, error) {
	if head == nil {
		return tail, nil
	}
	if tail == nil {
		return head, nil
	}
	chain, err := Chain(head)
	if err != nil {
		return nil, err
	}
	last := chain[len(chain)-1]
	if len(chain) >= maxAgentChainWalk {
		return nil, ErrCyclicAgentChain
	}
	switch v := last.(type) {
	case *Person:
		v.ActedOnBehalfOf = tail
	case *Organization:
		// Organization has no acted_on_behalf_of to set, so tail is not
		// attached.
		return head, nil
	case *ActingSoftware:
		v.ActedOnBehalfOf = tail
	case *Machine:
		v.ActedOnBehalfOf = tail
	default:
		return nil, fmt.Errorf("model: unknown agent variant %T", last)
	}
	return head, nil
}
