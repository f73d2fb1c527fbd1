package model

import "errors"

// Sentinel errors for the provenance data model.
var (
	// ErrInvalidAgent is returned when an ActingSoftware agent is constructed
	// without a principal (acted_on_behalf_of must never be nil for software).
	ErrInvalidAgent = errors.New("model: invalid agent")

	// ErrCyclicAgentChain is returned when walking an acted_on_behalf_of chain
	// exceeds the bounded walk length, meaning the chain loops back on itself.
	ErrCyclicAgentChain = errors.New("model: cyclic acted_on_behalf_of chain")

	// ErrNoAgentDefined is returned when neither a config agent nor an
	// agentinfo agent could be resolved.
	ErrNoAgentDefined = errors.New("model: no agent defined")
)

// maxAgentChainWalk bounds the acted_on_behalf_of walk so a malformed or
// maliciously cyclic chain cannot hang the process (spec.md §9 Design Notes).
const maxAgentChainWalk = 256
