package model

import "fmt"

// ParseAgentDoc recursively builds an Agent from the nested JSON shape used
// by both the config and agentinfo documents (spec.md §3.1/§6.2):
//
//	{"type": "person", "given_name": "...", "family_name": "...", "acted_on_behalf_of": {...}}
//	{"type": "organization", "label": "..."}
//	{"type": "software", "creator": "...", "version": "...", "location": "...", "label": "...", "acted_on_behalf_of": {...}}
//	{"type": "machine", "label": "...", "acted_on_behalf_of": {...}}
//
// The config and agentinfo schemas (internal/schema) admit only the person,
// organization and software shapes, so a document that passed their
// validation never contains the machine shape.
//
// Grounded on directorywrapper.py's _parse_agentinfo recursive builder.
func ParseAgentDoc(doc map[string]interface{}) (Agent, error) {
	kind, _ := doc["type"].(string)
	var delegate Agent
	if sub, ok := doc["acted_on_behalf_of"].(map[string]interface{}); ok {
		d, err := ParseAgentDoc(sub)
		if err != nil {
			return nil, err
		}
		delegate = d
	}
	switch kind {
	case "person":
		given, _ := doc["given_name"].(string)
		family, _ := doc["family_name"].(string)
		return NewPerson(given, family, delegate), nil
	case "organization":
		label, _ := doc["label"].(string)
		return NewOrganization(label), nil
	case "software":
		creator, _ := doc["creator"].(string)
		version, _ := doc["version"].(string)
		location, _ := doc["location"].(string)
		label, _ := doc["label"].(string)
		return NewActingSoftware(creator, version, location, label, delegate)
	case "machine":
		label, _ := doc["label"].(string)
		return NewMachine(label, delegate), nil
	default:
		return nil, fmt.Errorf("model: unknown agent type %q", kind)
	}
}
