// Package schema structurally validates the three document shapes this
// system reads: the input config document, the agentinfo document, and the
// container (prov) document itself (spec.md §3.1, §6.2). Uses
// github.com/xeipuuv/gojsonschema, the Go analogue of the Python jsonschema
// library the donor tool validates every input document with.
package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

var (
	configLoader    = gojsonschema.NewStringLoader(configSchemaJSON)
	agentLoader     = gojsonschema.NewStringLoader(agentSchemaJSON)
	containerLoader = gojsonschema.NewStringLoader(provSchemaJSON)
)

// ValidateConfig checks a raw config document against config_schema.
func ValidateConfig(raw []byte) error {
	return validate("config", configLoader, raw)
}

// ValidateAgentInfo checks a raw agentinfo document against agent_schema.
func ValidateAgentInfo(raw []byte) error {
	return validate("agentinfo", agentLoader, raw)
}

// ValidateContainer checks a raw container document against prov_schema.
func ValidateContainer(raw []byte) error {
	return validate("container", containerLoader, raw)
}

func validate(doc string, schemaLoader gojsonschema.JSONLoader, raw []byte) error {
	docLoader := gojsonschema.NewBytesLoader(raw)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema: %s: %w", doc, err)
	}
	if result.Valid() {
		return nil
	}
	reasons := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		reasons = append(reasons, e.String())
	}
	return &ValidationError{Document: doc, Reasons: reasons}
}
