package schema

import (
	"errors"
	"testing"
)

func TestValidateConfigAccepts(t *testing.T) {
	doc := []byte(`{"activity":{"location":"lab","label":"build","means":"script"},
		"agent":{"type":"person","given_name":"Ada","family_name":"Lovelace"}}`)
	if err := ValidateConfig(doc); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateConfigRejectsMissingActivity(t *testing.T) {
	doc := []byte(`{"agent":{"type":"organization","label":"Acme"}}`)
	err := ValidateConfig(doc)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema in chain, got %v", err)
	}
}

func TestAgentSchemaRequiresDelegateForSoftware(t *testing.T) {
	doc := []byte(`{"agent":{"type":"software","creator":"me","version":"1.0","location":"here","label":"tool"}}`)
	if err := ValidateAgentInfo(doc); err == nil {
		t.Fatalf("agent_schema should require acted_on_behalf_of for software agents")
	}
}

func TestConfigSchemaAllowsSoftwareWithoutDelegate(t *testing.T) {
	doc := []byte(`{"activity":{"location":"lab","label":"build","means":"script"},
		"agent":{"type":"software","creator":"me","version":"1.0","location":"here","label":"tool"}}`)
	if err := ValidateConfig(doc); err != nil {
		t.Fatalf("config_schema should not require acted_on_behalf_of for software agents: %v", err)
	}
}

func TestValidateContainerRequiresTopLevelKeys(t *testing.T) {
	doc := []byte(`{"activity":{},"agent":{},"entity":{}}`)
	if err := ValidateContainer(doc); err == nil {
		t.Fatalf("expected missing prefix to fail validation")
	}
}
