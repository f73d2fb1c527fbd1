package container

import (
	"strings"
	"testing"

	"github.com/dlr-sp/provtool-go/internal/model"
)

func buildSample(t *testing.T) *Container {
	t.Helper()
	entity := model.NewFileEntity("report.txt", "deadbeef")
	activity := model.NewActivity("2024-01-01T00:00:00+00:00", "", "lab", "build", "script", nil, true)
	agent := model.NewPerson("Ada", "Lovelace", nil)
	c, err := NewBuilder().WithEntity(entity).WithActivity(activity).WithAgent(agent).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func TestSelfSubstitution(t *testing.T) {
	c := buildSample(t)
	if !strings.Contains(string(c.Raw), `"self"`) {
		t.Fatalf("raw form must contain the self placeholder")
	}
	if strings.Contains(string(c.Container), `"self"`) {
		t.Fatalf("container form must not contain the self placeholder")
	}
	if !strings.Contains(string(c.Container), c.CID) {
		t.Fatalf("container form must key the entity by its cid")
	}
}

func TestInvariantEntityKeyEqualsHashOfRaw(t *testing.T) {
	c := buildSample(t)
	if ComputeCID(c.Raw) != c.CID {
		t.Fatalf("cid must equal SHA256(raw_bytes)")
	}
	rawAgain, cidFromDoc, err := ToRawForm(c.Doc)
	if err != nil {
		t.Fatalf("ToRawForm: %v", err)
	}
	if cidFromDoc != c.CID {
		t.Fatalf("ToRawForm must recover the same cid")
	}
	_ = rawAgain
}

func TestMissingSelfFails(t *testing.T) {
	_, err := ToContainerForm(map[string]interface{}{"entity": map[string]interface{}{}}, "abc")
	if err != ErrMissingSelf {
		t.Fatalf("expected ErrMissingSelf, got %v", err)
	}
}
