package directorywrapper

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/dlr-sp/provtool-go/internal/model"
)

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func TestPlainToProvThenProvToPlainRoundTrips(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("round trip me")
	filePath := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(filePath, payload, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	dataHash := hashBytes(payload)

	agent := model.NewPerson("Ada", "Lovelace", nil)
	built, err := PlainToProv(agent, "lab", "build", "script", nil,
		[]HashFile{{Path: filePath, DataHash: dataHash}},
		"2024-01-01T00:00:00+00:00", "", "", "")
	if err != nil {
		t.Fatalf("PlainToProv: %v", err)
	}
	if len(built) != 1 {
		t.Fatalf("expected 1 container, got %d", len(built))
	}

	// Write the payload file next to the .prov so ProvToPlain can resolve it
	// (PlainToProv only writes the .prov; the payload already lives at
	// filePath under its original name, not its datahash, so copy it).
	if err := os.WriteFile(filepath.Join(dir, dataHash), payload, 0o644); err != nil {
		t.Fatalf("write datahash payload: %v", err)
	}

	unpackDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(unpackDir, built[0].CID+".prov"), built[0].Container, 0o644); err != nil {
		t.Fatalf("copy prov: %v", err)
	}
	if err := os.WriteFile(filepath.Join(unpackDir, dataHash), payload, 0o644); err != nil {
		t.Fatalf("copy payload: %v", err)
	}

	used, err := ProvToPlain(unpackDir)
	if err != nil {
		t.Fatalf("ProvToPlain: %v", err)
	}
	if len(used) != 1 {
		t.Fatalf("expected 1 used entry, got %d", len(used))
	}
	unpacked, err := os.ReadFile(filepath.Join(unpackDir, "input.txt"))
	if err != nil {
		t.Fatalf("expected unpacked file: %v", err)
	}
	if string(unpacked) != string(payload) {
		t.Fatalf("unpacked payload mismatch")
	}
}

func TestProvToPlainRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("data")
	dataHash := hashBytes(payload)
	agent := model.NewPerson("Ada", "Lovelace", nil)
	built, err := PlainToProv(agent, "lab", "build", "script", nil,
		[]HashFile{{Path: filepath.Join(dir, "existing.txt"), DataHash: dataHash}},
		"2024-01-01T00:00:00+00:00", "", "", "")
	if err != nil {
		t.Fatalf("PlainToProv: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, dataHash), payload, 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "existing.txt"), []byte("already here"), 0o644); err != nil {
		t.Fatalf("pre-create target: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, built[0].CID+".prov"), built[0].Container, 0o644); err != nil {
		t.Fatalf("write prov: %v", err)
	}

	if _, err := ProvToPlain(dir); err != ErrTargetExists {
		t.Fatalf("expected ErrTargetExists, got %v", err)
	}
}

func TestResolveAgentNoAgentDefined(t *testing.T) {
	if _, _, err := ResolveAgent("", ""); err != model.ErrNoAgentDefined {
		t.Fatalf("expected ErrNoAgentDefined, got %v", err)
	}
}

func TestResolveAgentSplicesAgentInfoToConfigTail(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	agentInfoPath := filepath.Join(dir, "agentinfo.json")
	configDoc := `{"activity":{"location":"lab","label":"build","means":"script"},
		"agent":{"type":"software","creator":"me","version":"1.0","location":"here","label":"tool"}}`
	agentInfoDoc := `{"agent":{"type":"person","given_name":"Grace","family_name":"Hopper"}}`
	if err := os.WriteFile(configPath, []byte(configDoc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(agentInfoPath, []byte(agentInfoDoc), 0o644); err != nil {
		t.Fatalf("write agentinfo: %v", err)
	}

	agent, _, err := ResolveAgent(configPath, agentInfoPath)
	if err != nil {
		t.Fatalf("ResolveAgent: %v", err)
	}
	chain, err := model.Chain(agent)
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("expected software agent spliced to grace hopper, chain len=%d", len(chain))
	}
	if p, ok := chain[1].(*model.Person); !ok || p.GivenName != "Grace" {
		t.Fatalf("expected tail agent to be Grace Hopper, got %+v", chain[1])
	}
}
