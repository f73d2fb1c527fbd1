package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dlr-sp/provtool-go/internal/container"
	"github.com/dlr-sp/provtool-go/internal/model"
	"github.com/dlr-sp/provtool-go/internal/store"
)

func writeContainer(t *testing.T, dir string, payload []byte, label string, used []string) (*container.Container, string) {
	t.Helper()
	dataHash := sha256Hex(payload)
	entity := model.NewFileEntity(label, dataHash)
	activity := model.NewActivity("2024-01-01T00:00:00+00:00", "", "lab", "build", "script", used, true)
	agent := model.NewPerson("Ada", "Lovelace", nil)
	c, err := container.NewBuilder().WithEntity(entity).WithActivity(activity).WithAgent(agent).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, c.CID+".prov"), c.Container, 0o644); err != nil {
		t.Fatalf("write prov: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, dataHash), payload, 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	return c, dataHash
}

func TestCheckThreeEntityChainPropagatesInvalidity(t *testing.T) {
	dir := t.TempDir()

	e1, e1Hash := writeContainer(t, dir, []byte("e1 payload"), "e1.txt", nil)
	e2, _ := writeContainer(t, dir, []byte("e2 payload"), "e2.txt", []string{e1.CID})
	e3, _ := writeContainer(t, dir, []byte("e3 payload"), "e3.txt", []string{e2.CID})

	// Corrupt e1's payload so its hash no longer matches provtool:datahash.
	if err := os.WriteFile(filepath.Join(dir, e1Hash), []byte("tampered"), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	reg := store.NewRegistry()
	reg.RegisterReader(store.NewFileReader())
	v := New(reg, store.Options{Root: dir})

	report := v.Check(e3.CID)
	byEntity := map[string]ReportEntry{}
	for _, e := range report {
		byEntity[e.Entity] = e
	}

	if len(report) != 3 {
		t.Fatalf("expected 3 report entries, got %d: %+v", len(report), report)
	}
	if byEntity[e1.CID].Valid {
		t.Fatalf("e1 should be invalid (tampered payload)")
	}
	if byEntity[e2.CID].Valid {
		t.Fatalf("e2 should be invalid (depends on invalid e1)")
	}
	if byEntity[e3.CID].Valid {
		t.Fatalf("e3 should be invalid (depends on invalid e2)")
	}
}

func TestCheckUnknownTargetReturnsOneInvalidEntry(t *testing.T) {
	dir := t.TempDir()
	reg := store.NewRegistry()
	reg.RegisterReader(store.NewFileReader())
	v := New(reg, store.Options{Root: dir})

	report := v.Check("nonexistent")
	if len(report) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(report))
	}
	if report[0].Valid {
		t.Fatalf("expected invalid entry for unknown target")
	}
}
