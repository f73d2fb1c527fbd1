package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dlr-sp/provtool-go/internal/container"
	"github.com/dlr-sp/provtool-go/internal/model"
)

func TestFileReaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("hello world")
	dataHash := sha256Hex(payload)

	entity := model.NewFileEntity("hello.txt", dataHash)
	activity := model.NewActivity("2024-01-01T00:00:00+00:00", "", "lab", "build", "script", nil, true)
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

	reader := NewFileReader()
	raw, pl, err := reader.Read(Options{Root: dir}, c.CID)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(pl) != string(payload) {
		t.Fatalf("payload mismatch")
	}
	if string(raw) != string(c.Raw) {
		t.Fatalf("raw bytes mismatch:\ngot  %s\nwant %s", raw, c.Raw)
	}
}

func TestFileReaderFallbackScan(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("payload bytes")
	dataHash := sha256Hex(payload)

	entity := model.NewFileEntity("data.bin", dataHash)
	activity := model.NewActivity("2024-01-01T00:00:00+00:00", "", "lab", "build", "script", nil, true)
	agent := model.NewPerson("Ada", "Lovelace", nil)
	c, err := container.NewBuilder().WithEntity(entity).WithActivity(activity).WithAgent(agent).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, c.CID+".prov"), c.Container, 0o644); err != nil {
		t.Fatalf("write prov: %v", err)
	}
	// Payload is stored under a different name than its datahash; only the
	// directory-scan fallback will find it.
	if err := os.WriteFile(filepath.Join(dir, "renamed.bin"), payload, 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	reader := NewFileReader()
	_, pl, err := reader.Read(Options{Root: dir}, c.CID)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(pl) != string(payload) {
		t.Fatalf("fallback scan did not find the right payload")
	}
}

func TestRegistryAllReadersFailReturnsMissingContainer(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterReader(NewFileReader())
	if !reg.HasReader("file") {
		t.Fatalf("expected file reader registered")
	}
	if _, _, err := reg.Read(Options{Root: t.TempDir()}, "doesnotexist"); err != ErrMissingContainer {
		t.Fatalf("expected ErrMissingContainer, got %v", err)
	}
}
