package comparator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dlr-sp/provtool-go/internal/container"
	"github.com/dlr-sp/provtool-go/internal/model"
)

// writeContainer builds and writes one container (its .prov and payload
// file) under dir, returning its cid.
func writeContainer(t *testing.T, dir, label string, payload []byte, location, actLabel, means string) string {
	t.Helper()
	dataHash := sha256Hex(payload)
	entity := model.NewFileEntity(label, dataHash)
	activity := model.NewActivity("2024-01-01T00:00:00+00:00", "", location, actLabel, means, nil, true)
	agent := model.NewPerson("Ada", "Lovelace", nil)
	c, err := container.NewBuilder().WithEntity(entity).WithActivity(activity).WithAgent(agent).Build()
	if err != nil {
		t.Fatalf("build container: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, c.CID+".prov"), c.Container, 0o644); err != nil {
		t.Fatalf("write prov: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, dataHash), payload, 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	return c.CID
}

func TestDirCompareOneMatchTwoMismatch(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()

	// Matching pair: identical label, payload, activity description.
	writeContainer(t, left, "shared.txt", []byte("same bytes"), "lab", "build", "script")
	writeContainer(t, right, "shared.txt", []byte("same bytes"), "lab", "build", "script")

	// Mismatched: only present on the left.
	writeContainer(t, left, "left-only.txt", []byte("left only"), "lab", "build", "script")

	// Mismatched: only present on the right.
	writeContainer(t, right, "right-only.txt", []byte("right only"), "lab", "build", "script")

	rows, err := DirCompare(left, right, nil)
	if err != nil {
		t.Fatalf("DirCompare: %v", err)
	}

	var matching, nonMatching int
	for _, r := range rows {
		if r.Matching {
			matching++
		} else {
			nonMatching++
		}
	}
	if matching != 1 {
		t.Fatalf("expected exactly 1 matching row, got %d (%+v)", matching, rows)
	}
	if nonMatching != 2 {
		t.Fatalf("expected exactly 2 non-matching rows, got %d (%+v)", nonMatching, rows)
	}
}

func TestDirCompareSelfIsZeroDiff(t *testing.T) {
	dir := t.TempDir()
	writeContainer(t, dir, "a.txt", []byte("alpha"), "lab", "build", "script")
	writeContainer(t, dir, "b.txt", []byte("beta"), "lab", "build", "script")

	rows, err := DirCompare(dir, dir, nil)
	if err != nil {
		t.Fatalf("DirCompare: %v", err)
	}
	for _, r := range rows {
		if !r.Matching {
			t.Fatalf("comparing a directory against itself must yield zero non-matching rows, got %+v", r)
		}
	}
}

func TestDirCompareMissingDirectory(t *testing.T) {
	_, err := DirCompare(filepath.Join(t.TempDir(), "missing"), t.TempDir(), nil)
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
