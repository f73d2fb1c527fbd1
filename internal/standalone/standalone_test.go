package standalone

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dlr-sp/provtool-go/internal/standalone/memo"
)

// scriptedAnswers feeds one line per prompt, in the exact order Run asks
// them, mirroring test_standalone.py's default_answers() fixture (a single
// author, no used entities).
func scriptedAnswers(entityPath string) string {
	lines := []string{
		entityPath,
		"Mustermann", // author_family_name
		"Max",        // author_given_name
		"n",          // more authors?
		"here",       // activity_location
		"Activity",   // activity_label
		"This activity is used for testing purposes",
		"2019-09-02T10:14:00Z",
		"n", // used entities?
	}
	return strings.Join(lines, "\n") + "\n"
}

func newBuilder(t *testing.T, script string) *Builder {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "provtool.db")
	store, err := memo.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &Builder{
		Store: store,
		In:    bufio.NewReader(strings.NewReader(script)),
		Out:   &bytes.Buffer{},
	}
}

func TestRunWritesContainerAndMapping(t *testing.T) {
	dir := t.TempDir()
	entityPath := filepath.Join(dir, "test.txt")
	if err := os.WriteFile(entityPath, []byte("Hello World"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	b := newBuilder(t, scriptedAnswers(entityPath))
	c, err := b.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.CID == "" {
		t.Fatalf("expected non-empty CID")
	}

	provPath := filepath.Join(dir, c.CID+".prov")
	if _, err := os.Stat(provPath); err != nil {
		t.Fatalf("expected %s to exist: %v", provPath, err)
	}

	mapping, err := os.ReadFile(filepath.Join(dir, "provtool_filemapping.txt"))
	if err != nil {
		t.Fatalf("read mapping file: %v", err)
	}
	if !strings.Contains(string(mapping), entityPath+"="+c.CID+".prov") {
		t.Fatalf("mapping file missing expected entry, got %q", mapping)
	}
}

func TestAskRemembersPreviousAnswer(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "provtool.db")
	store, err := memo.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()

	b1 := &Builder{Store: store, In: bufio.NewReader(strings.NewReader("Max\n")), Out: &bytes.Buffer{}}
	got, err := b1.Ask("author_given_name", "")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != "Max" {
		t.Fatalf("expected Max, got %q", got)
	}

	b2 := &Builder{Store: store, In: bufio.NewReader(strings.NewReader("y\n")), Out: &bytes.Buffer{}}
	got2, err := b2.Ask("author_given_name", "")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got2 != "Max" {
		t.Fatalf("expected memoized Max on 'y' confirmation, got %q", got2)
	}
}
