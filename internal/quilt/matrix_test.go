package quilt

import "testing"

// Linear chain: entity "e3" generated by "actC" which used "e2", generated
// by "actB" which used "e1", generated by "actA" (leaf, uses nothing).
func linearTraversal() Traversal {
	return Traversal{
		Generations: map[string]string{
			"e3": "actC",
			"e2": "actB",
			"e1": "actA",
		},
		Used: map[string][]string{
			"actC": {"e2"},
			"actB": {"e1"},
		},
		Label: map[string]string{
			"e1": "input.txt", "e2": "mid.txt", "e3": "output.txt",
			"actA": "ingest", "actB": "transform", "actC": "finalize",
		},
	}
}

func TestRelevantIDsWalksFullChain(t *testing.T) {
	tr := linearTraversal()
	ids := RelevantIDs("e3", tr)

	want := map[string]bool{"e3": true, "actC": true, "e2": true, "actB": true, "e1": true, "actA": true}
	for _, id := range ids {
		delete(want, id)
	}
	if len(want) != 0 {
		t.Fatalf("RelevantIDs missed ids: %v (got %v)", want, ids)
	}
}

func TestBuildMatricesOnePerActivityDepth(t *testing.T) {
	tr := linearTraversal()
	relevantIDs := RelevantIDs("e3", tr)
	matrices := BuildMatrices(
		[]string{"actA", "actB", "actC"},
		tr.Used,
		tr.Generations,
		relevantIDs,
		tr.Label,
	)
	if len(matrices) != 3 {
		t.Fatalf("expected one matrix per activity depth (3), got %d", len(matrices))
	}
	// Matrices are ordered by depth from the target (index 0 == target's own
	// activity, actC), so the last matrix is the leaf activity actA, which
	// uses nothing and so has an empty right side.
	last := matrices[len(matrices)-1]
	if len(last.Right) != 0 {
		t.Fatalf("leaf activity's matrix should have an empty right side, got %+v", last.Right)
	}
	if len(matrices[0].Right) == 0 {
		t.Fatalf("target activity's own matrix should have a non-empty right side (it consumes e2)")
	}
}

func TestGlobalEntityOrderStableAcrossMatrices(t *testing.T) {
	m1 := &Matrix{LeftHeader: []string{"a", "b"}, RightHeader: nil}
	m2 := &Matrix{LeftHeader: []string{"c"}, RightHeader: []string{"a"}}
	order := GlobalEntityOrder([]*Matrix{m1, m2})
	if order["a"] != 0 || order["b"] != 1 || order["c"] != 2 {
		t.Fatalf("unexpected global entity order: %+v", order)
	}
}
