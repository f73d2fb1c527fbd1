package quilt

import "testing"

// nineNodeGraph reproduces the fixture from the original quilt.py test
// suite (and spec.md §8.4 scenario 4): edges {0->1,0->7,0->5,1->2,1->3,
// 3->4,4->5,5->8,5->6,6->7,7->8}, with levels {0:0,1:1,2:1,3:2,4:3,5:4,
// 6:5,7:6,8:6}. Node order matches the original fixture's list order
// (8,7,6,5,4,3,2,1,0) since MakeQuilt's per-level ordering follows input
// order, not sorted order.
func nineNodeGraph() []Node {
	return []Node{
		{ID: "8", Level: 6, DependsOn: nil},
		{ID: "7", Level: 6, DependsOn: []string{"8"}},
		{ID: "6", Level: 5, DependsOn: []string{"7"}},
		{ID: "5", Level: 4, DependsOn: []string{"8", "6"}},
		{ID: "4", Level: 3, DependsOn: []string{"5"}},
		{ID: "3", Level: 2, DependsOn: []string{"4"}},
		{ID: "2", Level: 1, DependsOn: nil},
		{ID: "1", Level: 1, DependsOn: []string{"2", "3"}},
		{ID: "0", Level: 0, DependsOn: []string{"1", "7", "5"}},
	}
}

func TestMakeQuiltNineNodeGraph(t *testing.T) {
	rows := MakeQuilt(nineNodeGraph())
	if len(rows) != 9 {
		t.Fatalf("expected 9 rows, got %d", len(rows))
	}

	r0 := rows[0]
	if r0.ID != "0" || r0.Layer != 0 {
		t.Fatalf("row[0] should be node 0 on layer 0, got %+v", r0)
	}
	if len(r0.DepToNextLayer) != 2 {
		t.Fatalf("row[0] dep_to_next_layer should have length 2, got %v", r0.DepToNextLayer)
	}
	if !equalStrings(r0.IDsForDep, []string{"2", "1"}) {
		t.Fatalf("row[0] ids_for_dep should be [2,1], got %v", r0.IDsForDep)
	}
	if !equalInts(r0.DepToNextLayer, []int{0, 1}) {
		t.Fatalf("row[0] dep_to_next_layer should be [0,1] (0 depends on 1, not 2), got %v", r0.DepToNextLayer)
	}
	if !equalStrings(r0.AdditionalDep, []string{"7", "5"}) {
		t.Fatalf("row[0] additional_dep should be [7,5], got %v", r0.AdditionalDep)
	}

	last := rows[len(rows)-1]
	if last.ID != "7" {
		t.Fatalf("last row should be node 7 (second node on layer 6), got %+v", last)
	}
	if len(last.DepToNextLayer) != 0 {
		t.Fatalf("last-layer row must have empty dep_to_next_layer, got %v", last.DepToNextLayer)
	}
	if !equalStrings(last.AdditionalDep, []string{"8"}) {
		t.Fatalf("node 7's dependency on 8 (same layer) should land in additional_dep, got %v", last.AdditionalDep)
	}
}

func TestMakeQuiltIdempotent(t *testing.T) {
	data := nineNodeGraph()
	first := MakeQuilt(data)
	second := MakeQuilt(data)
	if len(first) != len(second) {
		t.Fatalf("re-running MakeQuilt must yield identical length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Layer != second[i].Layer {
			t.Fatalf("re-running MakeQuilt must yield an identical Row list at index %d", i)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
