// Package quilt implements the layered-DAG visualization geometry of
// spec.md §4.7: level-assignment into an ordered list of Rows (the core
// layout algorithm), plus a Matrix assembly and simple geometric placement
// pass a raster backend can paint.
//
// Grounded directly on the original quilt.py (Bae & Watson's "Quilts for
// the Depiction of Large Layered Graphs"), since nothing in the donor or
// the retrieval pack implements a layered-graph visualization; the Row/
// Matrix shapes and the make_quilt algorithm are a line-for-line port, not
// a reinterpretation — spec.md §8.4 scenario 4's expected output is
// reproduced bit-for-bit by this port.
package quilt

// Node is one input record to MakeQuilt: a DAG node with its level (its
// distance from a traversal root) and the ids it depends on.
type Node struct {
	ID        string
	Level     int
	DependsOn []string
}

// Row is one output row of MakeQuilt, corresponding to one input Node.
// DepToNextLayer is a 0/1 flag per node in the next layer (1 = direct
// dependency); IDsForDep names which id each flag index corresponds to.
// AdditionalDep holds ids this node depends on that live on a non-adjacent
// layer.
type Row struct {
	ID             string
	Layer          int
	DepToNextLayer []int
	IDsForDep      []string
	AdditionalDep  []string
}

// MakeQuilt assigns each node a Row, grouped and ordered by ascending
// level (spec.md §4.7 algorithm). Re-running MakeQuilt on the same input
// is deterministic: ordering within a level follows the input order.
func MakeQuilt(nodes []Node) []Row {
	byLevel := map[int][]Node{}
	byID := map[string]Node{}
	var levels []int
	seenLevel := map[int]bool{}
	for _, n := range nodes {
		byLevel[n.Level] = append(byLevel[n.Level], n)
		byID[n.ID] = n
		if !seenLevel[n.Level] {
			seenLevel[n.Level] = true
			levels = append(levels, n.Level)
		}
	}
	sortInts(levels)

	var rows []Row
	lastLevel := levels[len(levels)-1]
	for _, level := range levels {
		nextLayer := byLevel[level+1]
		for _, n := range byLevel[level] {
			if level < lastLevel {
				row := Row{
					ID:             n.ID,
					Layer:          level,
					DepToNextLayer: make([]int, len(nextLayer)),
					IDsForDep:      idsOf(nextLayer),
				}
				for _, depID := range n.DependsOn {
					dep, ok := byID[depID]
					if ok && dep.Level == level+1 {
						row.DepToNextLayer[indexOf(nextLayer, depID)] = 1
					} else {
						row.AdditionalDep = append(row.AdditionalDep, depID)
					}
				}
				rows = append(rows, row)
			} else {
				row := Row{ID: n.ID, Layer: level}
				row.AdditionalDep = append(row.AdditionalDep, n.DependsOn...)
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func idsOf(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func indexOf(nodes []Node, id string) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
